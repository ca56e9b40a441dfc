// internal/workers/data-access/query-internships/models.go
package queryinternships

import "internship-match-workers/internal/models"

const (
	SourcePostgres      = "postgres"
	SourceElasticsearch = "elasticsearch"
)

type Input struct {
	Source     string   `json:"source"`
	Keywords   string   `json:"keywords,omitempty"`
	Sectors    []string `json:"sectors,omitempty"`
	RemoteOnly bool     `json:"remoteOnly,omitempty"`
	Limit      int      `json:"limit,omitempty"`
	Offset     int      `json:"offset,omitempty"`
}

type Output struct {
	Internships []models.InternshipListing `json:"internships"`
	Count       int                        `json:"count"`
	TotalHits   int64                      `json:"totalHits"`
	Source      string                     `json:"source"`
}
