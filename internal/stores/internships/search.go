// internal/stores/internships/search.go
package internships

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"internship-match-workers/internal/common/logger"
	"internship-match-workers/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const DefaultIndex = "internships"

// SearchStore retrieves listings from the Elasticsearch index, used
// to prefilter large pools by keywords or sectors before ranking.
// Documents are indexed in the same JSON shape the listing model uses.
type SearchStore struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewSearchStore(client *elasticsearch.Client, index string, log logger.Logger) *SearchStore {
	if index == "" {
		index = DefaultIndex
	}
	return &SearchStore{
		client: client,
		index:  index,
		logger: log.WithFields(map[string]interface{}{"component": "internship-search"}),
	}
}

type SearchQuery struct {
	Keywords   string
	Sectors    []string
	RemoteOnly bool
	Now        time.Time
	From       int
	Size       int
}

// Search runs a bool query over the index: keyword relevance across
// title, description, sector and skills, with sector, remote, and
// open-deadline filters.
func (s *SearchStore) Search(ctx context.Context, q SearchQuery) ([]models.InternshipListing, int64, error) {
	if q.Size <= 0 {
		q.Size = 50
	}
	if q.Now.IsZero() {
		q.Now = time.Now()
	}

	mustClauses := []interface{}{}
	if q.Keywords != "" {
		mustClauses = append(mustClauses, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  q.Keywords,
				"fields": []string{"title^3", "requiredSkills^2", "description", "sector"},
				"type":   "best_fields",
			},
		})
	}
	if len(mustClauses) == 0 {
		mustClauses = append(mustClauses, map[string]interface{}{"match_all": map[string]interface{}{}})
	}

	filterClauses := []interface{}{
		map[string]interface{}{"term": map[string]interface{}{"active": true}},
		map[string]interface{}{
			"range": map[string]interface{}{
				"deadline": map[string]interface{}{"gte": q.Now.Format(time.RFC3339)},
			},
		},
	}
	if len(q.Sectors) > 0 {
		lowered := make([]string, len(q.Sectors))
		for i, sec := range q.Sectors {
			lowered[i] = strings.ToLower(sec)
		}
		filterClauses = append(filterClauses, map[string]interface{}{
			"terms": map[string]interface{}{"sector": lowered},
		})
	}
	if q.RemoteOnly {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"remote": true},
		})
	}

	queryBody := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must":   mustClauses,
				"filter": filterClauses,
			},
		},
	}

	body, _ := json.Marshal(queryBody)
	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  strings.NewReader(string(body)),
		From:  &q.From,
		Size:  &q.Size,
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, 0, fmt.Errorf("search internships: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, 0, fmt.Errorf("search internships: status %s", res.Status())
	}

	var searchResponse struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.InternshipListing `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&searchResponse); err != nil {
		return nil, 0, fmt.Errorf("decode search response: %w", err)
	}

	listings := make([]models.InternshipListing, 0, len(searchResponse.Hits.Hits))
	for _, hit := range searchResponse.Hits.Hits {
		listings = append(listings, hit.Source)
	}

	s.logger.Debug("search completed", map[string]interface{}{
		"totalHits": searchResponse.Hits.Total.Value,
		"returned":  len(listings),
	})
	return listings, searchResponse.Hits.Total.Value, nil
}
