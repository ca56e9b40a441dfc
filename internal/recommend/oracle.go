// internal/recommend/oracle.go
package recommend

import (
	"context"

	"internship-match-workers/internal/models"
)

// RerankItem is the slice of a ranked match handed to the oracle.
type RerankItem struct {
	ID             string                `json:"id"`
	Title          string                `json:"title"`
	Sector         string                `json:"sector"`
	RequiredSkills []string              `json:"requiredSkills"`
	City           string                `json:"city,omitempty"`
	State          string                `json:"state,omitempty"`
	Remote         bool                  `json:"remote"`
	MinEducation   models.EducationLevel `json:"minEducation"`
	BaseScore      float64               `json:"baseScore"`
}

// RerankResult re-scores a single item. Reasons carries at most two
// strings; excess entries are dropped at merge time.
type RerankResult struct {
	ID          string   `json:"id"`
	RerankScore float64  `json:"rerankScore"`
	Reasons     []string `json:"reasons"`
}

// Oracle re-orders the top slice of a deterministic ranking using
// richer semantic judgment. It may rescore a subset and omit the rest.
// It is strictly best effort: any error, timeout, or malformed
// response leaves the deterministic ranking in force.
type Oracle interface {
	Rerank(ctx context.Context, candidate *models.CandidateProfile, items []RerankItem) ([]RerankResult, error)
}

// OracleFunc adapts a plain function to the Oracle interface.
type OracleFunc func(ctx context.Context, candidate *models.CandidateProfile, items []RerankItem) ([]RerankResult, error)

func (f OracleFunc) Rerank(ctx context.Context, candidate *models.CandidateProfile, items []RerankItem) ([]RerankResult, error) {
	return f(ctx, candidate, items)
}
