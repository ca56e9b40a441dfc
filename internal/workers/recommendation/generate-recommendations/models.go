// internal/workers/recommendation/generate-recommendations/models.go
package generaterecommendations

import "internship-match-workers/internal/models"

type Input struct {
	ProfileID string                     `json:"profileId,omitempty"`
	Profile   *models.CandidateProfile   `json:"profile,omitempty"`
	Listings  []models.InternshipListing `json:"listings,omitempty"`
	TopN      int                        `json:"topN,omitempty"`
	UseAI     bool                       `json:"useAi,omitempty"`
}

type Output struct {
	Recommendations []models.RecommendationMatch `json:"recommendations"`
	Count           int                          `json:"count"`
	BatchID         string                       `json:"batchId"`
	GeneratedAt     string                       `json:"generatedAt"`
	AIApplied       bool                         `json:"aiApplied"`
}
