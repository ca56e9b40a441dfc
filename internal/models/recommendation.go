// internal/models/recommendation.go
package models

type RecommendationMatch struct {
	Internship   InternshipListing `json:"internship"`
	Score        float64           `json:"score"`
	MatchReasons []string          `json:"matchReasons"`
}
