// internal/workers/communication/notify-candidate/models.go
package notifycandidate

import "internship-match-workers/internal/models"

type Input struct {
	CandidateID     string                       `json:"candidateId"`
	CandidateName   string                       `json:"candidateName,omitempty"`
	Email           string                       `json:"email,omitempty"`
	Phone           string                       `json:"phone,omitempty"`
	Recommendations []models.RecommendationMatch `json:"recommendations"`
}

type Output struct {
	NotificationID string `json:"notificationId"`
	Status         string `json:"status"` // "sent", "failed", "disabled"
	EmailSent      bool   `json:"emailSent"`
	SMSSent        bool   `json:"smsSent"`
	SentAt         string `json:"sentAt"` // ISO 8601
}

const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
)
