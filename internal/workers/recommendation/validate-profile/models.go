// internal/workers/recommendation/validate-profile/models.go
package validateprofile

import (
	"encoding/json"

	"internship-match-workers/internal/models"
)

type Input struct {
	Profile json.RawMessage `json:"profile"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Output struct {
	Valid            bool                     `json:"valid"`
	Profile          *models.CandidateProfile `json:"profile,omitempty"`
	ValidationErrors []ValidationError        `json:"validationErrors"`
}
