// internal/models/candidate.go
package models

// EducationLevel is the qualification tier used to gate listing eligibility.
type EducationLevel string

const (
	EducationTenthPlusTwo  EducationLevel = "TENTH_PLUS_TWO"
	EducationDiploma       EducationLevel = "DIPLOMA"
	EducationUndergraduate EducationLevel = "UNDERGRADUATE"
	EducationPostgraduate  EducationLevel = "POSTGRADUATE"
)

// Rank returns the total order used for eligibility checks.
// Unrecognized levels rank below every listing requirement so that
// malformed profiles never match gated listings.
func (l EducationLevel) Rank() int {
	switch l {
	case EducationTenthPlusTwo:
		return 1
	case EducationDiploma:
		return 2
	case EducationUndergraduate:
		return 3
	case EducationPostgraduate:
		return 4
	default:
		return 0
	}
}

// Valid reports whether the level is one of the recognized tiers.
func (l EducationLevel) Valid() bool {
	return l.Rank() > 0
}

type CandidateProfile struct {
	ID                 string         `json:"id,omitempty"`
	Name               string         `json:"name"`
	EducationLevel     EducationLevel `json:"educationLevel"`
	Major              string         `json:"major,omitempty"`
	Stream             string         `json:"stream,omitempty"`
	Skills             []string       `json:"skills"`
	SectorInterests    []string       `json:"sectorInterests"`
	PreferredLocations []string       `json:"preferredLocations"`
	ResidencyPin       string         `json:"residencyPin,omitempty"`
	RuralFlag          bool           `json:"ruralFlag"`
}
