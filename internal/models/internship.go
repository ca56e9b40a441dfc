// internal/models/internship.go
package models

import "time"

type InternshipListing struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	Sector         string         `json:"sector"`
	OrgName        string         `json:"orgName"`
	Description    string         `json:"description,omitempty"`
	StipendMin     *int           `json:"stipendMin,omitempty"`
	StipendMax     *int           `json:"stipendMax,omitempty"`
	City           string         `json:"city,omitempty"`
	State          string         `json:"state,omitempty"`
	Pin            string         `json:"pin,omitempty"`
	Remote         bool           `json:"remote"`
	MinEducation   EducationLevel `json:"minEducation"`
	ApplicationURL string         `json:"applicationUrl"`
	Deadline       time.Time      `json:"deadline"`
	Active         bool           `json:"active"`
	RequiredSkills []string       `json:"requiredSkills"`
}

// Open reports whether the listing accepts applications at the given time.
func (l *InternshipListing) Open(now time.Time) bool {
	return l.Active && !l.Deadline.Before(now)
}
