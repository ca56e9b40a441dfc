// internal/recommend/score_test.go
package recommend

import (
	"testing"

	"internship-match-workers/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestSectorScore(t *testing.T) {
	tests := []struct {
		name      string
		interests []string
		skills    []string
		sector    string
		expected  float64
	}{
		{
			name:      "exact interest match",
			interests: []string{"Analytics"},
			sector:    "analytics",
			expected:  sectorExact,
		},
		{
			name:      "substring containment",
			interests: []string{"Data Analytics"},
			sector:    "Analytics",
			expected:  sectorPartial,
		},
		{
			name:      "substring containment other direction",
			interests: []string{"Tech"},
			sector:    "Fintech",
			expected:  sectorPartial,
		},
		{
			name:     "skills imply sector",
			skills:   []string{"Python", "React"},
			sector:   "IT",
			expected: sectorImplied,
		},
		{
			name:      "exact match wins over implied",
			interests: []string{"IT"},
			skills:    []string{"Python"},
			sector:    "IT",
			expected:  sectorExact,
		},
		{
			name:     "no signal",
			skills:   []string{"Welding"},
			sector:   "Finance",
			expected: 0,
		},
		{
			name:     "empty profile",
			sector:   "Analytics",
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, sectorScore(tt.interests, tt.skills, tt.sector), 1e-9)
		})
	}
}

func TestLocationFactor(t *testing.T) {
	tests := []struct {
		name     string
		profile  models.CandidateProfile
		listing  models.InternshipListing
		expected float64
	}{
		{
			name:     "remote always half credit",
			profile:  models.CandidateProfile{ResidencyPin: "110001", PreferredLocations: []string{"Delhi"}},
			listing:  models.InternshipListing{Remote: true, Pin: "110002"},
			expected: 0.5,
		},
		{
			name:     "missing candidate pin floors",
			profile:  models.CandidateProfile{},
			listing:  models.InternshipListing{Pin: "110001", City: "Delhi", State: "Delhi"},
			expected: 0.1,
		},
		{
			name:     "missing listing pin floors",
			profile:  models.CandidateProfile{ResidencyPin: "110001"},
			listing:  models.InternshipListing{City: "Delhi", State: "Delhi"},
			expected: 0.1,
		},
		{
			name:     "same pin area full credit",
			profile:  models.CandidateProfile{ResidencyPin: "110001"},
			listing:  models.InternshipListing{Pin: "110099", City: "Delhi", State: "Delhi"},
			expected: 1.0,
		},
		{
			name:     "preferred location names the city",
			profile:  models.CandidateProfile{ResidencyPin: "400001", PreferredLocations: []string{"Bengaluru"}},
			listing:  models.InternshipListing{Pin: "560001", City: "Bengaluru", State: "Karnataka"},
			expected: 0.8,
		},
		{
			name:     "preferred location mentions remote",
			profile:  models.CandidateProfile{ResidencyPin: "400001", PreferredLocations: []string{"Remote only"}},
			listing:  models.InternshipListing{Pin: "560001", City: "Bengaluru", State: "Karnataka"},
			expected: 0.8,
		},
		{
			name:     "different area default",
			profile:  models.CandidateProfile{ResidencyPin: "400001", PreferredLocations: []string{"Pune"}},
			listing:  models.InternshipListing{Pin: "560001", City: "Bengaluru", State: "Karnataka"},
			expected: 0.2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, locationFactor(&tt.profile, &tt.listing), 1e-9)
		})
	}
}

func TestInclusionScore(t *testing.T) {
	assert.Equal(t, ruralBonus, inclusionScore(true, "Agriculture"))
	assert.Equal(t, ruralBonus, inclusionScore(true, "civil engineering"))
	assert.Equal(t, 0.0, inclusionScore(true, "Finance"))
	assert.Equal(t, 0.0, inclusionScore(false, "Agriculture"))
}

func TestContentScore(t *testing.T) {
	assert.InDelta(t, 0.0, contentScore(0), 1e-9)
	assert.InDelta(t, 35.0, contentScore(0.5), 1e-9)
	assert.InDelta(t, 70.0, contentScore(1), 1e-9)
	// Out-of-range cosines clamp rather than leak past the band.
	assert.InDelta(t, 70.0, contentScore(1.2), 1e-9)
	assert.InDelta(t, 0.0, contentScore(-0.1), 1e-9)
}
