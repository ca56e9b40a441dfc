// internal/recommend/score.go
package recommend

import (
	"math"
	"strings"

	"internship-match-workers/internal/models"
)

const (
	contentWeight  = 70.0
	sectorExact    = 20.0
	sectorImplied  = 8.0
	sectorPartial  = 6.0
	locationWeight = 15.0
	ruralBonus     = 5.0
	maxTotalScore  = 100.0
)

// sectorSkillKeywords maps lowercased sector names to skill keywords
// that imply interest in the sector even when the candidate never
// declared it. Matching is substring on the lowercased skill.
var sectorSkillKeywords = map[string][]string{
	"it":            {"javascript", "python", "java", "programming", "coding", "software", "web", "react", "node"},
	"analytics":     {"python", "data", "analysis", "machine learning", "pandas", "statistics"},
	"design":        {"figma", "photoshop", "illustrator", "ui", "ux", "design"},
	"finance":       {"excel", "finance", "accounting", "data analysis", "math", "financial modeling"},
	"marketing":     {"digital marketing", "seo", "social media", "content writing"},
	"cybersecurity": {"networking", "ethical hacking", "security"},
	"mechanical":    {"autocad", "solidworks", "mechanical"},
	"civil":         {"autocad", "structural engineering", "civil"},
	"gaming":        {"unity", "c#", "game design"},
	"cloud":         {"aws", "cloud computing", "linux"},
	"healthcare":    {"medical", "health", "biology", "nursing", "research", "data analysis"},
	"agriculture":   {"farming", "agriculture", "biology", "field work", "rural"},
	"education":     {"teaching", "content writing", "research", "communication"},
}

// ruralFriendlySectors qualify rural candidates for the inclusion bonus.
var ruralFriendlySectors = map[string]bool{
	"agriculture":           true,
	"education":             true,
	"public administration": true,
	"civil engineering":     true,
}

func clamp01(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}

// contentScore scales cosine similarity onto the 70-point content band.
func contentScore(cosine float64) float64 {
	return clamp01(cosine) * contentWeight
}

// sectorScore awards one of three mutually exclusive bands: exact
// interest match (20), substring containment either direction (6), or
// a skill-implied sector signal (8). The bands never stack.
func sectorScore(interests, skills []string, sector string) float64 {
	normalized := strings.ToLower(sector)

	partial := false
	for _, interest := range interests {
		li := strings.ToLower(interest)
		if li == normalized {
			return sectorExact
		}
		if strings.Contains(li, normalized) || strings.Contains(normalized, li) {
			partial = true
		}
	}
	if partial {
		return sectorPartial
	}
	if skillsImplySector(skills, normalized) {
		return sectorImplied
	}
	return 0
}

func skillsImplySector(skills []string, normalizedSector string) bool {
	keywords := sectorSkillKeywords[normalizedSector]
	for _, skill := range skills {
		ls := strings.ToLower(skill)
		for _, kw := range keywords {
			if strings.Contains(ls, kw) {
				return true
			}
		}
	}
	return false
}

// locationFactor returns the 0..1 proximity factor. Remote listings
// get flat half credit regardless of preferences. Missing PIN data
// floors at 0.1. A shared 3-digit PIN prefix is a full match; a
// preferred location naming the listing's city/state (or itself
// mentioning remote) scores 0.8; anything else 0.2.
func locationFactor(p *models.CandidateProfile, l *models.InternshipListing) float64 {
	if l.Remote {
		return 0.5
	}
	if p.ResidencyPin == "" || l.Pin == "" {
		return 0.1
	}

	if pinArea(p.ResidencyPin) == pinArea(l.Pin) {
		return 1.0
	}

	locationString := strings.ToLower(l.City + ", " + l.State)
	for _, preferred := range p.PreferredLocations {
		lp := strings.ToLower(preferred)
		if strings.Contains(locationString, lp) || strings.Contains(lp, "remote") {
			return 0.8
		}
	}
	return 0.2
}

func pinArea(pin string) string {
	if len(pin) > 3 {
		return pin[:3]
	}
	return pin
}

func locationScore(p *models.CandidateProfile, l *models.InternshipListing) float64 {
	return locationFactor(p, l) * locationWeight
}

// inclusionScore is the flat bonus for rural candidates matched to
// rural-friendly sectors.
func inclusionScore(ruralFlag bool, sector string) float64 {
	if ruralFlag && ruralFriendlySectors[strings.ToLower(sector)] {
		return ruralBonus
	}
	return 0
}
