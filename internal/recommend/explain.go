// internal/recommend/explain.go
package recommend

import (
	"fmt"
	"strings"

	"internship-match-workers/internal/models"
)

const maxReasons = 3

// matchReasons builds up to three reason strings in priority order:
// skill overlap, stream alignment, strong sector interest, location.
// A generic fallback guarantees at least one reason per match.
func matchReasons(p *models.CandidateProfile, l *models.InternshipListing, sectorPoints, locFactor float64) []string {
	var reasons []string

	matched := matchingSkills(p.Skills, l.RequiredSkills)
	if len(matched) > 0 {
		shown := matched
		if len(shown) > 3 {
			shown = shown[:3]
		}
		reasons = append(reasons, fmt.Sprintf("You have %d of %d required skills: %s",
			len(matched), len(l.RequiredSkills), strings.Join(shown, ", ")))
	}

	if p.Stream != "" && streamAligns(p.Stream, l.Sector, l.Title) {
		reasons = append(reasons, fmt.Sprintf("Aligns with your stream: %s", p.Stream))
	}

	// Only the exact-interest band counts as a strong sector signal.
	if sectorPoints > sectorExact/2 {
		reasons = append(reasons, fmt.Sprintf("Strong match with your interest in %s sector", l.Sector))
	}

	if l.Remote {
		reasons = append(reasons, "Remote work option available")
	} else if locFactor > 0.7 {
		reasons = append(reasons, fmt.Sprintf("Located in your preferred area: %s, %s", l.City, l.State))
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "Good opportunity for skill development")
	}
	if len(reasons) > maxReasons {
		reasons = reasons[:maxReasons]
	}
	return reasons
}

// matchingSkills intersects candidate and required skills with
// case-insensitive equality, preserving the candidate's spelling.
func matchingSkills(candidateSkills, requiredSkills []string) []string {
	required := make(map[string]bool, len(requiredSkills))
	for _, s := range requiredSkills {
		required[strings.ToLower(s)] = true
	}

	var matched []string
	for _, s := range candidateSkills {
		if required[strings.ToLower(s)] {
			matched = append(matched, s)
		}
	}
	return matched
}

// streamAligns reports whether any stream token appears in the
// lowercased "{sector} {title}" string.
func streamAligns(stream, sector, title string) bool {
	fields := strings.ToLower(sector + " " + title)
	for _, t := range Tokenize(stream) {
		if strings.Contains(fields, t) {
			return true
		}
	}
	return false
}
