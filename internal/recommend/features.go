// internal/recommend/features.go
package recommend

import "internship-match-workers/internal/models"

// Long descriptions are cut to their first 40 tokens so free text
// cannot drown out the weighted skill and title signals.
const descriptionTokenLimit = 40

func appendWeighted(dst []string, text string, weight int) []string {
	tokens := Tokenize(text)
	for i := 0; i < weight; i++ {
		dst = append(dst, tokens...)
	}
	return dst
}

// CandidateTokens flattens a profile into a bag of tokens with field
// weight encoded as repetition count, so the TF-IDF math downstream
// treats weighting and frequency uniformly. Skills and stream count
// double; major, sector interests, and the education label count once.
// Missing optional fields contribute nothing.
func CandidateTokens(p *models.CandidateProfile) []string {
	var out []string
	for _, skill := range p.Skills {
		out = appendWeighted(out, skill, 2)
	}
	out = appendWeighted(out, p.Stream, 2)
	out = appendWeighted(out, p.Major, 1)
	for _, sector := range p.SectorInterests {
		out = appendWeighted(out, sector, 1)
	}
	out = appendWeighted(out, string(p.EducationLevel), 1)
	return out
}

// ListingTokens flattens a listing the same way: required skills count
// double, title and sector once, plus the truncated description.
func ListingTokens(l *models.InternshipListing) []string {
	var out []string
	for _, skill := range l.RequiredSkills {
		out = appendWeighted(out, skill, 2)
	}
	out = appendWeighted(out, l.Title, 1)
	out = appendWeighted(out, l.Sector, 1)

	desc := Tokenize(l.Description)
	if len(desc) > descriptionTokenLimit {
		desc = desc[:descriptionTokenLimit]
	}
	return append(out, desc...)
}
