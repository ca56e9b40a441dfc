// internal/recommend/rank.go
package recommend

import (
	"context"
	"math"
	"sort"
	"time"

	"internship-match-workers/internal/models"
)

const (
	DefaultTopN = 5
	DefaultTopK = 10
)

// Options tunes a single ranking call. The zero value gives the
// deterministic top-5 ranking with no re-ranking pass.
type Options struct {
	// TopN bounds the number of returned matches.
	TopN int
	// TopK bounds how many top matches are offered to the oracle.
	TopK int
	// Now anchors the deadline eligibility check; zero means time.Now.
	Now time.Time
	// Oracle, when set, re-scores the top K matches best-effort.
	Oracle Oracle
}

func (o *Options) normalize() {
	if o.TopN <= 0 {
		o.TopN = DefaultTopN
	}
	if o.TopK <= 0 {
		o.TopK = DefaultTopK
	}
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
}

// EligibleListings filters the pool to listings that are active, not
// past deadline, and within the candidate's education rank. The
// education gate is enforced here even when stores pre-filter the
// rest, so upstream filtering is an optimization, never a contract.
func EligibleListings(candidate *models.CandidateProfile, listings []models.InternshipListing, now time.Time) []models.InternshipListing {
	candidateRank := candidate.EducationLevel.Rank()

	var eligible []models.InternshipListing
	for i := range listings {
		l := &listings[i]
		if !l.Open(now) {
			continue
		}
		if candidateRank < l.MinEducation.Rank() {
			continue
		}
		eligible = append(eligible, *l)
	}
	return eligible
}

// Recommend ranks the eligible subset of listings for a candidate and
// returns the top matches with scores and reasons. The deterministic
// path is pure CPU and owns all of its intermediate state, so
// concurrent calls over a shared listing slice are safe. When an
// oracle is configured the top K matches are offered for re-scoring;
// any oracle failure silently keeps the deterministic result.
func Recommend(ctx context.Context, candidate *models.CandidateProfile, listings []models.InternshipListing, opts Options) []models.RecommendationMatch {
	opts.normalize()

	eligible := EligibleListings(candidate, listings, opts.Now)
	if len(eligible) == 0 {
		return []models.RecommendationMatch{}
	}

	// IDF is scoped to this candidate plus this eligible pool, so
	// token rarity is relative to the current snapshot rather than a
	// global corpus.
	candidateTokens := CandidateTokens(candidate)
	listingTokens := make([][]string, len(eligible))
	corpus := make([][]string, 0, len(eligible)+1)
	corpus = append(corpus, candidateTokens)
	for i := range eligible {
		listingTokens[i] = ListingTokens(&eligible[i])
		corpus = append(corpus, listingTokens[i])
	}

	idf := InverseDocumentFrequency(corpus)
	candidateVec := Vector(candidateTokens, idf)

	matches := make([]models.RecommendationMatch, 0, len(eligible))
	for i := range eligible {
		l := &eligible[i]

		cosine := CosineSimilarity(candidateVec, Vector(listingTokens[i], idf))
		content := contentScore(cosine)
		sector := sectorScore(candidate.SectorInterests, candidate.Skills, l.Sector)
		locFactor := locationFactor(candidate, l)
		bonus := inclusionScore(candidate.RuralFlag, l.Sector)

		total := math.Min(content+sector+locFactor*locationWeight+bonus, maxTotalScore)

		matches = append(matches, models.RecommendationMatch{
			Internship:   *l,
			Score:        total,
			MatchReasons: matchReasons(candidate, l, sector, locFactor),
		})
	}

	sortMatches(matches)

	if opts.Oracle != nil {
		matches = applyOracle(ctx, candidate, matches, opts.TopK, opts.Oracle)
	}

	if len(matches) > opts.TopN {
		matches = matches[:opts.TopN]
	}
	return matches
}

// sortMatches orders by score descending, breaking ties by the
// soonest deadline first.
func sortMatches(matches []models.RecommendationMatch) {
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Internship.Deadline.Before(matches[j].Internship.Deadline)
	})
}

// applyOracle offers the top K matches for re-scoring and merges the
// results: re-scored items take the oracle score and prepend its
// reasons, untouched items keep their deterministic values, and the
// whole list is re-sorted under the same ordering rule.
func applyOracle(ctx context.Context, candidate *models.CandidateProfile, matches []models.RecommendationMatch, topK int, oracle Oracle) []models.RecommendationMatch {
	k := topK
	if k > len(matches) {
		k = len(matches)
	}

	items := make([]RerankItem, k)
	for i, m := range matches[:k] {
		items[i] = RerankItem{
			ID:             m.Internship.ID,
			Title:          m.Internship.Title,
			Sector:         m.Internship.Sector,
			RequiredSkills: m.Internship.RequiredSkills,
			City:           m.Internship.City,
			State:          m.Internship.State,
			Remote:         m.Internship.Remote,
			MinEducation:   m.Internship.MinEducation,
			BaseScore:      m.Score,
		}
	}

	results, err := oracle.Rerank(ctx, candidate, items)
	if err != nil {
		return matches
	}

	byID := make(map[string]RerankResult, len(results))
	for _, r := range results {
		byID[r.ID] = r
	}

	for i := range matches[:k] {
		r, ok := byID[matches[i].Internship.ID]
		if !ok {
			continue
		}

		matches[i].Score = math.Min(math.Max(r.RerankScore, 0), maxTotalScore)

		oracleReasons := r.Reasons
		if len(oracleReasons) > 2 {
			oracleReasons = oracleReasons[:2]
		}
		merged := append(append([]string{}, oracleReasons...), matches[i].MatchReasons...)
		if len(merged) > maxReasons {
			merged = merged[:maxReasons]
		}
		matches[i].MatchReasons = merged
	}

	sortMatches(matches)
	return matches
}
