// internal/recommend/tfidf.go
package recommend

import "math"

// TermFrequency counts occurrences of each token in a document.
func TermFrequency(tokens []string) map[string]int {
	tf := make(map[string]int, len(tokens))
	for _, t := range tokens {
		tf[t]++
	}
	return tf
}

// InverseDocumentFrequency computes smoothed IDF weights over a set of
// tokenized documents: a token present in d of N documents gets
// ln((N+1)/(d+1)) + 1. The smoothing keeps every weight positive and
// never divides by zero, even for tokens in every document.
func InverseDocumentFrequency(docs [][]string) map[string]float64 {
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]bool, len(doc))
		for _, t := range doc {
			if !seen[t] {
				seen[t] = true
				df[t]++
			}
		}
	}

	n := float64(len(docs))
	idf := make(map[string]float64, len(df))
	for t, d := range df {
		idf[t] = math.Log((n+1)/(float64(d)+1)) + 1
	}
	return idf
}

// Vector builds a sparse TF-IDF vector: each token's frequency scaled
// by its corpus IDF. Tokens absent from the IDF map fall back to
// weight 1; with a corpus that includes the document itself this
// cannot happen, but the fallback keeps the math total.
func Vector(tokens []string, idf map[string]float64) map[string]float64 {
	tf := TermFrequency(tokens)
	vec := make(map[string]float64, len(tf))
	for t, f := range tf {
		w, ok := idf[t]
		if !ok {
			w = 1
		}
		vec[t] = w * float64(f)
	}
	return vec
}

// CosineSimilarity returns the cosine of the angle between two sparse
// vectors, in [0,1] for non-negative weights. Either vector having
// zero norm yields 0 rather than NaN.
func CosineSimilarity(a, b map[string]float64) float64 {
	var dot, normA, normB float64
	for t, av := range a {
		normA += av * av
		if bv, ok := b[t]; ok {
			dot += av * bv
		}
	}
	for _, bv := range b {
		normB += bv * bv
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
