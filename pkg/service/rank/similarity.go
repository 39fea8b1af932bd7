package rank

import (
	"math"
	"strings"
	"unicode/utf8"
)

// minTermLength filters out stop-word-like noise from lexical queries.
const minTermLength = 3

// CosineSimilarity computes the cosine similarity of two embedding vectors.
// It returns 0 when either vector is empty, when the dimensionalities differ,
// or when either norm is zero. It never fails.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 0
	}

	return dot / denom
}

// LexicalScore counts case-insensitive occurrences of query terms in text.
// Terms shorter than three characters are discarded. Matching is by
// substring, so a term also matches inside longer words; ranking weights
// depend on this behavior, keep it when tuning.
func LexicalScore(query, text string) float64 {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return 0
	}

	lower := strings.ToLower(text)
	var total int
	for _, term := range terms {
		if utf8.RuneCountInString(term) < minTermLength {
			continue
		}
		total += strings.Count(lower, term)
	}

	return float64(total)
}
