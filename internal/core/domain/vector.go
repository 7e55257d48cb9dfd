package domain

import "math"

// CosineSimilarity computes the cosine similarity between two vectors,
// in [-1, 1]. A zero-magnitude vector (or mismatched lengths) yields 0
// rather than NaN, so degenerate embeddings never poison a ranking.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	denominator := math.Sqrt(normA) * math.Sqrt(normB)
	if denominator == 0 {
		return 0
	}

	return dot / denominator
}
