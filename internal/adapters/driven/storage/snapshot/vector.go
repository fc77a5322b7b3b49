package snapshot

import "math"

// vectorNorm returns the Euclidean (L2) norm of v, accumulated in float64.
func vectorNorm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// cosineSimilarity computes dot(a,b) / (normA * normB) with precomputed
// norms. A zero-norm vector on either side yields 0, never a division
// error. Lengths are assumed equal; the store pins one dimensionality.
func cosineSimilarity(a, b []float32, normA, normB float64) float64 {
	if normA == 0 || normB == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot / (normA * normB)
}
