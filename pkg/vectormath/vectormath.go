// Package vectormath provides the small set of dense-vector operations the
// matching engine needs (dot product, L2 norm, cosine similarity).
package vectormath

import (
	"math"
)

// Dot returns the dot product of a and b. When the lengths differ, only the
// overlapping prefix is used.
func Dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}

	return sum
}

// Norm returns the L2 norm (magnitude) of v.
func Norm(v []float32) float64 {
	var sumSquares float64
	for _, x := range v {
		sumSquares += float64(x) * float64(x)
	}

	return math.Sqrt(sumSquares)
}

// CosineSimilarity returns the cosine of the angle between a and b, in -1..1.
// A zero vector on either side yields 0 rather than NaN, so degenerate
// embeddings (empty source text) rank below any real match instead of
// poisoning the sort.
func CosineSimilarity(a, b []float32) float64 {
	denom := Norm(a) * Norm(b)
	if denom == 0 {
		return 0
	}

	return Dot(a, b) / denom
}

// NormalizeL2 scales v in place to unit length. A zero vector is left
// unchanged.
func NormalizeL2(v []float32) {
	magnitude := Norm(v)
	if magnitude == 0 {
		return
	}

	for i := range v {
		v[i] = float32(float64(v[i]) / magnitude)
	}
}
