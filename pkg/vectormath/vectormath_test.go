package vectormath

import (
	"math"
	"testing"
)

func TestCosineSimilarity(t *testing.T) {
	const tol = 1e-6

	t.Run("identical vectors score 1", func(t *testing.T) {
		v := []float32{0.3, 0.5, 0.2}

		got := CosineSimilarity(v, v)
		if math.Abs(got-1) > tol {
			t.Errorf("CosineSimilarity(v, v) = %f, want 1", got)
		}
	})

	t.Run("orthogonal vectors score 0", func(t *testing.T) {
		a := []float32{1, 0}
		b := []float32{0, 1}

		if got := CosineSimilarity(a, b); math.Abs(got) > tol {
			t.Errorf("orthogonal similarity = %f, want 0", got)
		}
	})

	t.Run("opposite vectors score -1", func(t *testing.T) {
		a := []float32{1, 2, 3}
		b := []float32{-1, -2, -3}

		if got := CosineSimilarity(a, b); math.Abs(got+1) > tol {
			t.Errorf("opposite similarity = %f, want -1", got)
		}
	})

	t.Run("zero vector scores 0 without NaN", func(t *testing.T) {
		zero := []float32{0, 0, 0}
		v := []float32{1, 2, 3}

		got := CosineSimilarity(zero, v)
		if got != 0 {
			t.Errorf("zero-vector similarity = %f, want 0", got)
		}

		if math.IsNaN(got) {
			t.Error("zero-vector similarity is NaN")
		}
	})

	t.Run("scale invariant", func(t *testing.T) {
		a := []float32{1, 2, 3}
		b := []float32{10, 20, 30}

		if got := CosineSimilarity(a, b); math.Abs(got-1) > tol {
			t.Errorf("scaled similarity = %f, want 1", got)
		}
	})
}

func TestDot(t *testing.T) {
	t.Run("standard product", func(t *testing.T) {
		got := Dot([]float32{1, 2, 3}, []float32{4, 5, 6})
		if got != 32 {
			t.Errorf("Dot = %f, want 32", got)
		}
	})

	t.Run("mismatched lengths use overlap", func(t *testing.T) {
		got := Dot([]float32{1, 2, 3}, []float32{4, 5})
		if got != 14 {
			t.Errorf("Dot = %f, want 14", got)
		}
	})
}

func TestNormalizeL2(t *testing.T) {
	const tol = 1e-5

	t.Run("normalizes to unit length", func(t *testing.T) {
		vec := []float32{3, 4}
		NormalizeL2(vec)
		// 3-4-5 triangle => magnitude 5 => expected (0.6, 0.8)
		if math.Abs(float64(vec[0])-0.6) > tol || math.Abs(float64(vec[1])-0.8) > tol {
			t.Errorf("expected (0.6, 0.8), got (%f, %f)", vec[0], vec[1])
		}

		if mag := Norm(vec); math.Abs(mag-1) > tol {
			t.Errorf("magnitude should be 1, got %f", mag)
		}
	})

	t.Run("zero vector does not panic", func(t *testing.T) {
		v := []float32{0, 0, 0}
		NormalizeL2(v)

		if v[0] != 0 || v[1] != 0 || v[2] != 0 {
			t.Errorf("zero vector should remain unchanged: got %v", v)
		}
	})
}
