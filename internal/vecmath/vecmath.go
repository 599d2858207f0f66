package vecmath

import (
	"errors"
	"math"
)

// ErrDimMismatch is returned when two vectors differ in length.
var ErrDimMismatch = errors.New("vecmath: vector dimension mismatch")

// Dot computes the dot product of two vectors, summing in index order.
func Dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// Norm computes the L2 norm of a vector.
func Norm(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// CosineSimilarity computes the cosine of the angle between a and b.
// Returns 0 when either vector has zero norm.
func CosineSimilarity(a, b []float64) float64 {
	normA := Norm(a)
	normB := Norm(b)
	if normA == 0 || normB == 0 {
		return 0
	}
	return Dot(a, b) / (normA * normB)
}

// CosineSimilarityChecked is CosineSimilarity with a length check.
func CosineSimilarityChecked(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrDimMismatch
	}
	return CosineSimilarity(a, b), nil
}
