package som

import (
	"math"

	"github.com/hupe1980/somgo/distance"
)

// CheckDimensions verifies that vectors is non-empty, that every vector has
// the dimensionality of the first one, which it returns, and that every
// component is finite.
func CheckDimensions(vectors []Vector) (int, error) {
	if len(vectors) == 0 {
		return 0, ErrEmptyInput
	}
	dim := vectors[0].Dim()
	if dim == 0 {
		return 0, &DimensionMismatchError{Index: 0, Expected: 1, Actual: 0}
	}
	for i, v := range vectors {
		if v.Dim() != dim {
			return 0, &DimensionMismatchError{Index: i, Expected: dim, Actual: v.Dim()}
		}
		if c := nonFinite(v.values); c >= 0 {
			return 0, &NonFiniteError{Index: i, Component: c, Value: v.values[c]}
		}
	}
	return dim, nil
}

// Normalize returns a new sequence where each vector is divided by its
// Euclidean norm. Labels are carried over and inputs are not modified.
func Normalize(vectors []Vector) ([]Vector, error) {
	if _, err := CheckDimensions(vectors); err != nil {
		return nil, err
	}

	out := make([]Vector, len(vectors))
	for i, v := range vectors {
		unit, ok := distance.NormalizeL2Copy(v.view())
		if !ok {
			return nil, &DegenerateVectorError{Index: i}
		}
		out[i] = Vector{values: unit, label: v.label}
	}
	return out, nil
}

// Mean computes the per-dimension arithmetic mean of vectors.
func Mean(vectors []Vector) ([]float64, error) {
	dim, err := CheckDimensions(vectors)
	if err != nil {
		return nil, err
	}

	mean := make([]float64, dim)
	for _, v := range vectors {
		for d, x := range v.values {
			mean[d] += x
		}
	}
	n := float64(len(vectors))
	for d := range mean {
		mean[d] /= n
	}
	return mean, nil
}

// nonFinite returns the index of the first NaN or infinite value, or -1.
func nonFinite(values []float64) int {
	for i, x := range values {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return i
		}
	}
	return -1
}
