// Package distance provides the Euclidean kernels used by the SOM engine.
// All kernels operate on float64 so that normalized vectors hold a unit norm
// to within 1e-9.
package distance

import (
	"math"
	"slices"
)

// Dot calculates the dot product of two vectors.
// Assumes vectors are the same length (caller's responsibility).
func Dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// SquaredL2 calculates the squared L2 (Euclidean) distance between two vectors.
// Assumes vectors are the same length (caller's responsibility).
func SquaredL2(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// Euclidean calculates the L2 distance sqrt(Σ (a_i - b_i)^2).
func Euclidean(a, b []float64) float64 {
	return math.Sqrt(SquaredL2(a, b))
}

// Norm returns the Euclidean norm of v.
// Components are scaled by the largest magnitude before squaring, so the
// result neither overflows nor underflows for finite inputs.
func Norm(v []float64) float64 {
	scale := maxAbs(v)
	if scale == 0 || math.IsInf(scale, 0) || math.IsNaN(scale) {
		return scale
	}
	return scale * math.Sqrt(scaledSumSquares(v, scale))
}

// NormalizeL2InPlace L2-normalizes v in place.
// Returns false if v is empty, all zero or has a non-finite component;
// v is left untouched in that case.
func NormalizeL2InPlace(v []float64) bool {
	scale := maxAbs(v)
	if scale == 0 || math.IsInf(scale, 0) || math.IsNaN(scale) {
		return false
	}
	norm := math.Sqrt(scaledSumSquares(v, scale))
	for i := range v {
		v[i] = v[i] / scale / norm
	}
	return true
}

// maxAbs returns max|v_i|, NaN if any component is NaN, and 0 for an empty v.
func maxAbs(v []float64) float64 {
	var m float64
	for _, x := range v {
		if math.IsNaN(x) {
			return x
		}
		m = max(m, math.Abs(x))
	}
	return m
}

func scaledSumSquares(v []float64, scale float64) float64 {
	var sum float64
	for _, x := range v {
		y := x / scale
		sum += y * y
	}
	return sum
}

// NormalizeL2Copy returns a normalized copy of src.
// Returns false under the same conditions as NormalizeL2InPlace.
func NormalizeL2Copy(src []float64) ([]float64, bool) {
	dst := slices.Clone(src)
	if !NormalizeL2InPlace(dst) {
		return nil, false
	}
	return dst, true
}

// Lerp moves dst towards target by rate: dst_i += rate * (target_i - dst_i).
// With rate 1 dst becomes an exact copy of target.
func Lerp(dst, target []float64, rate float64) {
	if rate == 1 {
		copy(dst, target)
		return
	}
	for i := range dst {
		dst[i] += rate * (target[i] - dst[i])
	}
}
