package som

import (
	"math"
)

const (
	// GridColumns is the fixed width of every map built by BuildGrid.
	GridColumns = 10

	// SampleFactor scales sqrt(inputCount) into the number of sampled neurons.
	SampleFactor = 5.0
)

// SampleCount returns the number of neurons sampled for inputCount inputs:
// floor(SampleFactor*sqrt(inputCount)) rounded down to a multiple of
// GridColumns. An input count of 150 yields 60.
func SampleCount(inputCount int) int {
	if inputCount <= 0 {
		return 0
	}
	n := int(SampleFactor * math.Sqrt(float64(inputCount)))
	return n - n%GridColumns
}

// SampleInitialGrid draws the initial neuron weights uniformly from the box
// [mean[d]-lowerMargin, mean[d]+upperMargin] of every dimension d.
//
// It fails with a ConfigurationError when fewer than GridColumns vectors
// would be drawn, when a bound is inverted, or when no random source is given.
func SampleInitialGrid(mean []float64, upperMargin, lowerMargin float64, inputCount int, rng Rand) ([]Vector, error) {
	if len(mean) == 0 {
		return nil, configErrorf("mean", "empty mean vector")
	}
	if rng == nil {
		return nil, configErrorf("rand", "random source is nil")
	}
	if !isFinite(upperMargin) || !isFinite(lowerMargin) {
		return nil, configErrorf("margins", "margins must be finite (upper=%v, lower=%v)", upperMargin, lowerMargin)
	}
	if upperMargin+lowerMargin < 0 {
		return nil, configErrorf("margins", "inverted bounds (upper=%v, lower=%v)", upperMargin, lowerMargin)
	}

	n := SampleCount(inputCount)
	if n < GridColumns {
		return nil, configErrorf("inputCount", "%d inputs yield %d sampled neurons, need at least %d", inputCount, n, GridColumns)
	}

	lo := make([]float64, len(mean))
	hi := make([]float64, len(mean))
	for d, m := range mean {
		lo[d] = m - lowerMargin
		hi[d] = m + upperMargin
	}

	// One backing array for all sampled weights.
	data := make([]float64, n*len(mean))
	sampled := make([]Vector, n)
	for i := range sampled {
		w := data[i*len(mean) : (i+1)*len(mean) : (i+1)*len(mean)]
		for d := range w {
			// (1-U) lies in (0,1], so values fall in (lo, hi].
			w[d] = (1-rng.Float64())*(hi[d]-lo[d]) + lo[d]
		}
		sampled[i] = Vector{values: w}
	}
	return sampled, nil
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
