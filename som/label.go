package som

import (
	"fmt"

	"github.com/hupe1980/somgo/distance"
)

// LabelGrid assigns every neuron the label of its nearest input.
//
// Distances are measured against normalized (the space the grid was trained
// in); the label is taken from raw at the same index. Ties go to the first
// candidate.
func LabelGrid(g *Grid, normalized, raw []Vector) error {
	if g == nil || g.Len() == 0 {
		return configErrorf("grid", "grid is empty")
	}
	if len(normalized) != len(raw) {
		return fmt.Errorf("som: label grid: %d normalized vectors but %d raw vectors", len(normalized), len(raw))
	}
	dim, err := CheckDimensions(normalized)
	if err != nil {
		return err
	}
	if dim != g.dim {
		return &DimensionMismatchError{Expected: g.dim, Actual: dim}
	}

	dists := make([]float64, len(normalized))
	for i := range g.Len() {
		w := g.weightAt(i)
		for k, v := range normalized {
			dists[k] = distance.Euclidean(w, v.view())
		}
		g.labels[i] = raw[nearest(dists)].label
	}
	return nil
}

// nearest returns the index of the first minimum of dists, scanning the whole
// range including the last element.
func nearest(dists []float64) int {
	best := 0
	for i := 1; i < len(dists); i++ {
		if dists[i] < dists[best] {
			best = i
		}
	}
	return best
}
