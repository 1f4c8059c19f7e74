package som

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFilledGrid(t *testing.T, rows, cols int, fill []float64) *Grid {
	t.Helper()
	g, err := NewGrid(rows, cols, len(fill))
	require.NoError(t, err)
	for r := range rows {
		for c := range cols {
			require.NoError(t, g.SetWeight(Position{Row: r, Col: c}, fill))
		}
	}
	return g
}

func TestProbe_Search(t *testing.T) {
	probe := []float64{0.6, 0.8}

	t.Run("Ties", func(t *testing.T) {
		g := newFilledGrid(t, 3, 10, []float64{10, 10})
		require.NoError(t, g.SetWeight(Position{Row: 0, Col: 0}, probe))
		require.NoError(t, g.SetWeight(Position{Row: 2, Col: 3}, probe))

		set, err := NewProbe(g, 1).Search(probe)
		require.NoError(t, err)
		assert.Equal(t, 2, set.Len())
		assert.Equal(t, 0.0, set.Distance())
		assert.Equal(t, []Position{{Row: 0, Col: 0}, {Row: 2, Col: 3}}, set.Positions())
		assert.True(t, set.Contains(Position{Row: 2, Col: 3}))
		assert.False(t, set.Contains(Position{Row: 1, Col: 3}))
		assert.Equal(t, Position{Row: 0, Col: 0}, set.First())
	})

	t.Run("SingleMatch", func(t *testing.T) {
		g := newFilledGrid(t, 2, 10, []float64{1, 1})
		require.NoError(t, g.SetWeight(Position{Row: 1, Col: 7}, []float64{0.5, 0.9}))

		p := NewProbe(g, 1)
		set, err := p.Search(probe)
		require.NoError(t, err)
		assert.Equal(t, []Position{{Row: 1, Col: 7}}, set.Positions())
		assert.Equal(t, Position{Row: 1, Col: 7}, set.Pick(&scriptedRand{ints: []int{5}}))

		dists := p.Distances()
		require.Len(t, dists, 20)
		assert.InDelta(t, 0.14142135623730953, dists[17], 1e-12)
		assert.InDelta(t, 0.4472135954999579, dists[0], 1e-12)
	})

	t.Run("NaNProbe", func(t *testing.T) {
		g := newFilledGrid(t, 2, 3, []float64{1, 1})
		set, err := NewProbe(g, 1).Search([]float64{math.NaN(), 1})
		require.ErrorIs(t, err, ErrNoBMU)
		assert.Equal(t, 0, set.Len())
	})

	t.Run("DimensionMismatch", func(t *testing.T) {
		g := newFilledGrid(t, 1, 10, []float64{1, 1})
		_, err := NewProbe(g, 1).Search([]float64{1})
		var dme *DimensionMismatchError
		assert.ErrorAs(t, err, &dme)
	})
}

func TestBMUSet_Pick(t *testing.T) {
	probe := []float64{1, 0}
	g := newFilledGrid(t, 3, 10, []float64{0, 1})
	ties := []Position{{Row: 0, Col: 4}, {Row: 1, Col: 1}, {Row: 2, Col: 9}}
	for _, p := range ties {
		require.NoError(t, g.SetWeight(p, probe))
	}

	set, err := NewProbe(g, 1).Search(probe)
	require.NoError(t, err)

	for i, want := range ties {
		assert.Equal(t, want, set.Pick(&scriptedRand{ints: []int{i}}))
	}

	// Every member is reachable from a real source.
	seen := make(map[Position]int)
	rng := NewRand(3)
	for range 300 {
		seen[set.Pick(rng)]++
	}
	assert.Len(t, seen, 3)
	for _, p := range ties {
		assert.Greater(t, seen[p], 50, "member %v picked too rarely", p)
	}
}

func TestProbe_ParallelMatchesSequential(t *testing.T) {
	raw := twoClusters(t, 100, 5)
	g, normalized := newTrainingGrid(t, raw, 11)
	require.Equal(t, 5, g.Rows())

	seq := NewProbe(g, 1)
	par := NewProbe(g, 4)
	for _, v := range normalized {
		a, err := seq.Search(v.view())
		require.NoError(t, err)
		aPos := a.Positions()

		b, err := par.Search(v.view())
		require.NoError(t, err)
		assert.Equal(t, aPos, b.Positions())
		assert.Equal(t, seq.Distances(), par.Distances())
	}
}

func TestBMUSet_Empty(t *testing.T) {
	var set BMUSet
	assert.Equal(t, 0, set.Len())
	assert.Equal(t, Position{Row: -1, Col: -1}, set.First())
	assert.Equal(t, Position{Row: -1, Col: -1}, set.Pick(&scriptedRand{ints: []int{0}}))
	assert.Empty(t, set.Positions())
}
