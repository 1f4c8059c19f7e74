package som

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// scriptedRand replays fixed Intn results and a fixed Float64 value.
type scriptedRand struct {
	ints  []int
	float float64
}

func (r *scriptedRand) Float64() float64 { return r.float }

func (r *scriptedRand) Intn(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v % n
}

// twoClusters returns n labeled vectors split between two well separated
// clusters in 3-D.
func twoClusters(t testing.TB, n int, seed int64) []Vector {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	out := make([]Vector, n)
	for i := range out {
		jitter := func() float64 { return rng.Float64() * 0.05 }
		if i%2 == 0 {
			out[i] = NewVector([]float64{1 + jitter(), 0.1 + jitter(), 0.1 + jitter()}, "left")
		} else {
			out[i] = NewVector([]float64{0.1 + jitter(), 0.1 + jitter(), 1 + jitter()}, "right")
		}
	}
	return out
}

// newTrainingGrid runs normalization, sampling and grid construction.
func newTrainingGrid(t testing.TB, raw []Vector, seed int64) (*Grid, []Vector) {
	t.Helper()
	normalized, err := Normalize(raw)
	require.NoError(t, err)
	mean, err := Mean(normalized)
	require.NoError(t, err)
	sampled, err := SampleInitialGrid(mean, 0.2, 0.2, len(raw), NewRand(seed))
	require.NoError(t, err)
	g, err := BuildGrid(sampled)
	require.NoError(t, err)
	return g, normalized
}
