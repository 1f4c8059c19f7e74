package som

import "math/rand"

// Rand is the random source used for sampling, tie-breaking and shuffling.
// *math/rand.Rand satisfies it.
type Rand interface {
	// Float64 returns a number in [0.0, 1.0).
	Float64() float64
	// Intn returns a number in [0, n).
	Intn(n int) int
}

// NewRand returns a deterministic source seeded with seed.
func NewRand(seed int64) Rand {
	return rand.New(rand.NewSource(seed))
}

// Permutation returns a Fisher-Yates shuffle of 0..n-1 drawn from rng.
func Permutation(n int, rng Rand) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm
}
