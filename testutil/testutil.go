package testutil

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/hupe1980/somgo/som"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe and satisfies som.Rand.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

var _ som.Rand = (*RNG)(nil)

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// FillUniformRange fills dst with random values in range [minVal, maxVal).
func (r *RNG) FillUniformRange(dst []float64, minVal, maxVal float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	span := maxVal - minVal
	for i := range dst {
		dst[i] = minVal + r.rand.Float64()*span
	}
}

// UniformVectors generates unlabeled vectors with values in range [0, 1).
func (r *RNG) UniformVectors(num int, dimensions int) []som.Vector {
	r.mu.Lock()
	defer r.mu.Unlock()

	vectors := make([]som.Vector, num)
	vec := make([]float64, dimensions)
	for i := range num {
		for j := range vec {
			vec[j] = r.rand.Float64()
		}
		vectors[i] = som.NewVector(vec, "")
	}
	return vectors
}

// Cluster describes a labeled Gaussian blob.
type Cluster struct {
	Label  string
	Center []float64
	Spread float64
}

// ClusterVectors draws perCluster vectors around each cluster center,
// interleaved so consecutive vectors come from different clusters.
func (r *RNG) ClusterVectors(perCluster int, clusters ...Cluster) []som.Vector {
	r.mu.Lock()
	defer r.mu.Unlock()

	vectors := make([]som.Vector, 0, perCluster*len(clusters))
	for range perCluster {
		for _, c := range clusters {
			vec := make([]float64, len(c.Center))
			for j, x := range c.Center {
				vec[j] = x + r.rand.NormFloat64()*c.Spread
			}
			vectors = append(vectors, som.NewVector(vec, c.Label))
		}
	}
	return vectors
}

// TwoClusters returns perCluster vectors for each of two well separated
// 3-dimensional clusters labeled "left" and "right".
func (r *RNG) TwoClusters(perCluster int) []som.Vector {
	return r.ClusterVectors(perCluster,
		Cluster{Label: "left", Center: []float64{1, 0.1, 0.1}, Spread: 0.05},
		Cluster{Label: "right", Center: []float64{0.1, 0.1, 1}, Spread: 0.05},
	)
}

// Accuracy returns the fraction of vectors for which classify returns the
// vector's own label.
func Accuracy(vectors []som.Vector, classify func(som.Vector) (string, error)) (float64, error) {
	if len(vectors) == 0 {
		return 0, fmt.Errorf("testutil: no vectors")
	}
	hits := 0
	for _, v := range vectors {
		label, err := classify(v)
		if err != nil {
			return 0, err
		}
		if label == v.Label() {
			hits++
		}
	}
	return float64(hits) / float64(len(vectors)), nil
}
