// Package testutil provides testing utilities for somgo.
//
// This package is intended for use in tests and benchmarks only.
//
// # Random Data
//
//	rng := testutil.NewRNG(seed)
//	vectors := rng.TwoClusters(50)             // labeled "left"/"right"
//	noise := rng.UniformVectors(100, 4)        // unlabeled, [0, 1)
//
// RNG satisfies som.Rand and can be passed to the trainer directly.
//
// # Accuracy
//
//	acc, err := testutil.Accuracy(vectors, classify)
package testutil
