// Package som implements the Self-Organizing Map engine.
//
// A map is a rectangular grid of reference vectors (neurons) that adapts to a
// set of input vectors through competitive learning, then labels each neuron
// with the class of its nearest input.
//
// # Pipeline
//
//	normalized, _ := som.Normalize(raw)
//	mean, _ := som.Mean(normalized)
//	sampled, _ := som.SampleInitialGrid(mean, 0.1, 0.1, len(raw), rng)
//	grid, _ := som.BuildGrid(sampled)
//	stats, _ := som.Train(ctx, grid, normalized, som.Shuffled, som.WithRand(rng))
//	_ = som.LabelGrid(grid, normalized, raw)
//	mnemonics, histogram := som.CompactLabels(grid)
//
// # Variant
//
// The engine implements one fixed variant: a rectangular grid ten columns
// wide, Euclidean distance, square (Chebyshev) neighborhoods clamped to the
// grid edges, and the warm/fine-tune schedule described by DefaultSchedule.
//
// # Randomness
//
// Sampling, best-matching-unit tie-breaking and the Shuffled input order draw
// from an injectable Rand. With the same seed, mode and inputs two runs
// produce bit-identical grids.
//
// # Concurrency
//
// Training is sequential. A Grid must not be mutated concurrently; the
// optional parallel distance pass (WithWorkers) writes disjoint buffer
// segments and joins before the minimum scan.
package som
