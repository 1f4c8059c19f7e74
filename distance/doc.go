// Package distance provides vector distance calculations for the SOM engine.
//
// # Kernels
//
//   - Euclidean: L2 distance, used for BMU search and labeling
//   - SquaredL2: squared L2 distance
//   - Dot / Norm: dot product and Euclidean norm
//   - NormalizeL2Copy / NormalizeL2InPlace: unit-norm scaling, reports zero norm
//   - Lerp: the competitive-learning delta rule w += α(x - w)
//
// # Usage
//
//	d := distance.Euclidean(a, b)
//	unit, ok := distance.NormalizeL2Copy(vec)
package distance
