// Package sizemodel fits a handful of curve shapes to the relationship
// between a matrix's nonzero density and its encoded bytes-per-nonzero,
// so a caller can estimate encoded size before running the encoder.
//
// Density-driven compaction is non-linear: a very sparse matrix pays a
// large per-nonzero overhead (mostly index bytes), while a denser matrix
// with exploitable substructure amortizes that overhead across longer
// pattern runs. Analyze fits hyperbolic, logarithmic, power, exponential
// and polynomial models to a set of (density, bytes-per-nonzero) samples
// and returns the best fit by R².
//
//	samples := sizemodel.SamplesFromMatrices(matrices)
//	result, err := sizemodel.Analyze(samples)
//	bpnz := result.BestFit.Estimator.Estimate(0.05) // predict at 5% density
package sizemodel
