// Package testutil provides testing utilities for drometa.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded RNG and generators for synthetic DR runs.
//
// # Synthetic Runs
//
//	rng := testutil.NewRNG(4711)
//	schema := testutil.TSNESchema()
//	records := rng.GridRuns(schema)    // one run per hyperparameter combination
//	records = rng.SampledRuns(schema, 500) // random combinations
package testutil
