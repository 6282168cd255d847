// Package negsamp provides the two negative-sampling strategies used
// around training and evaluation:
//
//   - Uniform: training-time sampling. One uniformly random
//     destination per positive edge, source kept fixed, drawn from a
//     caller-owned seeded source so runs reproduce bit-for-bit.
//   - Historical: evaluation-time sampling. Per-split candidate sets
//     are precomputed offline (plausible-but-false historical edges
//     mixed with random ones) and loaded from
//     <dataset>_val_ns.json / <dataset>_test_ns.json; Query answers
//     with the negative destinations recorded for one positive edge
//     at one timestamp.
//
// The reference tooling ships these sets as Python pickles; the same
// naming convention is kept here with a JSON payload, decoded with
// bytedance/sonic.
//
// Errors:
//
//	ErrBadSplit       - split is neither "val" nor "test".
//	ErrSplitNotLoaded - Query before LoadEvalSet for that split.
//	ErrQueryNotFound  - no candidate set for the queried edge/time.
package negsamp
