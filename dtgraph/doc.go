// Package dtgraph provides the core primitives for discrete-time
// dynamic graphs: time-indexed edge sets (snapshots) and ordered
// snapshot sequences with separate message and evaluation views.
//
// A Sequence is the unit of work consumed by the training and
// evaluation loops:
//
//   - Snapshots are ordered by their time index; order is causal.
//     Snapshot t may only be predicted from information up to t-1.
//   - Message edges are the deduplicated, mirrored, loop-free edges
//     used to advance encoder state.
//   - Original edges (val/test splits) are the raw directed edges used
//     as evaluation ground truth. When absent, message edges stand in.
//   - Edge weights default to 1.0; per-edge attributes beyond the unit
//     weight are rejected up front with ErrEdgeAttrsUnsupported rather
//     than silently ignored.
//
// Errors:
//
//	ErrEmptySequence        - sequence has no snapshots.
//	ErrUnorderedSnapshots   - snapshot indices not strictly increasing.
//	ErrNodeOutOfRange       - edge endpoint outside [0, NumNodes).
//	ErrOriginalMismatch     - original-edge view length differs from snapshots.
//	ErrEdgeAttrsUnsupported - per-edge attributes requested.
package dtgraph
