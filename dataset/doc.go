// Package dataset turns timestamped edge streams into the snapshot
// sequences the training loop consumes.
//
// The pipeline is: load events (CSV or JSON) → bucket timestamps at a
// time scale (hourly/daily/weekly/monthly, or a fixed bucket count) →
// split buckets chronologically into train/val/test → assemble one
// dtgraph.Sequence per split. Message edges are symmetrized and
// deduplicated; validation and test sequences additionally carry the
// raw directed edges as evaluation ground truth.
//
// Synthetic generators produce small deterministic datasets for tests
// and examples from a caller-owned rand source.
//
// Errors:
//
//	ErrBadFormat    - malformed event record.
//	ErrNoEvents     - empty event stream.
//	ErrBadTimeScale - unknown time-scale name.
//	ErrBadFraction  - split fractions outside (0,1) or summing >= 1.
package dataset
