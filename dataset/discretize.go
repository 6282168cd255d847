package dataset

import (
	"fmt"
	"sort"

	"github.com/vantorre/dtlink/dtgraph"
)

// FromEvents discretizes a timestamped event stream into per-split
// snapshot sequences.
//
// Buckets are indexed from the earliest event; empty buckets are
// dropped (snapshot indices stay strictly increasing but need not be
// contiguous). Buckets are then split chronologically: the first
// trainFrac of buckets train, the next valFrac validate, the rest
// test. Each split must end up non-empty.
//
// Node ids are taken as-is; NumNodes is 1 + the largest id observed,
// matching the reference loader convention.
func FromEvents(events []Event, opts ...Option) (*Splits, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if len(events) == 0 {
		return nil, ErrNoEvents
	}
	if cfg.trainFrac <= 0 || cfg.valFrac <= 0 || cfg.trainFrac+cfg.valFrac >= 1 {
		return nil, fmt.Errorf("%w: train=%v val=%v", ErrBadFraction, cfg.trainFrac, cfg.valFrac)
	}

	var minTs, maxTs int64 = events[0].Ts, events[0].Ts
	var maxNode dtgraph.NodeID
	for _, e := range events {
		if e.Src < 0 || e.Dst < 0 {
			return nil, fmt.Errorf("%w: negative node id (%d,%d)", ErrBadFormat, e.Src, e.Dst)
		}
		if e.Ts < minTs {
			minTs = e.Ts
		}
		if e.Ts > maxTs {
			maxTs = e.Ts
		}
		if e.Src > maxNode {
			maxNode = e.Src
		}
		if e.Dst > maxNode {
			maxNode = e.Dst
		}
	}
	numNodes := int(maxNode) + 1

	width, err := bucketWidth(cfg, minTs, maxTs)
	if err != nil {
		return nil, err
	}

	// Group raw edges by bucket index, preserving arrival order within
	// a bucket.
	byBucket := make(map[int][]dtgraph.Edge)
	for _, e := range events {
		idx := int((e.Ts - minTs) / width)
		byBucket[idx] = append(byBucket[idx], dtgraph.Edge{Src: e.Src, Dst: e.Dst})
	}
	indices := make([]int, 0, len(byBucket))
	for idx := range byBucket {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	nTrain := int(float64(len(indices)) * cfg.trainFrac)
	nVal := int(float64(len(indices)) * cfg.valFrac)
	if nTrain == 0 || nVal == 0 || nTrain+nVal >= len(indices) {
		return nil, fmt.Errorf("%w: %d buckets cannot cover three splits", ErrBadFraction, len(indices))
	}

	train, err := assemble(numNodes, indices[:nTrain], byBucket, false, cfg.attrDim)
	if err != nil {
		return nil, fmt.Errorf("train split: %w", err)
	}
	val, err := assemble(numNodes, indices[nTrain:nTrain+nVal], byBucket, true, cfg.attrDim)
	if err != nil {
		return nil, fmt.Errorf("val split: %w", err)
	}
	test, err := assemble(numNodes, indices[nTrain+nVal:], byBucket, true, cfg.attrDim)
	if err != nil {
		return nil, fmt.Errorf("test split: %w", err)
	}

	return &Splits{NumNodes: numNodes, Train: train, Val: val, Test: test}, nil
}

// bucketWidth resolves the effective bucket width in seconds.
func bucketWidth(cfg config, minTs, maxTs int64) (int64, error) {
	if cfg.buckets > 0 {
		// Round up so indices stay below the requested count; a
		// truncated width would spill the latest events into an extra
		// bucket.
		span := maxTs - minTs + 1
		w := (span + int64(cfg.buckets) - 1) / int64(cfg.buckets)
		if w < 1 {
			w = 1
		}

		return w, nil
	}

	w, err := cfg.scale.seconds()
	if err != nil {
		return 0, fmt.Errorf("%w: %q", err, cfg.scale)
	}

	return w, nil
}

// assemble builds one split's sequence: symmetrized message edges per
// bucket, with the raw directed edges attached as the evaluation view
// for val/test splits.
func assemble(numNodes int, indices []int, byBucket map[int][]dtgraph.Edge, withOriginal bool, attrDim int) (*dtgraph.Sequence, error) {
	snaps := make([]dtgraph.Snapshot, len(indices))
	var original [][]dtgraph.Edge
	if withOriginal {
		original = make([][]dtgraph.Edge, len(indices))
	}
	for i, idx := range indices {
		raw := byBucket[idx]
		snaps[i] = dtgraph.Snapshot{Index: idx, Edges: dtgraph.Symmetrize(raw)}
		if withOriginal {
			original[i] = raw
		}
	}

	opts := []dtgraph.Option{dtgraph.WithEdgeAttributes(attrDim)}
	if withOriginal {
		opts = append(opts, dtgraph.WithOriginalEdges(original))
	}

	return dtgraph.NewSequence(numNodes, snaps, opts...)
}
