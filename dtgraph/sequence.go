package dtgraph

import (
	"fmt"
	"sort"
)

// Sequence is an ordered collection of snapshots for one dataset split,
// plus the optional parallel original-edge view used as evaluation
// ground truth. A Sequence is immutable after construction.
type Sequence struct {
	numNodes int
	snaps    []Snapshot
	original [][]Edge // nil when the split has no separate eval view
}

// NewSequence validates and assembles a Sequence over numNodes nodes.
//
// Validation rules:
//   - at least one snapshot (ErrEmptySequence),
//   - strictly increasing snapshot indices (ErrUnorderedSnapshots),
//   - every endpoint in [0, numNodes) (ErrNodeOutOfRange),
//   - original view, when present, aligned 1:1 with snapshots
//     (ErrOriginalMismatch),
//   - no edge attributes (ErrEdgeAttrsUnsupported).
//
// Complexity: O(total edges).
func NewSequence(numNodes int, snaps []Snapshot, opts ...Option) (*Sequence, error) {
	var cfg seqConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.attrDim > 0 {
		return nil, fmt.Errorf("%w: got %d attribute channels", ErrEdgeAttrsUnsupported, cfg.attrDim)
	}
	if numNodes <= 0 {
		return nil, fmt.Errorf("%w: sequence over %d nodes", ErrNodeOutOfRange, numNodes)
	}
	if len(snaps) == 0 {
		return nil, ErrEmptySequence
	}
	if cfg.original != nil && len(cfg.original) != len(snaps) {
		return nil, fmt.Errorf("%w: %d original views for %d snapshots",
			ErrOriginalMismatch, len(cfg.original), len(snaps))
	}

	prev := snaps[0].Index - 1
	for i := range snaps {
		if snaps[i].Index <= prev {
			return nil, fmt.Errorf("%w: index %d follows %d", ErrUnorderedSnapshots, snaps[i].Index, prev)
		}
		prev = snaps[i].Index
		if err := checkEdges(snaps[i].Edges, numNodes); err != nil {
			return nil, fmt.Errorf("snapshot %d: %w", snaps[i].Index, err)
		}
		if cfg.original != nil {
			if err := checkEdges(cfg.original[i], numNodes); err != nil {
				return nil, fmt.Errorf("snapshot %d original edges: %w", snaps[i].Index, err)
			}
		}
	}

	return &Sequence{numNodes: numNodes, snaps: snaps, original: cfg.original}, nil
}

// checkEdges verifies every endpoint lies in [0, numNodes).
func checkEdges(edges []Edge, numNodes int) error {
	n := NodeID(numNodes)
	for _, e := range edges {
		if e.Src < 0 || e.Src >= n || e.Dst < 0 || e.Dst >= n {
			return fmt.Errorf("%w: edge (%d,%d) with %d nodes", ErrNodeOutOfRange, e.Src, e.Dst, numNodes)
		}
	}

	return nil
}

// NumNodes returns the node count of the sequence.
func (q *Sequence) NumNodes() int { return q.numNodes }

// Len returns the number of snapshots.
func (q *Sequence) Len() int { return len(q.snaps) }

// Snapshot returns the snapshot at position i (0-based position, not
// time index). Panics on out-of-range i, consistent with slice access.
func (q *Sequence) Snapshot(i int) *Snapshot { return &q.snaps[i] }

// Original returns the evaluation ground-truth edges for position i.
// Splits without a separate original view fall back to message edges.
func (q *Sequence) Original(i int) []Edge {
	if q.original == nil {
		return q.snaps[i].Edges
	}

	return q.original[i]
}

// Symmetrize returns the undirected message view of edges: self-loops
// removed, duplicates collapsed, and each remaining pair mirrored in
// both directions. The result is sorted (src asc, then dst asc) so
// downstream matrix assembly is deterministic.
func Symmetrize(edges []Edge) []Edge {
	seen := make(map[Edge]struct{}, len(edges)*2)
	out := make([]Edge, 0, len(edges)*2)
	for _, e := range edges {
		if e.Src == e.Dst {
			continue
		}
		for _, d := range [2]Edge{e, {Src: e.Dst, Dst: e.Src}} {
			if _, ok := seen[d]; ok {
				continue
			}
			seen[d] = struct{}{}
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Src != out[j].Src {
			return out[i].Src < out[j].Src
		}

		return out[i].Dst < out[j].Dst
	})

	return out
}
