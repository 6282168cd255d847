package dataset

import (
	"fmt"
	"math/rand"

	"github.com/vantorre/dtlink/dtgraph"
)

// SyntheticSequence generates a deterministic random sequence of
// numSnapshots snapshots over numNodes nodes with edgesPer directed
// edges each, symmetrized into message edges and carrying the raw
// draws as the original view. Self-loops are redrawn.
func SyntheticSequence(numNodes, numSnapshots, edgesPer int, rng *rand.Rand) (*dtgraph.Sequence, error) {
	if numNodes < 2 || numSnapshots <= 0 || edgesPer <= 0 {
		return nil, fmt.Errorf("%w: nodes=%d snapshots=%d edges=%d", ErrBadFormat, numNodes, numSnapshots, edgesPer)
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: nil rand source", ErrBadFormat)
	}

	snaps := make([]dtgraph.Snapshot, numSnapshots)
	original := make([][]dtgraph.Edge, numSnapshots)
	for t := 0; t < numSnapshots; t++ {
		raw := make([]dtgraph.Edge, edgesPer)
		for i := range raw {
			src := rng.Intn(numNodes)
			dst := rng.Intn(numNodes)
			for dst == src {
				dst = rng.Intn(numNodes)
			}
			raw[i] = dtgraph.Edge{Src: dtgraph.NodeID(src), Dst: dtgraph.NodeID(dst)}
		}
		snaps[t] = dtgraph.Snapshot{Index: t, Edges: dtgraph.Symmetrize(raw)}
		original[t] = raw
	}

	return dtgraph.NewSequence(numNodes, snaps, dtgraph.WithOriginalEdges(original))
}

// SyntheticSplits generates matching train/val/test sequences, each
// with snapsPerSplit snapshots, for end-to-end tests and examples.
func SyntheticSplits(numNodes, snapsPerSplit, edgesPer int, rng *rand.Rand) (*Splits, error) {
	train, err := SyntheticSequence(numNodes, snapsPerSplit, edgesPer, rng)
	if err != nil {
		return nil, err
	}
	val, err := SyntheticSequence(numNodes, snapsPerSplit, edgesPer, rng)
	if err != nil {
		return nil, err
	}
	test, err := SyntheticSequence(numNodes, snapsPerSplit, edgesPer, rng)
	if err != nil {
		return nil, err
	}

	return &Splits{NumNodes: numNodes, Train: train, Val: val, Test: test}, nil
}
