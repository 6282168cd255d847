package negsamp_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vantorre/dtlink/dtgraph"
	"github.com/vantorre/dtlink/negsamp"
)

// TestBuildEvalSet verifies record coverage, negative counts, and the
// historical-pool preference.
func TestBuildEvalSet(t *testing.T) {
	raw := [][]dtgraph.Edge{
		{{Src: 0, Dst: 1}, {Src: 2, Dst: 3}},
		{{Src: 4, Dst: 5}},
		{{Src: 0, Dst: 6}},
	}
	snaps := make([]dtgraph.Snapshot, len(raw))
	for i, edges := range raw {
		snaps[i] = dtgraph.Snapshot{Index: i, Edges: dtgraph.Symmetrize(edges)}
	}
	seq, err := dtgraph.NewSequence(8, snaps, dtgraph.WithOriginalEdges(raw))
	require.NoError(t, err)

	records, err := negsamp.BuildEvalSet(seq, 8, 2, rand.New(rand.NewSource(5)))
	require.NoError(t, err)
	require.Len(t, records, 4)

	for _, r := range records {
		assert.Len(t, r.Neg, 2)
		for _, n := range r.Neg {
			assert.NotEqual(t, r.Dst, n, "true destination sampled as negative")
		}
	}

	// Snapshot 0 has no history; its negatives are purely uniform.
	assert.Equal(t, 0, records[0].T)

	// The single snapshot-2 positive can draw both negatives from the
	// historical pool {1, 3, 5} minus its own destination.
	last := records[3]
	assert.Equal(t, 2, last.T)
	pool := map[dtgraph.NodeID]struct{}{1: {}, 3: {}, 5: {}}
	for _, n := range last.Neg {
		_, ok := pool[n]
		assert.True(t, ok, "negative %d not from historical pool", n)
	}
}

// TestBuildEvalSet_Validation verifies parameter guards.
func TestBuildEvalSet_Validation(t *testing.T) {
	_, err := negsamp.BuildEvalSet(nil, 8, 2, rand.New(rand.NewSource(1)))
	assert.Error(t, err)

	seq, err := dtgraph.NewSequence(4, []dtgraph.Snapshot{{Index: 0, Edges: nil}})
	require.NoError(t, err)

	_, err = negsamp.BuildEvalSet(seq, 4, 0, rand.New(rand.NewSource(1)))
	assert.Error(t, err)
	_, err = negsamp.BuildEvalSet(seq, 4, 2, nil)
	assert.Error(t, err)
}
