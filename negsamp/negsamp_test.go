package negsamp_test

import (
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vantorre/dtlink/dtgraph"
	"github.com/vantorre/dtlink/negsamp"
)

// TestUniform_RangeAndDeterminism draws destinations and checks range
// plus seed reproducibility.
func TestUniform_RangeAndDeterminism(t *testing.T) {
	u1, err := negsamp.NewUniform(10, rand.New(rand.NewSource(9)))
	require.NoError(t, err)
	u2, err := negsamp.NewUniform(10, rand.New(rand.NewSource(9)))
	require.NoError(t, err)

	d1 := u1.Destinations(100)
	d2 := u2.Destinations(100)
	assert.Equal(t, d1, d2, "same seed must reproduce the draw")
	for _, d := range d1 {
		assert.GreaterOrEqual(t, int(d), 0)
		assert.Less(t, int(d), 10)
	}
}

// TestUniform_Guards checks constructor validation.
func TestUniform_Guards(t *testing.T) {
	_, err := negsamp.NewUniform(0, rand.New(rand.NewSource(1)))
	assert.Error(t, err)
	_, err = negsamp.NewUniform(5, nil)
	assert.Error(t, err)
}

// TestHistorical_RoundTrip writes an eval set, loads it, and queries
// hits and misses.
func TestHistorical_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := negsamp.EvalSetPath(dir, "tgbl-wiki", negsamp.SplitVal)
	assert.Equal(t, filepath.Join(dir, "tgbl-wiki_val_ns.json"), path)

	records := []negsamp.EvalRecord{
		{Src: 0, Dst: 1, T: 7, Neg: []dtgraph.NodeID{2, 3, 4}},
		{Src: 1, Dst: 2, T: 8, Neg: []dtgraph.NodeID{0}},
	}
	require.NoError(t, negsamp.WriteEvalSet(path, records))

	h := negsamp.NewHistorical()
	assert.False(t, h.Loaded(negsamp.SplitVal))
	require.NoError(t, h.LoadEvalSet(path, negsamp.SplitVal))
	assert.True(t, h.Loaded(negsamp.SplitVal))

	neg, err := h.Query(0, 1, 7, negsamp.SplitVal)
	require.NoError(t, err)
	assert.Equal(t, []dtgraph.NodeID{2, 3, 4}, neg)

	_, err = h.Query(0, 1, 99, negsamp.SplitVal)
	assert.ErrorIs(t, err, negsamp.ErrQueryNotFound, "unknown timestamp must miss")
}

// TestHistorical_SplitGuards verifies split validation and the
// not-loaded error.
func TestHistorical_SplitGuards(t *testing.T) {
	h := negsamp.NewHistorical()

	_, err := h.Query(0, 1, 0, negsamp.Split("train"))
	assert.ErrorIs(t, err, negsamp.ErrBadSplit)

	_, err = h.Query(0, 1, 0, negsamp.SplitTest)
	assert.ErrorIs(t, err, negsamp.ErrSplitNotLoaded)

	err = h.LoadEvalSet("nowhere.json", negsamp.Split("bogus"))
	assert.ErrorIs(t, err, negsamp.ErrBadSplit)

	err = h.LoadEvalSet(filepath.Join(t.TempDir(), "missing.json"), negsamp.SplitVal)
	assert.Error(t, err, "missing file must surface the read error")
}
