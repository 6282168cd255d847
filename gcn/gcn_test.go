package gcn_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vantorre/dtlink/dtgraph"
	"github.com/vantorre/dtlink/gcn"
	"github.com/vantorre/dtlink/tensor"
)

// TestNormalizedAdjacency_TwoNodes checks the closed form for one
// mirrored edge: (A+I) all-ones, degree 2, every entry 0.5.
func TestNormalizedAdjacency_TwoNodes(t *testing.T) {
	edges := []dtgraph.Edge{{Src: 0, Dst: 1}, {Src: 1, Dst: 0}}

	adj, err := gcn.NormalizedAdjacency(2, edges, nil)
	require.NoError(t, err)
	for _, v := range adj.Data() {
		assert.InDelta(t, 0.5, v, 1e-12)
	}
	assert.False(t, adj.Tracked(), "adjacency is a constant")
}

// TestNormalizedAdjacency_NoEdges checks the identity fallback.
func TestNormalizedAdjacency_NoEdges(t *testing.T) {
	adj, err := gcn.NormalizedAdjacency(3, nil, nil)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			assert.InDelta(t, want, adj.At(i, j), 1e-12)
		}
	}
}

// TestNormalizedAdjacency_Errors checks dimension and range guards.
func TestNormalizedAdjacency_Errors(t *testing.T) {
	_, err := gcn.NormalizedAdjacency(0, nil, nil)
	assert.ErrorIs(t, err, gcn.ErrBadDimension)

	_, err = gcn.NormalizedAdjacency(2, []dtgraph.Edge{{Src: 0, Dst: 2}}, nil)
	assert.ErrorIs(t, err, dtgraph.ErrNodeOutOfRange)

	_, err = gcn.NormalizedAdjacency(2, []dtgraph.Edge{{Src: 0, Dst: 1}}, []float64{1, 2})
	assert.Error(t, err, "weight count must match edge count")
}

// TestEvolveGCNO_ShapesAndGradFlow steps the encoder twice, backprops
// a loss through the unrolled chain, and expects gradient on the
// learned initial weight.
func TestEvolveGCNO_ShapesAndGradFlow(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	enc, err := gcn.NewEvolveGCNO(4, 8, 8, rng)
	require.NoError(t, err)

	edges := []dtgraph.Edge{{Src: 0, Dst: 1}, {Src: 1, Dst: 0}}
	h1, err := enc.Step(edges, nil)
	require.NoError(t, err)
	r, c := h1.Dims()
	assert.Equal(t, 4, r)
	assert.Equal(t, 8, c)

	h2, err := enc.Step(edges, nil)
	require.NoError(t, err)
	require.True(t, h2.Tracked())

	loss := tensor.MSEToward(h2, 0)
	require.NoError(t, loss.Backward())

	var withGrad int
	for _, p := range enc.Params() {
		if p.Grad() != nil {
			withGrad++
		}
	}
	assert.Positive(t, withGrad, "backward must reach encoder parameters")
}

// TestEvolveGCNO_Deterministic verifies identical seeds yield
// identical embeddings.
func TestEvolveGCNO_Deterministic(t *testing.T) {
	edges := []dtgraph.Edge{{Src: 0, Dst: 1}, {Src: 1, Dst: 2}}
	run := func() []float64 {
		enc, err := gcn.NewEvolveGCNO(3, 4, 4, rand.New(rand.NewSource(42)))
		require.NoError(t, err)
		h, err := enc.Step(edges, nil)
		require.NoError(t, err)

		return h.Data()
	}

	assert.Equal(t, run(), run(), "same seed must reproduce embeddings bit-for-bit")
}

// TestGCLSTM_StateThreading verifies state evolves across steps, reset
// restores the initial state, and detach unhooks the tape.
func TestGCLSTM_StateThreading(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	enc, err := gcn.NewGCLSTM(3, 4, 6, rng)
	require.NoError(t, err)

	// Zero features keep a zero-state cell at zero; give the gates
	// something to chew on.
	feat := make([]float64, 3*4)
	for i := range feat {
		feat[i] = rng.NormFloat64()
	}
	require.NoError(t, enc.SetFeatures(tensor.NewConst(3, 4, feat)))

	edges := []dtgraph.Edge{{Src: 0, Dst: 1}, {Src: 1, Dst: 0}, {Src: 1, Dst: 2}, {Src: 2, Dst: 1}}
	h1, err := enc.Step(edges, nil)
	require.NoError(t, err)
	h2, err := enc.Step(edges, nil)
	require.NoError(t, err)
	assert.NotEqual(t, h1.Data(), h2.Data(), "recurrent state must evolve between steps")

	enc.Detach()
	h3, err := enc.Step(edges, nil)
	require.NoError(t, err)
	loss := tensor.MSEToward(h3, 0)
	require.NoError(t, loss.Backward())
	// Gradients still reach the gate parameters through the current
	// step, but not through the severed history.
	var withGrad int
	for _, p := range enc.Params() {
		if p.Grad() != nil {
			withGrad++
		}
	}
	assert.Positive(t, withGrad)
}

// TestGCLSTM_SetFeatures validates the feature-shape guard.
func TestGCLSTM_SetFeatures(t *testing.T) {
	enc, err := gcn.NewGCLSTM(3, 4, 6, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	assert.ErrorIs(t, enc.SetFeatures(tensor.Zeros(3, 5)), gcn.ErrBadDimension)
	assert.NoError(t, enc.SetFeatures(tensor.Zeros(3, 4)))
}

// TestLinkPredictor_Scores verifies shape, probability range, and that
// evaluation mode is deterministic.
func TestLinkPredictor_Scores(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	dec, err := gcn.NewLinkPredictor(6, 6, 2, 0.2, rng)
	require.NoError(t, err)
	dec.SetTraining(false)

	emb := tensor.NewConst(4, 6, []float64{
		0.1, 0.2, 0.3, 0.4, 0.5, 0.6,
		0.6, 0.5, 0.4, 0.3, 0.2, 0.1,
		1, 0, 1, 0, 1, 0,
		0, 1, 0, 1, 0, 1,
	})
	src := []dtgraph.NodeID{0, 2}
	dst := []dtgraph.NodeID{1, 3}

	s1, err := dec.Score(emb, src, dst)
	require.NoError(t, err)
	r, c := s1.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 1, c)
	for _, v := range s1.Data() {
		assert.Greater(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}

	s2, err := dec.Score(emb, src, dst)
	require.NoError(t, err)
	assert.Equal(t, s1.Data(), s2.Data(), "eval-mode scoring is deterministic")

	_, err = dec.Score(emb, src, dst[:1])
	assert.ErrorIs(t, err, gcn.ErrBadDimension, "src/dst length mismatch must error")
}

// TestAdam_ReducesQuadratic drives a 1-parameter quadratic toward its
// minimum. Adam's effective step size stays near lr whatever the
// gradient magnitude, so it oscillates around the optimum; assert
// overall descent and a small final parameter, not per-step
// monotonicity.
func TestAdam_ReducesQuadratic(t *testing.T) {
	p := tensor.NewParam(1, 1, []float64{3})
	opt := gcn.NewAdam([]*tensor.Value{p}, 0.1)

	first, err := tensor.MSEToward(p, 0).Scalar() // p^2 = 9
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		loss := tensor.MSEToward(p, 0)
		require.NoError(t, loss.Backward())
		opt.Step()
		opt.ZeroGrad()
	}

	last, err := tensor.MSEToward(p, 0).Scalar()
	require.NoError(t, err)
	assert.Less(t, last, first, "loss must shrink over the run")
	assert.Less(t, math.Abs(p.At(0, 0)), 0.5, "parameter must settle near the minimum")
}

// TestNewEncoders_Guards checks constructor validation.
func TestNewEncoders_Guards(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	_, err := gcn.NewEvolveGCNO(0, 4, 4, rng)
	assert.ErrorIs(t, err, gcn.ErrBadDimension)
	_, err = gcn.NewEvolveGCNO(4, 4, 4, nil)
	assert.ErrorIs(t, err, gcn.ErrNilRand)

	_, err = gcn.NewGCLSTM(4, 0, 4, rng)
	assert.ErrorIs(t, err, gcn.ErrBadDimension)
	_, err = gcn.NewLinkPredictor(4, 4, 0, 0.2, rng)
	assert.ErrorIs(t, err, gcn.ErrBadDimension)
	_, err = gcn.NewLinkPredictor(4, 4, 2, 1.0, rng)
	assert.ErrorIs(t, err, gcn.ErrBadDimension)
}
