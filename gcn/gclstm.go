package gcn

import (
	"fmt"
	"math/rand"

	"github.com/vantorre/dtlink/dtgraph"
	"github.com/vantorre/dtlink/tensor"
)

// convGate bundles one GC-LSTM gate: feature projection Wx, hidden
// projection Wh applied after the graph convolution, and bias b.
type convGate struct {
	wx, wh, b *tensor.Value
}

func newConvGate(rng *rand.Rand, featDim, hidDim int) convGate {
	return convGate{
		wx: glorot(rng, featDim, hidDim),
		wh: glorot(rng, hidDim, hidDim),
		b:  zerosParam(1, hidDim),
	}
}

// pre computes X@Wx + (A^ @ H)@Wh + b. The A^ @ H term is the K=1
// Chebyshev convolution of the carried hidden state.
func (g convGate) pre(x, ah *tensor.Value) (*tensor.Value, error) {
	xw, err := tensor.MatMul(x, g.wx)
	if err != nil {
		return nil, err
	}
	hw, err := tensor.MatMul(ah, g.wh)
	if err != nil {
		return nil, err
	}
	s, err := tensor.Add(xw, hw)
	if err != nil {
		return nil, err
	}

	return tensor.AddRow(s, g.b)
}

func (g convGate) params() []*tensor.Value { return []*tensor.Value{g.wx, g.wh, g.b} }

// GCLSTM is a graph-convolutional LSTM cell: per-node hidden and cell
// state, with gate pre-activations mixing node features and a
// normalized-adjacency convolution of the previous hidden state.
//
// Per snapshot t (A^ built from the fed edges):
//
//	i,f,o = sigmoid(X Wx* + (A^ H) Wh* + b*)
//	g     = tanh(X Wxc + (A^ H) Whc + bc)
//	C_t   = f*C + i*g
//	H_t   = ReLU(o * tanh(C_t))
//
// The ReLU-ed hidden state doubles as the returned embedding, matching
// the reference forward pass.
type GCLSTM struct {
	numNodes int
	featDim  int
	hidDim   int

	feat *tensor.Value // n x f constant node features (zeros by default)

	gi, gf, go_, gc convGate

	h, c *tensor.Value // recurrent state, n x hidDim
}

// NewGCLSTM builds a GC-LSTM encoder over numNodes nodes. Node
// features default to zeros (the reference setup); featDim still
// shapes the Wx projections.
func NewGCLSTM(numNodes, featDim, hidDim int, rng *rand.Rand) (*GCLSTM, error) {
	if numNodes <= 0 || featDim <= 0 || hidDim <= 0 {
		return nil, fmt.Errorf("%w: nodes=%d feat=%d hidden=%d", ErrBadDimension, numNodes, featDim, hidDim)
	}
	if rng == nil {
		return nil, ErrNilRand
	}

	e := &GCLSTM{
		numNodes: numNodes,
		featDim:  featDim,
		hidDim:   hidDim,
		feat:     tensor.Zeros(numNodes, featDim),
		gi:       newConvGate(rng, featDim, hidDim),
		gf:       newConvGate(rng, featDim, hidDim),
		go_:      newConvGate(rng, featDim, hidDim),
		gc:       newConvGate(rng, featDim, hidDim),
	}
	e.Reset()

	return e, nil
}

// SetFeatures replaces the constant node-feature matrix. The matrix
// must be numNodes x featDim.
func (e *GCLSTM) SetFeatures(feat *tensor.Value) error {
	r, c := feat.Dims()
	if r != e.numNodes || c != e.featDim {
		return fmt.Errorf("%w: features %dx%d, want %dx%d", ErrBadDimension, r, c, e.numNodes, e.featDim)
	}
	e.feat = feat

	return nil
}

// Reset zeroes the hidden and cell state for a fresh epoch.
func (e *GCLSTM) Reset() {
	e.h = tensor.Zeros(e.numNodes, e.hidDim)
	e.c = tensor.Zeros(e.numNodes, e.hidDim)
}

// Detach severs the carried hidden/cell state from the tape.
func (e *GCLSTM) Detach() {
	e.h = e.h.Detach()
	e.c = e.c.Detach()
}

// Step advances the cell by one snapshot and returns the n x hidDim
// embedding matrix (also the new hidden state).
func (e *GCLSTM) Step(edges []dtgraph.Edge, weights []float64) (*tensor.Value, error) {
	adj, err := NormalizedAdjacency(e.numNodes, edges, weights)
	if err != nil {
		return nil, err
	}
	ah, err := tensor.MatMul(adj, e.h)
	if err != nil {
		return nil, err
	}

	iPre, err := e.gi.pre(e.feat, ah)
	if err != nil {
		return nil, err
	}
	fPre, err := e.gf.pre(e.feat, ah)
	if err != nil {
		return nil, err
	}
	oPre, err := e.go_.pre(e.feat, ah)
	if err != nil {
		return nil, err
	}
	cPre, err := e.gc.pre(e.feat, ah)
	if err != nil {
		return nil, err
	}

	i := tensor.Sigmoid(iPre)
	f := tensor.Sigmoid(fPre)
	o := tensor.Sigmoid(oPre)
	g := tensor.Tanh(cPre)

	fc, err := tensor.Hadamard(f, e.c)
	if err != nil {
		return nil, err
	}
	ig, err := tensor.Hadamard(i, g)
	if err != nil {
		return nil, err
	}
	if e.c, err = tensor.Add(fc, ig); err != nil {
		return nil, err
	}
	raw, err := tensor.Hadamard(o, tensor.Tanh(e.c))
	if err != nil {
		return nil, err
	}
	e.h = tensor.ReLU(raw)

	return e.h, nil
}

// Params returns every trainable parameter of the cell.
func (e *GCLSTM) Params() []*tensor.Value {
	var ps []*tensor.Value
	for _, g := range []convGate{e.gi, e.gf, e.go_, e.gc} {
		ps = append(ps, g.params()...)
	}

	return ps
}
