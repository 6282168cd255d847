package gcn

import (
	"fmt"
	"math/rand"

	"github.com/vantorre/dtlink/dtgraph"
	"github.com/vantorre/dtlink/tensor"
)

// lstmGate bundles the three parameters of one matrix-LSTM gate:
// input projection U, recurrent projection V, and bias b.
type lstmGate struct {
	u, v, b *tensor.Value
}

func newLSTMGate(rng *rand.Rand, dim int) lstmGate {
	return lstmGate{u: glorot(rng, dim, dim), v: glorot(rng, dim, dim), b: zerosParam(1, dim)}
}

// pre computes x@U + h@V + b for one gate.
func (g lstmGate) pre(x, h *tensor.Value) (*tensor.Value, error) {
	xu, err := tensor.MatMul(x, g.u)
	if err != nil {
		return nil, err
	}
	hv, err := tensor.MatMul(h, g.v)
	if err != nil {
		return nil, err
	}
	s, err := tensor.Add(xu, hv)
	if err != nil {
		return nil, err
	}

	return tensor.AddRow(s, g.b)
}

func (g lstmGate) params() []*tensor.Value { return []*tensor.Value{g.u, g.v, g.b} }

// EvolveGCNO is a weight-evolving graph convolution: the f x f GCN
// weight matrix is itself the hidden state of a matrix LSTM cell, so
// the convolution filter drifts from snapshot to snapshot instead of
// the node states. A ReLU and a linear head map the convolved features
// to the embedding dimension.
//
// Per snapshot t:
//
//	W_t  = LSTM(W_{t-1})                 (gates over the weight matrix)
//	H_t  = ReLU(A^_t @ X @ W_t) @ Lin + b
//
// Reset restores W to the learned initial weight; gradients reach the
// initial weight through the whole unrolled chain of an epoch.
type EvolveGCNO struct {
	numNodes int
	featDim  int
	embDim   int

	feat *tensor.Value // n x f constant node features
	w0   *tensor.Value // learned initial GCN weight, f x f

	gi, gf, go_, gc lstmGate

	lin  *tensor.Value // f x embDim head
	linB *tensor.Value // 1 x embDim

	// recurrent state, threaded between Step calls
	hW, cW *tensor.Value
}

// NewEvolveGCNO builds an EvolveGCN-O encoder over numNodes nodes with
// featDim-dimensional random node features and embDim output
// embeddings. rng seeds feature and parameter initialization.
func NewEvolveGCNO(numNodes, featDim, embDim int, rng *rand.Rand) (*EvolveGCNO, error) {
	if numNodes <= 0 || featDim <= 0 || embDim <= 0 {
		return nil, fmt.Errorf("%w: nodes=%d feat=%d emb=%d", ErrBadDimension, numNodes, featDim, embDim)
	}
	if rng == nil {
		return nil, ErrNilRand
	}

	e := &EvolveGCNO{
		numNodes: numNodes,
		featDim:  featDim,
		embDim:   embDim,
		feat:     normalFeatures(rng, numNodes, featDim),
		w0:       glorot(rng, featDim, featDim),
		gi:       newLSTMGate(rng, featDim),
		gf:       newLSTMGate(rng, featDim),
		go_:      newLSTMGate(rng, featDim),
		gc:       newLSTMGate(rng, featDim),
		lin:      glorot(rng, featDim, embDim),
		linB:     zerosParam(1, embDim),
	}
	e.Reset()

	return e, nil
}

// Reset restores the recurrent state to the learned initial weight.
// Call at the start of each epoch; the first Step then evolves W from
// w0, keeping w0 on the tape.
func (e *EvolveGCNO) Reset() {
	e.hW = e.w0
	e.cW = tensor.Zeros(e.featDim, e.featDim)
}

// Detach severs the carried weight state from the tape. Evaluation
// advances state without retaining gradient history.
func (e *EvolveGCNO) Detach() {
	e.hW = e.hW.Detach()
	e.cW = e.cW.Detach()
}

// Step evolves the GCN weight one tick and encodes the snapshot given
// by edges/weights (weights nil means unit). Returns the n x embDim
// embedding matrix.
func (e *EvolveGCNO) Step(edges []dtgraph.Edge, weights []float64) (*tensor.Value, error) {
	wPrev := e.hW

	iPre, err := e.gi.pre(wPrev, e.hW)
	if err != nil {
		return nil, err
	}
	fPre, err := e.gf.pre(wPrev, e.hW)
	if err != nil {
		return nil, err
	}
	oPre, err := e.go_.pre(wPrev, e.hW)
	if err != nil {
		return nil, err
	}
	cPre, err := e.gc.pre(wPrev, e.hW)
	if err != nil {
		return nil, err
	}

	i := tensor.Sigmoid(iPre)
	f := tensor.Sigmoid(fPre)
	o := tensor.Sigmoid(oPre)
	g := tensor.Tanh(cPre)

	fc, err := tensor.Hadamard(f, e.cW)
	if err != nil {
		return nil, err
	}
	ig, err := tensor.Hadamard(i, g)
	if err != nil {
		return nil, err
	}
	if e.cW, err = tensor.Add(fc, ig); err != nil {
		return nil, err
	}
	if e.hW, err = tensor.Hadamard(o, tensor.Tanh(e.cW)); err != nil {
		return nil, err
	}

	adj, err := NormalizedAdjacency(e.numNodes, edges, weights)
	if err != nil {
		return nil, err
	}
	ax, err := tensor.MatMul(adj, e.feat)
	if err != nil {
		return nil, err
	}
	conv, err := tensor.MatMul(ax, e.hW)
	if err != nil {
		return nil, err
	}
	h, err := tensor.MatMul(tensor.ReLU(conv), e.lin)
	if err != nil {
		return nil, err
	}

	return tensor.AddRow(h, e.linB)
}

// Params returns every trainable parameter of the encoder.
func (e *EvolveGCNO) Params() []*tensor.Value {
	ps := []*tensor.Value{e.w0, e.lin, e.linB}
	for _, g := range []lstmGate{e.gi, e.gf, e.go_, e.gc} {
		ps = append(ps, g.params()...)
	}

	return ps
}
