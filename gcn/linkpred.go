package gcn

import (
	"fmt"
	"math/rand"

	"github.com/vantorre/dtlink/dtgraph"
	"github.com/vantorre/dtlink/tensor"
)

// LinkPredictor scores node pairs: the Hadamard product of the two
// endpoint embeddings is pushed through a small MLP (ReLU hidden
// layers with inverted dropout while training) and squashed to a
// probability with a final sigmoid.
type LinkPredictor struct {
	weights []*tensor.Value
	biases  []*tensor.Value
	dropout float64
	train   bool
	rng     *rand.Rand
}

// NewLinkPredictor builds an MLP decoder with the given layer sizes:
// inDim -> hidden (numLayers-1 times) -> 1. numLayers counts linear
// layers and must be at least 1; dropout applies after each hidden
// ReLU while in training mode.
func NewLinkPredictor(inDim, hidden, numLayers int, dropout float64, rng *rand.Rand) (*LinkPredictor, error) {
	if inDim <= 0 || hidden <= 0 || numLayers < 1 {
		return nil, fmt.Errorf("%w: in=%d hidden=%d layers=%d", ErrBadDimension, inDim, hidden, numLayers)
	}
	if rng == nil {
		return nil, ErrNilRand
	}
	if dropout < 0 || dropout >= 1 {
		return nil, fmt.Errorf("%w: dropout %v outside [0,1)", ErrBadDimension, dropout)
	}

	p := &LinkPredictor{dropout: dropout, rng: rng}
	in := inDim
	for l := 0; l < numLayers; l++ {
		out := hidden
		if l == numLayers-1 {
			out = 1
		}
		p.weights = append(p.weights, glorot(rng, in, out))
		p.biases = append(p.biases, zerosParam(1, out))
		in = out
	}

	return p, nil
}

// SetTraining toggles dropout: active while training, a no-op during
// evaluation.
func (p *LinkPredictor) SetTraining(train bool) { p.train = train }

// Score returns an m x 1 matrix of probabilities for the m pairs
// (src[i], dst[i]) under the embedding matrix emb.
func (p *LinkPredictor) Score(emb *tensor.Value, src, dst []dtgraph.NodeID) (*tensor.Value, error) {
	if len(src) != len(dst) {
		return nil, fmt.Errorf("%w: %d sources for %d destinations", ErrBadDimension, len(src), len(dst))
	}
	hs, err := tensor.GatherRows(emb, nodeRows(src))
	if err != nil {
		return nil, err
	}
	hd, err := tensor.GatherRows(emb, nodeRows(dst))
	if err != nil {
		return nil, err
	}
	x, err := tensor.Hadamard(hs, hd)
	if err != nil {
		return nil, err
	}

	last := len(p.weights) - 1
	for l := 0; l <= last; l++ {
		if x, err = tensor.MatMul(x, p.weights[l]); err != nil {
			return nil, err
		}
		if x, err = tensor.AddRow(x, p.biases[l]); err != nil {
			return nil, err
		}
		if l < last {
			x = tensor.ReLU(x)
			if p.train {
				x = tensor.Dropout(x, p.dropout, p.rng)
			}
		}
	}

	return tensor.Sigmoid(x), nil
}

// Params returns every trainable parameter of the decoder.
func (p *LinkPredictor) Params() []*tensor.Value {
	ps := make([]*tensor.Value, 0, len(p.weights)*2)
	ps = append(ps, p.weights...)
	ps = append(ps, p.biases...)

	return ps
}

// nodeRows converts node ids to row indices.
func nodeRows(ids []dtgraph.NodeID) []int {
	rows := make([]int, len(ids))
	for i, id := range ids {
		rows[i] = int(id)
	}

	return rows
}
