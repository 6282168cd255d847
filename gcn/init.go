package gcn

import (
	"math"
	"math/rand"

	"github.com/vantorre/dtlink/tensor"
)

// glorot returns a tracked in x out parameter drawn from the Glorot
// (Xavier) uniform distribution, limit sqrt(6/(in+out)).
func glorot(rng *rand.Rand, in, out int) *tensor.Value {
	limit := math.Sqrt(6 / float64(in+out))
	data := make([]float64, in*out)
	for i := range data {
		data[i] = (rng.Float64()*2 - 1) * limit
	}

	return tensor.NewParam(in, out, data)
}

// zerosParam returns a tracked r x c parameter initialized to zero
// (used for biases).
func zerosParam(r, c int) *tensor.Value {
	return tensor.NewParam(r, c, nil)
}

// normalFeatures returns an untracked n x d feature matrix of standard
// normal draws. The reference EvolveGCN-O setup feeds fixed random
// node features; they are constants, not parameters.
func normalFeatures(rng *rand.Rand, n, d int) *tensor.Value {
	data := make([]float64, n*d)
	for i := range data {
		data[i] = rng.NormFloat64()
	}

	return tensor.NewConst(n, d, data)
}
