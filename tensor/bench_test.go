package tensor_test

import (
	"math/rand"
	"testing"

	"github.com/vantorre/dtlink/tensor"
)

func randomValue(r, c int, rng *rand.Rand) *tensor.Value {
	data := make([]float64, r*c)
	for i := range data {
		data[i] = rng.NormFloat64()
	}

	return tensor.NewParam(r, c, data)
}

// BenchmarkMatMul measures a 128x128 tracked matrix product.
func BenchmarkMatMul(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	x := randomValue(128, 128, rng)
	y := randomValue(128, 128, rng)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = tensor.MatMul(x, y)
	}
}

// BenchmarkBackward measures reverse-mode differentiation through a
// small chained network ending in a scalar loss.
func BenchmarkBackward(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	x := randomValue(64, 32, rng)
	w1 := randomValue(32, 32, rng)
	w2 := randomValue(32, 1, rng)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h, _ := tensor.MatMul(x, w1)
		out, _ := tensor.MatMul(tensor.ReLU(h), w2)
		loss := tensor.MSEToward(tensor.Sigmoid(out), 1)
		_ = loss.Backward()
		x.ZeroGrad()
		w1.ZeroGrad()
		w2.ZeroGrad()
	}
}
