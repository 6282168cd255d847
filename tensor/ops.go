package tensor

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/viterin/vek"
	"gonum.org/v1/gonum/mat"
)

// child wires an op output into the tape. The output is tracked iff
// any parent is; back is installed only when tracking is required.
func child(data *mat.Dense, back func(out *Value), parents ...*Value) *Value {
	out := &Value{data: data, parents: parents}
	for _, p := range parents {
		if p.tracked {
			out.tracked = true
			break
		}
	}
	if out.tracked && back != nil {
		out.back = func() { back(out) }
	}

	return out
}

// MatMul returns a @ b.
func MatMul(a, b *Value) (*Value, error) {
	ar, ac := a.data.Dims()
	br, bc := b.data.Dims()
	if ac != br {
		return nil, fmt.Errorf("%w: matmul %dx%d @ %dx%d", ErrShapeMismatch, ar, ac, br, bc)
	}
	data := mat.NewDense(ar, bc, nil)
	data.Mul(a.data, b.data)

	return child(data, func(out *Value) {
		if a.tracked {
			g := mat.NewDense(ar, ac, nil)
			g.Mul(out.grad, b.data.T())
			a.accumulate(g)
		}
		if b.tracked {
			g := mat.NewDense(br, bc, nil)
			g.Mul(a.data.T(), out.grad)
			b.accumulate(g)
		}
	}, a, b), nil
}

// Add returns a + b for same-shape operands.
func Add(a, b *Value) (*Value, error) {
	ar, ac := a.data.Dims()
	br, bc := b.data.Dims()
	if ar != br || ac != bc {
		return nil, fmt.Errorf("%w: add %dx%d + %dx%d", ErrShapeMismatch, ar, ac, br, bc)
	}
	data := mat.NewDense(ar, ac, vek.Add(raw(a.data), raw(b.data)))

	return child(data, func(out *Value) {
		if a.tracked {
			a.accumulate(out.grad)
		}
		if b.tracked {
			b.accumulate(out.grad)
		}
	}, a, b), nil
}

// AddRow returns a + bias with the 1xC bias broadcast over every row.
func AddRow(a, bias *Value) (*Value, error) {
	ar, ac := a.data.Dims()
	br, bc := bias.data.Dims()
	if br != 1 || bc != ac {
		return nil, fmt.Errorf("%w: addrow %dx%d + %dx%d", ErrShapeMismatch, ar, ac, br, bc)
	}
	data := mat.NewDense(ar, ac, nil)
	out := raw(data)
	src := raw(a.data)
	row := raw(bias.data)
	for i := 0; i < ar; i++ {
		copy(out[i*ac:(i+1)*ac], vek.Add(src[i*ac:(i+1)*ac], row))
	}

	return child(data, func(out *Value) {
		if a.tracked {
			a.accumulate(out.grad)
		}
		if bias.tracked {
			g := raw(out.grad)
			sum := make([]float64, ac)
			for i := 0; i < ar; i++ {
				vek.Add_Inplace(sum, g[i*ac:(i+1)*ac])
			}
			bias.accumulate(mat.NewDense(1, ac, sum))
		}
	}, a, bias), nil
}

// Hadamard returns the elementwise product a * b.
func Hadamard(a, b *Value) (*Value, error) {
	ar, ac := a.data.Dims()
	br, bc := b.data.Dims()
	if ar != br || ac != bc {
		return nil, fmt.Errorf("%w: hadamard %dx%d * %dx%d", ErrShapeMismatch, ar, ac, br, bc)
	}
	data := mat.NewDense(ar, ac, vek.Mul(raw(a.data), raw(b.data)))

	return child(data, func(out *Value) {
		if a.tracked {
			a.accumulate(mat.NewDense(ar, ac, vek.Mul(raw(out.grad), raw(b.data))))
		}
		if b.tracked {
			b.accumulate(mat.NewDense(ar, ac, vek.Mul(raw(out.grad), raw(a.data))))
		}
	}, a, b), nil
}

// Scale returns s * a.
func Scale(a *Value, s float64) *Value {
	ar, ac := a.data.Dims()
	data := mat.NewDense(ar, ac, vek.MulNumber(raw(a.data), s))

	return child(data, func(out *Value) {
		a.accumulate(mat.NewDense(ar, ac, vek.MulNumber(raw(out.grad), s)))
	}, a)
}

// ReLU returns max(a, 0) elementwise.
func ReLU(a *Value) *Value {
	ar, ac := a.data.Dims()
	zeros := make([]float64, ar*ac)
	data := mat.NewDense(ar, ac, vek.Maximum(raw(a.data), zeros))

	return child(data, func(out *Value) {
		g := raw(out.grad)
		act := raw(out.data)
		masked := make([]float64, len(g))
		for i := range g {
			if act[i] > 0 {
				masked[i] = g[i]
			}
		}
		a.accumulate(mat.NewDense(ar, ac, masked))
	}, a)
}

// Sigmoid returns 1 / (1 + exp(-a)) elementwise.
func Sigmoid(a *Value) *Value {
	ar, ac := a.data.Dims()
	data := mat.NewDense(ar, ac, sigmoid(raw(a.data)))

	return child(data, func(out *Value) {
		s := raw(out.data)
		// ds/dx = s * (1 - s)
		oneMinus := vek.SubNumber(s, 1)
		local := vek.MulNumber(vek.Mul(s, oneMinus), -1)
		a.accumulate(mat.NewDense(ar, ac, vek.Mul(raw(out.grad), local)))
	}, a)
}

// Tanh returns tanh(a) elementwise.
func Tanh(a *Value) *Value {
	ar, ac := a.data.Dims()
	x := raw(a.data)
	ex := expSlice(x)
	enx := expSlice(vek.MulNumber(x, -1))
	data := mat.NewDense(ar, ac, vek.Div(vek.Sub(ex, enx), vek.Add(ex, enx)))

	return child(data, func(out *Value) {
		th := raw(out.data)
		// d tanh/dx = 1 - tanh^2
		local := vek.MulNumber(vek.SubNumber(vek.Mul(th, th), 1), -1)
		a.accumulate(mat.NewDense(ar, ac, vek.Mul(raw(out.grad), local)))
	}, a)
}

// sigmoid computes 1/(1+exp(-x)) on a raw slice.
func sigmoid(x []float64) []float64 {
	den := vek.AddNumber(expSlice(vek.MulNumber(x, -1)), 1)
	ones := make([]float64, len(x))
	for i := range ones {
		ones[i] = 1
	}

	return vek.Div(ones, den)
}

// expSlice computes exp(x) elementwise. vek has no exponential kernel,
// so this stays a plain loop.
func expSlice(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = math.Exp(v)
	}

	return out
}

// GatherRows returns the m x C matrix whose i-th row is a's row idx[i].
// Gradients scatter-add back, so repeated indices accumulate.
func GatherRows(a *Value, idx []int) (*Value, error) {
	ar, ac := a.data.Dims()
	for _, i := range idx {
		if i < 0 || i >= ar {
			return nil, fmt.Errorf("%w: row %d of %d", ErrRowOutOfRange, i, ar)
		}
	}
	data := mat.NewDense(len(idx), ac, nil)
	src := raw(a.data)
	dst := raw(data)
	for i, r := range idx {
		copy(dst[i*ac:(i+1)*ac], src[r*ac:(r+1)*ac])
	}

	return child(data, func(out *Value) {
		grad := a.ensureGrad()
		g := raw(out.grad)
		for i, r := range idx {
			for j := 0; j < ac; j++ {
				grad.Set(r, j, grad.At(r, j)+g[i*ac+j])
			}
		}
	}, a), nil
}

// Dropout applies inverted dropout with drop probability p, drawing
// the keep mask from rng. Surviving entries are scaled by 1/(1-p) so
// the expected activation is unchanged. p == 0 is the identity.
func Dropout(a *Value, p float64, rng *rand.Rand) *Value {
	if p <= 0 {
		return a
	}
	ar, ac := a.data.Dims()
	keep := 1 / (1 - p)
	mask := make([]float64, ar*ac)
	for i := range mask {
		if rng.Float64() >= p {
			mask[i] = keep
		}
	}
	data := mat.NewDense(ar, ac, vek.Mul(raw(a.data), mask))

	return child(data, func(out *Value) {
		a.accumulate(mat.NewDense(ar, ac, vek.Mul(raw(out.grad), mask)))
	}, a)
}

// MSEToward returns mean((a - target)^2) as a 1x1 scalar: the
// mean-squared-error of every entry of a against one constant target.
func MSEToward(a *Value, target float64) *Value {
	ar, ac := a.data.Dims()
	n := float64(ar * ac)
	diff := vek.SubNumber(raw(a.data), target)
	loss := vek.Dot(diff, diff) / n
	data := mat.NewDense(1, 1, []float64{loss})

	return child(data, func(out *Value) {
		// d/da mean((a-t)^2) = 2(a-t)/n, scaled by upstream scalar grad.
		g := out.grad.At(0, 0)
		a.accumulate(mat.NewDense(ar, ac, vek.MulNumber(diff, 2*g/n)))
	}, a)
}

// bceEps keeps log() and the gradient denominator away from 0; matches
// the usual clamped binary-cross-entropy formulation.
const bceEps = 1e-12

// BCEToward returns the binary cross-entropy of every entry of a
// (probabilities in (0,1)) against one constant target in {0,1},
// reduced by mean to a 1x1 scalar.
func BCEToward(a *Value, target float64) *Value {
	ar, ac := a.data.Dims()
	n := float64(ar * ac)
	p := raw(a.data)
	var loss float64
	for _, v := range p {
		v = clamp(v, bceEps, 1-bceEps)
		loss -= target*math.Log(v) + (1-target)*math.Log(1-v)
	}
	data := mat.NewDense(1, 1, []float64{loss / n})

	return child(data, func(out *Value) {
		g := out.grad.At(0, 0)
		grads := make([]float64, len(p))
		for i, v := range p {
			v = clamp(v, bceEps, 1-bceEps)
			grads[i] = g * (v - target) / (v * (1 - v)) / n
		}
		a.accumulate(mat.NewDense(ar, ac, grads))
	}, a)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}

	return v
}
