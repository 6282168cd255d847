package gcn

import (
	"math"

	"github.com/vantorre/dtlink/tensor"
)

// Adam defaults, matching the customary beta/epsilon values.
const (
	DefaultBeta1 = 0.9
	DefaultBeta2 = 0.999
	DefaultEps   = 1e-8
)

// Adam is a standard Adam optimizer over tensor parameters. Moment
// buffers are keyed by parameter identity and allocated lazily.
type Adam struct {
	params []*tensor.Value
	lr     float64
	beta1  float64
	beta2  float64
	eps    float64
	t      int

	m map[*tensor.Value][]float64
	v map[*tensor.Value][]float64
}

// NewAdam builds an optimizer over params with learning rate lr and
// default betas/epsilon.
func NewAdam(params []*tensor.Value, lr float64) *Adam {
	return &Adam{
		params: params,
		lr:     lr,
		beta1:  DefaultBeta1,
		beta2:  DefaultBeta2,
		eps:    DefaultEps,
		m:      make(map[*tensor.Value][]float64, len(params)),
		v:      make(map[*tensor.Value][]float64, len(params)),
	}
}

// Step applies one bias-corrected Adam update from the accumulated
// gradients. Parameters with no gradient (never touched by the tape
// this epoch) are skipped.
func (o *Adam) Step() {
	o.t++
	c1 := 1 - math.Pow(o.beta1, float64(o.t))
	c2 := 1 - math.Pow(o.beta2, float64(o.t))

	for _, p := range o.params {
		grad := p.Grad()
		if grad == nil {
			continue
		}
		g := grad.RawMatrix().Data
		m, ok := o.m[p]
		if !ok {
			m = make([]float64, len(g))
			o.m[p] = m
			o.v[p] = make([]float64, len(g))
		}
		v := o.v[p]

		data := make([]float64, len(g))
		copy(data, p.Data())
		for i := range g {
			m[i] = o.beta1*m[i] + (1-o.beta1)*g[i]
			v[i] = o.beta2*v[i] + (1-o.beta2)*g[i]*g[i]
			mHat := m[i] / c1
			vHat := v[i] / c2
			data[i] -= o.lr * mHat / (math.Sqrt(vHat) + o.eps)
		}
		p.SetData(data)
	}
}

// ZeroGrad clears every parameter gradient in place. Call after Step:
// the tape accumulates, it does not overwrite.
func (o *Adam) ZeroGrad() {
	for _, p := range o.params {
		p.ZeroGrad()
	}
}
