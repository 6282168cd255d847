package tensor

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Sentinel errors for tape construction and backpropagation.
var (
	// ErrShapeMismatch indicates operand dimensions incompatible with the op.
	ErrShapeMismatch = errors.New("tensor: shape mismatch")

	// ErrNotScalar indicates Backward was called on a non-1x1 Value.
	ErrNotScalar = errors.New("tensor: backward requires a 1x1 scalar")

	// ErrRowOutOfRange indicates a GatherRows index outside the row range.
	ErrRowOutOfRange = errors.New("tensor: row index out of range")
)

// Value is one node of the computation tape: a dense matrix plus the
// bookkeeping needed to backpropagate through the op that produced it.
type Value struct {
	data    *mat.Dense
	grad    *mat.Dense // lazily allocated on first accumulation
	tracked bool
	parents []*Value
	back    func() // accumulates this node's grad into parents; nil for leaves
}

// NewConst returns an untracked leaf holding a copy of data.
// data is interpreted row-major; len(data) must equal r*c.
func NewConst(r, c int, data []float64) *Value {
	return &Value{data: newDense(r, c, data)}
}

// NewParam returns a tracked leaf (a trainable parameter) holding a
// copy of data.
func NewParam(r, c int, data []float64) *Value {
	return &Value{data: newDense(r, c, data), tracked: true}
}

// Zeros returns an untracked leaf of shape r x c filled with zeros.
func Zeros(r, c int) *Value {
	return &Value{data: mat.NewDense(r, c, nil)}
}

// newDense copies data into a fresh row-major Dense (stride == cols).
func newDense(r, c int, data []float64) *mat.Dense {
	if data == nil {
		return mat.NewDense(r, c, nil)
	}
	if len(data) != r*c {
		panic(fmt.Sprintf("tensor: %d values for %dx%d matrix", len(data), r, c))
	}
	cp := make([]float64, len(data))
	copy(cp, data)

	return mat.NewDense(r, c, cp)
}

// Dims returns the matrix dimensions.
func (v *Value) Dims() (r, c int) { return v.data.Dims() }

// At returns the element at row i, column j.
func (v *Value) At(i, j int) float64 { return v.data.At(i, j) }

// Scalar returns the single element of a 1x1 Value.
func (v *Value) Scalar() (float64, error) {
	if r, c := v.data.Dims(); r != 1 || c != 1 {
		return 0, fmt.Errorf("%w: have %dx%d", ErrNotScalar, r, c)
	}

	return v.data.At(0, 0), nil
}

// Data returns the raw row-major backing slice. Callers must treat it
// as read-only; mutating it mid-tape invalidates gradients.
func (v *Value) Data() []float64 { return raw(v.data) }

// Dense returns the underlying matrix. Read-only by the same contract
// as Data.
func (v *Value) Dense() *mat.Dense { return v.data }

// Tracked reports whether this Value participates in autodiff: true
// for parameters and for any op output with a tracked ancestor.
func (v *Value) Tracked() bool { return v.tracked }

// Grad returns the accumulated gradient, or nil if none has been
// propagated to this Value.
func (v *Value) Grad() *mat.Dense { return v.grad }

// ZeroGrad clears the accumulated gradient in place.
func (v *Value) ZeroGrad() {
	if v.grad != nil {
		v.grad.Zero()
	}
}

// Detach returns an untracked leaf with a copied payload. The result
// carries no parents, no backward closure, and no gradient: the tape
// behind v is unreachable from it. Use this before advancing recurrent
// state across evaluation-only snapshots.
func (v *Value) Detach() *Value {
	r, c := v.data.Dims()

	return &Value{data: newDense(r, c, raw(v.data))}
}

// SetData overwrites the payload in place from a row-major slice.
// Only meaningful for leaves (optimizer updates); panics on shape
// mismatch.
func (v *Value) SetData(data []float64) {
	r, c := v.data.Dims()
	if len(data) != r*c {
		panic(fmt.Sprintf("tensor: SetData %d values for %dx%d matrix", len(data), r, c))
	}
	copy(raw(v.data), data)
}

// ensureGrad allocates the gradient buffer on first use.
func (v *Value) ensureGrad() *mat.Dense {
	if v.grad == nil {
		r, c := v.data.Dims()
		v.grad = mat.NewDense(r, c, nil)
	}

	return v.grad
}

// accumulate adds g into the gradient buffer.
func (v *Value) accumulate(g mat.Matrix) {
	grad := v.ensureGrad()
	grad.Add(grad, g)
}

// raw returns the contiguous row-major slice behind d. Every Dense in
// this package is allocated via mat.NewDense, so stride == cols holds.
func raw(d *mat.Dense) []float64 {
	rm := d.RawMatrix()
	if rm.Stride != rm.Cols {
		// Non-contiguous matrix from outside the package; copy row by row.
		r, c := d.Dims()
		out := make([]float64, r*c)
		for i := 0; i < r; i++ {
			copy(out[i*c:(i+1)*c], rm.Data[i*rm.Stride:i*rm.Stride+c])
		}

		return out
	}

	return rm.Data
}

// Backward runs reverse-mode differentiation from a 1x1 scalar root,
// seeding d(root)/d(root) = 1 and accumulating gradients into every
// tracked Value on the tape. Calling it twice without clearing
// gradients doubles them, as in other tape-based frameworks.
func (v *Value) Backward() error {
	if r, c := v.data.Dims(); r != 1 || c != 1 {
		return fmt.Errorf("%w: have %dx%d", ErrNotScalar, r, c)
	}
	if !v.tracked {
		return nil // nothing on the tape requires gradients
	}

	order := topoSort(v)
	v.ensureGrad().Set(0, 0, 1)
	for i := len(order) - 1; i >= 0; i-- {
		if order[i].back != nil {
			order[i].back()
		}
	}

	return nil
}

// topoSort returns the tape reachable from root in topological order
// (parents before children), iteratively to keep deep unrolled
// sequences off the Go stack.
func topoSort(root *Value) []*Value {
	type frame struct {
		v    *Value
		next int
	}
	var (
		order   []*Value
		visited = map[*Value]struct{}{root: {}}
		stack   = []frame{{v: root}}
	)
	for len(stack) > 0 {
		f := &stack[len(stack)-1]
		if f.next < len(f.v.parents) {
			p := f.v.parents[f.next]
			f.next++
			if _, ok := visited[p]; !ok {
				visited[p] = struct{}{}
				stack = append(stack, frame{v: p})
			}
			continue
		}
		order = append(order, f.v)
		stack = stack[:len(stack)-1]
	}

	return order
}
