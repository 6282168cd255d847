// Package tensor implements a small reverse-mode automatic
// differentiation layer over gonum dense matrices.
//
// A Value wraps a matrix together with an optional gradient and the
// backward closure that produced it. Operators (MatMul, Add, Hadamard,
// ReLU, Sigmoid, ...) build the computation tape implicitly; calling
// Backward on a 1x1 scalar Value propagates gradients to every tracked
// leaf reachable from it.
//
// Design points:
//
//   - Tracking is infectious: an op output is tracked iff any input is.
//     Constants (NewConst) never accumulate gradients; parameters
//     (NewParam) always do.
//   - Detach returns an untracked leaf with a copied payload, severing
//     the tape. Recurrent state carried across evaluation snapshots
//     must be detached so no gradient history is retained.
//   - Storage is row-major contiguous (stride == cols); elementwise
//     kernels run on the raw slices via viterin/vek.
//   - Single-goroutine use only. The training loop threads state
//     linearly; nothing here locks.
//
// Errors:
//
//	ErrShapeMismatch - operand dimensions incompatible with the op.
//	ErrNotScalar     - Backward called on a non-1x1 Value.
//	ErrRowOutOfRange - GatherRows index outside the row range.
package tensor
