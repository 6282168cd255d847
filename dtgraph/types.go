// Package dtgraph: types, sentinel errors, and functional options for
// snapshot sequences. See doc.go for the package contract.
package dtgraph

import "errors"

// Sentinel errors for sequence construction and access.
var (
	// ErrEmptySequence indicates a sequence with zero snapshots.
	ErrEmptySequence = errors.New("dtgraph: empty snapshot sequence")

	// ErrUnorderedSnapshots indicates snapshot indices that are not
	// strictly increasing.
	ErrUnorderedSnapshots = errors.New("dtgraph: snapshot indices must be strictly increasing")

	// ErrNodeOutOfRange indicates an edge endpoint outside [0, NumNodes).
	ErrNodeOutOfRange = errors.New("dtgraph: node id out of range")

	// ErrOriginalMismatch indicates an original-edge view whose length
	// does not match the snapshot count.
	ErrOriginalMismatch = errors.New("dtgraph: original edges do not align with snapshots")

	// ErrEdgeAttrsUnsupported indicates per-edge attributes beyond the
	// default unit weight were requested. Attributes are an explicit
	// non-goal and fail fast instead of being dropped.
	ErrEdgeAttrsUnsupported = errors.New("dtgraph: edge attributes are not supported")
)

// NodeID identifies a node within a sequence. IDs are dense integers
// in [0, NumNodes); they double as row indices into embedding matrices.
type NodeID int64

// Edge is a single directed edge between two nodes.
type Edge struct {
	Src NodeID
	Dst NodeID
}

// Snapshot is the edge set observed at one discrete time step.
type Snapshot struct {
	// Index is the discrete time index of this snapshot within its
	// sequence. Indices are strictly increasing but need not be
	// contiguous (empty buckets may be skipped by loaders).
	Index int

	// Edges are the message edges of this snapshot: the edges fed to
	// the encoder when advancing recurrent state.
	Edges []Edge
}

// UnitWeights returns a weight of 1.0 per message edge. This is the
// only supported edge weighting; see ErrEdgeAttrsUnsupported.
func (s *Snapshot) UnitWeights() []float64 {
	w := make([]float64, len(s.Edges))
	for i := range w {
		w[i] = 1.0
	}

	return w
}

// Option configures Sequence construction.
type Option func(*seqConfig)

// seqConfig collects option state prior to validation.
type seqConfig struct {
	original [][]Edge
	attrDim  int
}

// WithOriginalEdges attaches the raw directed evaluation edges,
// parallel to the snapshot slice. Validation/test sequences carry
// these; training sequences usually do not.
func WithOriginalEdges(original [][]Edge) Option {
	return func(c *seqConfig) { c.original = original }
}

// WithEdgeAttributes declares that edges carry dim attribute channels
// beyond the unit weight. Any dim > 0 makes NewSequence fail with
// ErrEdgeAttrsUnsupported: the pipeline has no semantics for edge
// attributes yet, and proceeding would silently train on wrong inputs.
func WithEdgeAttributes(dim int) Option {
	return func(c *seqConfig) { c.attrDim = dim }
}
