package gcn

import (
	"errors"
	"fmt"
	"math"

	"github.com/vantorre/dtlink/dtgraph"
	"github.com/vantorre/dtlink/tensor"
)

// Sentinel errors for encoder/decoder construction.
var (
	// ErrBadDimension indicates a non-positive layer size or node count.
	ErrBadDimension = errors.New("gcn: dimension must be positive")

	// ErrNilRand indicates a constructor called without a random source.
	ErrNilRand = errors.New("gcn: rand source is nil")
)

// NormalizedAdjacency assembles the symmetric-normalized adjacency
// with self-loops,
//
//	A^ = D^{-1/2} (A + I) D^{-1/2},
//
// over n nodes from message edges and per-edge weights, as an
// untracked dense Value. weights may be nil for unit weights; when
// present it must align with edges. Parallel edges accumulate.
//
// Snapshots with no edges reduce to the identity: recurrent state
// still advances, just without neighborhood mixing.
//
// Complexity: O(n^2) space, O(n^2 + E) time. Dense is deliberate: the
// encoders multiply A^ into n x d feature matrices anyway, and the
// datasets this targets are snapshot-sized, not web-scale.
func NormalizedAdjacency(n int, edges []dtgraph.Edge, weights []float64) (*tensor.Value, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d nodes", ErrBadDimension, n)
	}
	if weights != nil && len(weights) != len(edges) {
		return nil, fmt.Errorf("%w: %d weights for %d edges", dtgraph.ErrOriginalMismatch, len(weights), len(edges))
	}

	a := make([]float64, n*n)
	for i := 0; i < n; i++ {
		a[i*n+i] = 1 // self-loop
	}
	for i, e := range edges {
		if e.Src < 0 || e.Src >= dtgraph.NodeID(n) || e.Dst < 0 || e.Dst >= dtgraph.NodeID(n) {
			return nil, fmt.Errorf("%w: edge (%d,%d) with %d nodes", dtgraph.ErrNodeOutOfRange, e.Src, e.Dst, n)
		}
		w := 1.0
		if weights != nil {
			w = weights[i]
		}
		a[int(e.Src)*n+int(e.Dst)] += w
	}

	// Symmetric normalization by the rooted degree.
	deg := make([]float64, n)
	for i := 0; i < n; i++ {
		var d float64
		for j := 0; j < n; j++ {
			d += a[i*n+j]
		}
		deg[i] = 1 / math.Sqrt(d)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			a[i*n+j] *= deg[i] * deg[j]
		}
	}

	return tensor.NewConst(n, n, a), nil
}
