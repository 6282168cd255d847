package gcn_test

import (
	"math/rand"
	"testing"

	"github.com/vantorre/dtlink/dtgraph"
	"github.com/vantorre/dtlink/gcn"
)

func ringEdges(n int) []dtgraph.Edge {
	raw := make([]dtgraph.Edge, n)
	for i := 0; i < n; i++ {
		raw[i] = dtgraph.Edge{Src: dtgraph.NodeID(i), Dst: dtgraph.NodeID((i + 1) % n)}
	}

	return dtgraph.Symmetrize(raw)
}

// BenchmarkEvolveGCNO_Step measures one recurrent step over a
// 256-node ring.
func BenchmarkEvolveGCNO_Step(b *testing.B) {
	const n = 256
	enc, err := gcn.NewEvolveGCNO(n, 32, 32, rand.New(rand.NewSource(1)))
	if err != nil {
		b.Fatal(err)
	}
	edges := ringEdges(n)
	weights := make([]float64, len(edges))
	for i := range weights {
		weights[i] = 1
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if i%16 == 0 {
			enc.Reset() // keep the unrolled tape bounded
		}
		if _, err := enc.Step(edges, weights); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkNormalizedAdjacency measures dense adjacency assembly.
func BenchmarkNormalizedAdjacency(b *testing.B) {
	const n = 256
	edges := ringEdges(n)
	weights := make([]float64, len(edges))
	for i := range weights {
		weights[i] = 1
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := gcn.NormalizedAdjacency(n, edges, weights); err != nil {
			b.Fatal(err)
		}
	}
}
