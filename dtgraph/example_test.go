package dtgraph_test

import (
	"fmt"

	"github.com/vantorre/dtlink/dtgraph"
)

// ExampleSymmetrize shows the message-edge view of a raw directed
// snapshot: mirrored, deduplicated, self-loops dropped, sorted.
func ExampleSymmetrize() {
	raw := []dtgraph.Edge{
		{Src: 0, Dst: 1},
		{Src: 1, Dst: 0}, // mirror of the first
		{Src: 2, Dst: 2}, // self-loop, dropped
		{Src: 3, Dst: 1},
	}

	for _, e := range dtgraph.Symmetrize(raw) {
		fmt.Printf("%d->%d\n", e.Src, e.Dst)
	}
	// Output:
	// 0->1
	// 1->0
	// 1->3
	// 3->1
}

// ExampleNewSequence builds a two-snapshot sequence carrying the raw
// directed edges as the evaluation view.
func ExampleNewSequence() {
	raw := [][]dtgraph.Edge{
		{{Src: 0, Dst: 1}},
		{{Src: 1, Dst: 2}},
	}
	snaps := []dtgraph.Snapshot{
		{Index: 0, Edges: dtgraph.Symmetrize(raw[0])},
		{Index: 1, Edges: dtgraph.Symmetrize(raw[1])},
	}

	seq, err := dtgraph.NewSequence(3, snaps, dtgraph.WithOriginalEdges(raw))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println("snapshots:", seq.Len())
	fmt.Println("message edges at t=1:", len(seq.Snapshot(1).Edges))
	fmt.Println("original edges at t=1:", len(seq.Original(1)))
	// Output:
	// snapshots: 2
	// message edges at t=1: 2
	// original edges at t=1: 1
}
