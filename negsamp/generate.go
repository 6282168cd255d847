package negsamp

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/vantorre/dtlink/dtgraph"
)

// BuildEvalSet precomputes k negative destinations for every positive
// edge of an evaluation sequence.
//
// Negatives for a positive at snapshot t are drawn first from the pool
// of destinations observed strictly before t (historical negatives),
// excluding the true destination, and topped up with uniform draws
// when the pool is too small. The pool is advanced with each
// snapshot's own positives after its records are emitted.
func BuildEvalSet(seq *dtgraph.Sequence, numNodes, k int, rng *rand.Rand) ([]EvalRecord, error) {
	if seq == nil || numNodes < 2 || k < 1 {
		return nil, fmt.Errorf("negsamp: cannot build eval set over %d nodes with k=%d", numNodes, k)
	}
	if rng == nil {
		return nil, errors.New("negsamp: rand source is nil")
	}

	seen := make(map[dtgraph.NodeID]struct{})
	var pool []dtgraph.NodeID

	var records []EvalRecord
	for i := 0; i < seq.Len(); i++ {
		idx := seq.Snapshot(i).Index
		positives := seq.Original(i)

		for _, e := range positives {
			neg := drawNegatives(e.Dst, pool, numNodes, k, rng)
			records = append(records, EvalRecord{Src: e.Src, Dst: e.Dst, T: idx, Neg: neg})
		}

		for _, e := range positives {
			if _, ok := seen[e.Dst]; !ok {
				seen[e.Dst] = struct{}{}
				pool = append(pool, e.Dst)
			}
		}
	}

	return records, nil
}

// drawNegatives picks k distinct destinations, historical pool first.
func drawNegatives(dst dtgraph.NodeID, pool []dtgraph.NodeID, numNodes, k int, rng *rand.Rand) []dtgraph.NodeID {
	picked := map[dtgraph.NodeID]struct{}{dst: {}}
	neg := make([]dtgraph.NodeID, 0, k)

	perm := rng.Perm(len(pool))
	for _, j := range perm {
		if len(neg) == k {
			break
		}
		n := pool[j]
		if _, ok := picked[n]; ok {
			continue
		}
		picked[n] = struct{}{}
		neg = append(neg, n)
	}

	// Uniform top-up; bail out once every node is taken.
	for len(neg) < k && len(picked) < numNodes {
		n := dtgraph.NodeID(rng.Intn(numNodes))
		if _, ok := picked[n]; ok {
			continue
		}
		picked[n] = struct{}{}
		neg = append(neg, n)
	}

	return neg
}
