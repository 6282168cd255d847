package negsamp

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
	"github.com/vantorre/dtlink/dtgraph"
)

// Sentinel errors for sampler misuse and missing data.
var (
	// ErrBadSplit indicates a split other than val or test.
	ErrBadSplit = errors.New("negsamp: unknown split")

	// ErrSplitNotLoaded indicates Query before LoadEvalSet.
	ErrSplitNotLoaded = errors.New("negsamp: eval set not loaded for split")

	// ErrQueryNotFound indicates no candidate set for the queried edge.
	ErrQueryNotFound = errors.New("negsamp: no negative set for query")
)

// Split names an evaluation split of the dataset.
type Split string

// Evaluation splits with precomputed negative sets.
const (
	SplitVal  Split = "val"
	SplitTest Split = "test"
)

func (s Split) valid() bool { return s == SplitVal || s == SplitTest }

// Uniform draws training-time negative destinations uniformly from
// the full node range. The source endpoint of the positive edge stays
// fixed; only destinations are resampled.
type Uniform struct {
	numNodes int
	rng      *rand.Rand
}

// NewUniform builds a uniform sampler over numNodes nodes drawing
// from rng.
func NewUniform(numNodes int, rng *rand.Rand) (*Uniform, error) {
	if numNodes <= 0 {
		return nil, fmt.Errorf("negsamp: %d nodes", numNodes)
	}
	if rng == nil {
		return nil, errors.New("negsamp: rand source is nil")
	}

	return &Uniform{numNodes: numNodes, rng: rng}, nil
}

// Destinations returns m uniformly random node ids, one negative
// destination per positive edge.
func (u *Uniform) Destinations(m int) []dtgraph.NodeID {
	out := make([]dtgraph.NodeID, m)
	for i := range out {
		out[i] = dtgraph.NodeID(u.rng.Intn(u.numNodes))
	}

	return out
}

// EvalRecord is one entry of a precomputed negative-set file: the
// positive edge (src, dst) at timestamp T and its negative candidate
// destinations.
type EvalRecord struct {
	Src dtgraph.NodeID   `json:"src"`
	Dst dtgraph.NodeID   `json:"dst"`
	T   int              `json:"t"`
	Neg []dtgraph.NodeID `json:"neg"`
}

// queryKey identifies one positive edge instance.
type queryKey struct {
	src, dst dtgraph.NodeID
	t        int
}

// Historical answers evaluation queries from precomputed per-split
// negative sets.
type Historical struct {
	sets map[Split]map[queryKey][]dtgraph.NodeID
}

// NewHistorical returns an empty historical sampler; call LoadEvalSet
// per split before querying.
func NewHistorical() *Historical {
	return &Historical{sets: make(map[Split]map[queryKey][]dtgraph.NodeID)}
}

// EvalSetPath returns the conventional negative-set filename for a
// dataset split: <dir>/<dataset>_<split>_ns.json.
func EvalSetPath(dir, dataset string, split Split) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s_ns.json", dataset, split))
}

// LoadEvalSet reads one split's negative sets from a JSON file and
// replaces any previously loaded data for that split.
func (h *Historical) LoadEvalSet(path string, split Split) error {
	if !split.valid() {
		return fmt.Errorf("%w: %q", ErrBadSplit, split)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("negsamp: reading eval set: %w", err)
	}
	var records []EvalRecord
	if err := sonic.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("negsamp: decoding eval set %s: %w", path, err)
	}

	set := make(map[queryKey][]dtgraph.NodeID, len(records))
	for _, r := range records {
		set[queryKey{src: r.Src, dst: r.Dst, t: r.T}] = r.Neg
	}
	h.sets[split] = set

	return nil
}

// Loaded reports whether a split has an eval set in memory.
func (h *Historical) Loaded(split Split) bool {
	_, ok := h.sets[split]

	return ok
}

// Query returns the negative destinations recorded for the positive
// edge (src, dst) at timestamp t in the given split.
func (h *Historical) Query(src, dst dtgraph.NodeID, t int, split Split) ([]dtgraph.NodeID, error) {
	if !split.valid() {
		return nil, fmt.Errorf("%w: %q", ErrBadSplit, split)
	}
	set, ok := h.sets[split]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSplitNotLoaded, split)
	}
	neg, ok := set[queryKey{src: src, dst: dst, t: t}]
	if !ok {
		return nil, fmt.Errorf("%w: (%d,%d) at t=%d in %q", ErrQueryNotFound, src, dst, t, split)
	}

	return neg, nil
}

// WriteEvalSet encodes records to path in the format LoadEvalSet
// reads. Offline tooling and tests use this to produce fixture sets.
func WriteEvalSet(path string, records []EvalRecord) error {
	data, err := sonic.Marshal(records)
	if err != nil {
		return fmt.Errorf("negsamp: encoding eval set: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("negsamp: writing eval set: %w", err)
	}

	return nil
}
