package dataset

import (
	"errors"

	"github.com/vantorre/dtlink/dtgraph"
)

// Sentinel errors for loading and discretization.
var (
	// ErrBadFormat indicates a malformed event record.
	ErrBadFormat = errors.New("dataset: malformed event record")

	// ErrNoEvents indicates an empty event stream.
	ErrNoEvents = errors.New("dataset: no events")

	// ErrBadTimeScale indicates an unknown time-scale name.
	ErrBadTimeScale = errors.New("dataset: unknown time scale")

	// ErrBadFraction indicates invalid split fractions.
	ErrBadFraction = errors.New("dataset: invalid split fractions")
)

// Event is one timestamped interaction: a directed edge observed at a
// unix timestamp (seconds).
type Event struct {
	Src dtgraph.NodeID `json:"src"`
	Dst dtgraph.NodeID `json:"dst"`
	Ts  int64          `json:"ts"`
}

// TimeScale names the bucketing granularity for discretization.
type TimeScale string

// Supported time scales.
const (
	ScaleHourly  TimeScale = "hourly"
	ScaleDaily   TimeScale = "daily"
	ScaleWeekly  TimeScale = "weekly"
	ScaleMonthly TimeScale = "monthly"
)

// seconds returns the bucket width of a time scale.
func (s TimeScale) seconds() (int64, error) {
	switch s {
	case ScaleHourly:
		return 3600, nil
	case ScaleDaily:
		return 86400, nil
	case ScaleWeekly:
		return 7 * 86400, nil
	case ScaleMonthly:
		return 30 * 86400, nil
	default:
		return 0, ErrBadTimeScale
	}
}

// Splits bundles the three per-split sequences of one dataset.
type Splits struct {
	NumNodes int
	Train    *dtgraph.Sequence
	Val      *dtgraph.Sequence
	Test     *dtgraph.Sequence
}

// Default discretization parameters.
const (
	DefaultTimeScale = ScaleDaily
	DefaultTrainFrac = 0.70
	DefaultValFrac   = 0.15
)

// Option configures loading and discretization.
type Option func(*config)

type config struct {
	scale     TimeScale
	buckets   int // >0 overrides scale with a fixed bucket count
	trainFrac float64
	valFrac   float64
	attrDim   int
}

func defaultConfig() config {
	return config{
		scale:     DefaultTimeScale,
		trainFrac: DefaultTrainFrac,
		valFrac:   DefaultValFrac,
	}
}

// WithTimeScale buckets timestamps at the named granularity.
func WithTimeScale(scale TimeScale) Option {
	return func(c *config) { c.scale = scale }
}

// WithBuckets discretizes into at most n equal-width buckets spanning
// the observed time range, overriding the time scale. Useful when the
// stream's natural granularity is unknown.
func WithBuckets(n int) Option {
	return func(c *config) { c.buckets = n }
}

// WithSplitFractions sets the chronological train/val fractions; test
// receives the remainder.
func WithSplitFractions(train, val float64) Option {
	return func(c *config) {
		c.trainFrac = train
		c.valFrac = val
	}
}

// WithEdgeAttributes declares attribute channels on the stream. Any
// dim > 0 is rejected downstream with dtgraph.ErrEdgeAttrsUnsupported;
// the option exists so callers fail fast instead of silently losing
// attribute data.
func WithEdgeAttributes(dim int) Option {
	return func(c *config) { c.attrDim = dim }
}
