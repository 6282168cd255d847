// Package evalkit scores ranking quality for link prediction: one
// positive candidate against a batch of negative candidates, reduced
// to MRR or hits@K, plus the mean aggregation used per epoch.
//
// The rank convention follows the temporal-graph-benchmark evaluator:
// the positive's rank is the average of its optimistic rank (ties
// resolved in its favor) and pessimistic rank (ties against it), so a
// decoder that scores everything equally earns the middle rank rather
// than a free win.
//
// Errors:
//
//	ErrUnknownMetric - metric name not recognized.
//	ErrNoNegatives   - evaluation query with an empty candidate set.
//	ErrNoResults     - mean over an empty result list.
package evalkit

import (
	"errors"
	"fmt"

	"github.com/viterin/vek"
)

// Sentinel errors for metric selection and degenerate inputs.
var (
	// ErrUnknownMetric indicates an unrecognized metric name.
	ErrUnknownMetric = errors.New("evalkit: unknown metric")

	// ErrNoNegatives indicates a query with no negative candidates.
	ErrNoNegatives = errors.New("evalkit: empty negative candidate set")

	// ErrNoResults indicates aggregation over zero results. A mean of
	// nothing is undefined; callers must not paper over empty epochs.
	ErrNoResults = errors.New("evalkit: no results to aggregate")
)

// Metric names a ranking metric.
type Metric string

// Supported metrics.
const (
	MetricMRR     Metric = "mrr"
	MetricHits1   Metric = "hits@1"
	MetricHits10  Metric = "hits@10"
	MetricHits100 Metric = "hits@100"
)

// Evaluator computes one ranking metric value per query.
type Evaluator struct {
	metric Metric
	hitsK  int // 0 for MRR
}

// New returns an evaluator for the named metric.
func New(metric Metric) (*Evaluator, error) {
	switch metric {
	case MetricMRR:
		return &Evaluator{metric: metric}, nil
	case MetricHits1:
		return &Evaluator{metric: metric, hitsK: 1}, nil
	case MetricHits10:
		return &Evaluator{metric: metric, hitsK: 10}, nil
	case MetricHits100:
		return &Evaluator{metric: metric, hitsK: 100}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMetric, metric)
	}
}

// Metric returns the metric this evaluator computes.
func (e *Evaluator) Metric() Metric { return e.metric }

// Eval scores one query: the positive candidate's score against the
// negative candidates' scores. Returns the reciprocal averaged rank
// for MRR, or 1/0 membership for hits@K.
func (e *Evaluator) Eval(pos float64, neg []float64) (float64, error) {
	if len(neg) == 0 {
		return 0, ErrNoNegatives
	}

	var above, tied int
	for _, n := range neg {
		switch {
		case n > pos:
			above++
		case n == pos:
			tied++
		}
	}
	// Optimistic rank 1+above, pessimistic 1+above+tied; average.
	rank := float64(1+above) + float64(tied)/2

	if e.hitsK > 0 {
		if rank <= float64(e.hitsK) {
			return 1, nil
		}

		return 0, nil
	}

	return 1 / rank, nil
}

// Mean reduces a per-epoch result list to one scalar.
func Mean(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrNoResults
	}

	return vek.Mean(values), nil
}
