package trainer

import "math"

// RunState is the best-tracking state machine of one run. It is owned
// by the orchestrator and mutated only at epoch boundaries.
type RunState struct {
	BestVal   float64
	BestTest  float64
	BestEpoch int
	Epoch     int

	improved bool
}

// NewRunState returns the state of a fresh run: any first validation
// result counts as an improvement.
func NewRunState() *RunState {
	return &RunState{BestVal: math.Inf(-1)}
}

// Record observes epoch's validation metric and reports whether it
// strictly improves the best seen so far, updating BestVal when it
// does. BestTest is set by the caller after the conditional test pass.
func (s *RunState) Record(epoch int, val float64) bool {
	s.Epoch = epoch
	s.improved = val > s.BestVal
	if s.improved {
		s.BestVal = val
	}

	return s.improved
}

// ShouldStop applies the patience bookkeeping for the epoch last given
// to Record and reports whether the run must terminate.
//
// Legacy mode follows the reference ordering: the check is reachable
// only from an improving epoch after the first, and a surviving check
// resets BestEpoch to the current epoch, so consecutive epochs can
// never accumulate a gap of patience.
func (s *RunState) ShouldStop(mode PatienceMode, patience int) bool {
	if mode == PatienceStrict {
		if s.improved {
			s.BestEpoch = s.Epoch

			return false
		}

		return s.Epoch-s.BestEpoch >= patience
	}

	if !s.improved {
		return false
	}
	if s.Epoch > 1 && s.Epoch-s.BestEpoch >= patience {
		return true
	}
	s.BestEpoch = s.Epoch

	return false
}

// EpochStats records one epoch of one run.
type EpochStats struct {
	Epoch int     `json:"epoch"`
	Loss  float64 `json:"loss"`
	Val   float64 `json:"val"`

	// Test holds the test metric when TestEvaluated is true; the test
	// split is only scored on strictly improving epochs.
	Test          float64 `json:"test,omitempty"`
	TestEvaluated bool    `json:"test_evaluated"`
}

// RunRecord summarizes one completed run.
type RunRecord struct {
	Run       int          `json:"run"`
	BestVal   float64      `json:"best_val"`
	BestTest  float64      `json:"best_test"`
	BestEpoch int          `json:"best_epoch"`
	Epochs    int          `json:"epochs"`
	Stopped   bool         `json:"stopped"`
	History   []EpochStats `json:"history"`
}
