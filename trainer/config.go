package trainer

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/vantorre/dtlink/dataset"
	"github.com/vantorre/dtlink/dtgraph"
	"github.com/vantorre/dtlink/evalkit"
	"github.com/vantorre/dtlink/negsamp"
	"github.com/vantorre/dtlink/tensor"
)

// Sentinel errors for configuration and orchestration.
var (
	// ErrBadConfig indicates an invalid run configuration.
	ErrBadConfig = errors.New("trainer: invalid run configuration")

	// ErrNilComponent indicates a missing collaborator.
	ErrNilComponent = errors.New("trainer: nil component")

	// ErrNoPositiveEdges indicates a training split whose snapshots
	// carry no edges at all.
	ErrNoPositiveEdges = errors.New("trainer: no positive edges in training split")
)

// Encoder is the recurrent graph encoder the orchestrator advances one
// snapshot at a time. Step consumes an edge set with per-edge weights
// and returns the node-embedding matrix. Reset restores the initial
// state for a fresh epoch; Detach severs the state's gradient history.
type Encoder interface {
	Step(edges []dtgraph.Edge, weights []float64) (*tensor.Value, error)
	Reset()
	Detach()
	Params() []*tensor.Value
}

// Decoder scores candidate edges against an embedding matrix. Score
// returns one score per (src[i], dst[i]) pair as a column vector.
type Decoder interface {
	Score(emb *tensor.Value, src, dst []dtgraph.NodeID) (*tensor.Value, error)
	SetTraining(train bool)
	Params() []*tensor.Value
}

// EvalSampler answers evaluation-time negative queries: for one
// positive edge at snapshot index t it returns the precomputed
// negative destination candidates.
type EvalSampler interface {
	Query(src, dst dtgraph.NodeID, t int, split negsamp.Split) ([]dtgraph.NodeID, error)
}

// Factory builds a fresh encoder/decoder pair from a seeded source.
// Run invokes it once per run so repetitions start from independent,
// reproducible initializations.
type Factory func(rng *rand.Rand) (Encoder, Decoder, error)

// Loss names the training criterion applied to decoder outputs.
type Loss string

// Supported losses.
const (
	LossMSE Loss = "mse"
	LossBCE Loss = "bce"
)

// PatienceMode selects the early-stopping bookkeeping.
type PatienceMode string

const (
	// PatienceLegacy resets the best epoch on every improvement,
	// reproducing the reference behavior in which early stopping is
	// effectively unreachable.
	PatienceLegacy PatienceMode = "legacy"

	// PatienceStrict stops after the configured number of consecutive
	// non-improving epochs.
	PatienceStrict PatienceMode = "strict"
)

// RunConfig holds the fixed inputs of a training run.
type RunConfig struct {
	Seed         int64             `yaml:"seed"`
	Runs         int               `yaml:"runs"`
	LR           float64           `yaml:"lr"`
	MaxEpochs    int               `yaml:"max_epochs"`
	Patience     int               `yaml:"patience"`
	PatienceMode PatienceMode      `yaml:"patience_mode"`
	Loss         Loss              `yaml:"loss"`
	Metric       evalkit.Metric    `yaml:"metric"`
	Dataset      string            `yaml:"dataset"`
	TimeScale    dataset.TimeScale `yaml:"time_scale"`

	// Track emits one tracking log event per epoch, standing in for an
	// external experiment tracker.
	Track bool `yaml:"track"`
}

// DefaultRunConfig returns the reference hyperparameters.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Seed:         1,
		Runs:         1,
		LR:           1e-3,
		MaxEpochs:    50,
		Patience:     50,
		PatienceMode: PatienceLegacy,
		Loss:         LossMSE,
		Metric:       evalkit.MetricMRR,
		TimeScale:    dataset.DefaultTimeScale,
	}
}

// Validate checks the configuration for internal consistency.
func (c RunConfig) Validate() error {
	switch {
	case c.Runs < 1:
		return fmt.Errorf("%w: runs=%d", ErrBadConfig, c.Runs)
	case c.LR <= 0:
		return fmt.Errorf("%w: lr=%v", ErrBadConfig, c.LR)
	case c.MaxEpochs < 1:
		return fmt.Errorf("%w: max_epochs=%d", ErrBadConfig, c.MaxEpochs)
	case c.Patience < 1:
		return fmt.Errorf("%w: patience=%d", ErrBadConfig, c.Patience)
	}
	switch c.PatienceMode {
	case PatienceLegacy, PatienceStrict:
	default:
		return fmt.Errorf("%w: patience_mode=%q", ErrBadConfig, c.PatienceMode)
	}
	switch c.Loss {
	case LossMSE, LossBCE:
	default:
		return fmt.Errorf("%w: loss=%q", ErrBadConfig, c.Loss)
	}

	return nil
}

// lossToward resolves the configured criterion.
func (c RunConfig) lossToward() func(*tensor.Value, float64) *tensor.Value {
	if c.Loss == LossBCE {
		return tensor.BCEToward
	}

	return tensor.MSEToward
}
