package trainer

import (
	"fmt"
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/vantorre/dtlink/dataset"
	"github.com/vantorre/dtlink/dtgraph"
	"github.com/vantorre/dtlink/evalkit"
	"github.com/vantorre/dtlink/gcn"
	"github.com/vantorre/dtlink/negsamp"
	"github.com/vantorre/dtlink/tensor"
)

// Model bundles one run's trainable components. Build one per run so
// repetitions do not share parameters or sampler state.
type Model struct {
	Encoder   Encoder
	Decoder   Decoder
	Negatives *negsamp.Uniform
	Optimizer *gcn.Adam
}

// Trainer orchestrates runs over one dataset's splits.
type Trainer struct {
	cfg     RunConfig
	data    *dataset.Splits
	factory Factory
	sampler EvalSampler
	eval    *evalkit.Evaluator
	loss    func(*tensor.Value, float64) *tensor.Value
	log     zerolog.Logger
}

// Option configures a Trainer.
type Option func(*Trainer)

// WithLogger routes run and epoch events to log.
func WithLogger(log zerolog.Logger) Option {
	return func(t *Trainer) { t.log = log }
}

// New assembles a trainer. The factory is invoked once per run with a
// run-specific seeded source; sampler answers evaluation-time negative
// queries for both the val and test splits.
func New(cfg RunConfig, data *dataset.Splits, factory Factory, sampler EvalSampler, opts ...Option) (*Trainer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if data == nil || data.Train == nil || data.Val == nil || data.Test == nil {
		return nil, fmt.Errorf("%w: dataset splits", ErrNilComponent)
	}
	if factory == nil {
		return nil, fmt.Errorf("%w: model factory", ErrNilComponent)
	}
	if sampler == nil {
		return nil, fmt.Errorf("%w: eval sampler", ErrNilComponent)
	}
	ev, err := evalkit.New(cfg.Metric)
	if err != nil {
		return nil, err
	}

	t := &Trainer{
		cfg:     cfg,
		data:    data,
		factory: factory,
		sampler: sampler,
		eval:    ev,
		loss:    cfg.lossToward(),
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}

	return t, nil
}

// NewModel wires a fresh encoder/decoder pair with its training-time
// negative sampler and optimizer.
func NewModel(enc Encoder, dec Decoder, numNodes int, lr float64, rng *rand.Rand) (*Model, error) {
	if enc == nil || dec == nil {
		return nil, fmt.Errorf("%w: encoder/decoder", ErrNilComponent)
	}
	uni, err := negsamp.NewUniform(numNodes, rng)
	if err != nil {
		return nil, err
	}
	params := append(enc.Params(), dec.Params()...)

	return &Model{
		Encoder:   enc,
		Decoder:   dec,
		Negatives: uni,
		Optimizer: gcn.NewAdam(params, lr),
	}, nil
}

// Run executes the configured number of runs sequentially and returns
// one record per run.
func (t *Trainer) Run() ([]RunRecord, error) {
	if t.cfg.PatienceMode == PatienceLegacy {
		t.log.Warn().
			Int("patience", t.cfg.Patience).
			Msg("legacy patience mode: best epoch resets on improvement, early stopping unreachable")
	}

	records := make([]RunRecord, 0, t.cfg.Runs)
	for run := 0; run < t.cfg.Runs; run++ {
		rec, err := t.runOnce(run)
		if err != nil {
			return records, fmt.Errorf("run %d: %w", run, err)
		}
		records = append(records, rec)
		t.log.Info().
			Int("run", rec.Run).
			Float64("best_val", rec.BestVal).
			Float64("best_test", rec.BestTest).
			Int("best_epoch", rec.BestEpoch).
			Int("epochs", rec.Epochs).
			Bool("stopped", rec.Stopped).
			Msg("run finished")
	}

	return records, nil
}

// runOnce trains one model to completion.
func (t *Trainer) runOnce(run int) (RunRecord, error) {
	rng := rand.New(rand.NewSource(t.cfg.Seed + int64(run)))
	enc, dec, err := t.factory(rng)
	if err != nil {
		return RunRecord{}, err
	}
	m, err := NewModel(enc, dec, t.data.NumNodes, t.cfg.LR, rng)
	if err != nil {
		return RunRecord{}, err
	}

	st := NewRunState()
	rec := RunRecord{Run: run}
	for epoch := 1; epoch <= t.cfg.MaxEpochs; epoch++ {
		loss, emb, err := t.TrainEpoch(m)
		if err != nil {
			return rec, fmt.Errorf("epoch %d: %w", epoch, err)
		}
		val, emb, err := t.EvaluateSplit(m, emb, t.data.Val, negsamp.SplitVal)
		if err != nil {
			return rec, fmt.Errorf("epoch %d: val: %w", epoch, err)
		}

		stats := EpochStats{Epoch: epoch, Loss: loss, Val: val}
		if st.Record(epoch, val) {
			test, _, err := t.EvaluateSplit(m, emb, t.data.Test, negsamp.SplitTest)
			if err != nil {
				return rec, fmt.Errorf("epoch %d: test: %w", epoch, err)
			}
			st.BestTest = test
			stats.Test, stats.TestEvaluated = test, true
		}
		rec.History = append(rec.History, stats)

		ev := t.log.Debug()
		if t.cfg.Track {
			ev = t.log.Info().Str("event", "track")
		}
		ev.Int("run", run).
			Int("epoch", epoch).
			Float64("loss", loss).
			Float64("val", val).
			Msg("epoch")

		if st.ShouldStop(t.cfg.PatienceMode, t.cfg.Patience) {
			rec.Stopped = true

			break
		}
	}

	rec.BestVal = st.BestVal
	rec.BestTest = st.BestTest
	rec.BestEpoch = st.BestEpoch
	rec.Epochs = st.Epoch

	return rec, nil
}

// TrainEpoch runs one training pass over the train split: the encoder
// advances on the shifted feed (snapshot 0 on itself, t>0 on t-1's
// edges), each snapshot's positives are scored against one uniform
// negative destination per edge, and the loss accumulated across the
// whole sequence backs a single optimizer step. It returns the epoch
// loss and the final embedding, which seeds the validation pass.
func (t *Trainer) TrainEpoch(m *Model) (float64, *tensor.Value, error) {
	m.Encoder.Reset()
	m.Decoder.SetTraining(true)

	seq := t.data.Train
	var (
		total *tensor.Value
		emb   *tensor.Value
		err   error
	)
	for i := 0; i < seq.Len(); i++ {
		feed := seq.Snapshot(i)
		if i > 0 {
			feed = seq.Snapshot(i - 1)
		}
		emb, err = m.Encoder.Step(feed.Edges, feed.UnitWeights())
		if err != nil {
			return 0, nil, fmt.Errorf("snapshot %d: %w", i, err)
		}

		cur := seq.Snapshot(i)
		if len(cur.Edges) == 0 {
			continue
		}
		src := make([]dtgraph.NodeID, len(cur.Edges))
		dst := make([]dtgraph.NodeID, len(cur.Edges))
		for j, e := range cur.Edges {
			src[j], dst[j] = e.Src, e.Dst
		}

		pos, err := m.Decoder.Score(emb, src, dst)
		if err != nil {
			return 0, nil, fmt.Errorf("snapshot %d: %w", i, err)
		}
		neg, err := m.Decoder.Score(emb, src, m.Negatives.Destinations(len(src)))
		if err != nil {
			return 0, nil, fmt.Errorf("snapshot %d: %w", i, err)
		}

		snapLoss, err := tensor.Add(t.loss(pos, 1), t.loss(neg, 0))
		if err != nil {
			return 0, nil, fmt.Errorf("snapshot %d: %w", i, err)
		}
		if total == nil {
			total = snapLoss
		} else if total, err = tensor.Add(total, snapLoss); err != nil {
			return 0, nil, fmt.Errorf("snapshot %d: %w", i, err)
		}
	}
	if total == nil {
		return 0, nil, ErrNoPositiveEdges
	}

	m.Optimizer.ZeroGrad()
	if err := total.Backward(); err != nil {
		return 0, nil, err
	}
	m.Optimizer.Step()

	loss, err := total.Scalar()
	if err != nil {
		return 0, nil, err
	}

	return loss, emb, nil
}

// EvaluateSplit scores one split. The carried embedding is detached
// before first use; every positive edge of a snapshot is ranked
// against its sampled negatives before the encoder advances on that
// snapshot's own edges. It returns the mean metric and the embedding
// carried out of the split.
func (t *Trainer) EvaluateSplit(m *Model, emb *tensor.Value, seq *dtgraph.Sequence, split negsamp.Split) (float64, *tensor.Value, error) {
	m.Decoder.SetTraining(false)
	m.Encoder.Detach()
	if emb != nil {
		emb = emb.Detach()
	}

	var results []float64
	for i := 0; i < seq.Len(); i++ {
		snap := seq.Snapshot(i)
		for _, e := range seq.Original(i) {
			negs, err := t.sampler.Query(e.Src, e.Dst, snap.Index, split)
			if err != nil {
				return 0, nil, fmt.Errorf("snapshot %d: %w", snap.Index, err)
			}

			src := make([]dtgraph.NodeID, 1+len(negs))
			dst := make([]dtgraph.NodeID, 1+len(negs))
			src[0], dst[0] = e.Src, e.Dst
			for j, n := range negs {
				src[j+1], dst[j+1] = e.Src, n
			}
			scores, err := m.Decoder.Score(emb, src, dst)
			if err != nil {
				return 0, nil, fmt.Errorf("snapshot %d: %w", snap.Index, err)
			}

			raw := scores.Data()
			metric, err := t.eval.Eval(raw[0], raw[1:])
			if err != nil {
				return 0, nil, err
			}
			results = append(results, metric)
		}

		next, err := m.Encoder.Step(snap.Edges, snap.UnitWeights())
		if err != nil {
			return 0, nil, fmt.Errorf("snapshot %d: %w", snap.Index, err)
		}
		m.Encoder.Detach()
		emb = next.Detach()
	}

	mean, err := evalkit.Mean(results)
	if err != nil {
		return 0, nil, err
	}

	return mean, emb, nil
}
