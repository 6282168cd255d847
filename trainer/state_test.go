package trainer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vantorre/dtlink/trainer"
)

// TestRunState_FirstEpochImproves verifies any first metric beats the
// initial best.
func TestRunState_FirstEpochImproves(t *testing.T) {
	st := trainer.NewRunState()
	assert.True(t, st.Record(1, 0.0))
	assert.Equal(t, 0.0, st.BestVal)
}

// TestRunState_Record verifies strict-improvement detection.
func TestRunState_Record(t *testing.T) {
	st := trainer.NewRunState()
	require.True(t, st.Record(1, 0.5))
	assert.False(t, st.Record(2, 0.5), "equal metric is not an improvement")
	assert.True(t, st.Record(3, 0.6))
	assert.Equal(t, 0.6, st.BestVal)
}

// TestRunState_LegacyNeverStops verifies the reference bookkeeping:
// the best epoch resets on every improvement and stalled epochs are
// never checked, so improvements closer together than patience keep
// the run alive indefinitely.
func TestRunState_LegacyNeverStops(t *testing.T) {
	st := trainer.NewRunState()
	val := 0.0
	for epoch := 1; epoch <= 500; epoch++ {
		// Improve on even epochs, stall on odd ones.
		if epoch%2 == 0 {
			val += 0.001
		}
		st.Record(epoch, val)
		assert.False(t, st.ShouldStop(trainer.PatienceLegacy, 3), "stopped at epoch %d", epoch)
	}
}

// TestRunState_StrictStops verifies conventional patience: the run
// stops after the configured number of non-improving epochs.
func TestRunState_StrictStops(t *testing.T) {
	st := trainer.NewRunState()
	st.Record(1, 0.5)
	require.False(t, st.ShouldStop(trainer.PatienceStrict, 3))
	assert.Equal(t, 1, st.BestEpoch)

	st.Record(2, 0.4)
	assert.False(t, st.ShouldStop(trainer.PatienceStrict, 3))
	st.Record(3, 0.4)
	assert.False(t, st.ShouldStop(trainer.PatienceStrict, 3))
	st.Record(4, 0.4)
	assert.True(t, st.ShouldStop(trainer.PatienceStrict, 3))
	assert.Equal(t, 1, st.BestEpoch)
}

// TestRunState_StrictResetOnImprovement verifies the counter restarts
// when the metric recovers.
func TestRunState_StrictResetOnImprovement(t *testing.T) {
	st := trainer.NewRunState()
	st.Record(1, 0.5)
	st.ShouldStop(trainer.PatienceStrict, 2)
	st.Record(2, 0.4)
	require.False(t, st.ShouldStop(trainer.PatienceStrict, 2))
	st.Record(3, 0.6)
	require.False(t, st.ShouldStop(trainer.PatienceStrict, 2))
	assert.Equal(t, 3, st.BestEpoch)

	st.Record(4, 0.6)
	assert.False(t, st.ShouldStop(trainer.PatienceStrict, 2))
	st.Record(5, 0.6)
	assert.True(t, st.ShouldStop(trainer.PatienceStrict, 2))
}

// TestRunConfig_Validate exercises every rejection branch.
func TestRunConfig_Validate(t *testing.T) {
	require.NoError(t, trainer.DefaultRunConfig().Validate())

	cases := map[string]func(*trainer.RunConfig){
		"runs":          func(c *trainer.RunConfig) { c.Runs = 0 },
		"lr":            func(c *trainer.RunConfig) { c.LR = -1 },
		"max epochs":    func(c *trainer.RunConfig) { c.MaxEpochs = 0 },
		"patience":      func(c *trainer.RunConfig) { c.Patience = 0 },
		"patience mode": func(c *trainer.RunConfig) { c.PatienceMode = "eager" },
		"loss":          func(c *trainer.RunConfig) { c.Loss = "hinge" },
	}
	for name, mutate := range cases {
		cfg := trainer.DefaultRunConfig()
		mutate(&cfg)
		assert.ErrorIs(t, cfg.Validate(), trainer.ErrBadConfig, name)
	}
}
