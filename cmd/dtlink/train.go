package main

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/vantorre/dtlink/negsamp"
	"github.com/vantorre/dtlink/trainer"
)

var (
	flagSeed     int64
	flagRuns     int
	flagEpochs   int
	flagPatience int
	flagStrict   bool
	flagTrack    bool
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train a link-prediction model over the configured dataset",
	RunE:  runTrain,
}

func init() {
	trainCmd.Flags().Int64Var(&flagSeed, "seed", 0, "override the configured seed")
	trainCmd.Flags().IntVar(&flagRuns, "runs", 0, "override the configured number of runs")
	trainCmd.Flags().IntVar(&flagEpochs, "epochs", 0, "override the configured epoch limit")
	trainCmd.Flags().IntVar(&flagPatience, "patience", 0, "override the configured patience")
	trainCmd.Flags().BoolVar(&flagStrict, "strict-patience", false, "stop after patience non-improving epochs instead of the legacy bookkeeping")
	trainCmd.Flags().BoolVar(&flagTrack, "track", false, "emit one tracking log event per epoch")
}

func runTrain(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	applyOverrides(cmd, &cfg)
	log := newLogger(cfg.Log)

	splits, err := loadSplits(cfg)
	if err != nil {
		return err
	}
	log.Info().
		Str("dataset", cfg.Dataset).
		Int("nodes", splits.NumNodes).
		Int("train_snapshots", splits.Train.Len()).
		Int("val_snapshots", splits.Val.Len()).
		Int("test_snapshots", splits.Test.Len()).
		Msg("dataset loaded")

	sampler := negsamp.NewHistorical()
	for _, split := range []negsamp.Split{negsamp.SplitVal, negsamp.SplitTest} {
		path := negsamp.EvalSetPath(cfg.Data.NegDir, cfg.Dataset, split)
		if err := sampler.LoadEvalSet(path, split); err != nil {
			return fmt.Errorf("loading negative sets (run `dtlink negatives` first): %w", err)
		}
	}

	factory, err := buildFactory(cfg.Model, splits.NumNodes)
	if err != nil {
		return err
	}

	tr, err := trainer.New(cfg.RunConfig, splits, factory, sampler, trainer.WithLogger(log))
	if err != nil {
		return err
	}
	records, err := tr.Run()
	if err != nil {
		return err
	}

	out, err := sonic.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, string(out))

	return nil
}

// applyOverrides folds set flags over the file configuration.
func applyOverrides(cmd *cobra.Command, cfg *appConfig) {
	if cmd.Flags().Changed("seed") {
		cfg.Seed = flagSeed
	}
	if cmd.Flags().Changed("runs") {
		cfg.Runs = flagRuns
	}
	if cmd.Flags().Changed("epochs") {
		cfg.MaxEpochs = flagEpochs
	}
	if cmd.Flags().Changed("patience") {
		cfg.Patience = flagPatience
	}
	if flagStrict {
		cfg.PatienceMode = trainer.PatienceStrict
	}
	if flagTrack {
		cfg.Track = true
	}
}
