package main

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "dtlink",
	Short: "dtlink - dynamic-graph link-prediction training",
	Long: `dtlink trains and evaluates recurrent graph-convolution models
(EvolveGCN-O, GC-LSTM) for link prediction on snapshot sequences.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "path to the YAML configuration file")
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(negativesCmd)
}

// newLogger builds the process logger from the config's log section.
func newLogger(cfg logConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	if cfg.Pretty {
		w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}

		return zerolog.New(w).Level(level).With().Timestamp().Logger()
	}

	return zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
}
