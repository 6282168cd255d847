package main

import (
	"fmt"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vantorre/dtlink/dataset"
	"github.com/vantorre/dtlink/gcn"
	"github.com/vantorre/dtlink/tensor"
	"github.com/vantorre/dtlink/trainer"
)

// Encoder kinds accepted in the model section.
const (
	encoderEvolveGCNO = "evolvegcn-o"
	encoderGCLSTM     = "gclstm"
)

// appConfig is the YAML configuration file: run hyperparameters
// inline, plus model, data and log sections.
type appConfig struct {
	trainer.RunConfig `yaml:",inline"`

	Model modelConfig `yaml:"model"`
	Data  dataConfig  `yaml:"data"`
	Log   logConfig   `yaml:"log"`
}

type modelConfig struct {
	Encoder string  `yaml:"encoder"`
	FeatDim int     `yaml:"feat_dim"`
	EmbDim  int     `yaml:"emb_dim"`
	Hidden  int     `yaml:"hidden"`
	Layers  int     `yaml:"layers"`
	Dropout float64 `yaml:"dropout"`
}

type dataConfig struct {
	Path    string `yaml:"path"`
	Format  string `yaml:"format"`
	Buckets int    `yaml:"buckets"`
	NegDir  string `yaml:"neg_dir"`
	NegK    int    `yaml:"neg_k"`
}

type logConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

func defaultAppConfig() appConfig {
	return appConfig{
		RunConfig: trainer.DefaultRunConfig(),
		Model: modelConfig{
			Encoder: encoderEvolveGCNO,
			FeatDim: 64,
			EmbDim:  64,
			Hidden:  64,
			Layers:  2,
		},
		Data: dataConfig{
			Format: "csv",
			NegDir: ".",
			NegK:   20,
		},
		Log: logConfig{Level: "info", Pretty: true},
	}
}

// loadConfig reads the YAML file over the defaults. The training loss
// defaults per encoder when left unset: MSE for EvolveGCN-O, BCE for
// GC-LSTM, as in the reference setups.
func loadConfig(path string) (appConfig, error) {
	cfg := defaultAppConfig()
	cfg.Loss = ""

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Loss == "" {
		cfg.Loss = trainer.LossMSE
		if cfg.Model.Encoder == encoderGCLSTM {
			cfg.Loss = trainer.LossBCE
		}
	}

	return cfg, nil
}

// buildFactory maps the model section to a trainer factory.
func buildFactory(m modelConfig, numNodes int) (trainer.Factory, error) {
	switch m.Encoder {
	case encoderEvolveGCNO:
		return func(rng *rand.Rand) (trainer.Encoder, trainer.Decoder, error) {
			enc, err := gcn.NewEvolveGCNO(numNodes, m.FeatDim, m.EmbDim, rng)
			if err != nil {
				return nil, nil, err
			}
			dec, err := gcn.NewLinkPredictor(m.EmbDim, m.Hidden, m.Layers, m.Dropout, rng)
			if err != nil {
				return nil, nil, err
			}

			return enc, dec, nil
		}, nil
	case encoderGCLSTM:
		return func(rng *rand.Rand) (trainer.Encoder, trainer.Decoder, error) {
			enc, err := gcn.NewGCLSTM(numNodes, m.FeatDim, m.EmbDim, rng)
			if err != nil {
				return nil, nil, err
			}
			feat := make([]float64, numNodes*m.FeatDim)
			for i := range feat {
				feat[i] = rng.NormFloat64()
			}
			if err := enc.SetFeatures(tensor.NewConst(numNodes, m.FeatDim, feat)); err != nil {
				return nil, nil, err
			}
			dec, err := gcn.NewLinkPredictor(m.EmbDim, m.Hidden, m.Layers, m.Dropout, rng)
			if err != nil {
				return nil, nil, err
			}

			return enc, dec, nil
		}, nil
	default:
		return nil, fmt.Errorf("unknown encoder %q", m.Encoder)
	}
}

// loadSplits reads and discretizes the configured edge stream.
func loadSplits(cfg appConfig) (*dataset.Splits, error) {
	opts := []dataset.Option{dataset.WithTimeScale(cfg.TimeScale)}
	if cfg.Data.Buckets > 0 {
		opts = append(opts, dataset.WithBuckets(cfg.Data.Buckets))
	}

	switch cfg.Data.Format {
	case "csv", "":
		return dataset.LoadCSV(cfg.Data.Path, opts...)
	case "json":
		return dataset.LoadJSON(cfg.Data.Path, opts...)
	default:
		return nil, fmt.Errorf("unknown data format %q", cfg.Data.Format)
	}
}
