package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ntentasd/motorsim/internal/config"
	"github.com/ntentasd/motorsim/internal/dataset"
	"github.com/ntentasd/motorsim/internal/logging"
	"github.com/ntentasd/motorsim/internal/model"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	dataDir := flag.String("data", cfg.DataDir, "directory holding the generated datasets")
	modelDir := flag.String("models", cfg.ModelDir, "directory the model bundle is written to")
	seed := flag.Uint64("seed", 42, "train/test split seed")
	flag.Parse()

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, "motorsim-train")
	ctx := logger.WithContext(context.Background())

	path, err := run(ctx, *dataDir, *modelDir, *seed)
	if err != nil {
		logger.Fatal().Err(err).Msg("training failed")
	}
	logger.Info().Str("path", path).Msg("bundle saved")
}

func run(ctx context.Context, dataDir, modelDir string, seed uint64) (string, error) {
	tables, err := readTables(dataDir)
	if err != nil {
		return "", err
	}

	b, err := model.NewTrainer(seed).Train(ctx, tables)
	if err != nil {
		return "", err
	}
	return model.SaveBundle(modelDir, b)
}

func readTables(dir string) (model.Tables, error) {
	var (
		t   model.Tables
		err error
	)
	if t.Vibration, err = dataset.Read(dataset.Path(dir, dataset.Vibration), dataset.Vibration); err != nil {
		return t, err
	}
	if t.Usage, err = dataset.Read(dataset.Path(dir, dataset.Usage), dataset.Usage); err != nil {
		return t, err
	}
	if t.Load, err = dataset.Read(dataset.Path(dir, dataset.Load), dataset.Load); err != nil {
		return t, err
	}
	if t.Speed, err = dataset.Read(dataset.Path(dir, dataset.Speed), dataset.Speed); err != nil {
		return t, err
	}
	return t, nil
}
