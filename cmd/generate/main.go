package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/ntentasd/motorsim/internal/config"
	"github.com/ntentasd/motorsim/internal/dataset"
	"github.com/ntentasd/motorsim/internal/generator"
	"github.com/ntentasd/motorsim/internal/logging"
	"github.com/ntentasd/motorsim/pkg/types"
	"github.com/rs/zerolog"
)

var datasets = []string{
	generator.DatasetUsage,
	generator.DatasetLoad,
	generator.DatasetStartStop,
	generator.DatasetSpeed,
	generator.DatasetVibration,
}

type options struct {
	out     string
	samples int
	days    int
	seed    uint64
	shuffle bool
	only    []string
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var (
		opts options
		only string
	)
	flag.StringVar(&opts.out, "out", cfg.DataDir, "output directory")
	flag.IntVar(&opts.samples, "samples", 1000, "samples per sample-count dataset")
	flag.IntVar(&opts.days, "days", 30, "days covered by the usage dataset")
	flag.Uint64Var(&opts.seed, "seed", 0, "random seed, 0 picks one from the clock")
	flag.BoolVar(&opts.shuffle, "shuffle", false, "shuffle the vibration dataset rows")
	flag.StringVar(&only, "only", "", "comma separated datasets to generate (default all)")
	flag.Parse()

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, "motorsim-generate")
	if opts.only, err = parseOnly(only); err != nil {
		logger.Fatal().Err(err).Msg("invalid -only")
	}
	if opts.seed == 0 {
		opts.seed = uint64(time.Now().UnixNano())
	}
	logger.Info().Uint64("seed", opts.seed).Str("out", opts.out).Msg("generating datasets")

	ctx := logger.WithContext(context.Background())
	if err := run(ctx, opts); err != nil {
		logger.Fatal().Err(err).Msg("generation failed")
	}
}

func parseOnly(s string) ([]string, error) {
	if s == "" {
		return datasets, nil
	}
	var out []string
	for _, name := range strings.Split(s, ",") {
		name = strings.TrimSpace(name)
		if !slices.Contains(datasets, name) {
			return nil, &types.ParameterError{Name: "dataset", Value: name, Reason: "unknown dataset"}
		}
		out = append(out, name)
	}
	return out, nil
}

func run(ctx context.Context, opts options) error {
	g := generator.New(generator.NewSource(opts.seed), generator.WithLogger(*zerolog.Ctx(ctx)))

	for _, name := range opts.only {
		var err error
		switch name {
		case generator.DatasetUsage:
			err = write(ctx, opts.out, dataset.Usage, func() ([]types.UsageRecord, error) {
				return g.Usage(ctx, opts.days)
			})
		case generator.DatasetLoad:
			err = write(ctx, opts.out, dataset.Load, func() ([]types.LoadRecord, error) {
				return g.Load(ctx, opts.samples, generator.DefaultLoadConfig())
			})
		case generator.DatasetStartStop:
			err = write(ctx, opts.out, dataset.StartStop, func() ([]types.StartStopRecord, error) {
				return g.StartStop(ctx, opts.samples)
			})
		case generator.DatasetSpeed:
			err = write(ctx, opts.out, dataset.Speed, func() ([]types.SpeedRecord, error) {
				return g.Speed(ctx, opts.samples)
			})
		case generator.DatasetVibration:
			vo := generator.DefaultVibrationOptions()
			vo.Samples = opts.samples
			vo.Shuffle = opts.shuffle
			err = write(ctx, opts.out, dataset.Vibration, func() ([]types.CoolingCycleRecord, error) {
				return g.Vibration(ctx, vo)
			})
		}
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

func write[T any](ctx context.Context, dir string, s dataset.Schema[T], gen func() ([]T, error)) error {
	rows, err := gen()
	if err != nil {
		return err
	}
	_, err = dataset.Write(ctx, dir, s, rows)
	return err
}
