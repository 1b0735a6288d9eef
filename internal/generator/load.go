package generator

import (
	"context"

	"github.com/ntentasd/motorsim/pkg/types"
)

const (
	currentPerVibration = 1.0 / 1000
	powerPerVibration   = 1.5
)

type LoadConfig struct {
	// Centers are the nominal vibration levels a sample is drawn around.
	Centers        []float64
	VibrationNoise float64
	CurrentNoise   float64
	PowerNoise     float64
}

func DefaultLoadConfig() LoadConfig {
	return LoadConfig{
		Centers:        []float64{2000, 6000, 9000},
		VibrationNoise: 200,
		CurrentNoise:   0.5,
		PowerNoise:     100,
	}
}

func (c LoadConfig) Validate() error {
	if len(c.Centers) == 0 {
		return &types.ParameterError{Name: "centers", Value: c.Centers, Reason: "must not be empty"}
	}
	for _, noise := range []struct {
		name  string
		value float64
	}{
		{"vibration_noise", c.VibrationNoise},
		{"current_noise", c.CurrentNoise},
		{"power_noise", c.PowerNoise},
	} {
		if noise.value < 0 {
			return &types.ParameterError{Name: noise.name, Value: noise.value, Reason: "must not be negative"}
		}
	}
	return nil
}

func (g *Generator) Load(ctx context.Context, n int, cfg LoadConfig) (rows []types.LoadRecord, err error) {
	span, start := g.begin(ctx, DatasetLoad, n)
	defer func() { g.end(span, DatasetLoad, start, len(rows), err) }()

	if err := types.Positive("n_samples", n); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rows = make([]types.LoadRecord, 0, n)
	for range n {
		vibration := choice(g.src, cfg.Centers) + normal(g.src, 0, cfg.VibrationNoise)
		current := vibration*currentPerVibration + normal(g.src, 0, cfg.CurrentNoise)
		power := vibration*powerPerVibration + normal(g.src, 0, cfg.PowerNoise)

		rows = append(rows, types.LoadRecord{
			VibrationLevel:   vibration,
			MotorCurrent:     current,
			PowerConsumption: power,
			LoadType:         types.ClassifyLoad(vibration),
		})
	}

	return rows, nil
}
