package generator

import (
	"context"
	"time"

	"github.com/ntentasd/motorsim/pkg/types"
)

// Regime is the initial vibration distribution of one operating condition.
type Regime struct {
	Condition types.Condition
	Mean      float64
	StdDev    float64
}

var Regimes = []Regime{
	{Condition: types.ConditionNormal, Mean: 2000, StdDev: 300},
	{Condition: types.ConditionOverheating, Mean: 6000, StdDev: 500},
	{Condition: types.ConditionFailure, Mean: 9000, StdDev: 700},
}

type VibrationOptions struct {
	Samples int
	Cycle   CycleConfig
	Step    time.Duration
	// Shuffle randomises row order after generation. Off by default, which
	// keeps the table in timestamp order.
	Shuffle bool
}

func DefaultVibrationOptions() VibrationOptions {
	return VibrationOptions{
		Samples: 1000,
		Cycle:   DefaultCycleConfig(),
		Step:    30 * time.Minute,
	}
}

// Vibration produces floor(Samples/3)*3 cooling-cycle records, one per
// regime per iteration, stamped Step apart starting at the reference time.
func (g *Generator) Vibration(ctx context.Context, opts VibrationOptions) (rows []types.CoolingCycleRecord, err error) {
	span, start := g.begin(ctx, DatasetVibration, opts.Samples)
	defer func() { g.end(span, DatasetVibration, start, len(rows), err) }()

	if err := types.Positive("n_samples", opts.Samples); err != nil {
		return nil, err
	}
	if err := opts.Cycle.Validate(); err != nil {
		return nil, err
	}
	if opts.Step <= 0 {
		return nil, &types.ParameterError{Name: "step", Value: opts.Step, Reason: "must be positive"}
	}

	iterations := opts.Samples / len(Regimes)
	rows = make([]types.CoolingCycleRecord, 0, iterations*len(Regimes))
	ts := g.reference()

	for range iterations {
		for _, regime := range Regimes {
			cycle, err := g.CoolingCycle(g.drawInitial(regime), opts.Cycle)
			if err != nil {
				return nil, err
			}

			rows = append(rows, types.CoolingCycleRecord{
				Timestamp:          ts,
				InitialVibration:   cycle.Initial,
				Label:              regime.Condition.Label(),
				Condition:          regime.Condition,
				CoolingDuration:    cycle.Duration,
				VibrationReduction: cycle.Reduction,
				CoolingEfficiency:  types.ClassifyCooling(regime.Condition, cycle.Reduction),
				StableVibration:    cycle.Stable(),
				PeakVibration:      cycle.Peak(),
				AvgVibration:       cycle.Mean(),
			})
			ts = ts.Add(opts.Step)
		}
	}

	if opts.Shuffle {
		shuffle(g.src, rows)
	}

	return rows, nil
}

// drawInitial resamples until the level is positive.
func (g *Generator) drawInitial(r Regime) float64 {
	for {
		if v := normal(g.src, r.Mean, r.StdDev); v > 0 {
			return v
		}
	}
}
