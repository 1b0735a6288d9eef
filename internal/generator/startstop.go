package generator

import (
	"context"
	"math"
	"time"

	"github.com/ntentasd/motorsim/pkg/types"
)

const (
	resetProbability = 0.10
	walkStepSD       = 100.0
	startStopStep    = time.Minute
)

// resetLevels are the off, normal and high levels a reset jumps to.
var resetLevels = []float64{0, 2000, 6000}

// StartStop runs a first-order process from a stopped motor: each minute the
// level either resets to one of resetLevels or random-walks from the last one.
func (g *Generator) StartStop(ctx context.Context, n int) (rows []types.StartStopRecord, err error) {
	span, start := g.begin(ctx, DatasetStartStop, n)
	defer func() { g.end(span, DatasetStartStop, start, len(rows), err) }()

	if err := types.Positive("n_samples", n); err != nil {
		return nil, err
	}

	first := g.reference()
	prev := 0.0
	rows = make([]types.StartStopRecord, 0, n)

	for i := range n {
		var vibration float64
		if g.src.Float64() < resetProbability {
			vibration = choice(g.src, resetLevels)
		} else {
			vibration = prev + normal(g.src, 0, walkStepSD)
		}

		rows = append(rows, types.StartStopRecord{
			Timestamp:       first.Add(time.Duration(i) * startStopStep),
			VibrationLevel:  vibration,
			VibrationChange: math.Abs(vibration - prev),
			MotorState:      types.ClassifyMotorState(vibration),
		})
		prev = vibration
	}

	return rows, nil
}
