package generator

import (
	"context"

	"github.com/ntentasd/motorsim/pkg/types"
)

const (
	minFlowRate = 10.0 // L/min
	maxFlowRate = 100.0
	minPressure = 1.0 // bar
	maxPressure = 10.0

	powerPerFlowPressure = 10.0
	speedPowerNoiseSD    = 100.0
)

// OptimalSpeed is the RPM the pump should run at for a flow/pressure demand.
func OptimalSpeed(flowRate, pressure float64) float64 {
	return (flowRate + pressure*5) * 10
}

func (g *Generator) Speed(ctx context.Context, n int) (rows []types.SpeedRecord, err error) {
	span, start := g.begin(ctx, DatasetSpeed, n)
	defer func() { g.end(span, DatasetSpeed, start, len(rows), err) }()

	if err := types.Positive("n_samples", n); err != nil {
		return nil, err
	}

	rows = make([]types.SpeedRecord, 0, n)
	for range n {
		flow := uniform(g.src, minFlowRate, maxFlowRate)
		pressure := uniform(g.src, minPressure, maxPressure)

		rows = append(rows, types.SpeedRecord{
			RequiredFlowRate: flow,
			SystemPressure:   pressure,
			PowerConsumption: flow*pressure*powerPerFlowPressure + normal(g.src, 0, speedPowerNoiseSD),
			OptimalSpeed:     OptimalSpeed(flow, pressure),
		})
	}

	return rows, nil
}
