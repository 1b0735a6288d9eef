package generator

import (
	"math"

	"github.com/ntentasd/motorsim/pkg/types"
)

const (
	minEffectiveness = 0.5
	maxEffectiveness = 1.0

	// noise standard deviation as a fraction of the initial vibration
	cycleNoiseRatio = 0.05
)

type CycleConfig struct {
	DurationMinutes   int
	ReadingsPerMinute int
}

func DefaultCycleConfig() CycleConfig {
	return CycleConfig{
		DurationMinutes:   30,
		ReadingsPerMinute: 2,
	}
}

func (c CycleConfig) Validate() error {
	if err := types.Positive("duration_minutes", c.DurationMinutes); err != nil {
		return err
	}
	return types.Positive("readings_per_minute", c.ReadingsPerMinute)
}

// CoolingCycle is one simulated cool-down: a noisy exponential decay from
// Initial plus the metrics derived from it.
type CoolingCycle struct {
	Initial       float64
	Effectiveness float64
	Readings      []float64
	Duration      float64
	Reduction     float64
}

// Stable is the last reading of the trace.
func (c *CoolingCycle) Stable() float64 {
	return c.Readings[len(c.Readings)-1]
}

func (c *CoolingCycle) Peak() float64 {
	peak := c.Readings[0]
	for _, v := range c.Readings[1:] {
		if v > peak {
			peak = v
		}
	}
	return peak
}

func (c *CoolingCycle) Mean() float64 {
	var sum float64
	for _, v := range c.Readings {
		sum += v
	}
	return sum / float64(len(c.Readings))
}

// CoolingCycle simulates a cool-down from initial over cfg.DurationMinutes.
//
// Readings are taken at DurationMinutes*ReadingsPerMinute evenly spaced
// points covering [0, DurationMinutes] inclusive.
func (g *Generator) CoolingCycle(initial float64, cfg CycleConfig) (*CoolingCycle, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !(initial > 0) {
		return nil, &types.ParameterError{Name: "initial_vibration", Value: initial, Reason: "must be positive"}
	}

	duration := float64(cfg.DurationMinutes)
	total := cfg.DurationMinutes * cfg.ReadingsPerMinute
	effectiveness := uniform(g.src, minEffectiveness, maxEffectiveness)

	readings := make([]float64, total)
	for i := range readings {
		t := 0.0
		if total > 1 {
			t = duration * float64(i) / float64(total-1)
		}
		curve := initial * math.Exp(-effectiveness*t/duration)
		readings[i] = curve + normal(g.src, 0, initial*cycleNoiseRatio)
	}

	final := readings[total-1]

	return &CoolingCycle{
		Initial:       initial,
		Effectiveness: effectiveness,
		Readings:      readings,
		Duration:      duration * (1 - math.Exp(-effectiveness)),
		Reduction:     (initial - final) / initial,
	}, nil
}
