package generator

import (
	"context"
	"math"
	"time"

	"github.com/ntentasd/motorsim/pkg/types"
)

const (
	usageStep          = 30 * time.Minute
	usageBaseVibration = 2000.0
	usageVibrationSD   = 200.0
	weekendDampening   = 0.7
	weekendStart       = 5

	baseTemperature      = 25.0
	temperatureAmplitude = 5.0
	temperatureNoiseSD   = 2.0
)

// usageBand is an inclusive hour range with its own usage distribution.
type usageBand struct {
	fromHour, toHour int
	lo, hi           float64
	multiplier       float64
}

var (
	morningPeak  = usageBand{fromHour: 6, toHour: 9, lo: 0.7, hi: 1.0, multiplier: 1.3}
	eveningPeak  = usageBand{fromHour: 17, toHour: 20, lo: 0.6, hi: 0.9, multiplier: 1.2}
	baselineBand = usageBand{lo: 0.2, hi: 0.5, multiplier: 1.0}
)

func bandFor(hour int) usageBand {
	for _, b := range []usageBand{morningPeak, eveningPeak} {
		if hour >= b.fromHour && hour <= b.toHour {
			return b
		}
	}
	return baselineBand
}

// weekday maps time.Weekday onto Monday=0 .. Sunday=6.
func weekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// Usage walks a half-hour grid covering the days before the reference time.
func (g *Generator) Usage(ctx context.Context, days int) (rows []types.UsageRecord, err error) {
	span, start := g.begin(ctx, DatasetUsage, days)
	defer func() { g.end(span, DatasetUsage, start, len(rows), err) }()

	if err := types.Positive("days", days); err != nil {
		return nil, err
	}

	total := days * int(24*time.Hour/usageStep)
	first := g.reference().Add(-time.Duration(days) * 24 * time.Hour)
	rows = make([]types.UsageRecord, 0, total)

	for i := range total {
		ts := first.Add(time.Duration(i) * usageStep)
		hour := ts.Hour()
		day := weekday(ts)

		band := bandFor(hour)
		vibration := normal(g.src, usageBaseVibration, usageVibrationSD) * band.multiplier
		frequency := uniform(g.src, band.lo, band.hi)
		if day >= weekendStart {
			frequency *= weekendDampening
		}

		temperature := baseTemperature +
			temperatureAmplitude*math.Sin(2*math.Pi*float64(hour)/24) +
			normal(g.src, 0, temperatureNoiseSD)

		rows = append(rows, types.UsageRecord{
			Timestamp:      ts,
			Hour:           hour,
			Day:            day,
			VibrationLevel: vibration,
			UsageFrequency: frequency,
			Temperature:    temperature,
			UsageLabel:     types.ClassifyUsage(frequency),
		})
	}

	return rows, nil
}
