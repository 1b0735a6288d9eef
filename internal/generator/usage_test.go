package generator

import (
	"context"
	"testing"
	"time"

	"github.com/ntentasd/motorsim/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsage_Grid(t *testing.T) {
	rows, err := New(NewSource(11), WithClock(fixedClock)).Usage(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, rows, 7*48)

	first := fixedNow.Add(-7 * 24 * time.Hour)
	for i, r := range rows {
		assert.Equal(t, first.Add(time.Duration(i)*30*time.Minute), r.Timestamp)
		assert.Equal(t, r.Timestamp.Hour(), r.Hour)
		assert.Equal(t, weekday(r.Timestamp), r.Day)
		assert.GreaterOrEqual(t, r.Hour, 0)
		assert.LessOrEqual(t, r.Hour, 23)
		assert.GreaterOrEqual(t, r.Day, 0)
		assert.LessOrEqual(t, r.Day, 6)
	}
}

func TestUsage_GridIsUTC(t *testing.T) {
	zone := time.FixedZone("UTC+2", 2*60*60)
	clock := func() time.Time { return fixedNow.In(zone) }
	rows, err := New(NewSource(11), WithClock(clock)).Usage(context.Background(), 2)
	require.NoError(t, err)

	first := fixedNow.Add(-2 * 24 * time.Hour)
	assert.Equal(t, time.UTC, rows[0].Timestamp.Location())
	assert.Equal(t, first, rows[0].Timestamp)
	assert.Equal(t, 0, rows[0].Hour)
	assert.Equal(t, 5, rows[0].Day)
	for _, r := range rows {
		assert.Equal(t, r.Timestamp.UTC().Hour(), r.Hour)
	}
}

func TestUsage_Invariants(t *testing.T) {
	rows, err := New(NewSource(5), WithClock(fixedClock)).Usage(context.Background(), 14)
	require.NoError(t, err)

	for _, r := range rows {
		assert.Equal(t, r.UsageFrequency > 0.6, r.UsageLabel == types.UsageHigh)
		assert.GreaterOrEqual(t, r.UsageFrequency, 0.0)
		assert.LessOrEqual(t, r.UsageFrequency, 1.0)
		assert.Greater(t, r.VibrationLevel, 0.0)

		band := bandFor(r.Hour)
		lo, hi := band.lo, band.hi
		if r.Day >= weekendStart {
			lo, hi = lo*weekendDampening, hi*weekendDampening
		}
		assert.GreaterOrEqual(t, r.UsageFrequency, lo)
		assert.LessOrEqual(t, r.UsageFrequency, hi)
	}
}

func TestUsage_Bands(t *testing.T) {
	tests := []struct {
		hour int
		want usageBand
	}{
		{hour: 5, want: baselineBand},
		{hour: 6, want: morningPeak},
		{hour: 9, want: morningPeak},
		{hour: 10, want: baselineBand},
		{hour: 16, want: baselineBand},
		{hour: 17, want: eveningPeak},
		{hour: 20, want: eveningPeak},
		{hour: 21, want: baselineBand},
		{hour: 0, want: baselineBand},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, bandFor(tt.hour), "hour=%d", tt.hour)
	}
}

func TestUsage_NoiselessValues(t *testing.T) {
	// Float64 0 -> band minimum, NormFloat64 0 -> no noise
	rows, err := New(&scriptedSource{floats: []float64{0}}, WithClock(fixedClock)).Usage(context.Background(), 1)
	require.NoError(t, err)

	// fixedNow is a Monday, so the grid covers Sunday 00:00 .. 23:30
	sunday6am := rows[12]
	require.Equal(t, 6, sunday6am.Hour)
	require.Equal(t, 6, sunday6am.Day)
	assert.InDelta(t, 0.7*0.7, sunday6am.UsageFrequency, 1e-12)
	assert.InDelta(t, 2000*1.3, sunday6am.VibrationLevel, 1e-9)
	assert.InDelta(t, 25+5*1.0, sunday6am.Temperature, 1e-9)
	assert.Equal(t, types.UsageLow, sunday6am.UsageLabel)
}

func TestUsage_InvalidDays(t *testing.T) {
	_, err := New(NewSource(1)).Usage(context.Background(), 0)
	assert.ErrorIs(t, err, types.ErrInvalidParameter)
}

func TestWeekday(t *testing.T) {
	assert.Equal(t, 0, weekday(fixedNow))
	assert.Equal(t, 5, weekday(fixedNow.AddDate(0, 0, 5)))
	assert.Equal(t, 6, weekday(fixedNow.AddDate(0, 0, -1)))
}
