package summary

import (
	"context"
	"testing"
	"time"

	"github.com/ntentasd/motorsim/internal/dataset"
	"github.com/ntentasd/motorsim/internal/generator"
	"github.com/ntentasd/motorsim/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStat(t *testing.T) {
	assert.Equal(t, Stat{}, stat(nil))
	assert.Equal(t, Stat{Mean: 3, Count: 1}, stat([]float64{3}))

	s := stat([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.InDelta(t, 5, s.Mean, 1e-12)
	assert.InDelta(t, 2.138089935, s.StdDev, 1e-9)
	assert.Equal(t, 8, s.Count)
}

func TestPearson(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	assert.InDelta(t, 1, pearson(x, []float64{2, 4, 6, 8, 10}), 1e-12)
	assert.InDelta(t, -1, pearson(x, []float64{5, 4, 3, 2, 1}), 1e-12)
	assert.Equal(t, 0.0, pearson(x, []float64{7, 7, 7, 7, 7}))
	assert.Equal(t, 0.0, pearson(x, x[:2]))
}

func TestQuantiles(t *testing.T) {
	values := make([]float64, 1000)
	for i := range values {
		values[i] = float64(i + 1)
	}
	q, err := quantiles(values)
	require.NoError(t, err)
	assert.InDelta(t, 500, q.P50, 10)
	assert.InDelta(t, 900, q.P90, 10)
	assert.InDelta(t, 990, q.P99, 10)

	q, err = quantiles(nil)
	require.NoError(t, err)
	assert.Equal(t, Quantiles{}, q)
}

func TestOfUsage(t *testing.T) {
	ts := time.Date(2024, time.March, 4, 7, 0, 0, 0, time.UTC)
	rows := []types.UsageRecord{
		{Timestamp: ts, Hour: 7, Day: 0, VibrationLevel: 2600, UsageFrequency: 0.9, Temperature: 29, UsageLabel: types.UsageHigh},
		{Timestamp: ts, Hour: 7, Day: 0, VibrationLevel: 2400, UsageFrequency: 0.7, Temperature: 31, UsageLabel: types.UsageHigh},
		{Timestamp: ts, Hour: 12, Day: 6, VibrationLevel: 2000, UsageFrequency: 0.3, Temperature: 25, UsageLabel: types.UsageLow},
		{Timestamp: ts, Hour: 12, Day: 6, VibrationLevel: 2000, UsageFrequency: 0.1, Temperature: 25, UsageLabel: types.UsageLow},
	}

	s, err := OfUsage(rows)
	require.NoError(t, err)
	assert.Equal(t, 4, s.Rows)
	assert.InDelta(t, 0.8, s.HourlyFrequency[7], 1e-12)
	assert.InDelta(t, 0.2, s.HourlyFrequency[12], 1e-12)
	assert.Equal(t, 0.0, s.HourlyFrequency[0])
	assert.InDelta(t, 0.8, s.DailyFrequency[0], 1e-12)
	assert.InDelta(t, 0.2, s.DailyFrequency[6], 1e-12)
	assert.InDelta(t, 2500, s.HourlyVibration[7].Mean, 1e-9)
	assert.InDelta(t, 30, s.TemperatureByHour[7], 1e-9)
	assert.Equal(t, 0.5, s.HighUsageShare)

	_, err = OfUsage([]types.UsageRecord{{Hour: 24}})
	assert.ErrorIs(t, err, types.ErrInvalidParameter)
}

func TestOfLoad(t *testing.T) {
	rows := []types.LoadRecord{
		{VibrationLevel: 2000, MotorCurrent: 2, PowerConsumption: 3000, LoadType: types.LoadLight},
		{VibrationLevel: 6000, MotorCurrent: 6, PowerConsumption: 9000, LoadType: types.LoadNormal},
		{VibrationLevel: 9000, MotorCurrent: 9, PowerConsumption: 13500, LoadType: types.LoadPeak},
		{VibrationLevel: 9400, MotorCurrent: 9.4, PowerConsumption: 14100, LoadType: types.LoadPeak},
	}

	s := OfLoad(rows)
	assert.Equal(t, 4, s.Rows)
	assert.Equal(t, 1, s.ByType[types.LoadLight].Count)
	assert.Equal(t, 2, s.ByType[types.LoadPeak].Count)
	assert.InDelta(t, 9200, s.ByType[types.LoadPeak].Vibration.Mean, 1e-9)

	c, ok := s.Correlation.At("Vibration_Level", "Power_Consumption")
	require.True(t, ok)
	assert.InDelta(t, 1, c, 1e-9)
	_, ok = s.Correlation.At("Vibration_Level", "Nope")
	assert.False(t, ok)
}

func TestOfCooling(t *testing.T) {
	rows := []types.CoolingCycleRecord{
		{Condition: types.ConditionNormal, InitialVibration: 2000, VibrationReduction: 0.5, CoolingDuration: 12, CoolingEfficiency: types.EfficiencyEfficient},
		{Condition: types.ConditionNormal, InitialVibration: 2200, VibrationReduction: 0.2, CoolingDuration: 10, CoolingEfficiency: types.EfficiencyInefficient},
		{Condition: types.ConditionFailure, InitialVibration: 9000, VibrationReduction: 0.6, CoolingDuration: 15, CoolingEfficiency: types.EfficiencyInefficient},
	}

	s := OfCooling(rows)
	assert.Equal(t, 3, s.Rows)

	normal := s.ByCondition[types.ConditionNormal]
	assert.Equal(t, 2, normal.Count)
	assert.InDelta(t, 2100, normal.InitialVibration.Mean, 1e-9)
	assert.InDelta(t, 0.35, normal.MeanReduction, 1e-12)
	assert.InDelta(t, 11, normal.MeanDuration, 1e-12)
	assert.Equal(t, 0.5, normal.EfficientShare)

	assert.Equal(t, 0.0, s.ByCondition[types.ConditionFailure].EfficientShare)
	_, ok := s.ByCondition[types.ConditionOverheating]
	assert.False(t, ok)
}

func TestOfStartStop(t *testing.T) {
	rows := []types.StartStopRecord{
		{VibrationLevel: 0, VibrationChange: 0, MotorState: types.MotorStopped},
		{VibrationLevel: 2000, VibrationChange: 2000, MotorState: types.MotorRunning},
		{VibrationLevel: 2030, VibrationChange: 30, MotorState: types.MotorRunning},
		{VibrationLevel: 0, VibrationChange: 2030, MotorState: types.MotorStopped},
	}

	s, err := OfStartStop(rows)
	require.NoError(t, err)
	assert.Equal(t, 4, s.Rows)
	assert.Equal(t, 0.5, s.RunningShare)
	assert.Equal(t, 2, s.Transitions)
	assert.Equal(t, 2, s.HighCycling)
}

func TestOfStartStop_CyclingThreshold(t *testing.T) {
	rows := []types.StartStopRecord{
		{VibrationLevel: 2000, VibrationChange: types.HighCyclingChange, MotorState: types.MotorRunning},
		{VibrationLevel: 2051, VibrationChange: types.HighCyclingChange + 1, MotorState: types.MotorRunning},
	}

	s, err := OfStartStop(rows)
	require.NoError(t, err)
	assert.Equal(t, 1, s.HighCycling)
}

func TestDataset(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	g := generator.New(generator.NewSource(3))

	speed, err := g.Speed(ctx, 200)
	require.NoError(t, err)
	_, err = dataset.Write(ctx, dir, dataset.Speed, speed)
	require.NoError(t, err)

	got, err := Dataset(dir, generator.DatasetSpeed)
	require.NoError(t, err)
	s, ok := got.(*Speed)
	require.True(t, ok)
	assert.Equal(t, 200, s.Rows)

	flow, _ := s.Correlation.At("Required_Flow_Rate", "Optimal_Speed")
	assert.Greater(t, flow, 0.8)

	_, err = Dataset(dir, generator.DatasetLoad)
	assert.ErrorIs(t, err, types.ErrIOFailure)

	_, err = Dataset(dir, "weather")
	assert.ErrorIs(t, err, types.ErrInvalidParameter)
}
