package model

import (
	"github.com/ntentasd/motorsim/pkg/types"
)

var (
	CoolingFeatures = []string{
		"vibration", "peak_vibration", "stable_vibration",
		"cooling_duration", "vibration_reduction", "avg_vibration",
	}
	UsageFeatures  = []string{"Hour", "Day", "Vibration_Level", "Usage_Frequency"}
	LoadFeatures   = []string{"Vibration_Level", "Motor_Current", "Power_Consumption"}
	SpeedFeatures  = []string{"Required_Flow_Rate", "System_Pressure", "Power_Consumption"}
	StatusFeatures = []string{"vibration"}
)

// CoolingSnapshot is the cooling-cycle summary the cooling model scores.
type CoolingSnapshot struct {
	Vibration, Peak, Stable, Duration, Reduction, Avg float64
}

func (c CoolingSnapshot) Features() []float64 {
	return []float64{c.Vibration, c.Peak, c.Stable, c.Duration, c.Reduction, c.Avg}
}

func coolingRow(r types.CoolingCycleRecord) []float64 {
	return CoolingSnapshot{
		Vibration: r.InitialVibration,
		Peak:      r.PeakVibration,
		Stable:    r.StableVibration,
		Duration:  r.CoolingDuration,
		Reduction: r.VibrationReduction,
		Avg:       r.AvgVibration,
	}.Features()
}

func usageRow(r types.UsageRecord) []float64 {
	return []float64{float64(r.Hour), float64(r.Day), r.VibrationLevel, r.UsageFrequency}
}

func loadRow(r types.LoadRecord) []float64 {
	return []float64{r.VibrationLevel, r.MotorCurrent, r.PowerConsumption}
}

func speedRow(r types.SpeedRecord) []float64 {
	return []float64{r.RequiredFlowRate, r.SystemPressure, r.PowerConsumption}
}
