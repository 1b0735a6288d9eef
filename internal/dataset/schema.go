// Package dataset serialises generated tables to flat CSV files and reads
// them back with a strict header check.
package dataset

import (
	"strconv"
	"time"

	"github.com/ntentasd/motorsim/internal/generator"
	"github.com/ntentasd/motorsim/pkg/types"
)

// TimeLayout is the timestamp format used in every file.
const TimeLayout = "2006-01-02 15:04:05"

// Schema binds a record type to its file name and column order.
type Schema[T any] struct {
	Name    string
	File    string
	Columns []string

	encode func(T) []string
	decode func(*row) T
}

var Usage = Schema[types.UsageRecord]{
	Name: generator.DatasetUsage,
	File: "vibration_usage_patterns.csv",
	Columns: []string{
		"Timestamp", "Hour", "Day", "Vibration_Level",
		"Usage_Frequency", "Temperature", "Usage_Label",
	},
	encode: func(r types.UsageRecord) []string {
		return []string{
			formatTime(r.Timestamp),
			strconv.Itoa(r.Hour),
			strconv.Itoa(r.Day),
			formatFloat(r.VibrationLevel),
			formatFloat(r.UsageFrequency),
			formatFloat(r.Temperature),
			string(r.UsageLabel),
		}
	},
	decode: func(r *row) types.UsageRecord {
		return types.UsageRecord{
			Timestamp:      r.time(0),
			Hour:           r.int(1),
			Day:            r.int(2),
			VibrationLevel: r.float(3),
			UsageFrequency: r.float(4),
			Temperature:    r.float(5),
			UsageLabel:     parse(r, 6, types.ToUsageLabel),
		}
	},
}

var Load = Schema[types.LoadRecord]{
	Name:    generator.DatasetLoad,
	File:    "vibration_load_patterns.csv",
	Columns: []string{"Vibration_Level", "Motor_Current", "Power_Consumption", "Load_Type"},
	encode: func(r types.LoadRecord) []string {
		return []string{
			formatFloat(r.VibrationLevel),
			formatFloat(r.MotorCurrent),
			formatFloat(r.PowerConsumption),
			string(r.LoadType),
		}
	},
	decode: func(r *row) types.LoadRecord {
		return types.LoadRecord{
			VibrationLevel:   r.float(0),
			MotorCurrent:     r.float(1),
			PowerConsumption: r.float(2),
			LoadType:         parse(r, 3, types.ToLoadType),
		}
	},
}

var StartStop = Schema[types.StartStopRecord]{
	Name:    generator.DatasetStartStop,
	File:    "motor_start_stop.csv",
	Columns: []string{"Timestamp", "Vibration_Level", "Vibration_Change", "Motor_State"},
	encode: func(r types.StartStopRecord) []string {
		return []string{
			formatTime(r.Timestamp),
			formatFloat(r.VibrationLevel),
			formatFloat(r.VibrationChange),
			string(r.MotorState),
		}
	},
	decode: func(r *row) types.StartStopRecord {
		return types.StartStopRecord{
			Timestamp:       r.time(0),
			VibrationLevel:  r.float(1),
			VibrationChange: r.float(2),
			MotorState:      parse(r, 3, types.ToMotorState),
		}
	},
}

var Speed = Schema[types.SpeedRecord]{
	Name:    generator.DatasetSpeed,
	File:    "motor_speed_data.csv",
	Columns: []string{"Required_Flow_Rate", "System_Pressure", "Power_Consumption", "Optimal_Speed"},
	encode: func(r types.SpeedRecord) []string {
		return []string{
			formatFloat(r.RequiredFlowRate),
			formatFloat(r.SystemPressure),
			formatFloat(r.PowerConsumption),
			formatFloat(r.OptimalSpeed),
		}
	},
	decode: func(r *row) types.SpeedRecord {
		return types.SpeedRecord{
			RequiredFlowRate: r.float(0),
			SystemPressure:   r.float(1),
			PowerConsumption: r.float(2),
			OptimalSpeed:     r.float(3),
		}
	},
}

var Vibration = Schema[types.CoolingCycleRecord]{
	Name: generator.DatasetVibration,
	File: "vibration_data.csv",
	Columns: []string{
		"timestamp", "vibration", "label", "condition", "cooling_duration",
		"vibration_reduction", "cooling_efficiency", "stable_vibration",
		"peak_vibration", "avg_vibration",
	},
	encode: func(r types.CoolingCycleRecord) []string {
		return []string{
			formatTime(r.Timestamp),
			formatFloat(r.InitialVibration),
			strconv.Itoa(r.Label),
			string(r.Condition),
			formatFloat(r.CoolingDuration),
			formatFloat(r.VibrationReduction),
			string(r.CoolingEfficiency),
			formatFloat(r.StableVibration),
			formatFloat(r.PeakVibration),
			formatFloat(r.AvgVibration),
		}
	},
	decode: func(r *row) types.CoolingCycleRecord {
		rec := types.CoolingCycleRecord{
			Timestamp:          r.time(0),
			InitialVibration:   r.float(1),
			Label:              r.int(2),
			Condition:          parse(r, 3, types.ToCondition),
			CoolingDuration:    r.float(4),
			VibrationReduction: r.float(5),
			CoolingEfficiency:  parse(r, 6, types.ToEfficiency),
			StableVibration:    r.float(7),
			PeakVibration:      r.float(8),
			AvgVibration:       r.float(9),
		}
		if r.err == nil && rec.Condition.Label() != rec.Label {
			r.fail(2, "label does not match condition")
		}
		return rec
	},
}

// Files lists every dataset file name keyed by dataset name.
func Files() map[string]string {
	return map[string]string{
		Usage.Name:     Usage.File,
		Load.Name:      Load.File,
		StartStop.Name: StartStop.File,
		Speed.Name:     Speed.File,
		Vibration.Name: Vibration.File,
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}
