package types

import "time"

type UsageRecord struct {
	Timestamp      time.Time  `json:"timestamp"`
	Hour           int        `json:"hour"`
	Day            int        `json:"day"`
	VibrationLevel float64    `json:"vibration_level"`
	UsageFrequency float64    `json:"usage_frequency"`
	Temperature    float64    `json:"temperature"`
	UsageLabel     UsageLabel `json:"usage_label"`
}

type LoadRecord struct {
	VibrationLevel   float64  `json:"vibration_level"`
	MotorCurrent     float64  `json:"motor_current"`
	PowerConsumption float64  `json:"power_consumption"`
	LoadType         LoadType `json:"load_type"`
}

type SpeedRecord struct {
	RequiredFlowRate float64 `json:"required_flow_rate"`
	SystemPressure   float64 `json:"system_pressure"`
	PowerConsumption float64 `json:"power_consumption"`
	OptimalSpeed     float64 `json:"optimal_speed"`
}

type CoolingCycleRecord struct {
	Timestamp          time.Time  `json:"timestamp"`
	InitialVibration   float64    `json:"vibration"`
	Label              int        `json:"label"`
	Condition          Condition  `json:"condition"`
	CoolingDuration    float64    `json:"cooling_duration"`
	VibrationReduction float64    `json:"vibration_reduction"`
	CoolingEfficiency  Efficiency `json:"cooling_efficiency"`
	StableVibration    float64    `json:"stable_vibration"`
	PeakVibration      float64    `json:"peak_vibration"`
	AvgVibration       float64    `json:"avg_vibration"`
}

type StartStopRecord struct {
	Timestamp       time.Time  `json:"timestamp"`
	VibrationLevel  float64    `json:"vibration_level"`
	VibrationChange float64    `json:"vibration_change"`
	MotorState      MotorState `json:"motor_state"`
}
