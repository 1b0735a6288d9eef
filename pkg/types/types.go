// Package types
package types

import (
	"time"
)

type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

type Aggregate struct {
	Avg       float64   `json:"avg"`
	Min       float64   `json:"min"`
	Max       float64   `json:"max"`
	Count     int       `json:"count"`
	Timestamp time.Time `json:"timestamp"`
}

// Condition is the operating regime a cooling cycle was simulated under.
type Condition string

const (
	ConditionNormal      Condition = "Normal"
	ConditionOverheating Condition = "Overheating"
	ConditionFailure     Condition = "Failure"
)

// Conditions lists the regimes in label order.
var Conditions = []Condition{
	ConditionNormal,
	ConditionOverheating,
	ConditionFailure,
}

// Label returns the integer encoding used in the vibration dataset.
func (c Condition) Label() int {
	switch c {
	case ConditionNormal:
		return 0
	case ConditionOverheating:
		return 1
	case ConditionFailure:
		return 2
	default:
		return -1
	}
}

func ConditionFromLabel(label int) (Condition, error) {
	if label < 0 || label >= len(Conditions) {
		return "", &ParameterError{Name: "label", Value: label, Reason: "must be 0, 1 or 2"}
	}
	return Conditions[label], nil
}

func ToCondition(s string) (Condition, error) {
	for _, c := range Conditions {
		if string(c) == s {
			return c, nil
		}
	}
	return "", &ParameterError{Name: "condition", Value: s, Reason: "unknown condition"}
}

type Efficiency string

const (
	EfficiencyEfficient   Efficiency = "Efficient"
	EfficiencyInefficient Efficiency = "Inefficient"
)

func ToEfficiency(s string) (Efficiency, error) {
	switch Efficiency(s) {
	case EfficiencyEfficient, EfficiencyInefficient:
		return Efficiency(s), nil
	default:
		return "", &ParameterError{Name: "cooling_efficiency", Value: s, Reason: "unknown efficiency"}
	}
}

type LoadType string

const (
	LoadLight  LoadType = "Light Load"
	LoadNormal LoadType = "Normal Load"
	LoadPeak   LoadType = "Peak Load"
)

var LoadTypes = []LoadType{LoadLight, LoadNormal, LoadPeak}

func ToLoadType(s string) (LoadType, error) {
	for _, lt := range LoadTypes {
		if string(lt) == s {
			return lt, nil
		}
	}
	return "", &ParameterError{Name: "load_type", Value: s, Reason: "unknown load type"}
}

type UsageLabel string

const (
	UsageHigh UsageLabel = "High Usage"
	UsageLow  UsageLabel = "Low Usage"
)

func ToUsageLabel(s string) (UsageLabel, error) {
	switch UsageLabel(s) {
	case UsageHigh, UsageLow:
		return UsageLabel(s), nil
	default:
		return "", &ParameterError{Name: "usage_label", Value: s, Reason: "unknown usage label"}
	}
}

type MotorState string

const (
	MotorRunning MotorState = "Running"
	MotorStopped MotorState = "Stopped"
)

func ToMotorState(s string) (MotorState, error) {
	switch MotorState(s) {
	case MotorRunning, MotorStopped:
		return MotorState(s), nil
	default:
		return "", &ParameterError{Name: "motor_state", Value: s, Reason: "unknown motor state"}
	}
}
