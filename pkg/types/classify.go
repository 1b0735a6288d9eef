package types

const (
	LightLoadCeiling  = 4000.0
	NormalLoadCeiling = 7000.0

	NormalCoolingThreshold      = 0.30
	OverheatingCoolingThreshold = 0.25

	HighUsageThreshold = 0.6

	StoppedVibrationCeiling = 100.0

	// HighCyclingChange is the vibration step above which a start/stop
	// transition counts as aggressive cycling.
	HighCyclingChange = 50.0
)

// ClassifyLoad buckets a vibration level into half-open intervals:
// [.., 4000) light, [4000, 7000) normal, [7000, ..) peak.
func ClassifyLoad(vibration float64) LoadType {
	switch {
	case vibration < LightLoadCeiling:
		return LoadLight
	case vibration < NormalLoadCeiling:
		return LoadNormal
	default:
		return LoadPeak
	}
}

// ClassifyCooling rates a cooling cycle. A failing motor never cools efficiently.
func ClassifyCooling(condition Condition, reduction float64) Efficiency {
	var threshold float64
	switch condition {
	case ConditionNormal:
		threshold = NormalCoolingThreshold
	case ConditionOverheating:
		threshold = OverheatingCoolingThreshold
	default:
		return EfficiencyInefficient
	}

	if reduction > threshold {
		return EfficiencyEfficient
	}
	return EfficiencyInefficient
}

func ClassifyUsage(frequency float64) UsageLabel {
	if frequency > HighUsageThreshold {
		return UsageHigh
	}
	return UsageLow
}

func ClassifyMotorState(vibration float64) MotorState {
	if vibration > StoppedVibrationCeiling {
		return MotorRunning
	}
	return MotorStopped
}
