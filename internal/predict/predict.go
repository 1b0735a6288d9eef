// Package predict scores single readings against a trained model bundle.
package predict

import (
	"math"
	"sync"

	"github.com/ntentasd/motorsim/internal/generator"
	"github.com/ntentasd/motorsim/internal/metrics"
	"github.com/ntentasd/motorsim/internal/model"
	"github.com/ntentasd/motorsim/pkg/types"
)

const (
	peakFactor   = 1.1
	stableFactor = 0.7

	minCoolingMinutes = 15.0
	maxCoolingMinutes = 30.0

	SpeedUnit = "RPM"
)

type Service struct {
	bundle *model.Bundle

	// guards src, which need not be safe for concurrent use
	mu  sync.Mutex
	src generator.Source
}

func New(bundle *model.Bundle, src generator.Source) (*Service, error) {
	if err := bundle.Validate(); err != nil {
		return nil, err
	}
	return &Service{bundle: bundle, src: src}, nil
}

type CoolingMetrics struct {
	Duration        float64 `json:"duration"`
	Reduction       float64 `json:"reduction"`
	StableVibration float64 `json:"stable_vibration"`
}

type StatusResult struct {
	Status            types.Condition  `json:"status"`
	StatusConfidence  float64          `json:"status_confidence"`
	CoolingStatus     types.Efficiency `json:"cooling_status"`
	CoolingConfidence float64          `json:"cooling_confidence"`
	Vibration         float64          `json:"vibration"`
	HealthScore       float64          `json:"health_score"`
	CoolingMetrics    CoolingMetrics   `json:"cooling_metrics"`

	// unrounded, for history
	Snapshot model.CoolingSnapshot `json:"-"`
}

// Status simulates a cooling snapshot around vibration and scores it.
func (s *Service) Status(vibration float64) (*StatusResult, error) {
	if err := nonNegative("vibration", vibration); err != nil {
		return nil, err
	}

	snap := s.coolingSnapshot(vibration)

	label, conf, err := s.bundle.Status.Predict([]float64{vibration})
	if err != nil {
		return nil, err
	}
	condition, err := types.ToCondition(label)
	if err != nil {
		return nil, err
	}

	efficiency := types.ClassifyCooling(condition, snap.Reduction)
	p, err := s.bundle.Cooling.Probability(snap.Features())
	if err != nil {
		return nil, err
	}
	if efficiency == types.EfficiencyInefficient {
		p = 1 - p
	}

	metrics.PredictionsTotal.WithLabelValues("status", string(condition)).Inc()
	metrics.PredictionsTotal.WithLabelValues("cooling", string(efficiency)).Inc()

	return &StatusResult{
		Status:            condition,
		StatusConfidence:  conf,
		CoolingStatus:     efficiency,
		CoolingConfidence: p,
		Vibration:         vibration,
		HealthScore:       HealthScore(vibration),
		CoolingMetrics: CoolingMetrics{
			Duration:        round1(snap.Duration),
			Reduction:       round1(snap.Reduction * 100),
			StableVibration: round1(snap.Stable),
		},
		Snapshot: snap,
	}, nil
}

func (s *Service) coolingSnapshot(vibration float64) model.CoolingSnapshot {
	s.mu.Lock()
	duration := minCoolingMinutes + (maxCoolingMinutes-minCoolingMinutes)*s.src.Float64()
	s.mu.Unlock()

	peak := vibration * peakFactor
	stable := vibration * stableFactor
	var reduction float64
	if peak > 0 {
		reduction = (peak - stable) / peak
	}
	return model.CoolingSnapshot{
		Vibration: vibration,
		Peak:      peak,
		Stable:    stable,
		Duration:  duration,
		Reduction: reduction,
		Avg:       (peak + stable) / 2,
	}
}

// HealthScore maps vibration onto 0..100, rounded to one decimal.
func HealthScore(vibration float64) float64 {
	return round1(math.Max(0, math.Min(100, 100-vibration/100)))
}

type UsageInput struct {
	Hour           int     `json:"Hour"`
	Day            int     `json:"Day"`
	VibrationLevel float64 `json:"Vibration_Level"`
	UsageFrequency float64 `json:"Usage_Frequency"`
}

type UsageResult struct {
	Pattern    types.UsageLabel `json:"Usage_Pattern"`
	Confidence float64          `json:"Confidence"`
}

func (s *Service) Usage(in UsageInput) (*UsageResult, error) {
	switch {
	case in.Hour < 0 || in.Hour > 23:
		return nil, &types.ParameterError{Name: "Hour", Value: in.Hour, Reason: "must be in [0, 23]"}
	case in.Day < 0 || in.Day > 6:
		return nil, &types.ParameterError{Name: "Day", Value: in.Day, Reason: "must be in [0, 6]"}
	case !(in.UsageFrequency >= 0 && in.UsageFrequency <= 1):
		return nil, &types.ParameterError{Name: "Usage_Frequency", Value: in.UsageFrequency, Reason: "must be in [0, 1]"}
	}
	if err := nonNegative("Vibration_Level", in.VibrationLevel); err != nil {
		return nil, err
	}

	p, err := s.bundle.Usage.Probability([]float64{
		float64(in.Hour), float64(in.Day), in.VibrationLevel, in.UsageFrequency,
	})
	if err != nil {
		return nil, err
	}

	label := types.UsageLow
	if p > 0.5 {
		label = types.UsageHigh
	}
	metrics.PredictionsTotal.WithLabelValues("usage", string(label)).Inc()
	return &UsageResult{Pattern: label, Confidence: p}, nil
}

type LoadInput struct {
	VibrationLevel   float64 `json:"Vibration_Level"`
	MotorCurrent     float64 `json:"Motor_Current"`
	PowerConsumption float64 `json:"Power_Consumption"`
}

type LoadResult struct {
	LoadType   types.LoadType `json:"Load_Type"`
	Confidence float64        `json:"Confidence"`
}

func (s *Service) Load(in LoadInput) (*LoadResult, error) {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"Vibration_Level", in.VibrationLevel},
		{"Motor_Current", in.MotorCurrent},
		{"Power_Consumption", in.PowerConsumption},
	} {
		if err := nonNegative(f.name, f.value); err != nil {
			return nil, err
		}
	}

	label, conf, err := s.bundle.Load.Predict([]float64{in.VibrationLevel, in.MotorCurrent, in.PowerConsumption})
	if err != nil {
		return nil, err
	}
	lt, err := types.ToLoadType(label)
	if err != nil {
		return nil, err
	}
	metrics.PredictionsTotal.WithLabelValues("load", string(lt)).Inc()
	return &LoadResult{LoadType: lt, Confidence: conf}, nil
}

type SpeedInput struct {
	RequiredFlowRate float64 `json:"Required_Flow_Rate"`
	SystemPressure   float64 `json:"System_Pressure"`
	PowerConsumption float64 `json:"Power_Consumption"`
}

type SpeedResult struct {
	OptimalSpeed float64 `json:"Optimal_Speed"`
	Unit         string  `json:"Unit"`
}

func (s *Service) Speed(in SpeedInput) (*SpeedResult, error) {
	if err := nonNegative("Required_Flow_Rate", in.RequiredFlowRate); err != nil {
		return nil, err
	}
	if err := nonNegative("System_Pressure", in.SystemPressure); err != nil {
		return nil, err
	}
	if math.IsNaN(in.PowerConsumption) || math.IsInf(in.PowerConsumption, 0) {
		return nil, &types.ParameterError{Name: "Power_Consumption", Value: in.PowerConsumption, Reason: "must be finite"}
	}

	v, err := s.bundle.Speed.Predict([]float64{in.RequiredFlowRate, in.SystemPressure, in.PowerConsumption})
	if err != nil {
		return nil, err
	}
	metrics.PredictionsTotal.WithLabelValues("speed", SpeedUnit).Inc()
	return &SpeedResult{OptimalSpeed: v, Unit: SpeedUnit}, nil
}

type StartStopResult struct {
	Status         string `json:"Start_Stop_Status"`
	Recommendation string `json:"Recommendation"`
}

// StartStop needs no model: a large vibration step means the motor cycles too often.
func (s *Service) StartStop(change float64) (*StartStopResult, error) {
	if err := nonNegative("Vibration_Change", change); err != nil {
		return nil, err
	}

	res := &StartStopResult{Status: "Normal", Recommendation: "Normal operation"}
	if change > types.HighCyclingChange {
		res = &StartStopResult{Status: "High", Recommendation: "Reduce cycling frequency"}
	}
	metrics.PredictionsTotal.WithLabelValues("start_stop", res.Status).Inc()
	return res, nil
}

func nonNegative(name string, v float64) error {
	if !(v >= 0) || math.IsInf(v, 0) {
		return &types.ParameterError{Name: name, Value: v, Reason: "must be a finite non-negative number"}
	}
	return nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
