// Package summary computes the pattern analyses over generated tables.
package summary

import (
	"github.com/ntentasd/motorsim/pkg/types"
)

type Usage struct {
	Rows              int         `json:"rows"`
	HourlyFrequency   [24]float64 `json:"hourly_frequency"`
	DailyFrequency    [7]float64  `json:"daily_frequency"`
	HourlyVibration   [24]Stat    `json:"hourly_vibration"`
	TemperatureByHour [24]float64 `json:"hourly_temperature"`
	HighUsageShare    float64     `json:"high_usage_share"`
	Vibration         Quantiles   `json:"vibration_quantiles"`
}

func OfUsage(rows []types.UsageRecord) (*Usage, error) {
	var (
		freqByHour [24][]float64
		freqByDay  [7][]float64
		vibByHour  [24][]float64
		tempByHour [24][]float64
		vibration  = make([]float64, 0, len(rows))
		high       int
	)
	for _, r := range rows {
		if r.Hour < 0 || r.Hour > 23 || r.Day < 0 || r.Day > 6 {
			return nil, &types.ParameterError{Name: "row", Value: r.Timestamp, Reason: "hour or day out of range"}
		}
		freqByHour[r.Hour] = append(freqByHour[r.Hour], r.UsageFrequency)
		freqByDay[r.Day] = append(freqByDay[r.Day], r.UsageFrequency)
		vibByHour[r.Hour] = append(vibByHour[r.Hour], r.VibrationLevel)
		tempByHour[r.Hour] = append(tempByHour[r.Hour], r.Temperature)
		vibration = append(vibration, r.VibrationLevel)
		if r.UsageLabel == types.UsageHigh {
			high++
		}
	}

	q, err := quantiles(vibration)
	if err != nil {
		return nil, err
	}

	s := &Usage{Rows: len(rows), HighUsageShare: share(high, len(rows)), Vibration: q}
	for h := range 24 {
		s.HourlyFrequency[h] = mean(freqByHour[h])
		s.HourlyVibration[h] = stat(vibByHour[h])
		s.TemperatureByHour[h] = mean(tempByHour[h])
	}
	for d := range 7 {
		s.DailyFrequency[d] = mean(freqByDay[d])
	}
	return s, nil
}

type LoadGroup struct {
	Count     int     `json:"count"`
	Vibration Stat    `json:"vibration"`
	Current   float64 `json:"mean_current"`
	Power     float64 `json:"mean_power"`
}

type Load struct {
	Rows        int                          `json:"rows"`
	ByType      map[types.LoadType]LoadGroup `json:"by_type"`
	Correlation Matrix                       `json:"correlation"`
}

func OfLoad(rows []types.LoadRecord) *Load {
	vib := make([]float64, len(rows))
	cur := make([]float64, len(rows))
	pow := make([]float64, len(rows))

	groups := map[types.LoadType][]types.LoadRecord{}
	for i, r := range rows {
		vib[i], cur[i], pow[i] = r.VibrationLevel, r.MotorCurrent, r.PowerConsumption
		groups[r.LoadType] = append(groups[r.LoadType], r)
	}

	s := &Load{
		Rows:   len(rows),
		ByType: make(map[types.LoadType]LoadGroup, len(groups)),
		Correlation: correlation(
			[]string{"Vibration_Level", "Motor_Current", "Power_Consumption"},
			[][]float64{vib, cur, pow},
		),
	}
	for lt, g := range groups {
		gv := make([]float64, len(g))
		gc := make([]float64, len(g))
		gp := make([]float64, len(g))
		for i, r := range g {
			gv[i], gc[i], gp[i] = r.VibrationLevel, r.MotorCurrent, r.PowerConsumption
		}
		s.ByType[lt] = LoadGroup{Count: len(g), Vibration: stat(gv), Current: mean(gc), Power: mean(gp)}
	}
	return s
}

type Speed struct {
	Rows         int    `json:"rows"`
	OptimalSpeed Stat   `json:"optimal_speed"`
	Correlation  Matrix `json:"correlation"`
}

func OfSpeed(rows []types.SpeedRecord) *Speed {
	cols := make([][]float64, 4)
	for i := range cols {
		cols[i] = make([]float64, len(rows))
	}
	for i, r := range rows {
		cols[0][i] = r.RequiredFlowRate
		cols[1][i] = r.SystemPressure
		cols[2][i] = r.PowerConsumption
		cols[3][i] = r.OptimalSpeed
	}
	return &Speed{
		Rows:         len(rows),
		OptimalSpeed: stat(cols[3]),
		Correlation: correlation(
			[]string{"Required_Flow_Rate", "System_Pressure", "Power_Consumption", "Optimal_Speed"},
			cols,
		),
	}
}

type CoolingGroup struct {
	Count            int     `json:"count"`
	InitialVibration Stat    `json:"initial_vibration"`
	MeanReduction    float64 `json:"mean_reduction"`
	MeanDuration     float64 `json:"mean_duration"`
	EfficientShare   float64 `json:"efficient_share"`
}

type Cooling struct {
	Rows        int                              `json:"rows"`
	ByCondition map[types.Condition]CoolingGroup `json:"by_condition"`
}

func OfCooling(rows []types.CoolingCycleRecord) *Cooling {
	type acc struct {
		initial, reduction, duration []float64
		efficient                    int
	}
	accs := map[types.Condition]*acc{}
	for _, r := range rows {
		a, ok := accs[r.Condition]
		if !ok {
			a = &acc{}
			accs[r.Condition] = a
		}
		a.initial = append(a.initial, r.InitialVibration)
		a.reduction = append(a.reduction, r.VibrationReduction)
		a.duration = append(a.duration, r.CoolingDuration)
		if r.CoolingEfficiency == types.EfficiencyEfficient {
			a.efficient++
		}
	}

	s := &Cooling{Rows: len(rows), ByCondition: make(map[types.Condition]CoolingGroup, len(accs))}
	for c, a := range accs {
		n := len(a.initial)
		s.ByCondition[c] = CoolingGroup{
			Count:            n,
			InitialVibration: stat(a.initial),
			MeanReduction:    mean(a.reduction),
			MeanDuration:     mean(a.duration),
			EfficientShare:   share(a.efficient, n),
		}
	}
	return s
}

type StartStop struct {
	Rows         int       `json:"rows"`
	RunningShare float64   `json:"running_share"`
	Transitions  int       `json:"transitions"`
	HighCycling  int       `json:"high_cycling"`
	Change       Quantiles `json:"change_quantiles"`
}

func OfStartStop(rows []types.StartStopRecord) (*StartStop, error) {
	var running, transitions, high int
	changes := make([]float64, 0, len(rows))
	for i, r := range rows {
		if r.MotorState == types.MotorRunning {
			running++
		}
		if i > 0 && r.MotorState != rows[i-1].MotorState {
			transitions++
		}
		if r.VibrationChange > types.HighCyclingChange {
			high++
		}
		changes = append(changes, r.VibrationChange)
	}

	q, err := quantiles(changes)
	if err != nil {
		return nil, err
	}
	return &StartStop{
		Rows:         len(rows),
		RunningShare: share(running, len(rows)),
		Transitions:  transitions,
		HighCycling:  high,
		Change:       q,
	}, nil
}
