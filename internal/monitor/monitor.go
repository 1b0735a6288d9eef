// Package monitor keeps the rolling prediction history served back to
// dashboard clients.
package monitor

import (
	"sync"

	"github.com/ntentasd/motorsim/pkg/types"
)

const (
	DefaultSize = 10
	// RecentCooling is how many cooling events a snapshot carries.
	RecentCooling = 3
	// ClockLayout formats history timestamps.
	ClockLayout = "15:04:05"
)

type Reading struct {
	Time   string          `json:"time"`
	Value  float64         `json:"value"`
	Status types.Condition `json:"status"`
}

type CoolingEvent struct {
	Time      string           `json:"time"`
	Status    types.Efficiency `json:"status"`
	Duration  float64          `json:"duration"`
	Reduction float64          `json:"reduction"`
}

type Counts struct {
	Status  map[types.Condition]int  `json:"status"`
	Cooling map[types.Efficiency]int `json:"cooling"`
}

type History struct {
	Vibration []Reading      `json:"vibration"`
	Cooling   []CoolingEvent `json:"cooling"`
}

type Snapshot struct {
	History History `json:"history"`
	Counts  Counts  `json:"counts"`
}

// Monitor is safe for concurrent use.
type Monitor struct {
	mu        sync.Mutex
	vibration *Ring[Reading]
	cooling   *Ring[CoolingEvent]
	status    map[types.Condition]int
	efficient map[types.Efficiency]int
}

func New(size int) (*Monitor, error) {
	if err := types.Positive("history_size", size); err != nil {
		return nil, err
	}

	m := &Monitor{
		vibration: NewRing[Reading](size),
		cooling:   NewRing[CoolingEvent](size),
		status:    make(map[types.Condition]int, len(types.Conditions)),
		efficient: map[types.Efficiency]int{
			types.EfficiencyEfficient:   0,
			types.EfficiencyInefficient: 0,
		},
	}
	for _, c := range types.Conditions {
		m.status[c] = 0
	}
	return m, nil
}

// Record appends one prediction and returns the state after it.
func (m *Monitor) Record(r Reading, c CoolingEvent) Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.vibration.Push(r)
	m.cooling.Push(c)
	m.status[r.Status]++
	m.efficient[c.Status]++

	return m.snapshot()
}

func (m *Monitor) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.snapshot()
}

func (m *Monitor) snapshot() Snapshot {
	s := Snapshot{
		History: History{
			Vibration: m.vibration.Items(),
			Cooling:   m.cooling.Last(RecentCooling),
		},
		Counts: Counts{
			Status:  make(map[types.Condition]int, len(m.status)),
			Cooling: make(map[types.Efficiency]int, len(m.efficient)),
		},
	}
	for k, v := range m.status {
		s.Counts.Status[k] = v
	}
	for k, v := range m.efficient {
		s.Counts.Cooling[k] = v
	}
	return s
}
