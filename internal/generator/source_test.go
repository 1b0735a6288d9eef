package generator

import (
	"time"
)

// scriptedSource replays fixed draws, cycling through each list.
// Empty lists yield 0.5 for Float64, 0 for NormFloat64 and 0 for IntN.
type scriptedSource struct {
	floats []float64
	norms  []float64
	ints   []int

	fi, ni, ii int
}

func (s *scriptedSource) Float64() float64 {
	if len(s.floats) == 0 {
		return 0.5
	}
	v := s.floats[s.fi%len(s.floats)]
	s.fi++
	return v
}

func (s *scriptedSource) NormFloat64() float64 {
	if len(s.norms) == 0 {
		return 0
	}
	v := s.norms[s.ni%len(s.norms)]
	s.ni++
	return v
}

func (s *scriptedSource) IntN(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[s.ii%len(s.ints)]
	s.ii++
	return v % n
}

var fixedNow = time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC) // a Monday

func fixedClock() time.Time {
	return fixedNow
}
