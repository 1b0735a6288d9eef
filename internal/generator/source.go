package generator

import (
	"math/rand/v2"
)

// Source is the randomness a generator draws from. *rand.Rand satisfies it.
type Source interface {
	Float64() float64
	NormFloat64() float64
	IntN(n int) int
}

var _ Source = (*rand.Rand)(nil)

// NewSource returns a deterministic PCG-backed source for the given seed.
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func uniform(src Source, lo, hi float64) float64 {
	return lo + (hi-lo)*src.Float64()
}

func normal(src Source, mean, stddev float64) float64 {
	if stddev == 0 {
		return mean
	}
	return mean + stddev*src.NormFloat64()
}

func choice(src Source, values []float64) float64 {
	return values[src.IntN(len(values))]
}

// shuffle is an in-place Fisher-Yates pass driven by src.
func shuffle[T any](src Source, rows []T) {
	for i := len(rows) - 1; i > 0; i-- {
		j := src.IntN(i + 1)
		rows[i], rows[j] = rows[j], rows[i]
	}
}
