package summary

import (
	"math"

	"github.com/caio/go-tdigest/v4"
)

// Stat is the mean and sample standard deviation of a column.
type Stat struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std"`
	Count  int     `json:"count"`
}

func stat(values []float64) Stat {
	n := len(values)
	if n == 0 {
		return Stat{}
	}
	m := mean(values)
	if n == 1 {
		return Stat{Mean: m, Count: 1}
	}
	var ss float64
	for _, v := range values {
		ss += (v - m) * (v - m)
	}
	return Stat{Mean: m, StdDev: math.Sqrt(ss / float64(n-1)), Count: n}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Quantiles are approximate percentiles of a column.
type Quantiles struct {
	P50 float64 `json:"p50"`
	P90 float64 `json:"p90"`
	P99 float64 `json:"p99"`
}

func quantiles(values []float64) (Quantiles, error) {
	if len(values) == 0 {
		return Quantiles{}, nil
	}
	digest, err := tdigest.New()
	if err != nil {
		return Quantiles{}, err
	}
	for _, v := range values {
		if err := digest.Add(v); err != nil {
			return Quantiles{}, err
		}
	}
	return Quantiles{
		P50: digest.Quantile(0.5),
		P90: digest.Quantile(0.9),
		P99: digest.Quantile(0.99),
	}, nil
}

// Matrix is a symmetric correlation matrix over named columns.
type Matrix struct {
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"`
}

// At returns the coefficient between two named columns, or false if either
// column is unknown.
func (m Matrix) At(a, b string) (float64, bool) {
	i, j := -1, -1
	for k, c := range m.Columns {
		if c == a {
			i = k
		}
		if c == b {
			j = k
		}
	}
	if i < 0 || j < 0 {
		return 0, false
	}
	return m.Values[i][j], true
}

// correlation computes pairwise Pearson coefficients. A constant column
// correlates 0 with everything but itself.
func correlation(columns []string, data [][]float64) Matrix {
	m := Matrix{Columns: columns, Values: make([][]float64, len(columns))}
	for i := range columns {
		m.Values[i] = make([]float64, len(columns))
		for j := range columns {
			if i == j {
				m.Values[i][j] = 1
				continue
			}
			m.Values[i][j] = pearson(data[i], data[j])
		}
	}
	return m
}

func pearson(x, y []float64) float64 {
	if len(x) < 2 || len(x) != len(y) {
		return 0
	}
	mx, my := mean(x), mean(y)
	var sxy, sxx, syy float64
	for i := range x {
		dx, dy := x[i]-mx, y[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return 0
	}
	return sxy / math.Sqrt(sxx*syy)
}

func share(hits, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}
