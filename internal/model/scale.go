// Package model holds the small in-process learners the prediction service
// runs on: a nearest-centroid classifier, logistic regression and ordinary
// least squares, plus the JSON bundle they are persisted in.
package model

import (
	"fmt"
	"math"

	"github.com/ntentasd/motorsim/pkg/types"
)

// Scaler standardises features to zero mean and unit variance.
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

func FitScaler(x [][]float64) (Scaler, error) {
	if len(x) == 0 {
		return Scaler{}, &types.ParameterError{Name: "samples", Value: 0, Reason: "need at least one sample"}
	}
	dims := len(x[0])
	s := Scaler{Mean: make([]float64, dims), Scale: make([]float64, dims)}

	for _, row := range x {
		if len(row) != dims {
			return Scaler{}, &types.ParameterError{Name: "features", Value: len(row), Reason: "ragged feature matrix"}
		}
		for j, v := range row {
			s.Mean[j] += v
		}
	}
	n := float64(len(x))
	for j := range s.Mean {
		s.Mean[j] /= n
	}
	for _, row := range x {
		for j, v := range row {
			d := v - s.Mean[j]
			s.Scale[j] += d * d
		}
	}
	for j := range s.Scale {
		s.Scale[j] = math.Sqrt(s.Scale[j] / n)
		if s.Scale[j] == 0 {
			s.Scale[j] = 1
		}
	}
	return s, nil
}

func (s Scaler) Transform(x []float64) []float64 {
	out := make([]float64, len(x))
	for j, v := range x {
		out[j] = (v - s.Mean[j]) / s.Scale[j]
	}
	return out
}

func (s Scaler) dims() int {
	return len(s.Mean)
}

func (s Scaler) shape(dims int) error {
	if len(s.Mean) != dims || len(s.Scale) != dims {
		return fmt.Errorf("scaler has %d means and %d scales, want %d", len(s.Mean), len(s.Scale), dims)
	}
	for _, v := range s.Scale {
		if !(v > 0) || math.IsInf(v, 0) {
			return fmt.Errorf("scaler scale %v must be positive and finite", v)
		}
	}
	return nil
}

func checkDims(want int, x []float64) error {
	if len(x) != want {
		return &types.ParameterError{Name: "features", Value: len(x), Reason: "wrong number of features"}
	}
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &types.ParameterError{Name: "features", Value: v, Reason: "must be finite"}
		}
	}
	return nil
}
