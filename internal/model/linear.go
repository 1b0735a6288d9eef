package model

import (
	"errors"
	"fmt"
	"math"

	"github.com/ntentasd/motorsim/pkg/types"
)

var ErrSingular = errors.New("singular design matrix")

// Linear is an ordinary least squares fit with intercept.
type Linear struct {
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
}

// FitLinear solves the normal equations by Gaussian elimination.
func FitLinear(x [][]float64, y []float64) (*Linear, error) {
	if len(x) != len(y) {
		return nil, &types.ParameterError{Name: "targets", Value: len(y), Reason: "must match sample count"}
	}
	if len(x) == 0 {
		return nil, &types.ParameterError{Name: "samples", Value: 0, Reason: "need at least one sample"}
	}

	// column 0 is the intercept
	p := len(x[0]) + 1
	a := make([][]float64, p)
	for i := range a {
		a[i] = make([]float64, p+1)
	}
	row := make([]float64, p)
	for i, xi := range x {
		if len(xi) != p-1 {
			return nil, &types.ParameterError{Name: "features", Value: len(xi), Reason: "ragged feature matrix"}
		}
		row[0] = 1
		copy(row[1:], xi)
		for r := range p {
			for c := range p {
				a[r][c] += row[r] * row[c]
			}
			a[r][p] += row[r] * y[i]
		}
	}

	beta, err := solve(a)
	if err != nil {
		return nil, err
	}
	return &Linear{Intercept: beta[0], Coefficients: beta[1:]}, nil
}

func (m *Linear) shape(dims int) error {
	if len(m.Coefficients) != dims {
		return fmt.Errorf("%d coefficients, want %d", len(m.Coefficients), dims)
	}
	return nil
}

// solve reduces an augmented p x (p+1) system in place with partial pivoting.
func solve(a [][]float64) ([]float64, error) {
	p := len(a)
	for col := range p {
		pivot := col
		for r := col + 1; r < p; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) < 1e-12 {
			return nil, ErrSingular
		}
		a[col], a[pivot] = a[pivot], a[col]

		for r := range p {
			if r == col {
				continue
			}
			f := a[r][col] / a[col][col]
			for c := col; c <= p; c++ {
				a[r][c] -= f * a[col][c]
			}
		}
	}

	out := make([]float64, p)
	for i := range p {
		out[i] = a[i][p] / a[i][i]
	}
	return out, nil
}

func (m *Linear) Predict(x []float64) (float64, error) {
	if err := checkDims(len(m.Coefficients), x); err != nil {
		return 0, err
	}
	s := m.Intercept
	for j, v := range x {
		s += m.Coefficients[j] * v
	}
	return s, nil
}
