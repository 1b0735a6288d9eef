package model

import (
	"fmt"
	"math"

	"github.com/ntentasd/motorsim/pkg/types"
)

type LogisticConfig struct {
	Epochs       int
	LearningRate float64
	L2           float64
}

func DefaultLogisticConfig() LogisticConfig {
	return LogisticConfig{Epochs: 500, LearningRate: 0.5, L2: 1e-4}
}

// Logistic is a binary classifier fitted by full-batch gradient descent.
type Logistic struct {
	Scaler  Scaler    `json:"scaler"`
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
}

func FitLogistic(x [][]float64, y []bool, cfg LogisticConfig) (*Logistic, error) {
	if len(x) != len(y) {
		return nil, &types.ParameterError{Name: "labels", Value: len(y), Reason: "must match sample count"}
	}
	if err := types.Positive("epochs", cfg.Epochs); err != nil {
		return nil, err
	}
	if !(cfg.LearningRate > 0) {
		return nil, &types.ParameterError{Name: "learning_rate", Value: cfg.LearningRate, Reason: "must be positive"}
	}
	scaler, err := FitScaler(x)
	if err != nil {
		return nil, err
	}

	z := make([][]float64, len(x))
	for i, row := range x {
		z[i] = scaler.Transform(row)
	}

	m := &Logistic{Scaler: scaler, Weights: make([]float64, scaler.dims())}
	n := float64(len(z))
	grad := make([]float64, len(m.Weights))

	for range cfg.Epochs {
		clear(grad)
		var gradBias float64
		for i, row := range z {
			diff := m.prob(row)
			if y[i] {
				diff--
			}
			for j, v := range row {
				grad[j] += diff * v
			}
			gradBias += diff
		}
		for j := range m.Weights {
			m.Weights[j] -= cfg.LearningRate * (grad[j]/n + cfg.L2*m.Weights[j])
		}
		m.Bias -= cfg.LearningRate * gradBias / n
	}
	return m, nil
}

func (m *Logistic) shape(dims int) error {
	if err := m.Scaler.shape(dims); err != nil {
		return err
	}
	if len(m.Weights) != dims {
		return fmt.Errorf("%d weights, want %d", len(m.Weights), dims)
	}
	return nil
}

func (m *Logistic) prob(z []float64) float64 {
	s := m.Bias
	for j, v := range z {
		s += m.Weights[j] * v
	}
	return 1 / (1 + math.Exp(-s))
}

// Probability returns P(y = true | x).
func (m *Logistic) Probability(x []float64) (float64, error) {
	if err := checkDims(m.Scaler.dims(), x); err != nil {
		return 0, err
	}
	return m.prob(m.Scaler.Transform(x)), nil
}
