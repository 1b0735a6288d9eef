package model

import (
	"math/rand/v2"

	"github.com/ntentasd/motorsim/pkg/types"
)

// TestFraction is the share of rows held out for scoring.
const TestFraction = 0.2

// Split returns shuffled train and test row indices.
func Split(n int, testFraction float64, seed uint64) (train, test []int, err error) {
	if n < 2 {
		return nil, nil, &types.ParameterError{Name: "samples", Value: n, Reason: "need at least two rows to split"}
	}
	if !(testFraction > 0 && testFraction < 1) {
		return nil, nil, &types.ParameterError{Name: "test_fraction", Value: testFraction, Reason: "must be in (0, 1)"}
	}

	perm := rand.New(rand.NewPCG(seed, seed)).Perm(n)
	cut := int(float64(n) * testFraction)
	cut = max(1, min(cut, n-1))
	return perm[cut:], perm[:cut], nil
}

func pick[T any](rows []T, idx []int) []T {
	out := make([]T, len(idx))
	for i, k := range idx {
		out[i] = rows[k]
	}
	return out
}

func Accuracy[T comparable](predicted, truth []T) float64 {
	if len(truth) == 0 || len(predicted) != len(truth) {
		return 0
	}
	var hits int
	for i := range truth {
		if predicted[i] == truth[i] {
			hits++
		}
	}
	return float64(hits) / float64(len(truth))
}

// R2 is the coefficient of determination of predicted against truth.
func R2(predicted, truth []float64) float64 {
	if len(truth) == 0 || len(predicted) != len(truth) {
		return 0
	}
	var m float64
	for _, v := range truth {
		m += v
	}
	m /= float64(len(truth))

	var ssRes, ssTot float64
	for i, v := range truth {
		ssRes += (v - predicted[i]) * (v - predicted[i])
		ssTot += (v - m) * (v - m)
	}
	if ssTot == 0 {
		return 0
	}
	return 1 - ssRes/ssTot
}
