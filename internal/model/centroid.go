package model

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/ntentasd/motorsim/pkg/types"
)

// Centroid classifies a sample by its nearest class mean in standardised
// feature space. Confidence is a Gaussian-weighted share over all classes.
type Centroid struct {
	Scaler  Scaler      `json:"scaler"`
	Labels  []string    `json:"labels"`
	Centers [][]float64 `json:"centers"`
}

func FitCentroid(x [][]float64, y []string) (*Centroid, error) {
	if len(x) != len(y) {
		return nil, &types.ParameterError{Name: "labels", Value: len(y), Reason: "must match sample count"}
	}
	scaler, err := FitScaler(x)
	if err != nil {
		return nil, err
	}

	sums := map[string][]float64{}
	counts := map[string]int{}
	for i, row := range x {
		z := scaler.Transform(row)
		acc, ok := sums[y[i]]
		if !ok {
			acc = make([]float64, len(z))
			sums[y[i]] = acc
		}
		for j, v := range z {
			acc[j] += v
		}
		counts[y[i]]++
	}

	c := &Centroid{Scaler: scaler}
	for label := range sums {
		c.Labels = append(c.Labels, label)
	}
	slices.Sort(c.Labels)
	for _, label := range c.Labels {
		center := sums[label]
		for j := range center {
			center[j] /= float64(counts[label])
		}
		c.Centers = append(c.Centers, center)
	}
	return c, nil
}

func (c *Centroid) shape(dims int) error {
	if err := c.Scaler.shape(dims); err != nil {
		return err
	}
	if len(c.Labels) == 0 {
		return errors.New("no labels")
	}
	if len(c.Centers) != len(c.Labels) {
		return fmt.Errorf("%d centers for %d labels", len(c.Centers), len(c.Labels))
	}
	for k, center := range c.Centers {
		if len(center) != dims {
			return fmt.Errorf("center %q has %d features, want %d", c.Labels[k], len(center), dims)
		}
	}
	return nil
}

// Predict returns the nearest label and its confidence in [0, 1].
func (c *Centroid) Predict(x []float64) (string, float64, error) {
	if err := c.shape(c.Scaler.dims()); err != nil {
		return "", 0, &types.SchemaError{Dataset: "centroid", Reason: err.Error()}
	}
	if err := checkDims(c.Scaler.dims(), x); err != nil {
		return "", 0, err
	}
	z := c.Scaler.Transform(x)

	dist := make([]float64, len(c.Centers))
	best := 0
	for k, center := range c.Centers {
		for j := range z {
			d := z[j] - center[j]
			dist[k] += d * d
		}
		if dist[k] < dist[best] {
			best = k
		}
	}

	var total float64
	for k := range dist {
		total += math.Exp(-(dist[k] - dist[best]) / 2)
	}
	return c.Labels[best], 1 / total, nil
}
