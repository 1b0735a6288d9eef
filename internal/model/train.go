package model

import (
	"context"
	"fmt"
	"time"

	"github.com/ntentasd/motorsim/pkg/types"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// Report is the held-out score of one fitted model.
type Report struct {
	Model     string  `json:"model"`
	Metric    string  `json:"metric"`
	Score     float64 `json:"score"`
	TrainRows int     `json:"train_rows"`
	TestRows  int     `json:"test_rows"`
}

// Tables are the generated datasets the bundle is fitted on.
type Tables struct {
	Vibration []types.CoolingCycleRecord
	Usage     []types.UsageRecord
	Load      []types.LoadRecord
	Speed     []types.SpeedRecord
}

type Trainer struct {
	Seed     uint64
	Logistic LogisticConfig
}

func NewTrainer(seed uint64) *Trainer {
	return &Trainer{Seed: seed, Logistic: DefaultLogisticConfig()}
}

// Train fits every model of the bundle and scores each on a held-out split.
func (t *Trainer) Train(ctx context.Context, tables Tables) (*Bundle, error) {
	ctx, span := otel.Tracer("motorsim-model").Start(ctx, "model.Train")
	defer span.End()

	logger := zerolog.Ctx(ctx)
	b := &Bundle{Version: BundleVersion, TrainedAt: time.Now().UTC()}

	record := func(r Report, err error) error {
		if err != nil {
			span.RecordError(err)
			return fmt.Errorf("train %s: %w", r.Model, err)
		}
		span.SetAttributes(attribute.Float64("model."+r.Model+".score", r.Score))
		logger.Info().
			Str("model", r.Model).
			Str("metric", r.Metric).
			Float64("score", r.Score).
			Int("train_rows", r.TrainRows).
			Int("test_rows", r.TestRows).
			Msg("model trained")
		b.Reports = append(b.Reports, r)
		return nil
	}

	var (
		r   Report
		err error
	)
	b.Status, r, err = t.Status(tables.Vibration)
	if err := record(r, err); err != nil {
		return nil, err
	}
	b.Cooling, r, err = t.Cooling(tables.Vibration)
	if err := record(r, err); err != nil {
		return nil, err
	}
	b.Usage, r, err = t.Usage(tables.Usage)
	if err := record(r, err); err != nil {
		return nil, err
	}
	b.Load, r, err = t.Load(tables.Load)
	if err := record(r, err); err != nil {
		return nil, err
	}
	b.Speed, r, err = t.Speed(tables.Speed)
	if err := record(r, err); err != nil {
		return nil, err
	}

	return b, nil
}

// Status maps a vibration level onto its operating condition.
func (t *Trainer) Status(rows []types.CoolingCycleRecord) (*Centroid, Report, error) {
	return fitClassifier(t.Seed, "status", rows,
		func(r types.CoolingCycleRecord) []float64 { return []float64{r.InitialVibration} },
		func(r types.CoolingCycleRecord) string { return string(r.Condition) },
	)
}

func (t *Trainer) Cooling(rows []types.CoolingCycleRecord) (*Logistic, Report, error) {
	return fitBinary(t.Seed, t.Logistic, "cooling", rows, coolingRow,
		func(r types.CoolingCycleRecord) bool { return r.CoolingEfficiency == types.EfficiencyEfficient },
	)
}

func (t *Trainer) Usage(rows []types.UsageRecord) (*Logistic, Report, error) {
	return fitBinary(t.Seed, t.Logistic, "usage", rows, usageRow,
		func(r types.UsageRecord) bool { return r.UsageLabel == types.UsageHigh },
	)
}

func (t *Trainer) Load(rows []types.LoadRecord) (*Centroid, Report, error) {
	return fitClassifier(t.Seed, "load", rows, loadRow,
		func(r types.LoadRecord) string { return string(r.LoadType) },
	)
}

func (t *Trainer) Speed(rows []types.SpeedRecord) (*Linear, Report, error) {
	train, test, err := Split(len(rows), TestFraction, t.Seed)
	if err != nil {
		return nil, Report{Model: "speed"}, err
	}

	x, y := columns(pick(rows, train), speedRow, func(r types.SpeedRecord) float64 { return r.OptimalSpeed })
	m, err := FitLinear(x, y)
	if err != nil {
		return nil, Report{Model: "speed"}, err
	}

	tx, ty := columns(pick(rows, test), speedRow, func(r types.SpeedRecord) float64 { return r.OptimalSpeed })
	predicted := make([]float64, len(tx))
	for i, row := range tx {
		if predicted[i], err = m.Predict(row); err != nil {
			return nil, Report{Model: "speed"}, err
		}
	}

	return m, Report{Model: "speed", Metric: "r2", Score: R2(predicted, ty), TrainRows: len(train), TestRows: len(test)}, nil
}

func fitClassifier[T any](seed uint64, name string, rows []T, feat func(T) []float64, label func(T) string) (*Centroid, Report, error) {
	train, test, err := Split(len(rows), TestFraction, seed)
	if err != nil {
		return nil, Report{Model: name}, err
	}

	x, y := columns(pick(rows, train), feat, label)
	m, err := FitCentroid(x, y)
	if err != nil {
		return nil, Report{Model: name}, err
	}

	tx, ty := columns(pick(rows, test), feat, label)
	predicted := make([]string, len(tx))
	for i, row := range tx {
		if predicted[i], _, err = m.Predict(row); err != nil {
			return nil, Report{Model: name}, err
		}
	}

	return m, Report{Model: name, Metric: "accuracy", Score: Accuracy(predicted, ty), TrainRows: len(train), TestRows: len(test)}, nil
}

func fitBinary[T any](seed uint64, cfg LogisticConfig, name string, rows []T, feat func(T) []float64, label func(T) bool) (*Logistic, Report, error) {
	train, test, err := Split(len(rows), TestFraction, seed)
	if err != nil {
		return nil, Report{Model: name}, err
	}

	x, y := columns(pick(rows, train), feat, label)
	m, err := FitLogistic(x, y, cfg)
	if err != nil {
		return nil, Report{Model: name}, err
	}

	tx, ty := columns(pick(rows, test), feat, label)
	predicted := make([]bool, len(tx))
	for i, row := range tx {
		p, err := m.Probability(row)
		if err != nil {
			return nil, Report{Model: name}, err
		}
		predicted[i] = p > 0.5
	}

	return m, Report{Model: name, Metric: "accuracy", Score: Accuracy(predicted, ty), TrainRows: len(train), TestRows: len(test)}, nil
}

func columns[T, Y any](rows []T, feat func(T) []float64, target func(T) Y) ([][]float64, []Y) {
	x := make([][]float64, len(rows))
	y := make([]Y, len(rows))
	for i, r := range rows {
		x[i] = feat(r)
		y[i] = target(r)
	}
	return x, y
}
