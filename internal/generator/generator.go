// Package generator manufactures the synthetic motor telemetry tables.
//
// Every method runs to completion in one pass and returns a freshly built
// slice; a Generator keeps no state between calls other than its Source.
package generator

import (
	"context"
	"time"

	"github.com/ntentasd/motorsim/internal/metrics"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	DatasetUsage     = "usage"
	DatasetLoad      = "load"
	DatasetSpeed     = "speed"
	DatasetStartStop = "start_stop"
	DatasetVibration = "vibration"
)

type Generator struct {
	src    Source
	now    func() time.Time
	logger zerolog.Logger
}

type Option func(*Generator)

// WithClock fixes the reference time the timestamp grids are anchored on.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger.With().Str("component", "generator").Logger()
	}
}

func New(src Source, opts ...Option) *Generator {
	g := &Generator{
		src:    src,
		now:    time.Now,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// reference returns the anchor time in UTC truncated to whole seconds so that
// timestamps and the columns derived from them survive a CSV round trip unchanged.
func (g *Generator) reference() time.Time {
	return g.now().UTC().Truncate(time.Second)
}

func (g *Generator) begin(ctx context.Context, dataset string, size int) (trace.Span, time.Time) {
	_, span := otel.Tracer("motorsim-generator").Start(ctx, "generator."+dataset)
	span.SetAttributes(
		attribute.String("dataset", dataset),
		attribute.Int("size", size),
	)
	return span, time.Now()
}

func (g *Generator) end(span trace.Span, dataset string, start time.Time, rows int, err error) {
	defer span.End()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}

	metrics.GeneratorRowsTotal.WithLabelValues(dataset).Add(float64(rows))
	metrics.GeneratorLatencySeconds.WithLabelValues(dataset).Observe(time.Since(start).Seconds())
	span.SetAttributes(attribute.Int("rows", rows))
	span.SetStatus(codes.Ok, "")

	g.logger.Debug().
		Str("dataset", dataset).
		Int("rows", rows).
		Dur("took", time.Since(start)).
		Msg("dataset generated")
}
