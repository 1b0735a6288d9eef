package cache

import (
	"context"
	"time"

	"github.com/ntentasd/motorsim/internal/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// instrument records spans and prometheus series for one cache driver.
type instrument struct {
	driver string
	tracer trace.Tracer
}

func newInstrument(driver string) *instrument {
	return &instrument{driver: driver, tracer: otel.Tracer("motorsim-cache")}
}

func (in *instrument) start(ctx context.Context, op, key string) (context.Context, trace.Span) {
	ctx, span := in.tracer.Start(ctx, "cache."+op)
	span.SetAttributes(
		attribute.String("cache.driver", in.driver),
		attribute.String("cache.key", key),
	)
	return ctx, span
}

// fail marks span as errored and hands err back.
func (in *instrument) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// hit marks a cache hit and records latency since start
func (in *instrument) hit(span trace.Span, start time.Time) {
	metrics.CacheHitsTotal.WithLabelValues(in.driver).Inc()
	metrics.CacheReadLatencySeconds.WithLabelValues(in.driver).Observe(time.Since(start).Seconds())
	span.SetAttributes(attribute.String("cache.result", "hit"))
	span.SetStatus(codes.Ok, "")
}

func (in *instrument) miss(span trace.Span) error {
	metrics.CacheMissesTotal.WithLabelValues(in.driver).Inc()
	span.SetAttributes(attribute.String("cache.result", "miss"))
	span.SetStatus(codes.Ok, "")
	return ErrMiss
}

// wrote records write latency since start
func (in *instrument) wrote(span trace.Span, start time.Time) {
	metrics.CacheWriteLatencySeconds.WithLabelValues(in.driver).Observe(time.Since(start).Seconds())
	span.SetStatus(codes.Ok, "")
}
