package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GeneratorRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name:      "generator_rows_total",
			Namespace: Namespace,
			Help:      "The total number of synthetic rows generated, by dataset.",
		},
		[]string{"dataset"},
	)

	GeneratorLatencySeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:      "generator_latency_seconds",
			Namespace: Namespace,
			Buckets:   prometheus.DefBuckets,
			Help:      "The time spent generating one dataset in seconds.",
		},
		[]string{"dataset"},
	)

	DatasetWriteLatencySeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:      "dataset_write_latency_seconds",
			Namespace: Namespace,
			Buckets:   prometheus.DefBuckets,
			Help:      "The latency of writing one dataset file in seconds.",
		},
		[]string{"dataset"},
	)
)
