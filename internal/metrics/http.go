package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HttpRequestLatencySeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:      "http_request_latency_seconds",
			Namespace: Namespace,
			Buckets:   prometheus.DefBuckets,
			Help:      "The latency of http operations in seconds.",
		},
		[]string{"verb", "route"},
	)

	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name:      "predictions_total",
			Namespace: Namespace,
			Help:      "The total number of predictions served, by kind and predicted label.",
		},
		[]string{"kind", "label"},
	)
)
