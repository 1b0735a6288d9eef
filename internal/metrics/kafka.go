package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	KafkaMessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name:      "kafka_messages_published_total",
			Namespace: Namespace,
			Help:      "The total number of records published to kafka.",
		},
		[]string{"topic"},
	)

	KafkaPublishErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name:      "kafka_publish_errors_total",
			Namespace: Namespace,
			Help:      "The total number of failed kafka publishes.",
		},
		[]string{"topic"},
	)
)
