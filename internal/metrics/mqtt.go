package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MqttMessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name:      "mqtt_messages_published_total",
			Namespace: Namespace,
			Help:      "The total number of records published over mqtt.",
		},
		[]string{"topic"},
	)

	MqttPublishErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name:      "mqtt_publish_errors_total",
			Namespace: Namespace,
			Help:      "The total number of failed mqtt publishes.",
		},
		[]string{"topic"},
	)
)
