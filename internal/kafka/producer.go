// Package kafka publishes generated records to Kafka.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/ntentasd/motorsim/internal/metrics"
	"github.com/rs/zerolog"
)

type Producer struct {
	producer sarama.SyncProducer
	logger   zerolog.Logger
}

func Config() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.Version = sarama.V2_8_0_0
	cfg.ClientID = "motorsim"
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 3
	cfg.Producer.Timeout = 5 * time.Second
	return cfg
}

func NewProducer(brokers []string, logger zerolog.Logger) (*Producer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("no kafka brokers configured")
	}
	sp, err := sarama.NewSyncProducer(brokers, Config())
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return NewProducerFrom(sp, logger), nil
}

// NewProducerFrom wraps an existing sync producer.
func NewProducerFrom(sp sarama.SyncProducer, logger zerolog.Logger) *Producer {
	return &Producer{
		producer: sp,
		logger:   logger.With().Str("component", "kafka").Logger(),
	}
}

// Publish JSON-encodes value and sends it keyed by key.
func (p *Producer) Publish(ctx context.Context, topic, key string, value any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b, err := json.Marshal(value)
	if err != nil {
		metrics.KafkaPublishErrorsTotal.WithLabelValues(topic).Inc()
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(b),
	})
	if err != nil {
		metrics.KafkaPublishErrorsTotal.WithLabelValues(topic).Inc()
		return fmt.Errorf("publish to %s: %w", topic, err)
	}

	metrics.KafkaMessagesPublishedTotal.WithLabelValues(topic).Inc()
	p.logger.Trace().
		Str("topic", topic).
		Int32("partition", partition).
		Int64("offset", offset).
		Msg("message published")
	return nil
}

func (p *Producer) Close() error {
	return p.producer.Close()
}
