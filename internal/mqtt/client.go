// Package mqtt publishes generated records to an MQTT broker, the feed
// dashboard backends subscribe to under sensors/#.
package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/ntentasd/motorsim/internal/metrics"
	"github.com/rs/zerolog"
)

const (
	DefaultQoS     byte = 1
	connectTimeout      = 10 * time.Second
	quiesceMillis       = 250
)

// publisher is the part of paho.Client the sink needs.
type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	Disconnect(quiesce uint)
}

var _ publisher = (paho.Client)(nil)

type Client struct {
	client publisher
	qos    byte
	logger zerolog.Logger
}

// Connect dials broker (tcp://host:1883) and waits for the session.
func Connect(broker, clientID string, logger zerolog.Logger) (*Client, error) {
	if broker == "" {
		return nil, fmt.Errorf("no mqtt broker configured")
	}

	opts := paho.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)
	opts.SetConnectTimeout(connectTimeout)

	c := paho.NewClient(opts)
	token := c.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("connect to %s: timed out", broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to %s: %w", broker, err)
	}
	return newClient(c, logger), nil
}

func newClient(p publisher, logger zerolog.Logger) *Client {
	return &Client{
		client: p,
		qos:    DefaultQoS,
		logger: logger.With().Str("component", "mqtt").Logger(),
	}
}

// Publish JSON-encodes value and publishes it on topic. key is carried in
// the log only, MQTT has no message keys.
func (c *Client) Publish(ctx context.Context, topic, key string, value any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b, err := json.Marshal(value)
	if err != nil {
		metrics.MqttPublishErrorsTotal.WithLabelValues(topic).Inc()
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	token := c.client.Publish(topic, c.qos, false, b)
	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	if err := token.Error(); err != nil {
		metrics.MqttPublishErrorsTotal.WithLabelValues(topic).Inc()
		return fmt.Errorf("publish to %s: %w", topic, err)
	}

	metrics.MqttMessagesPublishedTotal.WithLabelValues(topic).Inc()
	c.logger.Trace().Str("topic", topic).Str("key", key).Msg("message published")
	return nil
}

func (c *Client) Close() error {
	c.client.Disconnect(quiesceMillis)
	return nil
}

// Topic names the topic a dataset is streamed to, e.g. sensors/start_stop.
func Topic(prefix, dataset string) string {
	return prefix + "/" + dataset
}
