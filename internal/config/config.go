// Package config loads process settings from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ntentasd/motorsim/pkg/types"
)

type Config struct {
	DataDir  string
	ModelDir string
	HTTPAddr string

	Log struct {
		Level  string
		Format string
	}

	ValkeyNodes    []string
	ValkeyService  string
	MemcachedAddr  string
	ScyllaNodes    []string
	ScyllaKeyspace string

	KafkaBrokers     []string
	KafkaTopicPrefix string
	ReplayInterval   time.Duration

	MqttBroker      string
	MqttTopicPrefix string

	TempoEndpoint string
	HistorySize   int
	CacheTTL      time.Duration
}

// Load reads the environment, filling unset variables with defaults.
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.DataDir = getEnv("MOTORSIM_DATA_DIR", "data")
	cfg.ModelDir = getEnv("MOTORSIM_MODEL_DIR", "models")
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	cfg.ValkeyNodes = getList("VALKEY_NODES")
	cfg.ValkeyService = getEnv("VALKEY_SERVICE", "")
	cfg.MemcachedAddr = getEnv("MEMCACHED_ADDR", "")
	cfg.ScyllaNodes = getList("SCYLLA_NODES")
	cfg.ScyllaKeyspace = getEnv("SCYLLA_KEYSPACE", "sensors_data")

	cfg.KafkaBrokers = getList("KAFKA_BROKERS")
	cfg.KafkaTopicPrefix = getEnv("KAFKA_TOPIC_PREFIX", "motorsim")
	cfg.MqttBroker = getEnv("MQTT_BROKER", "")
	cfg.MqttTopicPrefix = getEnv("MQTT_TOPIC_PREFIX", "sensors")
	cfg.TempoEndpoint = getEnv("TEMPO_ENDPOINT", "")

	var err error
	if cfg.ReplayInterval, err = getDuration("REPLAY_INTERVAL", time.Second); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = getDuration("CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.HistorySize, err = getInt("HISTORY_SIZE", 10); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getList splits a comma separated variable, dropping empty items.
func getList(key string) []string {
	var out []string
	for _, s := range strings.Split(os.Getenv(key), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func getInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, &types.ParameterError{Name: key, Value: raw, Reason: "must be a positive integer"}
	}
	return v, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		return 0, &types.ParameterError{Name: key, Value: raw, Reason: "must be a positive duration"}
	}
	return v, nil
}
