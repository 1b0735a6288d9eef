package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ntentasd/motorsim/internal/config"
	"github.com/ntentasd/motorsim/internal/generator"
	"github.com/ntentasd/motorsim/internal/kafka"
	"github.com/ntentasd/motorsim/internal/logging"
	"github.com/ntentasd/motorsim/internal/mqtt"
	"github.com/ntentasd/motorsim/internal/worker"
	"github.com/rs/zerolog"
)

type sink interface {
	worker.Publisher
	io.Closer
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	dataDir := flag.String("data", cfg.DataDir, "directory holding the generated datasets")
	name := flag.String("dataset", generator.DatasetStartStop, "dataset to replay")
	target := flag.String("sink", "kafka", "where to publish: kafka or mqtt")
	interval := flag.Duration("interval", cfg.ReplayInterval, "delay between records")
	loop := flag.Bool("loop", false, "start over after the last record")
	flag.Parse()

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, "motorsim-replay")

	records, err := worker.LoadRecords(*dataDir, *name)
	if err != nil {
		logger.Fatal().Err(err).Msg("unable to read dataset")
	}

	pub, topic, err := openSink(cfg, *target, *name, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("sink", *target).Msg("unable to open sink")
	}
	defer pub.Close()

	rp, err := worker.NewReplayer(pub, topic, *name, records, *interval, *loop, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid replay settings")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rp.Start(ctx)
	<-rp.Done()
	logger.Info().Int("sent", rp.Sent()).Msg("replay done")
}

func openSink(cfg *config.Config, target, name string, logger zerolog.Logger) (sink, string, error) {
	switch target {
	case "kafka":
		topic := kafka.Topic(cfg.KafkaTopicPrefix, name)
		admin, err := kafka.OpenAdmin(cfg.KafkaBrokers)
		if err != nil {
			return nil, "", err
		}
		_, err = kafka.EnsureTopics(admin, []string{topic}, kafka.DefaultTopicSettings(), logger)
		admin.Close()
		if err != nil {
			return nil, "", err
		}
		p, err := kafka.NewProducer(cfg.KafkaBrokers, logger)
		if err != nil {
			return nil, "", err
		}
		return p, topic, nil
	case "mqtt":
		c, err := mqtt.Connect(cfg.MqttBroker, "motorsim-replay", logger)
		if err != nil {
			return nil, "", err
		}
		return c, mqtt.Topic(cfg.MqttTopicPrefix, name), nil
	default:
		return nil, "", fmt.Errorf("unknown sink %q", target)
	}
}
