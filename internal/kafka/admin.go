package kafka

import (
	"errors"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"
)

// topicAdmin is the part of sarama.ClusterAdmin topic provisioning needs.
type topicAdmin interface {
	ListTopics() (map[string]sarama.TopicDetail, error)
	CreateTopic(topic string, detail *sarama.TopicDetail, validateOnly bool) error
}

var _ topicAdmin = (sarama.ClusterAdmin)(nil)

type TopicSettings struct {
	Partitions        int32
	ReplicationFactor int16
}

func DefaultTopicSettings() TopicSettings {
	return TopicSettings{Partitions: 1, ReplicationFactor: 1}
}

// EnsureTopics creates whichever of topics the cluster does not know yet and
// returns the ones it created.
func EnsureTopics(admin topicAdmin, topics []string, settings TopicSettings, logger zerolog.Logger) ([]string, error) {
	known, err := admin.ListTopics()
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}

	var created []string
	for _, topic := range topics {
		if _, ok := known[topic]; ok {
			continue
		}

		err := admin.CreateTopic(topic, &sarama.TopicDetail{
			NumPartitions:     settings.Partitions,
			ReplicationFactor: settings.ReplicationFactor,
		}, false)
		if errors.Is(err, sarama.ErrTopicAlreadyExists) {
			logger.Debug().Str("topic", topic).Msg("topic already exists, skipping")
			continue
		}
		if err != nil {
			return created, fmt.Errorf("create topic %s: %w", topic, err)
		}
		logger.Info().Str("topic", topic).Msg("topic created")
		created = append(created, topic)
	}
	return created, nil
}

// OpenAdmin connects a cluster admin with the producer's client settings.
func OpenAdmin(brokers []string) (sarama.ClusterAdmin, error) {
	admin, err := sarama.NewClusterAdmin(brokers, Config())
	if err != nil {
		return nil, fmt.Errorf("kafka admin: %w", err)
	}
	return admin, nil
}
