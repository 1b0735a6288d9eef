package kafka

import "strings"

// Topic names the topic a dataset is streamed to.
func Topic(prefix, dataset string) string {
	return prefix + "_" + dataset
}

// IsManagedTopic reports whether topic belongs to prefix and is not internal.
func IsManagedTopic(prefix, topic string) bool {
	return !strings.HasPrefix(topic, "__") && strings.HasPrefix(topic, prefix+"_")
}
