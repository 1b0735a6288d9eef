package worker

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Publisher is a sink the replayer sends records through. The kafka
// producer and the mqtt client both implement it.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, value any) error
}

// Message is the envelope every replayed record travels in.
type Message struct {
	RunID   uuid.UUID `json:"run_id"`
	Dataset string    `json:"dataset"`
	Seq     int       `json:"seq"`
	SentAt  time.Time `json:"sent_at"`
	Record  any       `json:"record"`
}
