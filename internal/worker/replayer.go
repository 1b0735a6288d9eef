package worker

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ntentasd/motorsim/pkg/types"
	"github.com/rs/zerolog"
)

// Replayer streams a generated table to a Publisher, one record per tick.
type Replayer struct {
	Publisher Publisher
	Topic     string
	Dataset   string
	Records   []any
	Interval  time.Duration
	Loop      bool

	runID     uuid.UUID
	logger    zerolog.Logger
	cancelCtx context.CancelFunc
	started   bool
	done      chan struct{}
	mu        sync.Mutex
	sent      int
}

// NewReplayer creates a new background worker for dataset replay.
func NewReplayer(pub Publisher, topic, dataset string, records []any, interval time.Duration, loop bool, logger zerolog.Logger) (*Replayer, error) {
	if len(records) == 0 {
		return nil, &types.ParameterError{Name: "records", Value: 0, Reason: "nothing to replay"}
	}
	if interval <= 0 {
		return nil, &types.ParameterError{Name: "interval", Value: interval, Reason: "must be positive"}
	}
	return &Replayer{
		Publisher: pub,
		Topic:     topic,
		Dataset:   dataset,
		Records:   records,
		Interval:  interval,
		Loop:      loop,
		runID:     uuid.New(),
		logger:    logger.With().Str("component", "replayer").Str("topic", topic).Logger(),
		done:      make(chan struct{}),
	}, nil
}

// Start launches the replay goroutine. Calls after the first are no-ops.
func (r *Replayer) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return
	}
	r.started = true

	ctx, cancel := context.WithCancel(ctx)
	r.cancelCtx = cancel

	go func() {
		defer close(r.done)
		ticker := time.NewTicker(r.Interval)
		defer ticker.Stop()

		r.logger.Info().
			Str("run_id", r.runID.String()).
			Int("records", len(r.Records)).
			Bool("loop", r.Loop).
			Msg("replay started")

		seq := 0
		for {
			select {
			case <-ctx.Done():
				r.logger.Info().Int("sent", r.Sent()).Msg("replay stopped")
				return
			case <-ticker.C:
				if seq == len(r.Records) {
					if !r.Loop {
						r.logger.Info().Int("sent", r.Sent()).Msg("replay finished")
						return
					}
					seq = 0
				}
				r.publish(ctx, seq)
				seq++
			}
		}
	}()
}

func (r *Replayer) publish(ctx context.Context, seq int) {
	msg := Message{
		RunID:   r.runID,
		Dataset: r.Dataset,
		Seq:     seq,
		SentAt:  time.Now().UTC(),
		Record:  r.Records[seq],
	}
	err := r.Publisher.Publish(ctx, r.Topic, strconv.Itoa(seq), msg)
	if errors.Is(err, context.Canceled) {
		return
	}
	if err != nil {
		r.logger.Error().Err(err).Int("seq", seq).Msg("publish failed")
		return
	}

	r.mu.Lock()
	r.sent++
	r.mu.Unlock()
}

// Stop gracefully stops the background worker.
func (r *Replayer) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancelCtx != nil {
		r.cancelCtx()
	}
}

// Done is closed once the worker goroutine has returned.
func (r *Replayer) Done() <-chan struct{} {
	return r.done
}

// Sent reports how many records were published successfully.
func (r *Replayer) Sent() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sent
}
