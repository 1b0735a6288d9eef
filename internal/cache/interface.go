package cache

import (
	"context"
	"errors"
	"time"

	"github.com/ntentasd/motorsim/pkg/types"
)

var ErrMiss = errors.New("cache miss")

// Cache defines the general caching for the api.
// It abstracts time-series (ZSET) and key-values (SET).
type Cache interface {
	// Store stores a single reading under a time-series key
	Store(ctx context.Context, key string, entry types.Entry) error

	// FetchLast retrieves the n most recent entries, newest first
	FetchLast(ctx context.Context, key string, n int) ([]types.Entry, error)

	// StoreAggregate caches a computed aggregate with a TTL
	StoreAggregate(ctx context.Context, key string, data any, ttl time.Duration) error

	// FetchAggregate retrieves an aggregate; ErrMiss if absent
	FetchAggregate(ctx context.Context, key string) ([]byte, error)

	// Ping checks cache connection
	Ping(ctx context.Context) error

	// Close gracefully closes any connections
	Close()
}
