package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/ntentasd/motorsim/pkg/types"
	gocache "github.com/patrickmn/go-cache"
)

const (
	localRecent  = 100
	localCleanup = 10 * time.Minute
)

var _ Cache = (*Local)(nil)

// Local is an in-process cache for single-replica deployments and tests.
type Local struct {
	// serialises read-modify-write of readings lists
	mu    sync.Mutex
	items *gocache.Cache
	inst  *instrument
}

func NewLocal() *Local {
	return &Local{
		items: gocache.New(gocache.NoExpiration, localCleanup),
		inst:  newInstrument("local"),
	}
}

func (l *Local) Store(ctx context.Context, key string, entry types.Entry) error {
	_, span := l.inst.start(ctx, "Store", key)
	defer span.End()

	start := time.Now()
	l.mu.Lock()
	var entries []types.Entry
	if v, ok := l.items.Get(key); ok {
		entries = v.([]types.Entry)
	}
	l.items.Set(key, insertNewestFirst(slices.Clone(entries), entry, localRecent), ReadingsTTL)
	l.mu.Unlock()

	l.inst.wrote(span, start)
	return nil
}

func (l *Local) FetchLast(ctx context.Context, key string, n int) ([]types.Entry, error) {
	_, span := l.inst.start(ctx, "FetchLast", key)
	defer span.End()

	if n <= 0 {
		return nil, nil
	}

	start := time.Now()
	v, ok := l.items.Get(key)
	if !ok {
		return nil, l.inst.miss(span)
	}
	entries := v.([]types.Entry)
	l.inst.hit(span, start)
	return slices.Clone(entries[:min(n, len(entries))]), nil
}

func (l *Local) StoreAggregate(ctx context.Context, key string, data any, ttl time.Duration) error {
	_, span := l.inst.start(ctx, "StoreAggregate", key)
	defer span.End()

	b, err := json.Marshal(data)
	if err != nil {
		return l.inst.fail(span, fmt.Errorf("failed to marshal aggregate: %w", err))
	}

	start := time.Now()
	l.items.Set(key, b, ttl)
	l.inst.wrote(span, start)
	return nil
}

func (l *Local) FetchAggregate(ctx context.Context, key string) ([]byte, error) {
	_, span := l.inst.start(ctx, "FetchAggregate", key)
	defer span.End()

	start := time.Now()
	v, ok := l.items.Get(key)
	if !ok {
		return nil, l.inst.miss(span)
	}
	b, ok := v.([]byte)
	if !ok {
		return nil, l.inst.fail(span, fmt.Errorf("key %s holds a readings list", key))
	}
	l.inst.hit(span, start)
	return b, nil
}

func (l *Local) Ping(context.Context) error {
	return nil
}

func (l *Local) Close() {
	l.items.Flush()
}
