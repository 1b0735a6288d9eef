package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/ntentasd/motorsim/pkg/types"
	"go.opentelemetry.io/otel/attribute"
)

const (
	// memcachedRecent caps the readings list kept per key.
	memcachedRecent = 100
	casRetries      = 5
)

var _ Cache = (*Memcached)(nil)

type Memcached struct {
	client *memcache.Client
	inst   *instrument
}

func NewMemcached(addr string) *Memcached {
	client := memcache.New(addr)
	return &Memcached{client, newInstrument("memcached")}
}

// do runs fn with a deadline; the memcache client takes no context.
func (m *Memcached) do(ctx context.Context, timeout time.Duration, fn func() error) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Store keeps a newest-first JSON list per key, updated with compare-and-swap.
func (m *Memcached) Store(ctx context.Context, key string, entry types.Entry) error {
	ctx, span := m.inst.start(ctx, "Store", key)
	defer span.End()

	start := time.Now()
	if err := m.do(ctx, 200*time.Millisecond, func() error { return m.push(key, entry) }); err != nil {
		return m.inst.fail(span, fmt.Errorf("failed to store reading: %w", err))
	}
	m.inst.wrote(span, start)
	return nil
}

func (m *Memcached) push(key string, entry types.Entry) error {
	ttl := int32(ReadingsTTL.Seconds())

	for range casRetries {
		item, err := m.client.Get(key)
		if errors.Is(err, memcache.ErrCacheMiss) {
			b, err := json.Marshal([]types.Entry{entry})
			if err != nil {
				return err
			}
			err = m.client.Add(&memcache.Item{Key: key, Value: b, Expiration: ttl})
			if errors.Is(err, memcache.ErrNotStored) {
				continue
			}
			return err
		}
		if err != nil {
			return err
		}

		var entries []types.Entry
		if err := json.Unmarshal(item.Value, &entries); err != nil {
			return fmt.Errorf("corrupt readings list: %w", err)
		}
		entries = insertNewestFirst(entries, entry, memcachedRecent)

		if item.Value, err = json.Marshal(entries); err != nil {
			return err
		}
		item.Expiration = ttl
		err = m.client.CompareAndSwap(item)
		if errors.Is(err, memcache.ErrCASConflict) || errors.Is(err, memcache.ErrNotStored) {
			continue
		}
		return err
	}
	return fmt.Errorf("gave up after %d compare-and-swap conflicts", casRetries)
}

func (m *Memcached) FetchLast(ctx context.Context, key string, n int) ([]types.Entry, error) {
	ctx, span := m.inst.start(ctx, "FetchLast", key)
	defer span.End()

	if n <= 0 {
		return nil, nil
	}

	start := time.Now()
	var item *memcache.Item
	err := m.do(ctx, 100*time.Millisecond, func() (err error) {
		item, err = m.client.Get(key)
		return err
	})
	switch {
	case errors.Is(err, memcache.ErrCacheMiss):
		return nil, m.inst.miss(span)
	case err != nil:
		return nil, m.inst.fail(span, fmt.Errorf("cache fetch: %w", err))
	}

	var entries []types.Entry
	if err := json.Unmarshal(item.Value, &entries); err != nil {
		return nil, m.inst.fail(span, fmt.Errorf("corrupt readings list: %w", err))
	}
	if len(entries) > n {
		entries = entries[:n]
	}
	span.SetAttributes(attribute.Int("cache.entries", len(entries)))
	m.inst.hit(span, start)
	return entries, nil
}

func (m *Memcached) StoreAggregate(ctx context.Context, key string, data any, ttl time.Duration) error {
	ctx, span := m.inst.start(ctx, "StoreAggregate", key)
	defer span.End()

	span.SetAttributes(attribute.Int64("cache.ttl", int64(ttl.Seconds())))

	b, err := json.Marshal(data)
	if err != nil {
		return m.inst.fail(span, fmt.Errorf("failed to marshal aggregate: %w", err))
	}

	start := time.Now()
	err = m.do(ctx, 100*time.Millisecond, func() error {
		return m.client.Set(&memcache.Item{Key: key, Value: b, Expiration: int32(ttl.Seconds())})
	})
	if err != nil {
		return m.inst.fail(span, fmt.Errorf("failed to store aggregate: %w", err))
	}
	m.inst.wrote(span, start)

	return nil
}

func (m *Memcached) FetchAggregate(ctx context.Context, key string) ([]byte, error) {
	ctx, span := m.inst.start(ctx, "FetchAggregate", key)
	defer span.End()

	start := time.Now()
	var item *memcache.Item
	err := m.do(ctx, 100*time.Millisecond, func() (err error) {
		item, err = m.client.Get(key)
		return err
	})
	switch {
	case errors.Is(err, memcache.ErrCacheMiss):
		return nil, m.inst.miss(span)
	case err != nil:
		return nil, m.inst.fail(span, fmt.Errorf("cache fetch: %w", err))
	default:
		m.inst.hit(span, start)
		return item.Value, nil
	}
}

func (m *Memcached) Ping(ctx context.Context) error {
	return m.do(ctx, time.Second, m.client.Ping)
}

func (m *Memcached) Close() {
	m.client.Close()
}

// insertNewestFirst places e by timestamp into a newest-first list and trims it to limit.
func insertNewestFirst(entries []types.Entry, e types.Entry, limit int) []types.Entry {
	i, _ := slices.BinarySearchFunc(entries, e, func(have, want types.Entry) int {
		return want.Timestamp.Compare(have.Timestamp)
	})
	entries = slices.Insert(entries, i, e)
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}
