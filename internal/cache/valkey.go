package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ntentasd/motorsim/pkg/types"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
)

var _ Cache = (*Valkey)(nil)

type Valkey struct {
	client *redis.ClusterClient
	inst   *instrument
}

func NewValkey(addrs []string) *Valkey {
	opts := &redis.ClusterOptions{
		Addrs:       addrs,
		DialTimeout: 2 * time.Second,
	}
	client := redis.NewClusterClient(opts)
	return &Valkey{client, newInstrument("valkey")}
}

func (v *Valkey) Store(ctx context.Context, key string, entry types.Entry) error {
	ctx, span := v.inst.start(ctx, "Store", key)
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := v.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.ZAdd(ctx, key, redis.Z{
			Score:  float64(entry.Timestamp.UnixMilli()),
			Member: member(entry),
		})
		p.Expire(ctx, key, ReadingsTTL)
		return nil
	})
	if err != nil {
		return v.inst.fail(span, fmt.Errorf("failed to store reading: %w", err))
	}
	v.inst.wrote(span, start)
	return nil
}

func (v *Valkey) FetchLast(ctx context.Context, key string, n int) ([]types.Entry, error) {
	ctx, span := v.inst.start(ctx, "FetchLast", key)
	defer span.End()

	if n <= 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	members, err := v.client.ZRevRange(ctx, key, 0, int64(n-1)).Result()
	if err != nil {
		return nil, v.inst.fail(span, fmt.Errorf("cache fetch: %w", err))
	}
	if len(members) == 0 {
		return nil, v.inst.miss(span)
	}

	ret := make([]types.Entry, 0, len(members))
	for _, m := range members {
		e, err := parseMember(m)
		if err != nil {
			return nil, v.inst.fail(span, err)
		}
		ret = append(ret, e)
	}
	span.SetAttributes(attribute.Int("cache.entries", len(ret)))
	v.inst.hit(span, start)

	return ret, nil
}

func (v *Valkey) StoreAggregate(ctx context.Context, key string, data any, ttl time.Duration) error {
	ctx, span := v.inst.start(ctx, "StoreAggregate", key)
	defer span.End()

	span.SetAttributes(attribute.Int64("cache.ttl", int64(ttl.Seconds())))

	ctx, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
	defer cancel()

	b, err := json.Marshal(data)
	if err != nil {
		return v.inst.fail(span, fmt.Errorf("failed to marshal aggregate: %w", err))
	}

	start := time.Now()
	if err := v.client.Set(ctx, key, b, ttl).Err(); err != nil {
		return v.inst.fail(span, fmt.Errorf("failed to store aggregate: %w", err))
	}
	v.inst.wrote(span, start)

	return nil
}

func (v *Valkey) FetchAggregate(ctx context.Context, key string) ([]byte, error) {
	ctx, span := v.inst.start(ctx, "FetchAggregate", key)
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	val, err := v.client.Get(ctx, key).Bytes()
	switch {
	case err == redis.Nil:
		return nil, v.inst.miss(span)
	case err != nil:
		return nil, v.inst.fail(span, fmt.Errorf("cache fetch: %w", err))
	default:
		v.inst.hit(span, start)
		return val, nil
	}
}

func (v *Valkey) Ping(ctx context.Context) error {
	return v.client.Ping(ctx).Err()
}

func (v *Valkey) Close() {
	v.client.Close()
}
