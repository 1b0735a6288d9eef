package cache

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Options selects and addresses a cache backend.
type Options struct {
	ValkeyNodes   []string
	ValkeyService string
	MemcachedAddr string
}

// Open picks Valkey when discovery is configured, then Memcached, and falls
// back to the in-process cache. A configured backend that does not answer a
// ping is an error.
func Open(ctx context.Context, opts Options, logger zerolog.Logger) (Cache, error) {
	var c Cache
	switch {
	case len(opts.ValkeyNodes) > 0 || opts.ValkeyService != "":
		addrs, err := ResolveValkeyAddrs(opts.ValkeyNodes, opts.ValkeyService)
		if err != nil {
			return nil, err
		}
		logger.Info().Strs("addrs", addrs).Msg("using valkey cache")
		c = NewValkey(addrs)
	case opts.MemcachedAddr != "":
		logger.Info().Str("addr", opts.MemcachedAddr).Msg("using memcached cache")
		c = NewMemcached(opts.MemcachedAddr)
	default:
		logger.Warn().Msg("no cache configured, using in-process cache")
		return NewLocal(), nil
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := c.Ping(ctx); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}
