// Package cache provides the computed-chart result cache. A birth chart
// is fully determined by its canonical input, so a hit skips the whole
// computation pipeline. Two implementations are offered: a Redis-backed
// cache for shared deployments and an in-process TTL map for everything
// else.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/okian/kundali/pkg/logger"
)

// pingTimeout bounds the reachability probe when constructing the
// Redis-backed cache.
const pingTimeout = 2 * time.Second

// Cache stores serialized charts keyed by the canonical input
// fingerprint.
type Cache interface {
	// Get returns the value stored under key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores val under key. A ttl of zero or less keeps the entry
	// until evicted.
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
}

// New returns a Redis-backed cache when url parses and the server
// answers a ping, and an in-process cache otherwise. Falling back keeps
// chart serving available when Redis is absent; options apply to the
// in-process fallback only.
func New(ctx context.Context, url string, opts ...Option) Cache {
	if url == "" {
		return NewMemory(opts...)
	}

	log := logger.Get().Named("cache")

	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Warn(ctx, "redis url rejected, using in-process cache", logger.Error(err))
		return NewMemory(opts...)
	}

	client := redis.NewClient(opt)
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn(ctx, "redis unreachable, using in-process cache",
			logger.String("addr", opt.Addr),
			logger.Error(err))
		return NewMemory(opts...)
	}

	log.Info(ctx, "redis cache connected", logger.String("addr", opt.Addr))
	return NewRedis(client)
}
