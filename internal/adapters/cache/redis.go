package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/okian/kundali/pkg/metrics"
)

// Redis is a cache backed by a shared Redis instance so that replicas
// serve each other's computed charts.
type Redis struct {
	client *redis.Client
}

// NewRedis wraps an existing client.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// Get returns the value stored under key. Transport errors are reported
// as misses so chart serving degrades to recomputation.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	start := time.Now()
	defer func() {
		metrics.RecordCacheLatency(float64(time.Since(start).Milliseconds()))
	}()

	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		metrics.RecordCacheMiss()
		return nil, false
	}

	metrics.RecordCacheHit()
	return val, true
}

// Set stores val under key. A ttl of zero or less stores the entry
// without expiry.
func (r *Redis) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := r.client.Set(ctx, key, val, ttl).Err(); err != nil {
		metrics.RecordErrorByComponent("cache", "set_failed")
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Close releases the underlying client connections.
func (r *Redis) Close() error {
	return r.client.Close()
}
