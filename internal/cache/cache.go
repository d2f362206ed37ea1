// Package cache provides a small Redis-backed read-through cache for
// provider responses.
//
// The cache is best-effort. A missing or unreachable Redis never fails a
// request; lookups degrade to misses and writes are dropped with a log line.
// Constructing a [Cache] with an empty address disables it entirely, which
// keeps call sites free of nil checks.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"

	"github.com/lunarpine/resona/internal/shared"
)

// Cache wraps a Redis client with JSON serialization and a fixed TTL.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *log.Logger
}

// New creates a Cache against the given Redis address. An empty address
// returns a disabled cache whose operations are all no-ops.
func New(addr string, ttl time.Duration, logger *log.Logger) *Cache {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	c := &Cache{ttl: ttl, logger: logger.With("service", "cache")}
	if addr == "" {
		return c
	}

	c.client = redis.NewClient(&redis.Options{Addr: addr})
	return c
}

// Enabled reports whether the cache has a backing Redis client.
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// GetJSON looks up key and decodes the stored JSON into dest.
// Returns false on a miss, on a disabled cache, or on any Redis error.
func (c *Cache) GetJSON(ctx context.Context, key string, dest any) bool {
	if !c.Enabled() {
		return false
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("cache lookup failed", "key", key, "error", err)
		}
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.Warn("cache entry corrupt", "key", key, "error", err)
		return false
	}

	return true
}

// SetJSON stores value under key for the configured TTL.
func (c *Cache) SetJSON(ctx context.Context, key string, value any) {
	if !c.Enabled() {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("cache encode failed", "key", key, "error", err)
		return
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", "key", key, "error", err)
	}
}

// Invalidate removes the given keys.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if !c.Enabled() || len(keys) == 0 {
		return
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("cache invalidation failed", "keys", keys, "error", err)
	}
}

// Key builds a namespaced cache key from parts.
func Key(parts ...string) string {
	key := "resona"
	for _, p := range parts {
		key += ":" + p
	}
	return key
}

// Close releases the underlying Redis connection.
func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	if err := c.client.Close(); err != nil {
		return fmt.Errorf("failed to close cache: %w", err)
	}
	return nil
}
