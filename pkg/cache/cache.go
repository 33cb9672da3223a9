// Package cache is a thin JSON-over-Redis cache. A nil *Redis is valid and
// behaves as a permanently empty cache, so callers never branch on whether
// Redis is configured.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
)

type Redis struct {
	rdb    *redis.Client
	prefix string
}

// Connect dials the configured Redis and verifies it with a ping.
// Returns an error so the caller can log a warning and run without a cache.
func Connect(ctx context.Context) (*Redis, error) {
	return Dial(ctx, config.RedisAddr(), config.RedisPassword())
}

func Dial(ctx context.Context, addr, password string) (*Redis, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("cache: redis ping: %w", err)
	}
	return &Redis{rdb: rdb, prefix: "storefront:"}, nil
}

// Get unmarshals the cached value into dest. Returns true on a hit.
func (c *Redis) Get(ctx context.Context, key string, dest any) bool {
	if c == nil {
		return false
	}
	label := metricKey(key)

	val, err := c.rdb.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		metrics.CacheMisses.WithLabelValues(label).Inc()
		return false
	}
	if err := json.Unmarshal(val, dest); err != nil {
		metrics.CacheMisses.WithLabelValues(label).Inc()
		return false
	}
	metrics.CacheHits.WithLabelValues(label).Inc()
	return true
}

// Set stores value under key for ttl.
func (c *Redis) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if c == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.prefix+key, data, ttl).Err()
}

// Del removes keys. Missing keys are not an error.
func (c *Redis) Del(ctx context.Context, keys ...string) error {
	if c == nil || len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.prefix + k
	}
	return c.rdb.Del(ctx, full...).Err()
}

func (c *Redis) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}

// metricKey keeps label cardinality bounded: "facets:category:shirts"
// is recorded as "facets".
func metricKey(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return key
}
