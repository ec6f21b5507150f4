// Package cache is a small JSON cache over Redis. A Cache without a
// reachable server is valid: reads miss and writes are dropped, so callers
// never need to branch on whether Redis is configured.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultTTL = time.Minute

type Cache struct {
	client *redis.Client

	warnedUnavailable atomic.Bool
}

// Connect parses redisURL and pings the server. When redisURL is empty or
// the server does not answer, it returns a bypass cache and logs once.
func Connect(ctx context.Context, redisURL string) *Cache {
	if redisURL == "" {
		return &Cache{}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		slog.Warn("invalid REDIS_URL, bypassing cache", "error", err)
		return &Cache{}
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		slog.Warn("redis unavailable, bypassing cache", "error", err)
		_ = client.Close()
		return &Cache{}
	}

	return &Cache{client: client}
}

// New wraps an existing client. A nil client yields a bypass cache.
func New(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Enabled reports whether the cache is backed by a server.
func (c *Cache) Enabled() bool {
	return !c.isUnavailable()
}

func (c *Cache) isUnavailable() bool {
	return c == nil || c.client == nil
}

func (c *Cache) warnUnavailableOnce(err error) {
	if c.warnedUnavailable.CompareAndSwap(false, true) {
		slog.Warn("redis error, cache results may be stale or missing", "error", err)
	}
}

func (c *Cache) Ping(ctx context.Context) error {
	if c.isUnavailable() {
		return errors.New("redis unavailable")
	}
	return c.client.Ping(ctx).Err()
}

// GetJSON decodes the value at key into out. It reports false on a miss.
func (c *Cache) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	if c.isUnavailable() {
		return false, nil
	}
	b, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		c.warnUnavailableOnce(err)
		return false, err
	}
	if len(b) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

// SetJSON stores value at key. A non-positive ttl uses one minute.
func (c *Cache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if c.isUnavailable() {
		return nil
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, b, ttl).Err(); err != nil {
		c.warnUnavailableOnce(err)
		return err
	}
	return nil
}

func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if c.isUnavailable() || len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.warnUnavailableOnce(err)
		return err
	}
	return nil
}

// DeleteByPattern removes every key matching a glob pattern.
func (c *Cache) DeleteByPattern(ctx context.Context, pattern string) error {
	if c.isUnavailable() || pattern == "" {
		return nil
	}
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			slog.Warn("redis delete failed", "key", iter.Val(), "pattern", pattern, "error", err)
		}
	}
	return iter.Err()
}

func (c *Cache) Close() error {
	if c.isUnavailable() {
		return nil
	}
	return c.client.Close()
}
