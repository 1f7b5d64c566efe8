package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"heritage/internal/observability"

	"github.com/redis/go-redis/v9"
)

// GetJSON loads a cached value into dest. Returns false on miss or when the
// cache is unavailable.
func GetJSON(ctx context.Context, key string, dest any) bool {
	if client == nil {
		return false
	}
	raw, err := client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			return false
		}
		observability.CacheOperations.WithLabelValues(keyPrefix(key), "miss").Inc()
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		// A stale or corrupt payload is treated as a miss and dropped.
		client.Del(ctx, key)
		return false
	}
	observability.CacheOperations.WithLabelValues(keyPrefix(key), "hit").Inc()
	return true
}

// SetJSON stores a value under key with the given TTL. Failures are ignored,
// the cache is best effort.
func SetJSON(ctx context.Context, key string, value any, ttl time.Duration) {
	if client == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	client.Set(ctx, key, raw, ttl)
}

// Aside implements the cache-aside pattern: load from cache, fall back to
// loader on a miss and store the result. dest must be populated by loader.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, loader func() error) error {
	if GetJSON(ctx, key, dest) {
		return nil
	}
	if err := loader(); err != nil {
		return err
	}
	SetJSON(ctx, key, dest, ttl)
	return nil
}

func keyPrefix(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return key
}
