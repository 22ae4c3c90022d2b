package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pentyflix/pentyflix-api/pkg/logging"
)

// Store is a byte-oriented cache with per-entry TTL. Expiry is absolute:
// the deadline is fixed at write time and checked on read.
type Store interface {
	// Get returns the cached value and whether the key was present and fresh.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores a value until now+ttl.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Key builds a deterministic cache key from an operation name and its
// parameters. Callers must canonicalize parameters first so equivalent
// requests share a key.
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}

// Fetch returns the cached value for key, computing and storing it on a
// miss. There is no single-flight guarantee: concurrent misses may each run
// compute and the last write wins. A nil store disables caching.
func Fetch[T any](ctx context.Context, store Store, key string, ttl time.Duration, compute func(context.Context) (T, error)) (T, error) {
	var zero T

	if store == nil {
		return compute(ctx)
	}

	logger := logging.WithComponent("cache")

	raw, ok, err := store.Get(ctx, key)
	if err != nil {
		// A broken cache must not take the read path down with it
		logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
		// Undecodable entry, treat as a miss and overwrite below
		logger.Warn("discarding undecodable cache entry", zap.String("key", key))
	}

	value, err := compute(ctx)
	if err != nil {
		return zero, err
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		logger.Warn("cache encode failed", zap.String("key", key), zap.Error(err))
		return value, nil
	}
	if err := store.Set(ctx, key, encoded, ttl); err != nil {
		logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}

	return value, nil
}
