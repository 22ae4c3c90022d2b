package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/pentyflix/pentyflix-api/pkg/config"
	"github.com/pentyflix/pentyflix-api/pkg/logging"
)

// Redis is a Store backed by a Redis server, for deployments where cached
// listings should survive a process restart or be shared across replicas.
type Redis struct {
	client *redis.Client
}

// NewRedis creates a Redis-backed store. Returns nil (and no error) when
// the cache is disabled in config.
func NewRedis(cfg *config.RedisConfig) (*Redis, error) {
	if !cfg.Enabled {
		logging.GetLogger().Info("Redis cache disabled")
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logging.GetLogger().Info("Redis connection established")

	return &Redis{client: client}, nil
}

// Get implements Store
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := r.client.Get(ctx, r.namespaceKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return value, true, nil
}

// Set implements Store
func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, r.namespaceKey(key), value, ttl).Err()
}

// Close closes the Redis connection
func (r *Redis) Close() error {
	if r == nil || r.client == nil {
		return nil
	}
	return r.client.Close()
}

// Health checks Redis health
func (r *Redis) Health(ctx context.Context) error {
	if r == nil || r.client == nil {
		return errors.New("cache is disabled")
	}
	return r.client.Ping(ctx).Err()
}

func (r *Redis) namespaceKey(key string) string {
	return "pentyflix:" + key
}
