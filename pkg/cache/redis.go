package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a cache backed by a shared Redis instance, for deployments
// running more than one API replica
type RedisStore struct {
	client     *redis.Client
	defaultTTL time.Duration
}

// NewRedisStore creates a Redis-backed cache store
func NewRedisStore(addr string, defaultTTL time.Duration) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &RedisStore{
		client:     client,
		defaultTTL: defaultTTL,
	}
}

// Get retrieves an item from Redis. Misses and errors are both reported as
// absent; the cache is best-effort.
func (s *RedisStore) Get(ctx context.Context, key string) (string, bool) {
	value, err := s.client.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return value, true
}

// Set stores an item with the default TTL
func (s *RedisStore) Set(ctx context.Context, key, value string) {
	s.SetWithExpiration(ctx, key, value, s.defaultTTL)
}

// SetWithExpiration stores an item with a specific TTL
func (s *RedisStore) SetWithExpiration(ctx context.Context, key, value string, ttl time.Duration) {
	_ = s.client.Set(ctx, key, value, ttl).Err()
}

// Delete removes an item
func (s *RedisStore) Delete(ctx context.Context, key string) {
	_ = s.client.Del(ctx, key).Err()
}

// Ping verifies the Redis connection, for health checks
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
