// Package cache provides a small read-through cache used for user profiles
// and conversation summaries. Values are JSON strings; callers own the
// marshaling so the store can be backed by memory or Redis interchangeably.
package cache

import (
	"context"
	"time"

	"chatbot-api/backend/pkg/config"
	"chatbot-api/backend/pkg/logger"
)

// Store is a key/value cache with per-entry expiration
type Store interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string)
	SetWithExpiration(ctx context.Context, key, value string, ttl time.Duration)
	Delete(ctx context.Context, key string)
}

// NewStore creates a cache backend based on configuration. Returns nil when
// caching is disabled; services treat a nil store as a no-op.
func NewStore(cfg *config.Config, log *logger.Logger) Store {
	if !cfg.Cache.Enabled {
		return nil
	}

	switch cfg.Cache.Backend {
	case "redis":
		log.Info("Using Redis cache backend", "addr", cfg.Cache.RedisAddr)
		return NewRedisStore(cfg.Cache.RedisAddr, cfg.Cache.TTL)
	default:
		return NewMemoryStore(cfg.Cache.TTL, cfg.Cache.PurgeWindow, cfg.Cache.MaxSize)
	}
}
