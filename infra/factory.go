package infra

import (
	"context"
	"log/slog"

	infra_cache "github.com/spotavibe/spotavibe/infra/cache"
	"github.com/spotavibe/spotavibe/pkg/cache"
	"github.com/spotavibe/spotavibe/pkg/config"
	"github.com/redis/go-redis/v9"
)

// NewCache returns a Redis-backed store when REDIS_URL is set and an
// in-memory store otherwise.
func NewCache(ctx context.Context, logger *slog.Logger, cfg *config.Redis) (cache.Store, error) {
	if cfg == nil || cfg.URL == "" {
		logger.Info("Using in-memory cache")
		return infra_cache.NewMemoryCache(), nil
	}

	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		logger.Error("Invalid Redis URL", "url", maskAPIKey(cfg.URL), "error", err)
		return nil, err
	}
	if cfg.PoolSize > 0 {
		opt.PoolSize = cfg.PoolSize
	}
	opt.DialTimeout = cfg.DialTimeout
	opt.ReadTimeout = cfg.ReadTimeout
	opt.WriteTimeout = cfg.WriteTimeout

	store := infra_cache.NewRedisCacheWithOptions(opt, cfg.KeyPrefix, logger)
	if err := store.Ping(ctx); err != nil {
		logger.Error("Redis ping failed", "error", err)
		_ = store.Close()
		return nil, err
	}
	logger.Info("Using Redis cache", "prefix", cfg.KeyPrefix)
	return store, nil
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "****" + key[len(key)-4:]
}
