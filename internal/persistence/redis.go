package persistence

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/demand-analytics/internal/config"
)

// Redis wraps the go-redis client backing the name cache.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects to Redis. An unreachable server leaves the cache disabled rather
// than failing startup, since names can always be resolved from the record store.
func NewRedis(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) *Redis {
	if cfg.Addr == "" {
		logger.Warn("REDIS_ADDR not provided; name cache disabled")
		return &Redis{}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("unable to reach redis; name cache disabled", zap.Error(err))
		_ = client.Close()
		return &Redis{}
	}

	logger.Info("connected to redis", zap.String("addr", cfg.Addr))
	return &Redis{Client: client}
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Enabled reports whether the name cache has a live client.
func (r *Redis) Enabled() bool {
	return r != nil && r.Client != nil
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}
