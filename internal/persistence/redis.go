package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/campus-market/marketplace-service/internal/config"
)

// Redis wraps the go-redis client backing the token verification cache.
// The cache is an optimization, so an unreachable Redis at startup is a
// warning, not a fatal error; verifications simply stop being memoized
// until it comes back.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects to the Redis instance used for verification caching.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("verification cache unreachable, tokens verified per request",
			zap.String("addr", cfg.Addr), zap.Error(err))
	} else {
		logger.Info("verification cache connected", zap.String("addr", cfg.Addr))
	}

	return &Redis{Client: client}
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping verifies connectivity for the readiness probe.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}
