// Package cache provides Redis connection management for the plan and
// shopping-list caches.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mealsmith/v2/internal/infrastructure/config"
)

// RedisClient wraps the go-redis client with connection lifecycle
// management. The underlying client is safe for concurrent use.
type RedisClient struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisClient creates a Redis client from configuration. The
// connection is not verified here; call Ping from a lifecycle hook so
// startup failures surface with a bounded timeout.
func NewRedisClient(cfg config.RedisConfig, logger *zap.Logger) *RedisClient {
	opts := &redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.Database,
		MaxRetries:   cfg.MaxRetries,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolSize:     cfg.PoolSize,
	}

	return &RedisClient{
		client: redis.NewClient(opts),
		logger: logger.Named("redis"),
	}
}

// Client exposes the underlying go-redis client
func (c *RedisClient) Client() *redis.Client {
	return c.client
}

// Ping verifies the connection with a bounded timeout
func (c *RedisClient) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	c.logger.Info("Redis connection established")
	return nil
}

// Close releases the connection pool
func (c *RedisClient) Close() error {
	return c.client.Close()
}
