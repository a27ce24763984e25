// Package redis provides the Redis-backed cache repository.
package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mealsmith/v2/internal/infrastructure/cache"
	"github.com/mealsmith/v2/internal/ports/outbound"
)

// CacheRepository implements the cache repository interface on Redis. A
// missing key is a miss, not an error: Get returns (nil, nil) so callers
// fall through to the source of truth.
type CacheRepository struct {
	client *cache.RedisClient
	logger *zap.Logger
}

// NewCacheRepository creates a new Redis cache repository
func NewCacheRepository(client *cache.RedisClient, logger *zap.Logger) outbound.CacheRepository {
	return &CacheRepository{
		client: client,
		logger: logger.Named("redis-cache"),
	}
}

// Get retrieves a value from cache
func (r *CacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Client().Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		r.logger.Debug("Cache get failed", zap.String("key", key), zap.Error(err))
		return nil, err
	}
	return data, nil
}

// Set stores a value in cache with TTL
func (r *CacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Client().Set(ctx, key, value, ttl).Err(); err != nil {
		r.logger.Error("Cache set failed", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

// Delete removes a value from cache
func (r *CacheRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.Client().Del(ctx, key).Err(); err != nil {
		r.logger.Error("Cache delete failed", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

// Exists checks whether a key is present
func (r *CacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Client().Exists(ctx, key).Result()
	if err != nil {
		r.logger.Error("Cache exists check failed", zap.String("key", key), zap.Error(err))
		return false, err
	}
	return n > 0, nil
}

// Increment atomically increments a counter
func (r *CacheRepository) Increment(ctx context.Context, key string) (int64, error) {
	result, err := r.client.Client().Incr(ctx, key).Result()
	if err != nil {
		r.logger.Error("Cache increment failed", zap.String("key", key), zap.Error(err))
		return 0, err
	}
	return result, nil
}
