// Package memory provides in-memory repository implementations, used
// when Redis and the database are disabled and as lightweight test
// doubles.
package memory

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/mealsmith/v2/internal/ports/outbound"
)

const defaultTTL = 24 * time.Hour

// cacheItem represents a cached value with its expiry
type cacheItem struct {
	value     []byte
	expiresAt time.Time
}

// CacheRepository implements the cache repository in process memory.
// Expired entries are dropped lazily on read and swept periodically.
type CacheRepository struct {
	data  map[string]cacheItem
	mutex sync.RWMutex
	done  chan struct{}
}

// NewCacheRepository creates a new in-memory cache repository
func NewCacheRepository() *CacheRepository {
	repo := &CacheRepository{
		data: make(map[string]cacheItem),
		done: make(chan struct{}),
	}

	go repo.sweep()

	return repo
}

// Get retrieves a value from cache. A missing or expired key is a miss,
// mirroring the Redis repository.
func (r *CacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	item, exists := r.data[key]
	if !exists {
		return nil, nil
	}
	if time.Now().After(item.expiresAt) {
		delete(r.data, key)
		return nil, nil
	}
	return item.value, nil
}

// Set stores a value in cache with TTL
func (r *CacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = defaultTTL
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.data[key] = cacheItem{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Delete removes a key from cache
func (r *CacheRepository) Delete(ctx context.Context, key string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	delete(r.data, key)
	return nil
}

// Exists checks if a key exists in cache
func (r *CacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	item, exists := r.data[key]
	if !exists {
		return false, nil
	}
	if time.Now().After(item.expiresAt) {
		delete(r.data, key)
		return false, nil
	}
	return true, nil
}

// Increment increments a counter, starting at 1 for a new key
func (r *CacheRepository) Increment(ctx context.Context, key string) (int64, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var value int64
	item, exists := r.data[key]
	if exists && time.Now().Before(item.expiresAt) {
		value, _ = strconv.ParseInt(string(item.value), 10, 64)
	}
	value++

	r.data[key] = cacheItem{
		value:     []byte(strconv.FormatInt(value, 10)),
		expiresAt: time.Now().Add(defaultTTL),
	}
	return value, nil
}

// Close stops the background sweeper
func (r *CacheRepository) Close() {
	close(r.done)
}

// sweep removes expired items
func (r *CacheRepository) sweep() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
			r.mutex.Lock()
			now := time.Now()
			for key, item := range r.data {
				if now.After(item.expiresAt) {
					delete(r.data, key)
				}
			}
			r.mutex.Unlock()
		}
	}
}

var _ outbound.CacheRepository = (*CacheRepository)(nil)
