// Copyright (c) 2026 MangaMania. All rights reserved.

package catalog

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache TTLs per query class. Detail pages change rarely; search results are
// the most volatile because new titles appear in them first.
const (
	searchTTL = 15 * time.Minute
	topTTL    = 1 * time.Hour
	detailTTL = 6 * time.Hour
)

// Cache stores serialized upstream responses keyed by query.
//
// A nil value with a nil error means a cache miss.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// RedisCache is the Redis-backed [Cache] implementation.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new Redis-backed catalog cache.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Get fetches a cached payload. A missing key is a miss, not an error.
func (cache *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := cache.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Set stores a payload with the given TTL.
func (cache *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return cache.client.Set(ctx, key, value, ttl).Err()
}
