package store

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/linktree-go/internal/resolver"
)

// RedisCache is a Redis implementation of resolver.CacheStore. Values are
// opaque serialized payloads; expiry is delegated to Redis via SET EX.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new Redis-backed cache store.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, resolver.ErrCacheMiss
		}

		return nil, err
	}

	return payload, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// Compile-time check.
var _ resolver.CacheStore = (*RedisCache)(nil)
