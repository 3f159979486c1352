package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ppclens/backend/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisCache stores result payloads in Redis under a key prefix
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache connects to the Redis instance at url (redis://host:port/db)
// and verifies it with a PING
func NewRedisCache(ctx context.Context, url, prefix string) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return NewRedisCacheFromClient(client, prefix), nil
}

// NewRedisCacheFromClient wraps an existing client
func NewRedisCacheFromClient(client *redis.Client, prefix string) *RedisCache {
	return &RedisCache{client: client, prefix: prefix}
}

// Get retrieves a payload; a missing key is ErrCacheMiss
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, nil
}

// Set stores value with TTL
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Delete removes a payload
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// Exists checks whether a payload is stored
func (c *RedisCache) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.client.Exists(ctx, c.prefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists %s: %w", key, err)
	}
	return n > 0, nil
}

// Close releases the underlying connection pool
func (c *RedisCache) Close() error {
	return c.client.Close()
}
