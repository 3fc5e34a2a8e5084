package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "view:"

type RedisViewCache struct {
	client  *redis.Client
	ttl     time.Duration
	channel string
}

func NewRedisViewCache(client *redis.Client, ttl time.Duration, channel string) *RedisViewCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RedisViewCache{client: client, ttl: ttl, channel: channel}
}

func key(path string) string {
	return keyPrefix + path
}

func (c *RedisViewCache) Get(ctx context.Context, path, variant string) ([]byte, bool, error) {
	b, err := c.client.HGet(ctx, key(path), variant).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("view cache get %s: %w", path, err)
	}
	return b, true, nil
}

func (c *RedisViewCache) Set(ctx context.Context, path, variant string, body []byte) error {
	pipe := c.client.TxPipeline()
	pipe.HSet(ctx, key(path), variant, body)
	pipe.Expire(ctx, key(path), c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("view cache set %s: %w", path, err)
	}
	return nil
}

// Revalidate drops every cached variant of the paths and announces them on
// the revalidation channel for renderers that keep their own copies.
func (c *RedisViewCache) Revalidate(ctx context.Context, paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	keys := make([]string, len(paths))
	for i, p := range paths {
		keys[i] = key(p)
	}

	pipe := c.client.Pipeline()
	pipe.Del(ctx, keys...)
	if c.channel != "" {
		for _, p := range paths {
			pipe.Publish(ctx, c.channel, p)
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("revalidate %v: %w", paths, err)
	}
	return nil
}

func (c *RedisViewCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
