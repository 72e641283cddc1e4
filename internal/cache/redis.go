package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "garage:"

type RedisCache struct {
	client *redis.Client
}

// NewRedis parses a redis:// URL and checks the connection.
func NewRedis(ctx context.Context, url string) (*RedisCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &RedisCache{client: client}, nil
}

func NewRedisFromClient(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func dataKey(namespace, key string) string {
	return keyPrefix + namespace + ":" + key
}

func indexKey(namespace string) string {
	return keyPrefix + "ns:" + namespace
}

func (r *RedisCache) Get(ctx context.Context, namespace, key string, dest any) (bool, error) {
	data, err := r.client.Get(ctx, dataKey(namespace, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache decode: %w", err)
	}
	return true, nil
}

// Set is a no-op for ttl <= 0: an entry without expiry could outlive
// its index and escape Invalidate.
func (r *RedisCache) Set(ctx context.Context, namespace, key string, value any, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}

	k := dataKey(namespace, key)
	idx := indexKey(namespace)

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, k, data, ttl)
	pipe.SAdd(ctx, idx, k)
	// the index outlives its members by one ttl at most
	pipe.Expire(ctx, idx, 2*ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

func (r *RedisCache) Invalidate(ctx context.Context, namespace string) error {
	idx := indexKey(namespace)

	keys, err := r.client.SMembers(ctx, idx).Result()
	if err != nil {
		return fmt.Errorf("cache index: %w", err)
	}

	pipe := r.client.TxPipeline()
	if len(keys) > 0 {
		pipe.Del(ctx, keys...)
	}
	pipe.Del(ctx, idx)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}

func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}

var _ Cache = (*RedisCache)(nil)
