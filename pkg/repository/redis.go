package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/example/retailshop/pkg/config"
	"github.com/go-redis/redis/v8"
)

var ErrCacheMiss = errors.New("cache miss")

// RedisCache stores JSON documents under namespaced keys.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(cfg *config.RedisConfig) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
			PoolSize: cfg.PoolSize,
		}),
		ttl: cfg.TTL,
	}
}

func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// SetJSON stores value under key. A zero expiration uses the configured TTL.
func (r *RedisCache) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if expiration == 0 {
		expiration = r.ttl
	}
	return r.client.Set(ctx, key, data, expiration).Err()
}

// GetJSON loads key into dest and returns ErrCacheMiss when it is absent.
func (r *RedisCache) GetJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return err
	}
	return json.Unmarshal(data, dest)
}

func (r *RedisCache) Del(ctx context.Context, keys ...string) error {
	return r.client.Del(ctx, keys...).Err()
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}

func OrderSummaryKey(orderID string) string {
	return fmt.Sprintf("order:summary:%s", orderID)
}

func ProductKey(name string) string {
	return fmt.Sprintf("catalog:product:%s", name)
}
