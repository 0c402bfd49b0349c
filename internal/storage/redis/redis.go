// Package redis caches serialized geo list responses. The database stays the
// source of truth; every mutation invalidates the affected key.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"location_service/internal/storage"

	"github.com/redis/go-redis/v9"
)

type RedisRepo struct {
	client *redis.Client
	ttl    time.Duration
}

func New(ctx context.Context, addr, pass string, db int, ttl time.Duration) (*RedisRepo, error) {
	const op = "storage.redis.New"

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     pass,
		DB:           db,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &RedisRepo{
		client: client,
		ttl:    ttl,
	}, nil
}

func (r *RedisRepo) GetList(ctx context.Context, key string) ([]byte, error) {
	const op = "storage.redis.GetList"

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, storage.ErrCacheMiss
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return data, nil
}

func (r *RedisRepo) SetList(ctx context.Context, key string, data []byte) error {
	const op = "storage.redis.SetList"

	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *RedisRepo) Invalidate(ctx context.Context, keys ...string) error {
	const op = "storage.redis.Invalidate"

	if len(keys) == 0 {
		return nil
	}

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *RedisRepo) Close() {
	r.client.Close()
}
