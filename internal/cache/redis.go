package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/yourusername/predictsports-engine/internal/metrics"
)

// RedisStore implements Store on a Redis server
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		PoolSize:     10,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolTimeout:  4 * time.Second,
		IdleTimeout:  5 * time.Minute,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	return rdb, nil
}

// NewRedisStore wraps an existing client. Keys are namespaced with prefix.
func NewRedisStore(client *redis.Client, ttl time.Duration, prefix string) *RedisStore {
	return &RedisStore{client: client, ttl: ttl, prefix: prefix}
}

// Backend returns the backend name
func (r *RedisStore) Backend() string {
	return BackendRedis
}

// Get decodes a cached value into dest
func (r *RedisStore) Get(ctx context.Context, key string, dest any) error {
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.RecordCacheLookup(BackendRedis, false)
			return ErrCacheMiss
		}
		return fmt.Errorf("redis get: %w", err)
	}

	metrics.RecordCacheLookup(BackendRedis, true)
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to decode cached value: %w", err)
	}
	return nil
}

// Set encodes and stores a value with the store TTL
func (r *RedisStore) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache value: %w", err)
	}
	if err := r.client.Set(ctx, r.prefix+key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Delete removes a key
func (r *RedisStore) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Ping checks the Redis connection
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the underlying connection pool
func (r *RedisStore) Close() error {
	return r.client.Close()
}
