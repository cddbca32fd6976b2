package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taskdeck/taskdeck/pkg/config"
	"github.com/taskdeck/taskdeck/pkg/logger"
)

// RedisClient wraps the Redis connection
type RedisClient struct {
	Client *redis.Client
}

// NewRedisClient creates a new Redis client connection
func NewRedisClient(cfg *config.Config, log *logger.Logger) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	log.Info("Redis connection established",
		logger.String("host", cfg.Redis.Host),
		logger.Int("port", cfg.Redis.Port),
		logger.Int("db", cfg.Redis.DB),
	)

	return &RedisClient{Client: client}, nil
}

// Close closes the Redis connection
func (r *RedisClient) Close() error {
	return r.Client.Close()
}

// HealthCheck performs a health check on Redis
func (r *RedisClient) HealthCheck(ctx context.Context) error {
	return r.Client.Ping(ctx).Err()
}

// Set sets a key-value pair with optional expiration
func (r *RedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return r.Client.Set(ctx, key, value, expiration).Err()
}

// Get gets a value by key
func (r *RedisClient) Get(ctx context.Context, key string) (string, error) {
	return r.Client.Get(ctx, key).Result()
}

// Delete deletes a key
func (r *RedisClient) Delete(ctx context.Context, keys ...string) error {
	return r.Client.Del(ctx, keys...).Err()
}

// Exists checks if a key exists
func (r *RedisClient) Exists(ctx context.Context, keys ...string) (int64, error) {
	return r.Client.Exists(ctx, keys...).Result()
}

// AcquireLock attempts to take a distributed lock via SETNX. It returns
// true when this process now holds the lock.
func (r *RedisClient) AcquireLock(ctx context.Context, key, owner string, ttl time.Duration) (bool, error) {
	return r.Client.SetNX(ctx, key, owner, ttl).Result()
}

// ReleaseLock releases a lock only if the owner still holds it.
func (r *RedisClient) ReleaseLock(ctx context.Context, key, owner string) error {
	current, err := r.Client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return err
	}
	if current != owner {
		return nil
	}
	return r.Client.Del(ctx, key).Err()
}

// Push appends a payload to the head of a list, used as a work queue.
func (r *RedisClient) Push(ctx context.Context, key string, payload []byte) error {
	return r.Client.LPush(ctx, key, payload).Err()
}

// QueueLength returns the number of pending entries on a queue.
func (r *RedisClient) QueueLength(ctx context.Context, key string) (int64, error) {
	return r.Client.LLen(ctx, key).Result()
}
