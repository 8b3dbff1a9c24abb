package repository

import (
	"context"
	"fmt"
	"time"

	"shareit/internal/config"

	"github.com/redis/go-redis/v9"
)

const quotaKeyPrefix = "shareit:quota:"

// NewRedisClient builds a Redis client from config.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

// RedisQuotaRepository counts requests per user in fixed windows shared by
// every API instance.
type RedisQuotaRepository struct {
	client *redis.Client
}

func NewRedisQuotaRepository(client *redis.Client) *RedisQuotaRepository {
	return &RedisQuotaRepository{client: client}
}

func (r *RedisQuotaRepository) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	if r.client == nil {
		return false, fmt.Errorf("redis client is nil")
	}
	key := fmt.Sprintf("%s%d", quotaKeyPrefix, userID)

	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to increment quota counter: %w", err)
	}

	return incr.Val() <= int64(limit), nil
}

// Ping checks the Redis connection.
func Ping(ctx context.Context, client *redis.Client) error {
	if _, err := client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

// Close closes the Redis connection if there is one.
func Close(client *redis.Client) error {
	if client != nil {
		return client.Close()
	}
	return nil
}
