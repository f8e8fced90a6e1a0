package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/clientbridge/crm/config"
	"github.com/clientbridge/crm/pkg/logger"
)

// Client wraps the Redis connection. It backs short-lived one-shot state
// (OAuth login nonces) and rate-limit counters. Tokens are never cached
// here: access tokens are verified statelessly and refresh tokens live only
// in the client cookie.
type Client struct {
	rdb *redis.Client
}

func NewClient(cfg *config.Config) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddress(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.Database,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})

	client := &Client{rdb: rdb}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx); err != nil {
		logger.GetLogger().Error("Failed to connect to Redis",
			zap.String("address", cfg.RedisAddress()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.GetLogger().Info("Successfully connected to Redis",
		zap.String("address", cfg.RedisAddress()),
		zap.Int("database", cfg.Redis.Database),
	)

	return client, nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.rdb.Close()
}

// SetOnce stores a value that expires after ttl. Used for OAuth state nonces.
func (c *Client) SetOnce(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		logger.GetLogger().Error("Failed to set key",
			zap.String("key", key),
			zap.Duration("ttl", ttl),
			zap.Error(err),
		)
		return fmt.Errorf("failed to set key: %w", err)
	}
	return nil
}

// TakeOnce atomically reads and deletes a key, so a value can be consumed
// exactly once. Returns ("", false, nil) when the key is absent or expired.
func (c *Client) TakeOnce(ctx context.Context, key string) (string, bool, error) {
	value, err := c.rdb.GetDel(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", false, nil
		}
		logger.GetLogger().Error("Failed to take key",
			zap.String("key", key),
			zap.Error(err),
		)
		return "", false, fmt.Errorf("failed to take key: %w", err)
	}
	return value, true, nil
}

// Increment bumps a counter and sets its expiry on first increment. Used by
// the rate limiter; returns the new count.
func (c *Client) Increment(ctx context.Context, key string, window time.Duration) (int64, error) {
	count, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment key: %w", err)
	}

	if count == 1 {
		if err := c.rdb.Expire(ctx, key, window).Err(); err != nil {
			return count, fmt.Errorf("failed to set expiry: %w", err)
		}
	}

	return count, nil
}

// Delete removes a key
func (c *Client) Delete(ctx context.Context, key string) error {
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		logger.GetLogger().Error("Failed to delete key",
			zap.String("key", key),
			zap.Error(err),
		)
		return fmt.Errorf("failed to delete key: %w", err)
	}
	return nil
}

// Exists checks if a key exists
func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	result, err := c.rdb.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check key existence: %w", err)
	}
	return result > 0, nil
}
