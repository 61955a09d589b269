package infra

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient configures a Redis client and verifies connectivity.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	if url == "" {
		return nil, fmt.Errorf("redis url is required")
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opt)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}

// OptionalRedisClient connects to Redis when a URL is configured and logs a
// warning instead of failing when it is not. Development runs work without
// Redis; idempotency and rate limiting degrade to no-ops.
func OptionalRedisClient(ctx context.Context, url string, logger *slog.Logger) *redis.Client {
	if url == "" {
		logger.Warn("REDIS_URL not set, idempotency and rate limiting disabled")
		return nil
	}
	client, err := NewRedisClient(ctx, url)
	if err != nil {
		logger.Warn("connect redis", "error", err)
		return nil
	}
	return client
}
