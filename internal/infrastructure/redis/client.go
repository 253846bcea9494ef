package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config tunes the client beyond what the URL carries.
type Config struct {
	URL         string
	PoolSize    int
	PingTimeout time.Duration
}

// NewClient connects to redisURL with default pool settings.
func NewClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	return NewClientWithConfig(ctx, Config{URL: redisURL})
}

// NewClientWithConfig connects and verifies the server answers PING.
func NewClientWithConfig(ctx context.Context, cfg Config) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}

	client := redis.NewClient(opts)

	if err := Ping(client, cfg.PingTimeout)(ctx); err != nil {
		client.Close()
		return nil, err
	}

	return client, nil
}

// Ping returns a readiness probe for client. A zero timeout means 5s.
func Ping(client *redis.Client, timeout time.Duration) func(context.Context) error {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to ping redis: %w", err)
		}
		return nil
	}
}
