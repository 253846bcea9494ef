package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// AttemptTracker implements usecase.AttemptTracker with INCR and a TTL, so
// counters of messages that eventually succeed expire on their own.
type AttemptTracker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewAttemptTracker creates a new AttemptTracker.
func NewAttemptTracker(client *redis.Client, ttl time.Duration) *AttemptTracker {
	return &AttemptTracker{
		client: client,
		ttl:    ttl,
	}
}

// Increment bumps the counter for key and returns the new value.
func (t *AttemptTracker) Increment(ctx context.Context, key string) (int64, error) {
	pipe := t.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	if t.ttl > 0 {
		pipe.Expire(ctx, key, t.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}

	return incr.Val(), nil
}

// Reset deletes the counter for key.
func (t *AttemptTracker) Reset(ctx context.Context, key string) error {
	return t.client.Del(ctx, key).Err()
}
