package postgres

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
)

// RetrierConfig bounds how long read-only ledger queries are retried.
type RetrierConfig struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
}

// DefaultRetrierConfig suits interactive reads such as reconciliation.
var DefaultRetrierConfig = RetrierConfig{
	MaxRetries:      3,
	InitialInterval: 50 * time.Millisecond,
	MaxInterval:     time.Second,
	MaxElapsedTime:  10 * time.Second,
}

// Retrier re-runs idempotent reads that fail with a transient database error.
// Writes go through the message retry budget instead.
type Retrier struct {
	cfg    RetrierConfig
	logger zerolog.Logger
}

// NewRetrier creates a Retrier with DefaultRetrierConfig.
func NewRetrier(logger zerolog.Logger) *Retrier {
	return NewRetrierWithConfig(DefaultRetrierConfig, logger)
}

// NewRetrierWithConfig creates a Retrier with cfg.
func NewRetrierWithConfig(cfg RetrierConfig, logger zerolog.Logger) *Retrier {
	return &Retrier{cfg: cfg, logger: logger}
}

func (r *Retrier) policy(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(r.cfg.InitialInterval),
		backoff.WithMaxInterval(r.cfg.MaxInterval),
		backoff.WithMaxElapsedTime(r.cfg.MaxElapsedTime),
	)
	return backoff.WithContext(backoff.WithMaxRetries(b, r.cfg.MaxRetries), ctx)
}

// Retry runs op until it succeeds, fails permanently or the policy gives up.
func (r *Retrier) Retry(ctx context.Context, op func() error) error {
	attempt := 0
	return backoff.RetryNotify(
		func() error {
			err := op()
			if err != nil && !isRetryableError(err) {
				return backoff.Permanent(err)
			}
			return err
		},
		r.policy(ctx),
		func(err error, wait time.Duration) {
			attempt++
			r.logger.Warn().Err(err).Int("retry", attempt).Dur("wait", wait).Msg("transient database error, retrying")
		},
	)
}
