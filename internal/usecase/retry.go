package usecase

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
)

const attemptKeyPrefix = "retry:attempts:"

// RetryDecision tells the worker what to do with a retryable outcome.
type RetryDecision struct {
	Attempt   int64
	Delay     time.Duration
	Exhausted bool
}

// RetryPolicy bounds redelivery of retryable messages per transaction id.
type RetryPolicy struct {
	tracker         AttemptTracker
	maxAttempts     int64
	initialInterval time.Duration
	maxInterval     time.Duration
	logger          zerolog.Logger
}

// NewRetryPolicy creates a new RetryPolicy.
func NewRetryPolicy(tracker AttemptTracker, maxAttempts int, initialInterval, maxInterval time.Duration, logger zerolog.Logger) *RetryPolicy {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if initialInterval <= 0 {
		initialInterval = DefaultInitialInterval
	}
	if maxInterval <= 0 {
		maxInterval = DefaultMaxInterval
	}
	maxInterval = max(maxInterval, initialInterval)

	return &RetryPolicy{
		tracker:         tracker,
		maxAttempts:     int64(maxAttempts),
		initialInterval: initialInterval,
		maxInterval:     maxInterval,
		logger:          logger,
	}
}

// Next records one more attempt for transactionID and decides whether it may
// be requeued.
func (p *RetryPolicy) Next(ctx context.Context, transactionID string) RetryDecision {
	attempt := int64(1)

	if transactionID != "" && p.tracker != nil {
		n, err := p.tracker.Increment(ctx, attemptKeyPrefix+transactionID)
		if err != nil {
			p.logger.Warn().Err(err).Str("transaction_id", transactionID).Msg("attempt store unavailable, counting as first attempt")
		} else {
			attempt = n
		}
	}

	if attempt > p.maxAttempts {
		return RetryDecision{Attempt: attempt, Exhausted: true}
	}

	return RetryDecision{Attempt: attempt, Delay: p.backoff(attempt)}
}

// Reset clears the attempt counter of transactionID.
func (p *RetryPolicy) Reset(ctx context.Context, transactionID string) {
	if transactionID == "" || p.tracker == nil {
		return
	}

	if err := p.tracker.Reset(ctx, attemptKeyPrefix+transactionID); err != nil {
		p.logger.Warn().Err(err).Str("transaction_id", transactionID).Msg("failed to reset attempt counter")
	}
}

// MaxAttempts returns the configured budget.
func (p *RetryPolicy) MaxAttempts() int64 {
	return p.maxAttempts
}

func (p *RetryPolicy) backoff(attempt int64) time.Duration {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.initialInterval
	b.MaxInterval = p.maxInterval
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	b.Reset()

	var d time.Duration
	for i := int64(0); i < attempt; i++ {
		d = b.NextBackOff()
	}

	return d
}
