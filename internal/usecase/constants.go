package usecase

import "time"

// Retry budget applied when the configured values are unset.
const (
	DefaultMaxAttempts     = 5
	DefaultInitialInterval = 500 * time.Millisecond
	DefaultMaxInterval     = 30 * time.Second
)

// DefaultSettleTimeout bounds retry bookkeeping and dead-letter publishing
// for one message.
const DefaultSettleTimeout = 10 * time.Second
