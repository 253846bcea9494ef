package amqp

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// Interval before the first redial.
var initialDialInterval = 500 * time.Millisecond

// DialFunc opens a broker connection.
type DialFunc func(url string) (*amqp.Connection, error)

// Dial connects to the broker at url, retrying with exponential backoff until
// maxElapsed passes or ctx is cancelled. A malformed url fails immediately.
func Dial(ctx context.Context, url string, maxElapsed time.Duration, logger zerolog.Logger) (*amqp.Connection, error) {
	return dialWith(ctx, amqp.Dial, url, maxElapsed, logger)
}

func dialWith(ctx context.Context, dial DialFunc, url string, maxElapsed time.Duration, logger zerolog.Logger) (*amqp.Connection, error) {
	if _, err := amqp.ParseURI(url); err != nil {
		return nil, fmt.Errorf("failed to parse AMQP URL: %w", err)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = initialDialInterval
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = maxElapsed

	attempt := 0
	conn, err := backoff.RetryWithData(func() (*amqp.Connection, error) {
		attempt++
		conn, err := dial(url)
		if err != nil {
			logger.Warn().Err(err).Int("attempt", attempt).Msg("broker not reachable, retrying")
			return nil, err
		}
		return conn, nil
	}, backoff.WithContext(b, ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to broker: %w", err)
	}

	logger.Info().Int("attempts", attempt).Msg("connected to broker")
	return conn, nil
}
