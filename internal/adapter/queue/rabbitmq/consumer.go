package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/txledger/internal/usecase"
)

// ErrDeliveriesClosed is returned when the broker closes the delivery channel.
var ErrDeliveriesClosed = errors.New("delivery channel closed")

// Handler processes one delivery and performs its disposition.
type Handler interface {
	Handle(ctx context.Context, d usecase.Delivery) (usecase.Outcome, error)
}

// ConsumerConfig configures a Consumer.
type ConsumerConfig struct {
	Queue          string
	ConsumerTag    string
	Prefetch       int
	MessageTimeout time.Duration
}

// Consumer pulls transaction messages one at a time and hands them to a Handler.
type Consumer struct {
	ch      Channel
	handler Handler
	cfg     ConsumerConfig
	logger  zerolog.Logger
}

// NewConsumer creates a new Consumer.
func NewConsumer(ch Channel, handler Handler, cfg ConsumerConfig, logger zerolog.Logger) *Consumer {
	if cfg.Prefetch <= 0 {
		cfg.Prefetch = 1
	}
	if cfg.MessageTimeout <= 0 {
		cfg.MessageTimeout = 30 * time.Second
	}

	return &Consumer{
		ch:      ch,
		handler: handler,
		cfg:     cfg,
		logger:  logger.With().Str("component", "consumer").Str("queue", cfg.Queue).Logger(),
	}
}

// Run consumes until ctx is cancelled, the delivery channel closes or a
// disposition cannot be delivered to the broker. Cancellation is not an error.
func (c *Consumer) Run(ctx context.Context) error {
	if err := DeclareQueue(c.ch, c.cfg.Queue); err != nil {
		return fmt.Errorf("declare queue %s: %w", c.cfg.Queue, err)
	}

	if err := c.ch.Qos(c.cfg.Prefetch, 0, false); err != nil {
		return fmt.Errorf("set prefetch: %w", err)
	}

	deliveries, err := c.ch.Consume(c.cfg.Queue, c.cfg.ConsumerTag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", c.cfg.Queue, err)
	}

	c.logger.Info().Int("prefetch", c.cfg.Prefetch).Msg("consumer started")

	for {
		select {
		case <-ctx.Done():
			c.logger.Info().Msg("consumer stopping")
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return ErrDeliveriesClosed
			}
			if err := c.handle(ctx, NewDelivery(d)); err != nil {
				return err
			}
		}
	}
}

func (c *Consumer) handle(ctx context.Context, d usecase.Delivery) error {
	// Shutdown must not abort a message half-way; only the per-message timeout applies.
	msgCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.cfg.MessageTimeout)
	defer cancel()

	if _, err := c.handler.Handle(msgCtx, d); err != nil {
		return fmt.Errorf("handle delivery: %w", err)
	}

	return nil
}
