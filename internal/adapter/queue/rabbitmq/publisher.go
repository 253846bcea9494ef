package rabbitmq

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iho/txledger/internal/domain"
)

const contentTypeJSON = "application/json"

// Publisher publishes persistent messages to the default exchange. It
// implements usecase.TransactionPublisher and usecase.DeadLetterPublisher.
type Publisher struct {
	ch               Channel
	transactionQueue string
	errorQueue       string
	now              func() time.Time
}

// NewPublisher creates a new Publisher. Either queue name may be empty when
// the publisher is only used for the other kind of message.
func NewPublisher(ch Channel, transactionQueue, errorQueue string) *Publisher {
	return &Publisher{
		ch:               ch,
		transactionQueue: transactionQueue,
		errorQueue:       errorQueue,
		now:              time.Now,
	}
}

// Declare declares the configured queues.
func (p *Publisher) Declare() error {
	for _, q := range []string{p.transactionQueue, p.errorQueue} {
		if q == "" {
			continue
		}
		if err := DeclareQueue(p.ch, q); err != nil {
			return fmt.Errorf("declare queue %s: %w", q, err)
		}
	}
	return nil
}

// PublishTransaction publishes tr to the transaction queue.
func (p *Publisher) PublishTransaction(ctx context.Context, tr *domain.Transaction) error {
	body, err := tr.Marshal()
	if err != nil {
		return fmt.Errorf("marshal transaction: %w", err)
	}
	return p.publish(ctx, p.transactionQueue, tr.ID(), body)
}

// PublishDeadLetter publishes record to the error queue.
func (p *Publisher) PublishDeadLetter(ctx context.Context, record *domain.ErrorRecord) error {
	body, err := record.Marshal()
	if err != nil {
		return fmt.Errorf("marshal error record: %w", err)
	}
	return p.publish(ctx, p.errorQueue, record.TransactionID, body)
}

func (p *Publisher) publish(ctx context.Context, queue, messageID string, body []byte) error {
	msg := amqp.Publishing{
		ContentType:  contentTypeJSON,
		DeliveryMode: amqp.Persistent,
		MessageId:    messageID,
		Timestamp:    p.now().UTC(),
		Body:         body,
	}

	if err := p.ch.PublishWithContext(ctx, "", queue, false, false, msg); err != nil {
		return fmt.Errorf("publish to %s: %w", queue, err)
	}
	return nil
}
