package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/iho/txledger/internal/domain"
)

// Writer is the subset of *kafka.Writer used by the sink.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewWriter builds a synchronous writer for topic.
func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireAll,
	}
}

// DeadLetterSink implements usecase.DeadLetterPublisher on a Kafka topic.
// Records are keyed by transaction id so retries of one transaction land on
// the same partition.
type DeadLetterSink struct {
	writer Writer
}

// NewDeadLetterSink creates a new DeadLetterSink.
func NewDeadLetterSink(writer Writer) *DeadLetterSink {
	return &DeadLetterSink{writer: writer}
}

// PublishDeadLetter writes record to the topic.
func (s *DeadLetterSink) PublishDeadLetter(ctx context.Context, record *domain.ErrorRecord) error {
	body, err := record.Marshal()
	if err != nil {
		return fmt.Errorf("marshal error record: %w", err)
	}

	msg := kafka.Message{
		Value: body,
		Headers: []kafka.Header{
			{Key: "worker_id", Value: []byte(record.WorkerID)},
		},
	}
	if record.TransactionID != "" {
		msg.Key = []byte(record.TransactionID)
	}

	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write dead letter: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (s *DeadLetterSink) Close() error {
	return s.writer.Close()
}
