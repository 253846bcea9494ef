package main

import (
	"context"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	kafkasink "github.com/iho/txledger/internal/adapter/queue/kafka"
	"github.com/iho/txledger/internal/adapter/queue/logsink"
	"github.com/iho/txledger/internal/adapter/queue/rabbitmq"
	"github.com/iho/txledger/internal/infrastructure/config"
)

type stubChannel struct {
	declared   []string
	declareErr error
}

func (c *stubChannel) QueueDeclare(name string, _, _, _, _ bool, _ amqp.Table) (amqp.Queue, error) {
	c.declared = append(c.declared, name)
	return amqp.Queue{Name: name}, c.declareErr
}

func (c *stubChannel) Qos(int, int, bool) error { return nil }

func (c *stubChannel) Consume(string, string, bool, bool, bool, bool, amqp.Table) (<-chan amqp.Delivery, error) {
	return nil, errors.New("not used")
}

func (c *stubChannel) PublishWithContext(context.Context, string, string, bool, bool, amqp.Publishing) error {
	return nil
}

func TestNewDeadLetterPublisher(t *testing.T) {
	t.Run("amqp declares error queue", func(t *testing.T) {
		ch := &stubChannel{}
		pub, closeFn, err := newDeadLetterPublisher(&config.Config{DeadLetterSink: config.SinkAMQP, ErrorQueue: "error"}, ch, zerolog.Nop())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer closeFn()

		if _, ok := pub.(*rabbitmq.Publisher); !ok {
			t.Fatalf("expected rabbitmq publisher, got %T", pub)
		}
		if len(ch.declared) != 1 || ch.declared[0] != "error" {
			t.Fatalf("expected error queue to be declared, got %v", ch.declared)
		}
	})

	t.Run("amqp declare failure", func(t *testing.T) {
		ch := &stubChannel{declareErr: amqp.ErrClosed}
		if _, _, err := newDeadLetterPublisher(&config.Config{DeadLetterSink: config.SinkAMQP, ErrorQueue: "error"}, ch, zerolog.Nop()); err == nil {
			t.Fatal("expected declare error")
		}
	})

	t.Run("kafka", func(t *testing.T) {
		cfg := &config.Config{DeadLetterSink: config.SinkKafka, KafkaBrokers: []string{"localhost:9092"}, KafkaDeadLetterTopic: "dlq"}
		pub, closeFn, err := newDeadLetterPublisher(cfg, &stubChannel{}, zerolog.Nop())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer closeFn()

		if _, ok := pub.(*kafkasink.DeadLetterSink); !ok {
			t.Fatalf("expected kafka sink, got %T", pub)
		}
	})

	t.Run("log", func(t *testing.T) {
		pub, closeFn, err := newDeadLetterPublisher(&config.Config{DeadLetterSink: config.SinkLog}, &stubChannel{}, zerolog.Nop())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer closeFn()

		if _, ok := pub.(*logsink.Sink); !ok {
			t.Fatalf("expected log sink, got %T", pub)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		if _, _, err := newDeadLetterPublisher(&config.Config{DeadLetterSink: "smtp"}, &stubChannel{}, zerolog.Nop()); err == nil {
			t.Fatal("expected error for unknown sink")
		}
	})
}
