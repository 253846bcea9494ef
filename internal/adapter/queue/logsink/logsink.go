// Package logsink provides a dead-letter publisher that only logs.
package logsink

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/iho/txledger/internal/domain"
)

// Sink implements usecase.DeadLetterPublisher by writing records to a logger.
type Sink struct {
	logger zerolog.Logger
}

// New creates a new Sink.
func New(logger zerolog.Logger) *Sink {
	return &Sink{logger: logger.With().Str("component", "dead_letter").Logger()}
}

// PublishDeadLetter logs record at warn level.
func (s *Sink) PublishDeadLetter(_ context.Context, record *domain.ErrorRecord) error {
	s.logger.Warn().
		Str("transaction_id", record.TransactionID).
		Str("worker_id", record.WorkerID).
		Str("error_message", record.ErrorMessage).
		RawJSON("original_message", record.OriginalMessage).
		Str("timestamp", record.Timestamp).
		Msg("dead letter")
	return nil
}
