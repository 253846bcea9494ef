package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/txledger/internal/domain"
)

// Dead-letter publish results, used as metric labels.
const (
	DeadLetterPublished = "published"
	DeadLetterFailed    = "failed"
)

// ErrorRouter publishes failed messages to the dead-letter destination.
type ErrorRouter struct {
	publisher DeadLetterPublisher
	workerID  string
	logger    zerolog.Logger
	metrics   Metrics
	now       func() time.Time
}

// NewErrorRouter creates a new ErrorRouter.
func NewErrorRouter(publisher DeadLetterPublisher, workerID string, logger zerolog.Logger, metrics Metrics) *ErrorRouter {
	if metrics == nil {
		metrics = NopMetrics{}
	}

	return &ErrorRouter{
		publisher: publisher,
		workerID:  workerID,
		logger:    logger,
		metrics:   metrics,
		now:       time.Now,
	}
}

// Report publishes an error record for payload. Failures are logged and
// counted but never returned: the message is acknowledged either way.
func (r *ErrorRouter) Report(ctx context.Context, payload []byte, errorMessage string) {
	record := domain.NewErrorRecord(payload, errorMessage, r.workerID, r.now())

	if err := r.publisher.PublishDeadLetter(ctx, record); err != nil {
		r.metrics.IncDeadLetter(DeadLetterFailed)
		r.logger.Error().
			Err(err).
			Str("transaction_id", record.TransactionID).
			Str("worker_id", r.workerID).
			Str("error_message", errorMessage).
			Msg("failed to publish dead letter")
		return
	}

	r.metrics.IncDeadLetter(DeadLetterPublished)
	r.logger.Info().
		Str("transaction_id", record.TransactionID).
		Str("worker_id", r.workerID).
		Str("error_message", errorMessage).
		Msg("message dead-lettered")
}

// NopMetrics discards all observations.
type NopMetrics struct{}

func (NopMetrics) ObserveMessage(string, time.Duration) {}
func (NopMetrics) IncRetry()                            {}
func (NopMetrics) IncDeadLetter(string)                 {}
func (NopMetrics) SetDiscrepancies(int)                 {}
