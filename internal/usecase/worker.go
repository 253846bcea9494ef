package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/txledger/internal/domain"
)

// Worker handles single deliveries from the transaction queue: parse,
// process, bound retries and dispose.
type Worker struct {
	processor *Processor
	router    *ErrorRouter
	retry     *RetryPolicy
	workerID  string
	logger    zerolog.Logger
	metrics   Metrics
	sleep     func(ctx context.Context, d time.Duration)

	settleTimeout time.Duration
}

// NewWorker creates a new Worker.
func NewWorker(processor *Processor, router *ErrorRouter, retry *RetryPolicy, workerID string, logger zerolog.Logger, metrics Metrics) *Worker {
	if metrics == nil {
		metrics = NopMetrics{}
	}

	return &Worker{
		processor: processor,
		router:    router,
		retry:     retry,
		workerID:  workerID,
		logger:    logger,
		metrics:   metrics,
		sleep:     sleepContext,

		settleTimeout: DefaultSettleTimeout,
	}
}

// WithSettleTimeout bounds the bookkeeping done after processing: the retry
// budget and the dead-letter publish.
func (w *Worker) WithSettleTimeout(d time.Duration) *Worker {
	if d > 0 {
		w.settleTimeout = d
	}
	return w
}

// Handle processes d and performs exactly one disposition on it. The
// returned error is a transport failure only.
func (w *Worker) Handle(ctx context.Context, d Delivery) (Outcome, error) {
	start := time.Now()
	body := d.Body()

	var out Outcome
	tr, err := domain.ParseTransaction(body)
	if err != nil {
		out = OutcomeFromError("", err)
	} else {
		out = w.processor.Process(ctx, tr)
	}

	// Processing may have failed because ctx expired; settling must not
	// inherit that deadline.
	settleCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.settleTimeout)
	defer cancel()

	if out.Status == StatusRetryable {
		out = w.budget(settleCtx, out)
	}

	disposition := out.Disposition()
	w.logOutcome(out, disposition)

	var dispErr error
	switch disposition {
	case DispositionAck:
		dispErr = d.Ack()
	case DispositionDeadLetterAck:
		w.router.Report(settleCtx, body, out.Err.Error())
		dispErr = d.Ack()
	case DispositionNackRequeue:
		dispErr = d.Nack(true)
	}

	w.metrics.ObserveMessage(out.Status.String(), time.Since(start))

	if dispErr != nil {
		return out, fmt.Errorf("%s: %w", disposition, dispErr)
	}

	return out, nil
}

// budget charges one attempt to the message and, while the budget lasts,
// waits the backoff before the message is requeued. The wait is not cut
// short by ctx's deadline.
func (w *Worker) budget(ctx context.Context, out Outcome) Outcome {
	if w.retry == nil {
		return out
	}

	decision := w.retry.Next(ctx, out.TransactionID)
	if decision.Exhausted {
		w.retry.Reset(ctx, out.TransactionID)
		return Outcome{
			Status:        StatusFailed,
			TransactionID: out.TransactionID,
			Err:           fmt.Errorf("%w after %d attempts: %w", domain.ErrRetryBudgetExhausted, decision.Attempt-1, out.Err),
		}
	}

	w.metrics.IncRetry()
	w.logger.Warn().
		Err(out.Err).
		Str("transaction_id", out.TransactionID).
		Int64("attempt", decision.Attempt).
		Dur("backoff", decision.Delay).
		Msg("retryable failure, requeueing")

	w.sleep(context.WithoutCancel(ctx), decision.Delay)

	return out
}

func (w *Worker) logOutcome(out Outcome, disposition Disposition) {
	var event *zerolog.Event
	switch out.Status {
	case StatusSuccess:
		event = w.logger.Info()
	case StatusRejected:
		event = w.logger.Warn()
	default:
		event = w.logger.Error()
	}

	if out.Err != nil {
		event = event.Err(out.Err)
	}

	event.
		Str("transaction_id", out.TransactionID).
		Str("worker_id", w.workerID).
		Str("outcome", out.Status.String()).
		Bool("duplicate", out.Duplicate).
		Str("disposition", disposition.String()).
		Msg("message processed")
}

func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
