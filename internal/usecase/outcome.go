package usecase

import (
	"github.com/shopspring/decimal"

	"github.com/iho/txledger/internal/domain"
)

// Status is the terminal state of one processed message.
type Status int

const (
	StatusSuccess Status = iota
	StatusRejected
	StatusFailed
	StatusRetryable
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusRejected:
		return "rejected"
	case StatusFailed:
		return "failed"
	case StatusRetryable:
		return "retryable"
	default:
		return "unknown"
	}
}

// Disposition is the queue action taken for a message.
type Disposition int

const (
	// DispositionAck removes the message from the queue.
	DispositionAck Disposition = iota
	// DispositionDeadLetterAck publishes an error record, then acknowledges.
	DispositionDeadLetterAck
	// DispositionNackRequeue asks the broker to redeliver the message.
	DispositionNackRequeue
)

func (d Disposition) String() string {
	switch d {
	case DispositionAck:
		return "ack"
	case DispositionDeadLetterAck:
		return "dead_letter_ack"
	case DispositionNackRequeue:
		return "nack_requeue"
	default:
		return "unknown"
	}
}

// Outcome is the result of processing one message.
type Outcome struct {
	Status        Status
	TransactionID string
	// Duplicate is set when the transaction had already been applied.
	Duplicate bool
	// Balance is the account balance after a fresh apply.
	Balance decimal.Decimal
	Err     error
}

// Disposition maps the outcome to its queue action.
func (o Outcome) Disposition() Disposition {
	switch o.Status {
	case StatusSuccess, StatusRejected:
		return DispositionAck
	case StatusRetryable:
		return DispositionNackRequeue
	default:
		return DispositionDeadLetterAck
	}
}

// OutcomeFromError classifies err into a non-success outcome.
func OutcomeFromError(transactionID string, err error) Outcome {
	out := Outcome{TransactionID: transactionID, Err: err}

	switch domain.KindOf(err) {
	case domain.KindRejected:
		out.Status = StatusRejected
	case domain.KindRetryable:
		out.Status = StatusRetryable
	default:
		out.Status = StatusFailed
	}

	return out
}
