package domain

import (
	"errors"
	"fmt"
)

var (
	// Payload errors
	ErrMalformedPayload       = errors.New("malformed payload")
	ErrMissingField           = errors.New("missing required field")
	ErrInvalidAmount          = errors.New("invalid amount")
	ErrInvalidTimestamp       = errors.New("invalid timestamp")
	ErrInvalidTransactionType = errors.New("invalid transaction type")

	// Account errors
	ErrAccountNotFound   = errors.New("account not found")
	ErrAccountExists     = errors.New("account already exists")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAccountID  = errors.New("invalid account id")

	// Ledger errors
	ErrDuplicateTransaction = errors.New("transaction already applied")
	ErrRetryBudgetExhausted = errors.New("retry budget exhausted")

	// Producer errors
	ErrPublishFailed = errors.New("failed to publish transaction")
)

// Kind classifies a processing outcome. Each kind maps to exactly one queue disposition.
type Kind int

const (
	// KindProcessing is an infrastructure or logic fault. Unclassified errors have this kind.
	KindProcessing Kind = iota
	// KindFormat is a malformed inbound payload.
	KindFormat
	// KindRejected is a permanent business-rule failure.
	KindRejected
	// KindRetryable is a transient condition.
	KindRetryable
)

func (k Kind) String() string {
	switch k {
	case KindFormat:
		return "format"
	case KindRejected:
		return "rejected"
	case KindRetryable:
		return "retryable"
	default:
		return "processing"
	}
}

// Error is a classified processing error.
type Error struct {
	Kind          Kind
	TransactionID string
	Err           error
}

func (e *Error) Error() string {
	if e.TransactionID != "" {
		return fmt.Sprintf("transaction %s: %v", e.TransactionID, e.Err)
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewFormatError wraps err as a format error.
func NewFormatError(err error) *Error {
	return &Error{Kind: KindFormat, Err: err}
}

// Reject wraps err as a business-rule rejection.
func Reject(transactionID string, err error) *Error {
	return &Error{Kind: KindRejected, TransactionID: transactionID, Err: err}
}

// Retry wraps err as a transient failure.
func Retry(transactionID string, err error) *Error {
	return &Error{Kind: KindRetryable, TransactionID: transactionID, Err: err}
}

// Fail wraps err as a processing failure.
func Fail(transactionID string, err error) *Error {
	return &Error{Kind: KindProcessing, TransactionID: transactionID, Err: err}
}

// KindOf returns the kind of the first classified error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindProcessing
}

// IsFormatError reports whether err is a format error.
func IsFormatError(err error) bool {
	return err != nil && KindOf(err) == KindFormat
}
