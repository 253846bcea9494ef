package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the kind of monetary operation a transaction performs.
type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
	TransactionTypePayment    TransactionType = "payment"
)

// TransactionStatusCompleted is the only status written to the history table.
const TransactionStatusCompleted = "completed"

var validTransactionTypes = map[TransactionType]bool{
	TransactionTypeDeposit:    true,
	TransactionTypeWithdrawal: true,
	TransactionTypePayment:    true,
}

// IsValid reports whether t is a known transaction type.
func (t TransactionType) IsValid() bool {
	return validTransactionTypes[t]
}

// IsDebit reports whether t reduces the account balance.
func (t TransactionType) IsDebit() bool {
	return t == TransactionTypeWithdrawal || t == TransactionTypePayment
}

// TransactionTypes returns all known transaction types.
func TransactionTypes() []TransactionType {
	return []TransactionType{TransactionTypeDeposit, TransactionTypeWithdrawal, TransactionTypePayment}
}

var amountPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

// Zone-less layouts accepted in addition to RFC 3339. Interpreted as UTC.
var localTimestampLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// Transaction is an immutable, validated transaction request.
//
// A transaction parsed from the wire keeps its payload, so serialization
// reproduces the inbound bytes exactly. One built in code is serialized
// from the textual amount and timestamp it was built from.
type Transaction struct {
	id            string
	accountID     string
	txType        TransactionType
	amount        decimal.Decimal
	amountText    string
	details       string
	timestamp     time.Time
	timestampText string
	raw           []byte
}

// ID returns the transaction id, the idempotency key.
func (t *Transaction) ID() string { return t.id }

// AccountID returns the target account.
func (t *Transaction) AccountID() string { return t.accountID }

// Type returns the transaction type.
func (t *Transaction) Type() TransactionType { return t.txType }

// Amount returns the exact transaction amount.
func (t *Transaction) Amount() decimal.Decimal { return t.amount }

// Details returns the free-text annotation.
func (t *Transaction) Details() string { return t.details }

// Timestamp returns the time the transaction was created.
func (t *Transaction) Timestamp() time.Time { return t.timestamp }

// AmountString returns the amount as it appears on the wire.
func (t *Transaction) AmountString() string { return t.amountText }

// TimestampString returns the timestamp as it appears on the wire.
func (t *Transaction) TimestampString() string { return t.timestampText }

// wireTransaction is the queue payload. Pointers distinguish missing keys from empty values.
type wireTransaction struct {
	TransactionID   *string `json:"transaction_id"`
	AccountID       *string `json:"account_id"`
	TransactionType *string `json:"transaction_type"`
	Amount          *string `json:"amount"`
	Details         *string `json:"details"`
	Timestamp       *string `json:"timestamp"`
}

// NewTransaction builds a transaction in code, e.g. on the producer side.
func NewTransaction(id, accountID string, txType TransactionType, amount decimal.Decimal, details string, timestamp time.Time) (*Transaction, error) {
	amountText := amount.String()
	if exp := amount.Exponent(); exp < 0 {
		amountText = amount.StringFixed(-exp)
	}

	return build(id, accountID, string(txType), amountText, details, timestamp, timestamp.Format(time.RFC3339Nano))
}

// ParseTransaction decodes and validates a queue payload. Any failure is a
// format error and no transaction is returned.
func ParseTransaction(payload []byte) (*Transaction, error) {
	var w wireTransaction
	if err := json.Unmarshal(payload, &w); err != nil {
		return nil, NewFormatError(fmt.Errorf("%w: %v", ErrMalformedPayload, err))
	}

	missing := make([]string, 0)
	check := func(name string, v *string) string {
		if v == nil {
			missing = append(missing, name)
			return ""
		}
		return *v
	}

	id := check("transaction_id", w.TransactionID)
	accountID := check("account_id", w.AccountID)
	txType := check("transaction_type", w.TransactionType)
	amount := check("amount", w.Amount)
	details := check("details", w.Details)
	timestamp := check("timestamp", w.Timestamp)

	if len(missing) > 0 {
		return nil, NewFormatError(fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", ")))
	}

	ts, err := parseTimestamp(timestamp)
	if err != nil {
		return nil, NewFormatError(err)
	}

	tr, err := build(id, accountID, txType, amount, details, ts, timestamp)
	if err != nil {
		return nil, err
	}
	tr.raw = bytes.Clone(payload)

	return tr, nil
}

func build(id, accountID, txType, amountText, details string, ts time.Time, tsText string) (*Transaction, error) {
	if strings.TrimSpace(id) == "" {
		return nil, NewFormatError(fmt.Errorf("%w: transaction_id is empty", ErrMissingField))
	}
	if strings.TrimSpace(accountID) == "" {
		return nil, NewFormatError(fmt.Errorf("%w: account_id is empty", ErrMissingField))
	}

	t := TransactionType(txType)
	if !t.IsValid() {
		return nil, NewFormatError(fmt.Errorf("%w: %q", ErrInvalidTransactionType, txType))
	}

	if !amountPattern.MatchString(amountText) {
		return nil, NewFormatError(fmt.Errorf("%w: %q is not a plain decimal", ErrInvalidAmount, amountText))
	}
	amount, err := decimal.NewFromString(amountText)
	if err != nil {
		return nil, NewFormatError(fmt.Errorf("%w: %v", ErrInvalidAmount, err))
	}
	if err := ValidateAmount(amount); err != nil {
		return nil, NewFormatError(err)
	}

	return &Transaction{
		id:            id,
		accountID:     accountID,
		txType:        t,
		amount:        amount,
		amountText:    amountText,
		details:       details,
		timestamp:     ts,
		timestampText: tsText,
	}, nil
}

func parseTimestamp(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return ts, nil
	}

	for _, layout := range localTimestampLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return ts, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q is not ISO-8601", ErrInvalidTimestamp, s)
}

// Marshal serializes the transaction to its wire form.
func (t *Transaction) Marshal() ([]byte, error) {
	return t.MarshalJSON()
}

// MarshalJSON returns the inbound payload when there is one, otherwise the
// wire fields in wire order using the original texts.
func (t *Transaction) MarshalJSON() ([]byte, error) {
	if t.raw != nil {
		return bytes.Clone(t.raw), nil
	}

	w := wireTransaction{
		TransactionID:   &t.id,
		AccountID:       &t.accountID,
		TransactionType: (*string)(&t.txType),
		Amount:          &t.amountText,
		Details:         &t.details,
		Timestamp:       &t.timestampText,
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(w); err != nil {
		return nil, err
	}

	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// SignedAmount returns the balance delta the transaction applies.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.txType.IsDebit() {
		return t.amount.Neg()
	}
	return t.amount
}
