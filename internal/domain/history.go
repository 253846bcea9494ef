package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// HistoryEntry is a persisted, applied transaction. Its presence marks the
// transaction id as applied.
type HistoryEntry struct {
	TransactionID string
	AccountID     string
	Type          TransactionType
	Amount        decimal.Decimal
	Details       string
	Timestamp     time.Time
	Status        string
	WorkerID      string
	ProcessedAt   time.Time
}

// NewHistoryEntry records tr as completed by workerID.
func NewHistoryEntry(tr *Transaction, workerID string, processedAt time.Time) *HistoryEntry {
	return &HistoryEntry{
		TransactionID: tr.ID(),
		AccountID:     tr.AccountID(),
		Type:          tr.Type(),
		Amount:        tr.Amount(),
		Details:       tr.Details(),
		Timestamp:     tr.Timestamp(),
		Status:        TransactionStatusCompleted,
		WorkerID:      workerID,
		ProcessedAt:   processedAt,
	}
}
