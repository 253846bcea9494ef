package postgres

import (
	"context"
	"fmt"

	"github.com/iho/txledger/internal/domain"
	"github.com/iho/txledger/internal/infrastructure/postgres/generated"
	"github.com/iho/txledger/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	queries *generated.Queries
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(db generated.DBTX) *TransactionRepository {
	return &TransactionRepository{
		queries: generated.New(db),
	}
}

// Exists reports whether id is already in the history.
func (r *TransactionRepository) Exists(ctx context.Context, tx usecase.Transaction, id string) (bool, error) {
	pgxTx, err := pgxTxFrom(tx)
	if err != nil {
		return false, err
	}

	exists, err := generated.New(pgxTx).TransactionExists(ctx, id)
	if err != nil {
		return false, classify(id, err)
	}

	return exists, nil
}

// Create inserts a history row. The primary key rejects a second insert of the same id.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.HistoryEntry) error {
	pgxTx, err := pgxTxFrom(tx)
	if err != nil {
		return err
	}

	err = generated.New(pgxTx).CreateTransaction(ctx, generated.CreateTransactionParams{
		TransactionID:   entry.TransactionID,
		AccountID:       entry.AccountID,
		TransactionType: string(entry.Type),
		Amount:          decimalToNumeric(entry.Amount),
		Timestamp:       timeToPgTimestamptz(entry.Timestamp),
		Status:          entry.Status,
		Details:         entry.Details,
		WorkerID:        entry.WorkerID,
		ProcessedAt:     timeToPgTimestamptz(entry.ProcessedAt),
	})
	if err != nil {
		if isUniqueViolation(err) {
			return errDuplicate(err)
		}
		return classify(entry.TransactionID, err)
	}

	return nil
}

// ListByAccount returns the history of an account, newest first.
func (r *TransactionRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.HistoryEntry, error) {
	rows, err := r.queries.ListTransactionsByAccount(ctx, generated.ListTransactionsByAccountParams{
		AccountID: accountID,
		Limit:     int32(limit),
		Offset:    int32(offset),
	})
	if err != nil {
		return nil, err
	}

	entries := make([]*domain.HistoryEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, &domain.HistoryEntry{
			TransactionID: row.TransactionID,
			AccountID:     row.AccountID,
			Type:          domain.TransactionType(row.TransactionType),
			Amount:        numericToDecimal(row.Amount),
			Details:       row.Details,
			Timestamp:     row.Timestamp.Time,
			Status:        row.Status,
			WorkerID:      row.WorkerID,
			ProcessedAt:   row.ProcessedAt.Time,
		})
	}

	return entries, nil
}

func errDuplicate(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrDuplicateTransaction, err)
}
