package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/iho/txledger/internal/domain"
	"github.com/iho/txledger/internal/infrastructure/postgres/generated"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	queries *generated.Queries
	retrier *Retrier
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(db generated.DBTX, retrier *Retrier) *LedgerRepository {
	return &LedgerRepository{
		queries: generated.New(db),
		retrier: retrier,
	}
}

// AccountTotals returns the completed history sums of every account.
func (r *LedgerRepository) AccountTotals(ctx context.Context) ([]domain.AccountTotals, error) {
	var rows []generated.ListAccountTotalsRow

	err := r.retry(ctx, func() error {
		var err error
		rows, err = r.queries.ListAccountTotals(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	totals := make([]domain.AccountTotals, 0, len(rows))
	for _, row := range rows {
		totals = append(totals, domain.AccountTotals{
			AccountID:      row.AccountID,
			InitialBalance: numericToDecimal(row.InitialBalance),
			Balance:        numericToDecimal(row.Balance),
			Deposits:       numericToDecimal(row.Deposits),
			Debits:         numericToDecimal(row.Debits),
		})
	}

	return totals, nil
}

// AccountTotalsByID returns the completed history sums of one account.
func (r *LedgerRepository) AccountTotalsByID(ctx context.Context, accountID string) (*domain.AccountTotals, error) {
	var row generated.GetAccountTotalsRow

	err := r.retry(ctx, func() error {
		var err error
		row, err = r.queries.GetAccountTotals(ctx, accountID)
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}

	return &domain.AccountTotals{
		AccountID:      row.AccountID,
		InitialBalance: numericToDecimal(row.InitialBalance),
		Balance:        numericToDecimal(row.Balance),
		Deposits:       numericToDecimal(row.Deposits),
		Debits:         numericToDecimal(row.Debits),
	}, nil
}

func (r *LedgerRepository) retry(ctx context.Context, op func() error) error {
	if r.retrier == nil {
		return op()
	}
	return r.retrier.Retry(ctx, op)
}
