package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"

	"github.com/iho/txledger/internal/domain"
)

var totalsColumns = []string{"account_id", "initial_balance", "balance", "deposits", "debits"}

func TestLedgerRepository_AccountTotals(t *testing.T) {
	pool := newMockPool(t)
	repo := NewLedgerRepository(pool, testRetrier())

	pool.ExpectQuery("GROUP BY a.account_id").
		WillReturnError(&pgconn.PgError{Code: pgErrDeadlock})
	pool.ExpectQuery("GROUP BY a.account_id").
		WillReturnRows(pgxmock.NewRows(totalsColumns).
			AddRow("101", "100.00", "120.00", "50.00", "30.00").
			AddRow("102", "0.00", "5.00", "0", "0"))

	totals, err := repo.AccountTotals(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(totals) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(totals))
	}
	if !totals[0].Reconcile().IsReconciled {
		t.Errorf("expected 101 to reconcile")
	}
	if totals[1].Reconcile().IsReconciled {
		t.Errorf("expected 102 to show a discrepancy")
	}
	if !totals[1].Reconcile().Difference.Equal(decimal.NewFromInt(5)) {
		t.Errorf("unexpected difference %s", totals[1].Reconcile().Difference)
	}

	assertExpectations(t, pool)
}

func TestLedgerRepository_AccountTotalsByID(t *testing.T) {
	pool := newMockPool(t)
	repo := NewLedgerRepository(pool, nil)

	pool.ExpectQuery("WHERE a.account_id").
		WithArgs("999").
		WillReturnError(pgx.ErrNoRows)

	if _, err := repo.AccountTotalsByID(context.Background(), "999"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}

	assertExpectations(t, pool)
}
