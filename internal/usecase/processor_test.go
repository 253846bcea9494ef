package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/txledger/internal/domain"
	"github.com/iho/txledger/internal/usecase"
	"github.com/iho/txledger/internal/usecase/mocks"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newTx(t *testing.T, id, account string, txType domain.TransactionType, amount string) *domain.Transaction {
	t.Helper()

	tr, err := domain.NewTransaction(id, account, txType, dec(amount), "test", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("build transaction: %v", err)
	}
	return tr
}

func newProcessor(ledger *mocks.InMemoryLedger, delayer usecase.Delayer) *usecase.Processor {
	return usecase.NewProcessor(ledger, ledger.Accounts(), ledger.Transactions(), delayer, "worker-test", zerolog.Nop())
}

func TestProcessor_Deposit(t *testing.T) {
	ledger := mocks.NewInMemoryLedger()
	ledger.AddAccount("101", dec("100.00"))

	out := newProcessor(ledger, nil).Process(context.Background(), newTx(t, "tx-1", "101", domain.TransactionTypeDeposit, "50.00"))

	if out.Status != usecase.StatusSuccess || out.Duplicate {
		t.Fatalf("expected fresh success, got %+v", out)
	}
	if !ledger.Balance("101").Equal(dec("150.00")) {
		t.Errorf("expected balance 150.00, got %s", ledger.Balance("101"))
	}
	if !out.Balance.Equal(dec("150")) {
		t.Errorf("expected outcome balance 150, got %s", out.Balance)
	}
	if ledger.HistoryCount() != 1 {
		t.Errorf("expected one history row, got %d", ledger.HistoryCount())
	}
}

func TestProcessor_InsufficientFundsIsRejected(t *testing.T) {
	ledger := mocks.NewInMemoryLedger()
	ledger.AddAccount("101", dec("10.00"))

	out := newProcessor(ledger, nil).Process(context.Background(), newTx(t, "tx-1", "101", domain.TransactionTypeWithdrawal, "50.00"))

	if out.Status != usecase.StatusRejected {
		t.Fatalf("expected rejected, got %s (%v)", out.Status, out.Err)
	}
	if !errors.Is(out.Err, domain.ErrInsufficientFunds) {
		t.Errorf("expected ErrInsufficientFunds, got %v", out.Err)
	}
	if !ledger.Balance("101").Equal(dec("10.00")) {
		t.Errorf("balance must be unchanged, got %s", ledger.Balance("101"))
	}
	if ledger.HistoryCount() != 0 {
		t.Error("rejected transaction must not be recorded")
	}
}

func TestProcessor_UnknownAccountFails(t *testing.T) {
	ledger := mocks.NewInMemoryLedger()

	for _, txType := range domain.TransactionTypes() {
		out := newProcessor(ledger, nil).Process(context.Background(), newTx(t, "tx-"+string(txType), "999", txType, "5"))

		if out.Status != usecase.StatusFailed {
			t.Fatalf("%s: expected failed, got %s", txType, out.Status)
		}
		if !errors.Is(out.Err, domain.ErrAccountNotFound) {
			t.Errorf("%s: expected ErrAccountNotFound, got %v", txType, out.Err)
		}
	}
}

func TestProcessor_Idempotent(t *testing.T) {
	ledger := mocks.NewInMemoryLedger()
	ledger.AddAccount("101", dec("100.00"))
	p := newProcessor(ledger, nil)
	tr := newTx(t, "tx-dup", "101", domain.TransactionTypePayment, "30.00")

	first := p.Process(context.Background(), tr)
	second := p.Process(context.Background(), tr)

	if first.Status != usecase.StatusSuccess || first.Duplicate {
		t.Fatalf("expected first apply to succeed, got %+v", first)
	}
	if second.Status != usecase.StatusSuccess || !second.Duplicate {
		t.Fatalf("expected duplicate success on replay, got %+v", second)
	}
	if !ledger.Balance("101").Equal(dec("70.00")) {
		t.Errorf("expected balance 70.00, got %s", ledger.Balance("101"))
	}
	if ledger.HistoryCount() != 1 {
		t.Errorf("expected exactly one history row, got %d", ledger.HistoryCount())
	}
}

func TestProcessor_ConcurrentDuplicateInsert(t *testing.T) {
	ledger := mocks.NewInMemoryLedger()
	ledger.AddAccount("101", dec("100.00"))

	tr := newTx(t, "tx-race", "101", domain.TransactionTypeDeposit, "25.00")

	// Another worker commits the same id after our dedup check passed.
	var once sync.Once
	ledger.BeforeInsert = func(entry *domain.HistoryEntry) {
		once.Do(func() {
			ledger.InsertCommitted(entry)
			ledger.SetBalance("101", dec("125.00"))
		})
	}

	out := newProcessor(ledger, nil).Process(context.Background(), tr)

	if out.Status != usecase.StatusSuccess || !out.Duplicate {
		t.Fatalf("expected duplicate success, got %+v", out)
	}
	if !ledger.Balance("101").Equal(dec("125.00")) {
		t.Errorf("expected the winner's balance only, got %s", ledger.Balance("101"))
	}
	if ledger.HistoryCount() != 1 {
		t.Errorf("expected one history row, got %d", ledger.HistoryCount())
	}
}

func TestProcessor_Atomicity(t *testing.T) {
	ledger := mocks.NewInMemoryLedger()
	ledger.AddAccount("101", dec("100.00"))
	ledger.InsertErr = errors.New("disk full")

	out := newProcessor(ledger, nil).Process(context.Background(), newTx(t, "tx-1", "101", domain.TransactionTypeDeposit, "50.00"))

	if out.Status != usecase.StatusFailed {
		t.Fatalf("expected failed, got %s", out.Status)
	}
	if !ledger.Balance("101").Equal(dec("100.00")) {
		t.Errorf("balance update must be rolled back, got %s", ledger.Balance("101"))
	}
	if ledger.Rollbacks != 1 {
		t.Errorf("expected one rollback, got %d", ledger.Rollbacks)
	}
}

func TestProcessor_RetryableInfraError(t *testing.T) {
	ledger := mocks.NewInMemoryLedger()
	ledger.AddAccount("101", dec("100.00"))
	ledger.BeginErr = domain.Retry("", errors.New("connection refused"))

	out := newProcessor(ledger, nil).Process(context.Background(), newTx(t, "tx-1", "101", domain.TransactionTypeDeposit, "1"))

	if out.Status != usecase.StatusRetryable {
		t.Fatalf("expected retryable, got %s", out.Status)
	}
	if out.Disposition() != usecase.DispositionNackRequeue {
		t.Errorf("expected nack requeue, got %s", out.Disposition())
	}
}

func TestProcessor_DelayCancelledIsRetryable(t *testing.T) {
	ledger := mocks.NewInMemoryLedger()
	ledger.AddAccount("101", dec("100.00"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := newProcessor(ledger, usecase.NewRandomDelayer(time.Hour)).Process(ctx, newTx(t, "tx-1", "101", domain.TransactionTypeDeposit, "1"))

	if out.Status != usecase.StatusRetryable {
		t.Fatalf("expected retryable, got %s", out.Status)
	}
	if !ledger.Balance("101").Equal(dec("100.00")) {
		t.Error("cancelled message must not touch the ledger")
	}
}

func TestProcessor_BalanceInvariant(t *testing.T) {
	ledger := mocks.NewInMemoryLedger()
	ledger.AddAccount("101", dec("20.00"))
	p := newProcessor(ledger, nil)

	ops := []struct {
		txType domain.TransactionType
		amount string
	}{
		{domain.TransactionTypeDeposit, "5.25"},
		{domain.TransactionTypeWithdrawal, "30.00"}, // rejected
		{domain.TransactionTypePayment, "25.25"},
		{domain.TransactionTypePayment, "0.01"}, // rejected
		{domain.TransactionTypeDeposit, "0.10"},
	}

	for i, op := range ops {
		out := p.Process(context.Background(), newTx(t, string(rune('a'+i)), "101", op.txType, op.amount))
		if out.Status == usecase.StatusFailed {
			t.Fatalf("op %d failed: %v", i, out.Err)
		}
		if ledger.Balance("101").IsNegative() {
			t.Fatalf("balance went negative after op %d", i)
		}
	}

	if !ledger.Balance("101").Equal(dec("0.10")) {
		t.Errorf("expected 0.10, got %s", ledger.Balance("101"))
	}

	totals, err := ledger.Totals().AccountTotalsByID(context.Background(), "101")
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if !totals.Reconcile().IsReconciled {
		t.Errorf("balance equation violated: %+v", totals.Reconcile())
	}
}

func TestRandomDelayer(t *testing.T) {
	if err := usecase.NewRandomDelayer(0).Delay(context.Background()); err != nil {
		t.Errorf("disabled delayer should not fail, got %v", err)
	}

	start := time.Now()
	if err := usecase.NewRandomDelayer(5 * time.Millisecond).Delay(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if time.Since(start) > time.Second {
		t.Error("delay exceeded its bound")
	}
}
