package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountTotals are the completed history sums of one account.
type AccountTotals struct {
	AccountID      string
	InitialBalance decimal.Decimal
	Balance        decimal.Decimal
	Deposits       decimal.Decimal
	Debits         decimal.Decimal
}

// ReconciliationResult holds the balance equation check for one account.
type ReconciliationResult struct {
	AccountID       string
	InitialBalance  decimal.Decimal
	RecordedBalance decimal.Decimal
	ComputedBalance decimal.Decimal
	Difference      decimal.Decimal
	IsReconciled    bool
}

// Reconcile checks balance = initial + deposits - (withdrawals + payments).
func (t AccountTotals) Reconcile() ReconciliationResult {
	computed := t.InitialBalance.Add(t.Deposits).Sub(t.Debits)
	diff := t.Balance.Sub(computed)

	return ReconciliationResult{
		AccountID:       t.AccountID,
		InitialBalance:  t.InitialBalance,
		RecordedBalance: t.Balance,
		ComputedBalance: computed,
		Difference:      diff,
		IsReconciled:    diff.IsZero(),
	}
}

// ReconciliationReport summarizes a ledger-wide check.
type ReconciliationReport struct {
	TotalAccounts int
	Discrepancies []ReconciliationResult
	CheckedAt     time.Time
}

// Consistent reports whether every account reconciled.
func (r *ReconciliationReport) Consistent() bool {
	return len(r.Discrepancies) == 0
}
