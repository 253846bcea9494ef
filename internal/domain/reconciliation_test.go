package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestAccountTotals_Reconcile(t *testing.T) {
	d := decimal.RequireFromString

	ok := AccountTotals{
		AccountID:      "101",
		InitialBalance: d("100.00"),
		Balance:        d("120.00"),
		Deposits:       d("50.00"),
		Debits:         d("30.00"),
	}.Reconcile()

	if !ok.IsReconciled || !ok.ComputedBalance.Equal(d("120")) {
		t.Errorf("expected reconciled account, got %+v", ok)
	}

	tampered := AccountTotals{
		AccountID:      "102",
		InitialBalance: d("100.00"),
		Balance:        d("999.00"),
	}.Reconcile()

	if tampered.IsReconciled {
		t.Error("expected discrepancy")
	}
	if !tampered.Difference.Equal(d("899")) {
		t.Errorf("expected difference 899, got %s", tampered.Difference)
	}

	report := &ReconciliationReport{Discrepancies: []ReconciliationResult{tampered}}
	if report.Consistent() {
		t.Error("report with discrepancies is not consistent")
	}
}
