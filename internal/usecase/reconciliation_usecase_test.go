package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/txledger/internal/domain"
	"github.com/iho/txledger/internal/usecase"
	"github.com/iho/txledger/internal/usecase/mocks"
)

func TestReconciliation_ConsistentLedger(t *testing.T) {
	ledger := mocks.NewInMemoryLedger()
	ledger.AddAccount("101", dec("100"))
	ledger.AddAccount("102", dec("0"))
	p := newProcessor(ledger, nil)

	p.Process(context.Background(), newTx(t, "1", "101", domain.TransactionTypeWithdrawal, "40"))
	p.Process(context.Background(), newTx(t, "2", "102", domain.TransactionTypeDeposit, "40"))

	uc := usecase.NewReconciliationUseCase(ledger.Totals(), zerolog.Nop(), nil)

	report, err := uc.CheckLedgerConsistency(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.TotalAccounts)
	assert.True(t, report.Consistent())

	result, err := uc.ReconcileAccount(context.Background(), "101")
	require.NoError(t, err)
	assert.True(t, result.ComputedBalance.Equal(dec("60")))
}

func TestReconciliation_FlagsTamperedBalance(t *testing.T) {
	ctrl := gomock.NewController(t)
	metrics := mocks.NewMockMetrics(ctrl)
	metrics.EXPECT().SetDiscrepancies(1).Times(2)

	ledger := mocks.NewInMemoryLedger()
	ledger.AddAccount("101", dec("100"))
	ledger.AddAccount("102", dec("5"))
	ledger.SetBalance("101", dec("1000"))

	uc := usecase.NewReconciliationUseCase(ledger.Totals(), zerolog.Nop(), metrics)

	report, err := uc.CheckLedgerConsistency(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Discrepancies, 1)
	assert.Equal(t, "101", report.Discrepancies[0].AccountID)
	assert.True(t, report.Discrepancies[0].Difference.Equal(dec("900")))

	uc.Run(context.Background())
}

func TestReconciliation_RepositoryError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockLedgerRepository(ctrl)
	repo.EXPECT().AccountTotals(gomock.Any()).Return(nil, errors.New("db down"))

	uc := usecase.NewReconciliationUseCase(repo, zerolog.Nop(), nil)

	_, err := uc.CheckLedgerConsistency(context.Background())
	assert.Error(t, err)
}
