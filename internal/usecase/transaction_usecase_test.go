package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/txledger/internal/domain"
	"github.com/iho/txledger/internal/usecase"
	"github.com/iho/txledger/internal/usecase/mocks"
)

func TestTransactionUseCase_Submit(t *testing.T) {
	ctrl := gomock.NewController(t)
	publisher := mocks.NewMockTransactionPublisher(ctrl)
	idGen := mocks.NewMockIDGenerator(ctrl)
	ledger := mocks.NewInMemoryLedger()

	idGen.EXPECT().Generate().Return("01HZXTEST")
	publisher.EXPECT().PublishTransaction(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, tr *domain.Transaction) error {
		assert.Equal(t, "01HZXTEST", tr.ID())
		assert.Equal(t, "12.50", tr.AmountString())
		return nil
	})

	uc := usecase.NewTransactionUseCase(publisher, ledger.Transactions(), ledger.Accounts(), idGen)

	tr, err := uc.Submit(context.Background(), usecase.SubmitTransactionInput{
		AccountID: "101",
		Type:      domain.TransactionTypeDeposit,
		Amount:    dec("12.50"),
		Details:   "api",
	})

	require.NoError(t, err)
	assert.Equal(t, "101", tr.AccountID())
	assert.False(t, tr.Timestamp().IsZero())
}

func TestTransactionUseCase_SubmitPublishFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	publisher := mocks.NewMockTransactionPublisher(ctrl)
	ledger := mocks.NewInMemoryLedger()

	publisher.EXPECT().PublishTransaction(gomock.Any(), gomock.Any()).Return(errors.New("broker unreachable"))

	uc := usecase.NewTransactionUseCase(publisher, ledger.Transactions(), ledger.Accounts(), &mocks.SequenceIDGenerator{Prefix: "tx"})

	_, err := uc.Submit(context.Background(), usecase.SubmitTransactionInput{
		AccountID: "101",
		Type:      domain.TransactionTypePayment,
		Amount:    dec("1"),
	})

	assert.ErrorIs(t, err, domain.ErrPublishFailed)
}

func TestTransactionUseCase_SubmitInvalid(t *testing.T) {
	ctrl := gomock.NewController(t)
	publisher := mocks.NewMockTransactionPublisher(ctrl)
	ledger := mocks.NewInMemoryLedger()

	uc := usecase.NewTransactionUseCase(publisher, ledger.Transactions(), ledger.Accounts(), &mocks.SequenceIDGenerator{Prefix: "tx"})

	_, err := uc.Submit(context.Background(), usecase.SubmitTransactionInput{
		AccountID: "101",
		Type:      "refund",
		Amount:    dec("1"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransactionType)

	_, err = uc.Submit(context.Background(), usecase.SubmitTransactionInput{
		AccountID: "101",
		Type:      domain.TransactionTypeDeposit,
		Amount:    dec("-3"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestTransactionUseCase_ListByAccount(t *testing.T) {
	ledger := mocks.NewInMemoryLedger()
	ledger.AddAccount("101", dec("100"))
	p := newProcessor(ledger, nil)

	for _, id := range []string{"a", "b", "c"} {
		out := p.Process(context.Background(), newTx(t, id, "101", domain.TransactionTypeDeposit, "1"))
		require.Equal(t, usecase.StatusSuccess, out.Status)
	}

	uc := usecase.NewTransactionUseCase(nil, ledger.Transactions(), ledger.Accounts(), nil)

	entries, err := uc.ListByAccount(context.Background(), "101", 2, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "c", entries[0].TransactionID)
	assert.Equal(t, domain.TransactionStatusCompleted, entries[0].Status)
	assert.Equal(t, "worker-test", entries[0].WorkerID)

	_, err = uc.ListByAccount(context.Background(), "999", 10, 0)
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}
