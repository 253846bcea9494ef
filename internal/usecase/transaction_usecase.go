package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/txledger/internal/domain"
)

// TransactionUseCase is the producer side: it validates requests and puts
// them on the transaction queue. It never waits for the processing outcome.
type TransactionUseCase struct {
	publisher       TransactionPublisher
	transactionRepo TransactionRepository
	accountRepo     AccountRepository
	idGen           IDGenerator
	now             func() time.Time
}

// NewTransactionUseCase creates a new TransactionUseCase.
func NewTransactionUseCase(
	publisher TransactionPublisher,
	transactionRepo TransactionRepository,
	accountRepo AccountRepository,
	idGen IDGenerator,
) *TransactionUseCase {
	return &TransactionUseCase{
		publisher:       publisher,
		transactionRepo: transactionRepo,
		accountRepo:     accountRepo,
		idGen:           idGen,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// SubmitTransactionInput represents a transaction request.
type SubmitTransactionInput struct {
	AccountID string
	Type      domain.TransactionType
	Amount    decimal.Decimal
	Details   string
}

// Submit builds a transaction with a fresh id and timestamp and publishes it.
func (uc *TransactionUseCase) Submit(ctx context.Context, input SubmitTransactionInput) (*domain.Transaction, error) {
	tr, err := domain.NewTransaction(uc.idGen.Generate(), input.AccountID, input.Type, input.Amount, input.Details, uc.now())
	if err != nil {
		return nil, err
	}

	if err := uc.publisher.PublishTransaction(ctx, tr); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPublishFailed, err)
	}

	return tr, nil
}

// ListByAccount returns the applied history of an account, newest first.
func (uc *TransactionUseCase) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.HistoryEntry, error) {
	if _, err := uc.accountRepo.GetByID(ctx, accountID); err != nil {
		return nil, err
	}

	limit, offset = domain.NormalizePagination(limit, offset)
	return uc.transactionRepo.ListByAccount(ctx, accountID, limit, offset)
}
