package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/txledger/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

// TransactionRepository defines data access for the applied transaction history.
type TransactionRepository interface {
	Exists(ctx context.Context, tx Transaction, id string) (bool, error)
	// Create returns domain.ErrDuplicateTransaction if the id was already applied.
	Create(ctx context.Context, tx Transaction, entry *domain.HistoryEntry) error
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.HistoryEntry, error)
}

// LedgerRepository defines data access for ledger-wide operations.
type LedgerRepository interface {
	AccountTotals(ctx context.Context) ([]domain.AccountTotals, error)
	AccountTotalsByID(ctx context.Context, accountID string) (*domain.AccountTotals, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a claim so the key can be used again.
	Release(ctx context.Context, key string) error
}

// AttemptTracker counts delivery attempts per key.
type AttemptTracker interface {
	Increment(ctx context.Context, key string) (int64, error)
	Reset(ctx context.Context, key string) error
}

// TransactionPublisher puts transactions on the transaction queue.
type TransactionPublisher interface {
	PublishTransaction(ctx context.Context, tr *domain.Transaction) error
}

// DeadLetterPublisher publishes error records to the dead-letter destination.
type DeadLetterPublisher interface {
	PublishDeadLetter(ctx context.Context, record *domain.ErrorRecord) error
}

// Delayer blocks for the simulated downstream latency of one message.
type Delayer interface {
	Delay(ctx context.Context) error
}

// Delivery is one message received from the transaction queue.
type Delivery interface {
	Body() []byte
	Ack() error
	Nack(requeue bool) error
}

// Metrics records worker observations.
type Metrics interface {
	ObserveMessage(outcome string, duration time.Duration)
	IncRetry()
	IncDeadLetter(result string)
	SetDiscrepancies(n int)
}
