package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/txledger/internal/domain"
)

// Processing states, logged at debug level as a message advances.
const (
	stateReceived     = "received"
	stateDedupChecked = "dedup_checked"
	stateAuthorized   = "authorized"
	stateApplied      = "applied"
)

// Processor applies one transaction to the ledger.
type Processor struct {
	txManager       TransactionManager
	accountRepo     AccountRepository
	transactionRepo TransactionRepository
	delayer         Delayer
	workerID        string
	logger          zerolog.Logger
	now             func() time.Time
}

// NewProcessor creates a new Processor.
func NewProcessor(
	txManager TransactionManager,
	accountRepo AccountRepository,
	transactionRepo TransactionRepository,
	delayer Delayer,
	workerID string,
	logger zerolog.Logger,
) *Processor {
	return &Processor{
		txManager:       txManager,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		delayer:         delayer,
		workerID:        workerID,
		logger:          logger,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// Process runs dedup, authorization and apply for tr. It never panics on
// domain errors; every failure is folded into the returned Outcome.
func (p *Processor) Process(ctx context.Context, tr *domain.Transaction) Outcome {
	log := p.logger.With().
		Str("transaction_id", tr.ID()).
		Str("account_id", tr.AccountID()).
		Str("worker_id", p.workerID).
		Logger()

	log.Debug().Str("state", stateReceived).Msg("processing transaction")

	if p.delayer != nil {
		if err := p.delayer.Delay(ctx); err != nil {
			return OutcomeFromError(tr.ID(), domain.Retry(tr.ID(), fmt.Errorf("processing delay: %w", err)))
		}
	}

	balance, duplicate, err := p.execute(ctx, tr, log)
	if err != nil {
		return OutcomeFromError(tr.ID(), err)
	}

	return Outcome{
		Status:        StatusSuccess,
		TransactionID: tr.ID(),
		Duplicate:     duplicate,
		Balance:       balance,
	}
}

func (p *Processor) execute(ctx context.Context, tr *domain.Transaction, log zerolog.Logger) (decimal.Decimal, bool, error) {
	tx, err := p.txManager.Begin(ctx)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("begin ledger transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	duplicate, err := p.dedupCheck(ctx, tx, tr)
	if err != nil {
		return decimal.Zero, false, err
	}
	log.Debug().Str("state", stateDedupChecked).Bool("duplicate", duplicate).Msg("dedup check done")

	if duplicate {
		return decimal.Zero, true, nil
	}

	balance, err := p.authorizeWallet(ctx, tx, tr)
	if err != nil {
		return decimal.Zero, false, err
	}
	log.Debug().Str("state", stateAuthorized).Str("new_balance", balance.String()).Msg("wallet authorized")

	if err := p.apply(ctx, tx, tr, balance); err != nil {
		if errors.Is(err, domain.ErrDuplicateTransaction) {
			log.Info().Msg("transaction applied concurrently by another worker")
			return decimal.Zero, true, nil
		}
		return decimal.Zero, false, err
	}
	log.Debug().Str("state", stateApplied).Msg("transaction applied")

	return balance, false, nil
}

func (p *Processor) dedupCheck(ctx context.Context, tx Transaction, tr *domain.Transaction) (bool, error) {
	exists, err := p.transactionRepo.Exists(ctx, tx, tr.ID())
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return exists, nil
}

func (p *Processor) authorizeWallet(ctx context.Context, tx Transaction, tr *domain.Transaction) (decimal.Decimal, error) {
	account, err := p.accountRepo.GetByIDForUpdate(ctx, tx, tr.AccountID())
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			// Unknown accounts are a fraud signal, not a business rejection.
			return decimal.Zero, domain.Fail(tr.ID(), fmt.Errorf("%w: %s", domain.ErrAccountNotFound, tr.AccountID()))
		}
		return decimal.Zero, fmt.Errorf("load account: %w", err)
	}

	balance, err := account.Authorize(tr)
	switch {
	case err == nil:
		return balance, nil
	case errors.Is(err, domain.ErrInsufficientFunds):
		return decimal.Zero, domain.Reject(tr.ID(), err)
	default:
		return decimal.Zero, domain.Fail(tr.ID(), err)
	}
}

func (p *Processor) apply(ctx context.Context, tx Transaction, tr *domain.Transaction, balance decimal.Decimal) error {
	now := p.now()

	if err := p.accountRepo.UpdateBalance(ctx, tx, tr.AccountID(), balance, now); err != nil {
		return fmt.Errorf("update balance: %w", err)
	}

	if err := p.transactionRepo.Create(ctx, tx, domain.NewHistoryEntry(tr, p.workerID, now)); err != nil {
		return fmt.Errorf("insert history: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}
