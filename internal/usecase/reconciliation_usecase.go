package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/txledger/internal/domain"
)

// ReconciliationUseCase verifies the balance equation of every account
// against its completed history.
type ReconciliationUseCase struct {
	ledgerRepo LedgerRepository
	logger     zerolog.Logger
	metrics    Metrics
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(ledgerRepo LedgerRepository, logger zerolog.Logger, metrics Metrics) *ReconciliationUseCase {
	if metrics == nil {
		metrics = NopMetrics{}
	}

	return &ReconciliationUseCase{
		ledgerRepo: ledgerRepo,
		logger:     logger,
		metrics:    metrics,
	}
}

// ReconcileAccount checks a single account.
func (uc *ReconciliationUseCase) ReconcileAccount(ctx context.Context, accountID string) (*domain.ReconciliationResult, error) {
	totals, err := uc.ledgerRepo.AccountTotalsByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	result := totals.Reconcile()
	return &result, nil
}

// CheckLedgerConsistency checks all accounts and reports the discrepancies.
func (uc *ReconciliationUseCase) CheckLedgerConsistency(ctx context.Context) (*domain.ReconciliationReport, error) {
	totals, err := uc.ledgerRepo.AccountTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("load account totals: %w", err)
	}

	report := &domain.ReconciliationReport{
		TotalAccounts: len(totals),
		Discrepancies: make([]domain.ReconciliationResult, 0),
		CheckedAt:     time.Now().UTC(),
	}

	for _, t := range totals {
		result := t.Reconcile()
		if !result.IsReconciled {
			report.Discrepancies = append(report.Discrepancies, result)
		}
	}

	uc.metrics.SetDiscrepancies(len(report.Discrepancies))

	return report, nil
}

// Run performs a check and logs the result. It is meant for scheduled use.
func (uc *ReconciliationUseCase) Run(ctx context.Context) {
	report, err := uc.CheckLedgerConsistency(ctx)
	if err != nil {
		uc.logger.Error().Err(err).Msg("reconciliation failed")
		return
	}

	if report.Consistent() {
		uc.logger.Info().Int("accounts", report.TotalAccounts).Msg("ledger consistent")
		return
	}

	for _, d := range report.Discrepancies {
		uc.logger.Error().
			Str("account_id", d.AccountID).
			Str("recorded_balance", d.RecordedBalance.String()).
			Str("computed_balance", d.ComputedBalance.String()).
			Str("difference", d.Difference.String()).
			Msg("balance discrepancy")
	}
}
