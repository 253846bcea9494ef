package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/txledger/internal/domain"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	AccountID        string          `json:"account_id"`
	Balance          decimal.Decimal `json:"balance"`
	InitialBalance   decimal.Decimal `json:"initial_balance"`
	TransactionCount int64           `json:"transaction_count"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		AccountID:        a.ID,
		Balance:          a.Balance,
		InitialBalance:   a.InitialBalance,
		TransactionCount: a.TransactionCount,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// ListAccountsResponse represents a page of accounts.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int64              `json:"total"`
}

// BalanceResponse represents the current balance of an account.
type BalanceResponse struct {
	AccountID string          `json:"account_id"`
	Balance   decimal.Decimal `json:"balance"`
}

// SubmitTransactionResponse is returned once a transaction is queued.
type SubmitTransactionResponse struct {
	TransactionID string `json:"transaction_id"`
	Message       string `json:"message"`
}

// TransactionResponse represents an applied transaction.
type TransactionResponse struct {
	TransactionID   string          `json:"transaction_id"`
	AccountID       string          `json:"account_id"`
	TransactionType string          `json:"transaction_type"`
	Amount          decimal.Decimal `json:"amount"`
	Details         string          `json:"details"`
	Timestamp       time.Time       `json:"timestamp"`
	Status          string          `json:"status"`
	WorkerID        string          `json:"worker_id"`
	ProcessedAt     time.Time       `json:"processed_at"`
}

// TransactionFromDomain converts a history entry to response.
func TransactionFromDomain(e *domain.HistoryEntry) *TransactionResponse {
	return &TransactionResponse{
		TransactionID:   e.TransactionID,
		AccountID:       e.AccountID,
		TransactionType: string(e.Type),
		Amount:          e.Amount,
		Details:         e.Details,
		Timestamp:       e.Timestamp,
		Status:          e.Status,
		WorkerID:        e.WorkerID,
		ProcessedAt:     e.ProcessedAt,
	}
}

// TransactionsFromDomain converts history entries to responses.
func TransactionsFromDomain(entries []*domain.HistoryEntry) []*TransactionResponse {
	result := make([]*TransactionResponse, len(entries))
	for i, e := range entries {
		result[i] = TransactionFromDomain(e)
	}
	return result
}

// ListTransactionsResponse represents a page of an account's history.
type ListTransactionsResponse struct {
	Transactions []*TransactionResponse `json:"transactions"`
	Total        int64                  `json:"total"`
}

// DiscrepancyResponse describes an account whose balance disagrees with its history.
type DiscrepancyResponse struct {
	AccountID       string          `json:"account_id"`
	InitialBalance  decimal.Decimal `json:"initial_balance"`
	RecordedBalance decimal.Decimal `json:"recorded_balance"`
	ComputedBalance decimal.Decimal `json:"computed_balance"`
	Difference      decimal.Decimal `json:"difference"`
}

// ReconciliationResponse is the balance check of one account.
type ReconciliationResponse struct {
	AccountID       string          `json:"account_id"`
	InitialBalance  decimal.Decimal `json:"initial_balance"`
	RecordedBalance decimal.Decimal `json:"recorded_balance"`
	ComputedBalance decimal.Decimal `json:"computed_balance"`
	Difference      decimal.Decimal `json:"difference"`
	Reconciled      bool            `json:"reconciled"`
}

// ReconciliationFromDomain converts a reconciliation result to response.
func ReconciliationFromDomain(r *domain.ReconciliationResult) *ReconciliationResponse {
	return &ReconciliationResponse{
		AccountID:       r.AccountID,
		InitialBalance:  r.InitialBalance,
		RecordedBalance: r.RecordedBalance,
		ComputedBalance: r.ComputedBalance,
		Difference:      r.Difference,
		Reconciled:      r.IsReconciled,
	}
}

// ConsistencyResponse is the ledger reconciliation report.
type ConsistencyResponse struct {
	Status        string                 `json:"status"`
	Consistent    bool                   `json:"consistent"`
	TotalAccounts int                    `json:"total_accounts"`
	Discrepancies []*DiscrepancyResponse `json:"discrepancies"`
	CheckedAt     time.Time              `json:"checked_at"`
}

// ConsistencyFromDomain converts a reconciliation report to response.
func ConsistencyFromDomain(r *domain.ReconciliationReport) *ConsistencyResponse {
	resp := &ConsistencyResponse{
		Status:        "consistent",
		Consistent:    r.Consistent(),
		TotalAccounts: r.TotalAccounts,
		Discrepancies: make([]*DiscrepancyResponse, len(r.Discrepancies)),
		CheckedAt:     r.CheckedAt,
	}
	if !resp.Consistent {
		resp.Status = "inconsistent"
	}

	for i, d := range r.Discrepancies {
		resp.Discrepancies[i] = &DiscrepancyResponse{
			AccountID:       d.AccountID,
			InitialBalance:  d.InitialBalance,
			RecordedBalance: d.RecordedBalance,
			ComputedBalance: d.ComputedBalance,
			Difference:      d.Difference,
		}
	}

	return resp
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
