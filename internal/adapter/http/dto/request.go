package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/txledger/internal/domain"
	"github.com/iho/txledger/internal/usecase"
)

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	AccountID      string          `json:"account_id"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		ID:             r.AccountID,
		InitialBalance: r.InitialBalance,
	}
}

// CreateTransactionRequest represents a request to submit a transaction.
// The amount may be sent as a JSON string or number; strings keep their scale.
type CreateTransactionRequest struct {
	AccountID       string          `json:"account_id"`
	TransactionType string          `json:"transaction_type"`
	Amount          decimal.Decimal `json:"amount"`
	Details         string          `json:"details"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTransactionRequest) ToUseCaseInput() usecase.SubmitTransactionInput {
	return usecase.SubmitTransactionInput{
		AccountID: r.AccountID,
		Type:      domain.TransactionType(r.TransactionType),
		Amount:    r.Amount,
		Details:   r.Details,
	}
}

// PaginationRequest represents pagination parameters.
type PaginationRequest struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}
