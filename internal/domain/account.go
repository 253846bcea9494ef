package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account represents a ledger account that holds a non-negative balance.
type Account struct {
	ID               string
	Balance          decimal.Decimal
	InitialBalance   decimal.Decimal
	TransactionCount int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ValidateDebit checks if account can be debited by amount.
func (a *Account) ValidateDebit(amount decimal.Decimal) error {
	if a.Balance.LessThan(amount) {
		return ErrInsufficientFunds
	}
	return nil
}

// ApplyDebit returns new balance after debit.
func (a *Account) ApplyDebit(amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Sub(amount)
}

// ApplyCredit returns new balance after credit.
func (a *Account) ApplyCredit(amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Add(amount)
}

// Authorize returns the balance the account would hold after tr.
func (a *Account) Authorize(tr *Transaction) (decimal.Decimal, error) {
	switch tr.Type() {
	case TransactionTypeDeposit:
		return a.ApplyCredit(tr.Amount()), nil
	case TransactionTypeWithdrawal, TransactionTypePayment:
		if err := a.ValidateDebit(tr.Amount()); err != nil {
			return decimal.Zero, err
		}
		return a.ApplyDebit(tr.Amount()), nil
	default:
		return decimal.Zero, ErrInvalidTransactionType
	}
}
