package domain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Limits imposed by the NUMERIC(20, 8) money columns.
const (
	AmountScale         = 8
	AmountIntegerDigits = 12
	MaxAccountIDLength  = 64
)

// Amounts must stay strictly below this bound.
var amountCeiling = decimal.New(1, AmountIntegerDigits)

var accountIDRegex = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// ValidateAccountID validates an account identifier.
func ValidateAccountID(id string) error {
	switch {
	case strings.TrimSpace(id) == "":
		return fmt.Errorf("%w: id cannot be empty", ErrInvalidAccountID)
	case len(id) > MaxAccountIDLength:
		return fmt.Errorf("%w: id exceeds %d characters", ErrInvalidAccountID, MaxAccountIDLength)
	case !accountIDRegex.MatchString(id):
		return fmt.Errorf("%w: id contains forbidden characters", ErrInvalidAccountID)
	}
	return nil
}

// ValidateAmount checks that amount is positive and storable without rounding.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidAmount)
	}
	return validateMoney(amount)
}

// ValidateInitialBalance validates the opening balance of a new account.
func ValidateInitialBalance(balance decimal.Decimal) error {
	if balance.IsNegative() {
		return fmt.Errorf("%w: initial balance cannot be negative", ErrInvalidAmount)
	}
	return validateMoney(balance)
}

func validateMoney(v decimal.Decimal) error {
	if v.GreaterThanOrEqual(amountCeiling) {
		return fmt.Errorf("%w: must be below %s", ErrInvalidAmount, amountCeiling)
	}
	if !v.Equal(v.Truncate(AmountScale)) {
		return fmt.Errorf("%w: more than %d decimal places", ErrInvalidAmount, AmountScale)
	}
	return nil
}

// Pagination bounds.
const (
	DefaultPageSize = 50
	MaxPageSize     = 1000
)

// NormalizePagination clamps limit and offset into the supported range.
func NormalizePagination(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	return min(limit, MaxPageSize), max(offset, 0)
}
