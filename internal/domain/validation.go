package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrAmountTooLarge  = errors.New("amount exceeds maximum allowed")
	ErrAmountTooSmall  = errors.New("amount below minimum allowed")
	ErrInvalidIDFormat = errors.New("invalid ID format")
)

// Validation constants
const (
	MaxLedgerAmount = "1000000000" // 1 billion
	MinLedgerAmount = "0.01"
	MaxIDLength     = 64
)

// ValidateAmount validates a positive ledger amount.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	minAmount := decimal.RequireFromString(MinLedgerAmount)
	if amount.LessThan(minAmount) {
		return fmt.Errorf("%w: minimum amount is %s", ErrAmountTooSmall, MinLedgerAmount)
	}

	maxAmount := decimal.RequireFromString(MaxLedgerAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxLedgerAmount)
	}

	return nil
}

// ValidateDelta validates an administrative adjustment; either side may be
// negative but not both zero, and neither may exceed the ledger maximum.
func ValidateDelta(deltaBalance, deltaBonus decimal.Decimal) error {
	if deltaBalance.IsZero() && deltaBonus.IsZero() {
		return ErrInvalidAmount
	}

	maxAmount := decimal.RequireFromString(MaxLedgerAmount)
	if deltaBalance.Abs().GreaterThan(maxAmount) || deltaBonus.Abs().GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxLedgerAmount)
	}

	return nil
}

// ValidateID rejects empty or oversized identifiers.
func ValidateID(id string) error {
	id = strings.TrimSpace(id)
	if id == "" || len(id) > MaxIDLength {
		return ErrInvalidIDFormat
	}
	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 500
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
