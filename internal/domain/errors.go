package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is the parent of every missing-entity error.
var ErrNotFound = errors.New("not found")

var (
	// Lookup errors
	ErrAccountNotFound        = fmt.Errorf("account %w", ErrNotFound)
	ErrInvestmentNotFound     = fmt.Errorf("investment %w", ErrNotFound)
	ErrLoanNotFound           = fmt.Errorf("loan %w", ErrNotFound)
	ErrWithdrawalNotFound     = fmt.Errorf("withdrawal %w", ErrNotFound)
	ErrWithdrawalCodeNotFound = fmt.Errorf("withdrawal code %w", ErrNotFound)

	// Ledger outcomes
	ErrAlreadyProcessed     = errors.New("already processed")
	ErrInvalidOrExpiredCode = errors.New("invalid or expired withdrawal code")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrInvalidPaymentOption = errors.New("unsupported payment option")
	ErrUnknownPlan          = errors.New("unknown investment plan")
	ErrInvalidDuration      = errors.New("investment duration must be positive")
	ErrDuplicateCode        = errors.New("withdrawal code already exists")

	// Transient store errors
	ErrTransactionConflict = errors.New("transaction conflict, retry later")
	ErrStoreUnavailable    = errors.New("store unavailable")

	// Collaborators
	ErrPriceUnavailable = errors.New("price oracle unavailable")
)

// IsRetryable reports whether err is a transient store condition a caller may retry.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransactionConflict) || errors.Is(err, ErrStoreUnavailable)
}
