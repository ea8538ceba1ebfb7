package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// KYCStatus is the verification state recorded by account provisioning.
type KYCStatus string

const (
	KYCStatusUnverified KYCStatus = "unverified"
	KYCStatusPending    KYCStatus = "pending"
	KYCStatusVerified   KYCStatus = "verified"
)

// Account holds the spendable balance and bonus of one investor.
type Account struct {
	ID        string
	Balance   decimal.Decimal
	Bonus     decimal.Decimal
	KYCStatus KYCStatus
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Total returns balance plus bonus, the amount available for withdrawal.
func (a *Account) Total() decimal.Decimal {
	return a.Balance.Add(a.Bonus)
}

// ValidateDelta checks that applying the deltas keeps both fields non-negative.
func (a *Account) ValidateDelta(deltaBalance, deltaBonus decimal.Decimal) error {
	if a.Balance.Add(deltaBalance).IsNegative() || a.Bonus.Add(deltaBonus).IsNegative() {
		return ErrInsufficientFunds
	}
	return nil
}

// CanWithdraw checks amount against balance plus bonus.
func (a *Account) CanWithdraw(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if amount.GreaterThan(a.Total()) {
		return ErrInsufficientFunds
	}
	return nil
}
