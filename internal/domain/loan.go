package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanStatus is the lifecycle state of a loan.
type LoanStatus string

const (
	LoanStatusPending  LoanStatus = "pending"
	LoanStatusApproved LoanStatus = "approved"
	LoanStatusDeclined LoanStatus = "declined"
)

// LoanBonusRate is the bonus credited on top of an approved loan amount.
var LoanBonusRate = decimal.RequireFromString("0.05")

// Loan is a disbursement request that credits the account once approved.
type Loan struct {
	ID        string
	AccountID string
	Amount    decimal.Decimal
	Status    LoanStatus
	DecidedBy string
	DecidedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Decide moves a pending loan to target and returns the account credit owed.
// Deciding a loan that is no longer pending fails with ErrAlreadyProcessed.
func (l *Loan) Decide(target LoanStatus, actor string, now time.Time) (deltaBalance, deltaBonus decimal.Decimal, err error) {
	if l.Status == target || l.Status != LoanStatusPending {
		return decimal.Zero, decimal.Zero, ErrAlreadyProcessed
	}

	decidedAt := now
	l.Status = target
	l.DecidedBy = actor
	l.DecidedAt = &decidedAt
	l.UpdatedAt = now

	if target != LoanStatusApproved {
		return decimal.Zero, decimal.Zero, nil
	}

	return l.Amount, l.Amount.Mul(LoanBonusRate), nil
}
