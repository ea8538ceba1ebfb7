package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvestmentStatus is the lifecycle state of an investment.
type InvestmentStatus string

const (
	InvestmentStatusPending InvestmentStatus = "pending"
	InvestmentStatusActive  InvestmentStatus = "active"
	InvestmentStatusExpired InvestmentStatus = "expired"
)

const accrualDay = 24 * time.Hour

// Investment is a capital deposit that pays ROI and bonus over DurationDays.
// CreditedRoi and CreditedBonus are high-water marks of what has been paid.
type Investment struct {
	ID            string
	AccountID     string
	Plan          string
	Capital       decimal.Decimal
	RoiTarget     decimal.Decimal
	BonusTarget   decimal.Decimal
	CreditedRoi   decimal.Decimal
	CreditedBonus decimal.Decimal
	DurationDays  int
	Status        InvestmentStatus
	ApprovedAt    *time.Time
	ApprovedBy    string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Activation carries the terms fixed at approval time.
type Activation struct {
	Capital        decimal.Decimal
	RoiTarget      decimal.Decimal
	BonusTarget    decimal.Decimal
	CreditBonusNow bool
	ApprovedBy     string
}

// Activate moves a pending investment to active and returns the account credit
// owed for the transition.
func (i *Investment) Activate(a Activation, now time.Time) (deltaBalance, deltaBonus decimal.Decimal, err error) {
	if i.Status != InvestmentStatusPending {
		return decimal.Zero, decimal.Zero, ErrAlreadyProcessed
	}
	if a.Capital.IsNegative() || a.RoiTarget.IsNegative() || a.BonusTarget.IsNegative() {
		return decimal.Zero, decimal.Zero, ErrInvalidAmount
	}
	if i.DurationDays <= 0 {
		return decimal.Zero, decimal.Zero, ErrInvalidDuration
	}

	approvedAt := now
	i.Status = InvestmentStatusActive
	i.Capital = a.Capital
	i.RoiTarget = a.RoiTarget
	i.BonusTarget = a.BonusTarget
	i.CreditedRoi = decimal.Zero
	i.CreditedBonus = decimal.Zero
	i.ApprovedAt = &approvedAt
	i.ApprovedBy = a.ApprovedBy
	i.UpdatedAt = now

	deltaBalance = a.Capital
	deltaBonus = decimal.Zero
	if a.CreditBonusNow {
		deltaBonus = a.BonusTarget
		i.CreditedBonus = a.BonusTarget
	}

	return deltaBalance, deltaBonus, nil
}

// Accrual is the outcome of evaluating an investment at a point in time.
type Accrual struct {
	ElapsedDays int
	EarnedRoi   decimal.Decimal
	EarnedBonus decimal.Decimal
	DeltaRoi    decimal.Decimal
	DeltaBonus  decimal.Decimal
	Complete    bool
}

// HasCredit reports whether the accrual pays anything.
func (a Accrual) HasCredit() bool {
	return a.DeltaRoi.IsPositive() || a.DeltaBonus.IsPositive()
}

// Accrue computes what the investment has earned by now against what has
// already been credited. It does not mutate the investment.
func (i *Investment) Accrue(now time.Time) Accrual {
	if i.Status != InvestmentStatusActive || i.ApprovedAt == nil {
		return Accrual{DeltaRoi: decimal.Zero, DeltaBonus: decimal.Zero, EarnedRoi: i.CreditedRoi, EarnedBonus: i.CreditedBonus}
	}

	var earnedRoi, earnedBonus decimal.Decimal
	elapsed := i.elapsedDays(now)

	if elapsed >= i.DurationDays {
		earnedRoi, earnedBonus = i.RoiTarget, i.BonusTarget
	} else {
		days := decimal.NewFromInt(int64(elapsed))
		duration := decimal.NewFromInt(int64(i.DurationDays))
		earnedRoi = decimal.Min(i.RoiTarget.Div(duration).Mul(days), i.RoiTarget)
		earnedBonus = decimal.Min(i.BonusTarget.Div(duration).Mul(days), i.BonusTarget)
	}

	acc := Accrual{
		ElapsedDays: elapsed,
		EarnedRoi:   earnedRoi,
		EarnedBonus: earnedBonus,
		DeltaRoi:    nonNegative(earnedRoi.Sub(i.CreditedRoi)),
		DeltaBonus:  nonNegative(earnedBonus.Sub(i.CreditedBonus)),
	}
	acc.Complete = elapsed >= i.DurationDays &&
		earnedRoi.Equal(i.RoiTarget) &&
		earnedBonus.Equal(i.BonusTarget)

	return acc
}

// ApplyAccrual advances the high-water marks and expires a completed investment.
func (i *Investment) ApplyAccrual(a Accrual, now time.Time) {
	i.CreditedRoi = decimal.Max(i.CreditedRoi, a.EarnedRoi)
	i.CreditedBonus = decimal.Max(i.CreditedBonus, a.EarnedBonus)
	if a.Complete {
		i.Status = InvestmentStatusExpired
	}
	i.UpdatedAt = now
}

func (i *Investment) elapsedDays(now time.Time) int {
	d := now.Sub(*i.ApprovedAt)
	if d < 0 {
		return 0
	}
	elapsed := int(d/accrualDay) + 1
	if elapsed > i.DurationDays {
		elapsed = i.DurationDays
	}
	return elapsed
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
