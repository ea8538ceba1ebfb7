package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Plan describes the payout shape of an investment product.
// RoiRate and BonusRate are fractions of capital paid over DurationDays.
type Plan struct {
	Name         string
	DurationDays int
	RoiRate      decimal.Decimal
	BonusRate    decimal.Decimal
}

// Plans is the lookup table of known plans keyed by lower-case name.
var Plans = map[string]Plan{
	"bronze": {
		Name:         "Bronze",
		DurationDays: 7,
		RoiRate:      decimal.RequireFromString("0.5"),
		BonusRate:    decimal.RequireFromString("0.05"),
	},
	"silver": {
		Name:         "Silver",
		DurationDays: 14,
		RoiRate:      decimal.RequireFromString("1.5"),
		BonusRate:    decimal.RequireFromString("0.1"),
	},
	"gold": {
		Name:         "Gold",
		DurationDays: 10,
		RoiRate:      decimal.RequireFromString("5"),
		BonusRate:    decimal.RequireFromString("5"),
	},
	"platinum": {
		Name:         "Platinum",
		DurationDays: 30,
		RoiRate:      decimal.RequireFromString("8"),
		BonusRate:    decimal.RequireFromString("1"),
	},
}

// LookupPlan finds a plan by name, case-insensitively.
func LookupPlan(name string) (Plan, error) {
	p, ok := Plans[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Plan{}, ErrUnknownPlan
	}
	return p, nil
}

// Targets returns the ROI and bonus targets for the given capital.
func (p Plan) Targets(capital decimal.Decimal) (roi, bonus decimal.Decimal) {
	return capital.Mul(p.RoiRate), capital.Mul(p.BonusRate)
}
