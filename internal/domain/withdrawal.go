package domain

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/shopspring/decimal"
)

// WithdrawalCodeDigits is the length of an issued withdrawal code.
const WithdrawalCodeDigits = 8

// DefaultWithdrawalCodeTTL is used when an issuer does not set a lifetime.
const DefaultWithdrawalCodeTTL = 15 * time.Minute

// WithdrawalCode is a single-use, time-limited authorization for one withdrawal.
type WithdrawalCode struct {
	Code           string
	AccountID      string
	Amount         decimal.Decimal
	Used           bool
	UsedAt         *time.Time
	ExpiresAt      time.Time
	NotifiedExpiry bool
	IssuedBy       string
	CreatedAt      time.Time
}

// Redeemable reports whether the code may still be redeemed at now.
func (c *WithdrawalCode) Redeemable(now time.Time) bool {
	return !c.Used && now.Before(c.ExpiresAt)
}

// GenerateWithdrawalCode returns a random numeric code of WithdrawalCodeDigits digits.
func GenerateWithdrawalCode() (string, error) {
	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(WithdrawalCodeDigits), nil)
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", fmt.Errorf("generate withdrawal code: %w", err)
	}
	return fmt.Sprintf("%0*d", WithdrawalCodeDigits, n), nil
}

// PaymentOption is the asset a withdrawal is paid out in.
type PaymentOption string

const (
	PaymentOptionBitcoin  PaymentOption = "Bitcoin"
	PaymentOptionEthereum PaymentOption = "Ethereum"
)

// Asset returns the ticker priced by the oracle for this option.
func (p PaymentOption) Asset() (string, error) {
	switch p {
	case PaymentOptionBitcoin:
		return "BTC", nil
	case PaymentOptionEthereum:
		return "ETH", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPaymentOption, string(p))
	}
}

// WithdrawalFeeDivisor splits the fee out of the withdrawn amount.
var WithdrawalFeeDivisor = decimal.NewFromInt(10)

// WithdrawalFee converts a tenth of amount into units of the asset at price,
// rounded to three places.
func WithdrawalFee(amount, price decimal.Decimal) (decimal.Decimal, error) {
	if !price.IsPositive() {
		return decimal.Zero, ErrPriceUnavailable
	}
	return amount.Div(WithdrawalFeeDivisor).Div(price).Round(3), nil
}

// WithdrawalStatus is the processing state of a withdrawal request.
type WithdrawalStatus string

const (
	WithdrawalStatusPending   WithdrawalStatus = "pending"
	WithdrawalStatusCompleted WithdrawalStatus = "completed"
	WithdrawalStatusRejected  WithdrawalStatus = "rejected"
)

// Withdrawal is a payout request created after a successful code redemption.
// Fee is nil when the oracle could not price the asset.
type Withdrawal struct {
	ID            string
	AccountID     string
	Amount        decimal.Decimal
	Code          string
	PaymentOption PaymentOption
	Fee           *decimal.Decimal
	FeeAsset      string
	Status        WithdrawalStatus
	CreatedAt     time.Time
}
