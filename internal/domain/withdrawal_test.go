package domain

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestGenerateWithdrawalCode(t *testing.T) {
	pattern := regexp.MustCompile(`^[0-9]{8}$`)
	seen := make(map[string]bool)

	for i := 0; i < 50; i++ {
		code, err := GenerateWithdrawalCode()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !pattern.MatchString(code) {
			t.Fatalf("code %q is not %d digits", code, WithdrawalCodeDigits)
		}
		seen[code] = true
	}

	if len(seen) < 45 {
		t.Fatalf("expected mostly unique codes, got %d distinct of 50", len(seen))
	}
}

func TestWithdrawalCode_Redeemable(t *testing.T) {
	issued := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	code := &WithdrawalCode{ExpiresAt: issued.Add(DefaultWithdrawalCodeTTL)}

	if !code.Redeemable(issued.Add(14 * time.Minute)) {
		t.Fatalf("expected code redeemable within ttl")
	}
	if code.Redeemable(issued.Add(DefaultWithdrawalCodeTTL)) {
		t.Fatalf("expected code unredeemable at expiry")
	}
	if code.Redeemable(issued.Add(16 * time.Minute)) {
		t.Fatalf("expected code unredeemable after expiry")
	}

	code.Used = true
	if code.Redeemable(issued) {
		t.Fatalf("used code must not be redeemable")
	}
}

func TestPaymentOption_Asset(t *testing.T) {
	if asset, err := PaymentOptionBitcoin.Asset(); err != nil || asset != "BTC" {
		t.Fatalf("expected BTC, got %s %v", asset, err)
	}
	if asset, err := PaymentOptionEthereum.Asset(); err != nil || asset != "ETH" {
		t.Fatalf("expected ETH, got %s %v", asset, err)
	}
	if _, err := PaymentOption("Dogecoin").Asset(); !errors.Is(err, ErrInvalidPaymentOption) {
		t.Fatalf("expected ErrInvalidPaymentOption, got %v", err)
	}
}

func TestWithdrawalFee(t *testing.T) {
	fee, err := WithdrawalFee(decimal.NewFromInt(5000), decimal.NewFromInt(62500))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fee.Equal(decimal.RequireFromString("0.008")) {
		t.Fatalf("expected 0.008, got %s", fee)
	}

	if _, err := WithdrawalFee(decimal.NewFromInt(5000), decimal.Zero); !errors.Is(err, ErrPriceUnavailable) {
		t.Fatalf("expected ErrPriceUnavailable, got %v", err)
	}
}
