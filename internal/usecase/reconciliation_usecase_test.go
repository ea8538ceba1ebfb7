package usecase

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fixedClock time.Time

func (c fixedClock) Now() time.Time { return time.Time(c) }

type fakeLedgerCheckRepository struct {
	check LedgerCheck
	err   error
	calls int
}

func (f *fakeLedgerCheckRepository) CheckInvariants(ctx context.Context) (LedgerCheck, error) {
	f.calls++
	return f.check, f.err
}

func TestReconciliationUseCase_CheckConsistency(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		repo        *fakeLedgerCheckRepository
		want        bool
		expectedErr error
	}{
		{
			name: "clean ledger",
			repo: &fakeLedgerCheckRepository{},
			want: true,
		},
		{
			name:        "repo error surfaces",
			repo:        &fakeLedgerCheckRepository{err: errors.New("db down")},
			expectedErr: errors.New("db down"),
		},
		{
			name:        "negative account",
			repo:        &fakeLedgerCheckRepository{check: LedgerCheck{NegativeAccounts: 1}},
			expectedErr: ErrInconsistentLedger,
		},
		{
			name:        "over-credited investment",
			repo:        &fakeLedgerCheckRepository{check: LedgerCheck{OverCreditedInvests: 2}},
			expectedErr: ErrInconsistentLedger,
		},
		{
			name:        "expired investment short of target",
			repo:        &fakeLedgerCheckRepository{check: LedgerCheck{ExpiredShortInvests: 1}},
			expectedErr: ErrInconsistentLedger,
		},
		{
			name:        "redeemed code without request",
			repo:        &fakeLedgerCheckRepository{check: LedgerCheck{RedeemedWithoutRecord: 1}},
			expectedErr: ErrInconsistentLedger,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := NewReconciliationUseCase(tt.repo, fixedClock(now))
			report, err := uc.CheckConsistency(context.Background())

			if tt.expectedErr != nil {
				if err == nil || err.Error() != tt.expectedErr.Error() {
					t.Fatalf("expected error %v, got %v", tt.expectedErr, err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if tt.repo.calls != 1 {
				t.Fatalf("expected one repository call, got %d", tt.repo.calls)
			}
			if report == nil {
				return
			}
			if report.Consistent != tt.want {
				t.Fatalf("Consistent = %v, want %v", report.Consistent, tt.want)
			}
			if !report.CheckedAt.Equal(now) {
				t.Fatalf("CheckedAt = %v, want %v", report.CheckedAt, now)
			}
		})
	}
}
