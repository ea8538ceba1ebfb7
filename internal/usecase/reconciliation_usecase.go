package usecase

import (
	"context"
	"errors"
	"time"
)

// ErrInconsistentLedger is returned when a stored invariant does not hold.
var ErrInconsistentLedger = errors.New("ledger inconsistency detected")

// LedgerCheck counts rows that break a stored ledger invariant.
type LedgerCheck struct {
	NegativeAccounts      int64
	OverCreditedInvests   int64
	ExpiredShortInvests   int64
	RedeemedWithoutRecord int64
}

// Clean reports whether no violations were found.
func (c LedgerCheck) Clean() bool {
	return c.NegativeAccounts == 0 && c.OverCreditedInvests == 0 &&
		c.ExpiredShortInvests == 0 && c.RedeemedWithoutRecord == 0
}

// LedgerCheckRepository runs the invariant queries.
type LedgerCheckRepository interface {
	CheckInvariants(ctx context.Context) (LedgerCheck, error)
}

// ReconciliationUseCase audits the stored ledger against its invariants.
type ReconciliationUseCase struct {
	repo  LedgerCheckRepository
	clock Clock
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(repo LedgerCheckRepository, clock Clock) *ReconciliationUseCase {
	return &ReconciliationUseCase{repo: repo, clock: clock}
}

// ReconciliationReport is the outcome of one audit.
type ReconciliationReport struct {
	LedgerCheck
	Consistent bool
	CheckedAt  time.Time
}

// CheckConsistency runs the audit. The report is returned together with
// ErrInconsistentLedger when violations exist.
func (uc *ReconciliationUseCase) CheckConsistency(ctx context.Context) (*ReconciliationReport, error) {
	check, err := uc.repo.CheckInvariants(ctx)
	if err != nil {
		return nil, err
	}

	report := &ReconciliationReport{
		LedgerCheck: check,
		Consistent:  check.Clean(),
		CheckedAt:   uc.clock.Now(),
	}
	if !report.Consistent {
		return report, ErrInconsistentLedger
	}
	return report, nil
}
