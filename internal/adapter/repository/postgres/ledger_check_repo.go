package postgres

import (
	"context"

	"github.com/iho/mintledger/internal/infrastructure/postgres/generated"
	"github.com/iho/mintledger/internal/usecase"
)

// LedgerCheckRepository implements usecase.LedgerCheckRepository.
type LedgerCheckRepository struct {
	queries *generated.Queries
}

// NewLedgerCheckRepository creates a new LedgerCheckRepository.
func NewLedgerCheckRepository(db generated.DBTX) *LedgerCheckRepository {
	return &LedgerCheckRepository{queries: generated.New(db)}
}

// CheckInvariants counts rows that break the ledger's stored-state invariants.
func (r *LedgerCheckRepository) CheckInvariants(ctx context.Context) (usecase.LedgerCheck, error) {
	row, err := r.queries.CheckLedgerInvariants(ctx)
	if err != nil {
		return usecase.LedgerCheck{}, translateError(err)
	}

	return usecase.LedgerCheck{
		NegativeAccounts:      row.NegativeAccounts,
		OverCreditedInvests:   row.OverCredited,
		ExpiredShortInvests:   row.ExpiredShort,
		RedeemedWithoutRecord: row.RedeemedWithoutRecord,
	}, nil
}
