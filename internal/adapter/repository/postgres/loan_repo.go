package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/iho/mintledger/internal/domain"
	"github.com/iho/mintledger/internal/infrastructure/postgres/generated"
	"github.com/iho/mintledger/internal/usecase"
)

// LoanRepository implements usecase.LoanRepository.
type LoanRepository struct {
	queries *generated.Queries
}

// NewLoanRepository creates a new LoanRepository.
func NewLoanRepository(db generated.DBTX) *LoanRepository {
	return &LoanRepository{queries: generated.New(db)}
}

// GetByID retrieves a loan by ID.
func (r *LoanRepository) GetByID(ctx context.Context, id string) (*domain.Loan, error) {
	row, err := r.queries.GetLoanByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLoanNotFound
		}
		return nil, translateError(err)
	}

	return rowToLoan(row), nil
}

// GetByIDForUpdate retrieves a loan by ID with a FOR UPDATE lock.
func (r *LoanRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Loan, error) {
	row, err := txQueries(tx).GetLoanByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLoanNotFound
		}
		return nil, translateError(err)
	}

	return rowToLoan(row), nil
}

// UpdateStatus records a loan decision.
func (r *LoanRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, loan *domain.Loan) error {
	n, err := txQueries(tx).UpdateLoanStatus(ctx, generated.UpdateLoanStatusParams{
		ID:        loan.ID,
		Status:    string(loan.Status),
		DecidedBy: loan.DecidedBy,
		DecidedAt: optionalTimeToPgTimestamptz(loan.DecidedAt),
		UpdatedAt: timeToPgTimestamptz(loan.UpdatedAt),
	})
	if err != nil {
		return translateError(err)
	}
	if n == 0 {
		return domain.ErrLoanNotFound
	}

	return nil
}

func rowToLoan(row generated.Loan) *domain.Loan {
	return &domain.Loan{
		ID:        row.ID,
		AccountID: row.AccountID,
		Amount:    numericToDecimal(row.Amount),
		Status:    domain.LoanStatus(row.Status),
		DecidedBy: row.DecidedBy,
		DecidedAt: pgTimestamptzToOptionalTime(row.DecidedAt),
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
}
