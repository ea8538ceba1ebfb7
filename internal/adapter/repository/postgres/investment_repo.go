package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/iho/mintledger/internal/domain"
	"github.com/iho/mintledger/internal/infrastructure/postgres/generated"
	"github.com/iho/mintledger/internal/usecase"
)

// InvestmentRepository implements usecase.InvestmentRepository.
type InvestmentRepository struct {
	queries *generated.Queries
}

// NewInvestmentRepository creates a new InvestmentRepository.
func NewInvestmentRepository(db generated.DBTX) *InvestmentRepository {
	return &InvestmentRepository{queries: generated.New(db)}
}

// GetByID retrieves an investment by ID.
func (r *InvestmentRepository) GetByID(ctx context.Context, id string) (*domain.Investment, error) {
	row, err := r.queries.GetInvestmentByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvestmentNotFound
		}
		return nil, translateError(err)
	}

	return rowToInvestment(row), nil
}

// GetByIDForUpdate retrieves an investment by ID with a FOR UPDATE lock.
func (r *InvestmentRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Investment, error) {
	row, err := txQueries(tx).GetInvestmentByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvestmentNotFound
		}
		return nil, translateError(err)
	}

	return rowToInvestment(row), nil
}

// Update writes the mutable investment fields.
func (r *InvestmentRepository) Update(ctx context.Context, tx usecase.Transaction, inv *domain.Investment) error {
	n, err := txQueries(tx).UpdateInvestment(ctx, generated.UpdateInvestmentParams{
		ID:            inv.ID,
		Capital:       decimalToNumeric(inv.Capital),
		RoiTarget:     decimalToNumeric(inv.RoiTarget),
		BonusTarget:   decimalToNumeric(inv.BonusTarget),
		CreditedRoi:   decimalToNumeric(inv.CreditedRoi),
		CreditedBonus: decimalToNumeric(inv.CreditedBonus),
		Status:        string(inv.Status),
		ApprovedAt:    optionalTimeToPgTimestamptz(inv.ApprovedAt),
		ApprovedBy:    inv.ApprovedBy,
		UpdatedAt:     timeToPgTimestamptz(inv.UpdatedAt),
	})
	if err != nil {
		return translateError(err)
	}
	if n == 0 {
		return domain.ErrInvestmentNotFound
	}

	return nil
}

// ListActive pages active investments in id order, starting after afterID.
func (r *InvestmentRepository) ListActive(ctx context.Context, afterID string, limit int) ([]*domain.Investment, error) {
	rows, err := r.queries.ListActiveInvestments(ctx, generated.ListActiveInvestmentsParams{
		AfterID: afterID,
		Limit:   int32(limit),
	})
	if err != nil {
		return nil, translateError(err)
	}

	return rowsToInvestments(rows), nil
}

// ListByAccount lists investments of one account.
func (r *InvestmentRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Investment, error) {
	rows, err := r.queries.ListInvestmentsByAccount(ctx, generated.ListInvestmentsByAccountParams{
		AccountID: accountID,
		Limit:     int32(limit),
		Offset:    int32(offset),
	})
	if err != nil {
		return nil, translateError(err)
	}

	return rowsToInvestments(rows), nil
}

func rowsToInvestments(rows []generated.Investment) []*domain.Investment {
	investments := make([]*domain.Investment, 0, len(rows))
	for _, row := range rows {
		investments = append(investments, rowToInvestment(row))
	}
	return investments
}

func rowToInvestment(row generated.Investment) *domain.Investment {
	return &domain.Investment{
		ID:            row.ID,
		AccountID:     row.AccountID,
		Plan:          row.Plan,
		Capital:       numericToDecimal(row.Capital),
		RoiTarget:     numericToDecimal(row.RoiTarget),
		BonusTarget:   numericToDecimal(row.BonusTarget),
		CreditedRoi:   numericToDecimal(row.CreditedRoi),
		CreditedBonus: numericToDecimal(row.CreditedBonus),
		DurationDays:  int(row.DurationDays),
		Status:        domain.InvestmentStatus(row.Status),
		ApprovedAt:    pgTimestamptzToOptionalTime(row.ApprovedAt),
		ApprovedBy:    row.ApprovedBy,
		CreatedAt:     row.CreatedAt.Time,
		UpdatedAt:     row.UpdatedAt.Time,
	}
}
