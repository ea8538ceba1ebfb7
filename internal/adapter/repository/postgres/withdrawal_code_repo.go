package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/iho/mintledger/internal/domain"
	"github.com/iho/mintledger/internal/infrastructure/postgres/generated"
	"github.com/iho/mintledger/internal/usecase"
)

// WithdrawalCodeRepository implements usecase.WithdrawalCodeRepository.
type WithdrawalCodeRepository struct {
	queries *generated.Queries
}

// NewWithdrawalCodeRepository creates a new WithdrawalCodeRepository.
func NewWithdrawalCodeRepository(db generated.DBTX) *WithdrawalCodeRepository {
	return &WithdrawalCodeRepository{queries: generated.New(db)}
}

// Create inserts a freshly issued code.
func (r *WithdrawalCodeRepository) Create(ctx context.Context, tx usecase.Transaction, code *domain.WithdrawalCode) error {
	err := txQueries(tx).CreateWithdrawalCode(ctx, generated.CreateWithdrawalCodeParams{
		Code:      code.Code,
		AccountID: code.AccountID,
		Amount:    decimalToNumeric(code.Amount),
		ExpiresAt: timeToPgTimestamptz(code.ExpiresAt),
		IssuedBy:  code.IssuedBy,
		CreatedAt: timeToPgTimestamptz(code.CreatedAt),
	})
	if pgErrorCode(err) == pgErrUniqueViolation {
		return domain.ErrDuplicateCode
	}

	return translateError(err)
}

// Redeem flips used in a single conditional UPDATE, so of two concurrent
// redemptions exactly one sees a row.
func (r *WithdrawalCodeRepository) Redeem(ctx context.Context, tx usecase.Transaction, code, accountID string, now time.Time) (*domain.WithdrawalCode, error) {
	row, err := txQueries(tx).RedeemWithdrawalCode(ctx, generated.RedeemWithdrawalCodeParams{
		Code:      code,
		AccountID: accountID,
		Now:       timeToPgTimestamptz(now),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvalidOrExpiredCode
		}
		return nil, translateError(err)
	}

	return rowToWithdrawalCode(row), nil
}

// GetForUpdate locks and returns code, or ErrInvalidOrExpiredCode when it
// does not exist.
func (r *WithdrawalCodeRepository) GetForUpdate(ctx context.Context, tx usecase.Transaction, code string) (*domain.WithdrawalCode, error) {
	row, err := txQueries(tx).GetWithdrawalCodeForUpdate(ctx, code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvalidOrExpiredCode
		}
		return nil, translateError(err)
	}

	return rowToWithdrawalCode(row), nil
}

// ListExpiredUnnotified returns unused codes past expiry whose holder has not been told.
func (r *WithdrawalCodeRepository) ListExpiredUnnotified(ctx context.Context, now time.Time, limit int) ([]*domain.WithdrawalCode, error) {
	rows, err := r.queries.ListExpiredUnnotifiedCodes(ctx, generated.ListExpiredUnnotifiedCodesParams{
		Now:   timeToPgTimestamptz(now),
		Limit: int32(limit),
	})
	if err != nil {
		return nil, translateError(err)
	}

	codes := make([]*domain.WithdrawalCode, 0, len(rows))
	for _, row := range rows {
		codes = append(codes, rowToWithdrawalCode(row))
	}

	return codes, nil
}

// MarkExpiryNotified claims the expiry notification for code.
func (r *WithdrawalCodeRepository) MarkExpiryNotified(ctx context.Context, code string) (bool, error) {
	n, err := r.queries.MarkCodeExpiryNotified(ctx, code)
	if err != nil {
		return false, translateError(err)
	}
	return n == 1, nil
}

func rowToWithdrawalCode(row generated.WithdrawalCode) *domain.WithdrawalCode {
	return &domain.WithdrawalCode{
		Code:           row.Code,
		AccountID:      row.AccountID,
		Amount:         numericToDecimal(row.Amount),
		Used:           row.Used,
		UsedAt:         pgTimestamptzToOptionalTime(row.UsedAt),
		ExpiresAt:      row.ExpiresAt.Time,
		NotifiedExpiry: row.NotifiedExpiry,
		IssuedBy:       row.IssuedBy,
		CreatedAt:      row.CreatedAt.Time,
	}
}
