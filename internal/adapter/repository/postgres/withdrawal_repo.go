package postgres

import (
	"context"

	"github.com/iho/mintledger/internal/domain"
	"github.com/iho/mintledger/internal/infrastructure/postgres/generated"
	"github.com/iho/mintledger/internal/usecase"
)

// WithdrawalRepository implements usecase.WithdrawalRepository.
type WithdrawalRepository struct {
	queries *generated.Queries
}

// NewWithdrawalRepository creates a new WithdrawalRepository.
func NewWithdrawalRepository(db generated.DBTX) *WithdrawalRepository {
	return &WithdrawalRepository{queries: generated.New(db)}
}

// Create persists a withdrawal request. A nil fee is stored as NULL. A code
// backs at most one request; reuse fails with ErrInvalidOrExpiredCode.
func (r *WithdrawalRepository) Create(ctx context.Context, tx usecase.Transaction, w *domain.Withdrawal) error {
	err := txQueries(tx).CreateWithdrawal(ctx, generated.CreateWithdrawalParams{
		ID:            w.ID,
		AccountID:     w.AccountID,
		Amount:        decimalToNumeric(w.Amount),
		Code:          w.Code,
		PaymentOption: string(w.PaymentOption),
		Fee:           optionalDecimalToNumeric(w.Fee),
		FeeAsset:      w.FeeAsset,
		Status:        string(w.Status),
		CreatedAt:     timeToPgTimestamptz(w.CreatedAt),
	})
	if pgErrorCode(err) == pgErrUniqueViolation {
		return domain.ErrInvalidOrExpiredCode
	}

	return translateError(err)
}

// ListByAccount lists withdrawals of one account, newest first.
func (r *WithdrawalRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Withdrawal, error) {
	rows, err := r.queries.ListWithdrawalsByAccount(ctx, generated.ListWithdrawalsByAccountParams{
		AccountID: accountID,
		Limit:     int32(limit),
		Offset:    int32(offset),
	})
	if err != nil {
		return nil, translateError(err)
	}

	withdrawals := make([]*domain.Withdrawal, 0, len(rows))
	for _, row := range rows {
		withdrawals = append(withdrawals, &domain.Withdrawal{
			ID:            row.ID,
			AccountID:     row.AccountID,
			Amount:        numericToDecimal(row.Amount),
			Code:          row.Code,
			PaymentOption: domain.PaymentOption(row.PaymentOption),
			Fee:           numericToOptionalDecimal(row.Fee),
			FeeAsset:      row.FeeAsset,
			Status:        domain.WithdrawalStatus(row.Status),
			CreatedAt:     row.CreatedAt.Time,
		})
	}

	return withdrawals, nil
}
