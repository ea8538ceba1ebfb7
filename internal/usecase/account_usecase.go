package usecase

import (
	"context"

	"github.com/iho/mintledger/internal/domain"
)

// AccountUseCase serves the read side of an investor's dashboard.
type AccountUseCase struct {
	accountRepo      AccountRepository
	investmentRepo   InvestmentRepository
	notificationRepo NotificationRepository
	feed             ChangeFeed
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(
	accountRepo AccountRepository,
	investmentRepo InvestmentRepository,
	notificationRepo NotificationRepository,
	feed ChangeFeed,
) *AccountUseCase {
	return &AccountUseCase{
		accountRepo:      accountRepo,
		investmentRepo:   investmentRepo,
		notificationRepo: notificationRepo,
		feed:             feed,
	}
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	if err := domain.ValidateID(id); err != nil {
		return nil, err
	}
	return uc.accountRepo.GetByID(ctx, id)
}

// ListInvestments lists an account's investments with pagination.
func (uc *AccountUseCase) ListInvestments(ctx context.Context, accountID string, limit, offset int) ([]*domain.Investment, error) {
	if err := domain.ValidateID(accountID); err != nil {
		return nil, err
	}
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.investmentRepo.ListByAccount(ctx, accountID, limit, offset)
}

// GetInvestment retrieves an investment by ID.
func (uc *AccountUseCase) GetInvestment(ctx context.Context, id string) (*domain.Investment, error) {
	if err := domain.ValidateID(id); err != nil {
		return nil, err
	}
	return uc.investmentRepo.GetByID(ctx, id)
}

// ListNotifications lists an account's notifications, newest first.
func (uc *AccountUseCase) ListNotifications(ctx context.Context, accountID string, limit, offset int) ([]*domain.Notification, error) {
	if err := domain.ValidateID(accountID); err != nil {
		return nil, err
	}
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.notificationRepo.ListByAccount(ctx, accountID, limit, offset)
}

// Subscribe streams committed changes for accountID until ctx is done.
// The account must exist.
func (uc *AccountUseCase) Subscribe(ctx context.Context, accountID string, tables []string) (<-chan domain.ChangeEvent, error) {
	if _, err := uc.GetAccount(ctx, accountID); err != nil {
		return nil, err
	}
	if uc.feed == nil {
		return nil, domain.ErrStoreUnavailable
	}
	return uc.feed.Subscribe(ctx, domain.ChangeFilter{AccountID: accountID, Tables: tables})
}
