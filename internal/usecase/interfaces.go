package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/mintledger/internal/domain"
)

// AccountRepository is the Account Store: reads plus an atomic delta.
type AccountRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	// ApplyDelta increments balance and bonus in one statement and returns the new row.
	ApplyDelta(ctx context.Context, tx Transaction, id string, deltaBalance, deltaBonus decimal.Decimal, at time.Time) (*domain.Account, error)
}

// InvestmentRepository defines data access for investments.
type InvestmentRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Investment, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Investment, error)
	Update(ctx context.Context, tx Transaction, inv *domain.Investment) error
	// ListActive pages active investments ordered by id, starting after afterID.
	ListActive(ctx context.Context, afterID string, limit int) ([]*domain.Investment, error)
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Investment, error)
}

// LoanRepository defines data access for loans.
type LoanRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Loan, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Loan, error)
	UpdateStatus(ctx context.Context, tx Transaction, loan *domain.Loan) error
}

// WithdrawalCodeRepository defines data access for withdrawal codes.
type WithdrawalCodeRepository interface {
	// Create inserts code and returns domain.ErrDuplicateCode on a code collision.
	Create(ctx context.Context, tx Transaction, code *domain.WithdrawalCode) error
	// Redeem marks the code used if it belongs to accountID, is unused and
	// unexpired at now. It returns ErrInvalidOrExpiredCode otherwise.
	Redeem(ctx context.Context, tx Transaction, code, accountID string, now time.Time) (*domain.WithdrawalCode, error)
	// GetForUpdate locks code for the rest of tx.
	GetForUpdate(ctx context.Context, tx Transaction, code string) (*domain.WithdrawalCode, error)
	ListExpiredUnnotified(ctx context.Context, now time.Time, limit int) ([]*domain.WithdrawalCode, error)
	// MarkExpiryNotified flips notified_expiry and reports whether this call did it.
	MarkExpiryNotified(ctx context.Context, code string) (bool, error)
}

// WithdrawalRepository defines data access for withdrawal requests.
type WithdrawalRepository interface {
	// Create fails with ErrInvalidOrExpiredCode when w.Code already backs a request.
	Create(ctx context.Context, tx Transaction, w *domain.Withdrawal) error
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Withdrawal, error)
}

// NotificationRepository reads persisted notifications.
type NotificationRepository interface {
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Notification, error)
}

// RetentionRepository counts and deletes purgeable records per category.
type RetentionRepository interface {
	Count(ctx context.Context, category domain.RetentionCategory, cutoff time.Time) (int64, error)
	// DeleteBatch removes at most limit records and returns how many it removed.
	DeleteBatch(ctx context.Context, category domain.RetentionCategory, cutoff time.Time, limit int) (int64, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) (int64, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier reruns an operation on store-detected conflicts.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// Notifier delivers notifications to the external sink. Delivery is
// fire-and-forget from the ledger's point of view.
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification) error
}

// PriceOracle returns the USD price of an asset.
type PriceOracle interface {
	Price(ctx context.Context, asset string) (decimal.Decimal, error)
}

// ChangeFeed fans committed changes out to subscribers.
type ChangeFeed interface {
	Publish(ctx context.Context, event domain.ChangeEvent) error
	Subscribe(ctx context.Context, filter domain.ChangeFilter) (<-chan domain.ChangeEvent, error)
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key so a failed request can be retried with it.
	Release(ctx context.Context, key string) error
}
