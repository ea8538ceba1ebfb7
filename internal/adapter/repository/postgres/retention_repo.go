package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/iho/mintledger/internal/domain"
	"github.com/iho/mintledger/internal/infrastructure/postgres/generated"
)

// RetentionRepository implements usecase.RetentionRepository. Each batch is
// its own statement and commits on its own; rows locked by a running ledger
// transaction are skipped and picked up by a later sweep.
type RetentionRepository struct {
	queries   *generated.Queries
	protected []string
}

// NewRetentionRepository creates a new RetentionRepository.
func NewRetentionRepository(db generated.DBTX) *RetentionRepository {
	protected := make([]string, 0, len(domain.ProtectedNotificationKinds))
	for _, k := range domain.ProtectedNotificationKinds {
		protected = append(protected, string(k))
	}

	return &RetentionRepository{
		queries:   generated.New(db),
		protected: protected,
	}
}

// Count returns the number of purgeable records of category older than cutoff.
func (r *RetentionRepository) Count(ctx context.Context, category domain.RetentionCategory, cutoff time.Time) (int64, error) {
	ts := timeToPgTimestamptz(cutoff)

	var (
		n   int64
		err error
	)
	switch category {
	case domain.RetentionWithdrawalCodes:
		n, err = r.queries.CountPurgeableWithdrawalCodes(ctx, ts)
	case domain.RetentionNotifications:
		n, err = r.queries.CountPurgeableNotifications(ctx, generated.CountPurgeableNotificationsParams{
			Cutoff:    ts,
			Protected: r.protected,
		})
	case domain.RetentionChatMessages:
		n, err = r.queries.CountPurgeableChatMessages(ctx, ts)
	case domain.RetentionInvestments:
		n, err = r.queries.CountPurgeableInvestments(ctx, ts)
	default:
		return 0, fmt.Errorf("unknown retention category %q", category)
	}

	return n, translateError(err)
}

// DeleteBatch removes up to limit purgeable records of category.
func (r *RetentionRepository) DeleteBatch(ctx context.Context, category domain.RetentionCategory, cutoff time.Time, limit int) (int64, error) {
	ts := timeToPgTimestamptz(cutoff)
	lim := int32(limit)

	var (
		n   int64
		err error
	)
	switch category {
	case domain.RetentionWithdrawalCodes:
		n, err = r.queries.DeletePurgeableWithdrawalCodes(ctx, generated.DeletePurgeableWithdrawalCodesParams{Cutoff: ts, Limit: lim})
	case domain.RetentionNotifications:
		n, err = r.queries.DeletePurgeableNotifications(ctx, generated.DeletePurgeableNotificationsParams{
			Cutoff:    ts,
			Protected: r.protected,
			Limit:     lim,
		})
	case domain.RetentionChatMessages:
		n, err = r.queries.DeletePurgeableChatMessages(ctx, generated.DeletePurgeableChatMessagesParams{Cutoff: ts, Limit: lim})
	case domain.RetentionInvestments:
		n, err = r.queries.DeletePurgeableInvestments(ctx, generated.DeletePurgeableInvestmentsParams{Cutoff: ts, Limit: lim})
	default:
		return 0, fmt.Errorf("unknown retention category %q", category)
	}

	return n, translateError(err)
}
