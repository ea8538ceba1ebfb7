package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/iho/mintledger/internal/domain"
	"github.com/iho/mintledger/internal/infrastructure/postgres/generated"
	"github.com/iho/mintledger/internal/usecase"
)

// NotificationRepository persists notifications and implements usecase.Notifier:
// each notification is stored together with an outbox event so the relay
// can forward it to the external sink.
type NotificationRepository struct {
	queries   *generated.Queries
	txManager usecase.TransactionManager
	ids       usecase.IDGenerator
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(db generated.DBTX, txManager usecase.TransactionManager, ids usecase.IDGenerator) *NotificationRepository {
	return &NotificationRepository{
		queries:   generated.New(db),
		txManager: txManager,
		ids:       ids,
	}
}

// Notify stores n and queues it for delivery.
func (r *NotificationRepository) Notify(ctx context.Context, n domain.Notification) (err error) {
	if n.ID == "" {
		n.ID = r.ids.Generate()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(map[string]any{
		"notification_id": n.ID,
		"account_id":      n.AccountID,
		"kind":            n.Kind,
		"title":           n.Title,
		"message":         n.Message,
	})
	if err != nil {
		return err
	}

	tx, err := r.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	queries := txQueries(tx)
	if err = queries.CreateNotification(ctx, generated.CreateNotificationParams{
		ID:        n.ID,
		AccountID: n.AccountID,
		Title:     n.Title,
		Message:   n.Message,
		Kind:      string(n.Kind),
		CreatedAt: timeToPgTimestamptz(n.CreatedAt),
	}); err != nil {
		return translateError(err)
	}

	if err = queries.CreateOutboxEvent(ctx, generated.CreateOutboxEventParams{
		ID:            r.ids.Generate(),
		AggregateID:   n.ID,
		AggregateType: domain.AggregateTypeNotification,
		EventType:     domain.EventTypeNotificationCreated,
		Payload:       payload,
		CreatedAt:     timeToPgTimestamptz(n.CreatedAt),
	}); err != nil {
		return translateError(err)
	}

	return tx.Commit(ctx)
}

// ListByAccount lists notifications of one account, newest first.
func (r *NotificationRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Notification, error) {
	rows, err := r.queries.ListNotificationsByAccount(ctx, generated.ListNotificationsByAccountParams{
		AccountID: accountID,
		Limit:     int32(limit),
		Offset:    int32(offset),
	})
	if err != nil {
		return nil, translateError(err)
	}

	notifications := make([]*domain.Notification, 0, len(rows))
	for _, row := range rows {
		notifications = append(notifications, &domain.Notification{
			ID:        row.ID,
			AccountID: row.AccountID,
			Title:     row.Title,
			Message:   row.Message,
			Kind:      domain.NotificationKind(row.Kind),
			CreatedAt: row.CreatedAt.Time,
		})
	}

	return notifications, nil
}
