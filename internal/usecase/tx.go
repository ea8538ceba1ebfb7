package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/mintledger/internal/domain"
	"github.com/iho/mintledger/internal/infrastructure/metrics"
)

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// txRunner runs a transaction body to commit, retrying the whole body on
// conflicts. The body runs on a context detached from caller cancellation so
// an in-flight ledger transaction is never cut short by a client going away.
type txRunner struct {
	txManager TransactionManager
	retrier   Retrier
}

func (r txRunner) run(ctx context.Context, fn func(ctx context.Context, tx Transaction) error) error {
	txCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), DefaultTransactionTimeout)
	defer cancel()

	attempt := func() error {
		tx, err := r.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		if err := fn(txCtx, tx); err != nil {
			return err
		}

		return tx.Commit(txCtx)
	}

	if r.retrier == nil {
		return attempt()
	}
	return r.retrier.Retry(txCtx, attempt)
}

// Effects carries the post-commit side effects shared by the use cases.
// Every method is best effort: failures are logged and counted, never returned.
type Effects struct {
	Notifier Notifier
	Feed     ChangeFeed
	Metrics  *metrics.Metrics
	Logger   zerolog.Logger
}

func (e Effects) notify(ctx context.Context, n domain.Notification) {
	if e.Notifier == nil {
		return
	}

	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	if err := e.Notifier.Notify(nctx, n); err != nil {
		e.Logger.Warn().Err(err).
			Str("account_id", n.AccountID).
			Str("kind", string(n.Kind)).
			Msg("notification not delivered")
		if e.Metrics != nil {
			e.Metrics.NotificationFailures.Inc()
		}
	}
}

func (e Effects) publish(ctx context.Context, ev domain.ChangeEvent) {
	if e.Feed == nil {
		return
	}

	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	if err := e.Feed.Publish(pctx, ev); err != nil {
		e.Logger.Warn().Err(err).
			Str("table", ev.Table).
			Str("record_id", ev.RecordID).
			Msg("change event not published")
	}
}

func (e Effects) ledgerError(operation string, err error) {
	if e.Metrics == nil || err == nil {
		return
	}
	e.Metrics.LedgerErrors.WithLabelValues(operation, errorKind(err)).Inc()
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrAlreadyProcessed):
		return "already_processed"
	case errors.Is(err, domain.ErrInvalidOrExpiredCode):
		return "invalid_code"
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, domain.ErrTransactionConflict):
		return "conflict"
	case errors.Is(err, domain.ErrStoreUnavailable):
		return "unavailable"
	default:
		return "other"
	}
}
