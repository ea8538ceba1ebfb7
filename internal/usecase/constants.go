package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// DefaultRetentionBatchSize is the largest delete issued in one statement.
	DefaultRetentionBatchSize = 500

	// DefaultAccrualPageSize is how many active investments are read per page.
	DefaultAccrualPageSize = 200

	// DefaultAccrualConcurrency bounds investments accrued in parallel.
	DefaultAccrualConcurrency = 8

	// maxCodeAttempts bounds regeneration after a withdrawal code collision.
	maxCodeAttempts = 5

	// expiredCodePageSize is how many lapsed codes one notification page reads.
	expiredCodePageSize = 100

	// notifyTimeout bounds post-commit side effects.
	notifyTimeout = 5 * time.Second
)
