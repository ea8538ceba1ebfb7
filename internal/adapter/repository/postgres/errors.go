package postgres

import (
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/iho/mintledger/internal/domain"
)

// PostgreSQL error codes the adapter reacts to.
const (
	pgErrDeadlock             = "40P01"
	pgErrSerializationFailure = "40001"
	pgErrUniqueViolation      = "23505"
	pgErrCheckViolation       = "23514"
	pgErrAdminShutdown        = "57P01"
	pgErrCannotConnectNow     = "57P03"
	pgErrTooManyConnections   = "53300"
)

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isConflictError(err error) bool {
	if errors.Is(err, domain.ErrTransactionConflict) {
		return true
	}
	switch pgErrorCode(err) {
	case pgErrDeadlock, pgErrSerializationFailure:
		return true
	}
	return false
}

func isConnectionError(err error) bool {
	if errors.Is(err, domain.ErrStoreUnavailable) {
		return true
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) || pgconn.Timeout(err) {
		return true
	}

	code := pgErrorCode(err)
	if len(code) == 5 && code[:2] == "08" {
		return true
	}
	switch code {
	case pgErrAdminShutdown, pgErrCannotConnectNow, pgErrTooManyConnections:
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

// translateError maps driver failures onto the domain's transient errors,
// keeping the driver error in the chain.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrTransactionConflict), errors.Is(err, domain.ErrStoreUnavailable):
		return err
	case isConflictError(err):
		return fmt.Errorf("%w: %w", domain.ErrTransactionConflict, err)
	case isConnectionError(err):
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	return err
}
