package postgres

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/EmpoweredVote/EV-Todo/internal/store"
)

// mapError translates gorm / Postgres errors into store sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) || errors.Is(err, driver.ErrBadConn) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch {
	case pgErr.Code == pgerrcode.UniqueViolation && pgErr.ConstraintName == store.UsersEmailIndex:
		return store.ErrDuplicateEmail

	case pgErr.Code == pgerrcode.UniqueViolation:
		return fmt.Errorf("%w: %s", store.ErrConflict, pgErr.ConstraintName)

	case pgerrcode.IsConnectionException(pgErr.Code),
		pgErr.Code == pgerrcode.AdminShutdown,
		pgErr.Code == pgerrcode.CrashShutdown,
		pgErr.Code == pgerrcode.CannotConnectNow,
		pgErr.Code == pgerrcode.TooManyConnections:
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)

	default:
		return fmt.Errorf("postgres error [%s]: %s: %w", pgErr.Code, pgErr.Message, err)
	}
}
