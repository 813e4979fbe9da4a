package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrDuplicate signals a unique-constraint conflict on insert.
	ErrDuplicate = errors.New("duplicate row")
	// ErrNotPending signals that a guarded status transition matched no
	// pending row, either because the request is terminal or missing.
	ErrNotPending = errors.New("request is not pending")
)

// isUniqueViolation reports whether err is a Postgres unique_violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
