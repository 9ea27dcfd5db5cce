package pgsql

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// pg error code for unique constraint violations.
const uniqueViolationCode = "23505"

// isUniqueViolation reports whether err is a postgres unique constraint violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
