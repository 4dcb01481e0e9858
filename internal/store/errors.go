package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors mapped to 400 conflict responses by the handlers. The database
// unique indexes are the source of truth; stores translate the PostgreSQL
// unique violation into these values so concurrent writers cannot race
// past an application-level existence check.
var (
	ErrDuplicateSlug  = errors.New("slug already exists")
	ErrDuplicateEmail = errors.New("email already exists")
)

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
