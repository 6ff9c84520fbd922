package persistence

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolationCode is PostgreSQL's unique_violation SQLSTATE.
const uniqueViolationCode = "23505"

// isUniqueViolation reports whether the error is a unique-constraint
// violation from either driver. Registration relies on this: the duplicate
// check in the auth service is check-then-act, so a concurrent registration
// of the same email surfaces here rather than in FindByEmail.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolationCode
	}

	// modernc.org/sqlite reports constraint errors only through the message,
	// e.g. "constraint failed: UNIQUE constraint failed: users.email (2067)".
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
