package profiles

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

// ErrDuplicateUsername is returned when a profile with the same username already exists.
var ErrDuplicateUsername = errors.New("username already exists")

// ErrInvalidCandidate is returned when a candidate cannot be turned into a profile row.
var ErrInvalidCandidate = errors.New("invalid profile candidate")

// DuplicateUsernameError names the username that caused a rejected submission.
// It matches ErrDuplicateUsername with errors.Is.
type DuplicateUsernameError struct {
	Username string
}

func (e *DuplicateUsernameError) Error() string {
	return fmt.Sprintf("%s: %q", ErrDuplicateUsername, e.Username)
}

func (e *DuplicateUsernameError) Is(target error) bool {
	return target == ErrDuplicateUsername
}

const (
	pgUniqueViolation = "23505"
	usernameColumn    = "username"
)

// isUsernameConflict reports whether err is a unique-constraint violation on
// profiles.username. Violations of any other constraint are left unclassified.
func isUsernameConflict(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation && strings.Contains(pgErr.ConstraintName, usernameColumn)
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique &&
			strings.Contains(sqliteErr.Error(), "profiles."+usernameColumn)
	}

	// Other SQLite drivers only expose the message.
	return strings.Contains(err.Error(), "UNIQUE constraint failed: profiles."+usernameColumn)
}
