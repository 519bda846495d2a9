package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// PostgreSQL error codes the repositories react to.
const (
	PgErrUniqueViolation = "23505" // unique_violation
	PgErrCheckViolation  = "23514" // check_violation
)

var (
	// ErrNotFound is returned when a lookup or a targeted write hits no row.
	ErrNotFound = errors.New("repository: not found")
	// ErrDuplicate is returned when an insert collides with a unique index,
	// e.g. a second OPEN trip for the same date.
	ErrDuplicate = errors.New("repository: duplicate")
)

// translate maps driver errors onto the repository sentinels and passes any
// other error through untouched.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == PgErrUniqueViolation {
		return errors.Join(ErrDuplicate, err)
	}
	return err
}
