package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrNotFound is returned when a query or mutation matches no rows.
	ErrNotFound = errors.New("storage: record not found")

	// ErrDuplicate is returned on unique constraint violations.
	ErrDuplicate = errors.New("storage: duplicate record")
)

// uniqueViolation is the SQLSTATE postgres reports for unique constraints.
const uniqueViolation = "23505"

// Error keeps the driver error behind one of the package sentinels.
type Error struct {
	Sentinel error
	Cause    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: %v", e.Sentinel, e.Cause)
}

func (e *Error) Is(target error) bool { return target == e.Sentinel }

func (e *Error) Unwrap() error { return e.Cause }

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return &Error{Sentinel: ErrNotFound, Cause: err}
	}
	if isUniqueViolation(err) {
		return &Error{Sentinel: ErrDuplicate, Cause: err}
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT &&
			strings.Contains(liteErr.Error(), "UNIQUE")
	}
	return false
}
