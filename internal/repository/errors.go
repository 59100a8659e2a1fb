package repository

import (
	"errors"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrNotFound is returned when a row addressed by id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConstraint is returned when a write violates a schema constraint,
	// such as a dangling parent reference or a restricted delete.
	ErrConstraint = errors.New("constraint violation")
)

// ConstraintError wraps a driver error that violated a constraint. It
// matches ErrConstraint under errors.Is and keeps the driver message.
type ConstraintError struct {
	Err error
}

func (e *ConstraintError) Error() string { return "constraint violation: " + e.Err.Error() }

func (e *ConstraintError) Unwrap() error { return e.Err }

func (e *ConstraintError) Is(target error) bool { return target == ErrConstraint }

// classify maps SQLite constraint failures onto ErrConstraint and passes
// every other error through unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		if se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
			return &ConstraintError{Err: err}
		}
		return err
	}
	if strings.Contains(err.Error(), "constraint failed") {
		return &ConstraintError{Err: err}
	}
	return err
}
