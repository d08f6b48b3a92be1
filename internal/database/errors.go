package database

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

var (
	// ErrStorage is matched by every *StorageError.
	ErrStorage = errors.New("storage error")

	// ErrConstraint is matched by a *StorageError caused by a NOT NULL,
	// CHECK or uniqueness violation.
	ErrConstraint = errors.New("constraint violation")

	// ErrBusy is matched by a *StorageError caused by the store being locked
	// by another process past the busy timeout.
	ErrBusy = errors.New("store is busy")

	// ErrUnsupportedVersion is returned for stores written by a newer schema.
	ErrUnsupportedVersion = errors.New("unsupported schema version")
)

// InsertFailed is the id Insert returns when the row was not written.
const InsertFailed int64 = -1

// StorageError wraps a failure of the underlying store with the operation
// that hit it.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return "storage " + e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) Is(target error) bool {
	switch target {
	case ErrStorage:
		return true
	case ErrConstraint:
		return e.code() == sqlite3.ErrConstraint
	case ErrBusy:
		code := e.code()
		return code == sqlite3.ErrBusy || code == sqlite3.ErrLocked
	}
	return false
}

// code returns the SQLite result code behind the error, or 0 when the error
// did not come from the driver.
func (e *StorageError) code() sqlite3.ErrNo {
	var se sqlite3.Error
	if errors.As(e.Err, &se) {
		return se.Code
	}
	return 0
}
