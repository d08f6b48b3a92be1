package provider

import "errors"

var (
	// ErrUnroutable is returned for identifiers the router does not know.
	ErrUnroutable = errors.New("unroutable identifier")

	// ErrUnsupported is returned for a known identifier that does not allow
	// the operation, such as inserting into an item.
	ErrUnsupported = errors.New("operation not supported for identifier")

	// ErrInsertFailed is returned when the store could not write the row.
	ErrInsertFailed = errors.New("insert failed")
)
