package sink

import (
	"errors"
	"fmt"
)

var (
	// ErrOpen wraps failures to open the backing database file.
	ErrOpen = errors.New("sink: open failed")

	// ErrClosed is returned by operations on a closed sink.
	ErrClosed = errors.New("sink: closed")

	// ErrRecordNotConfigured is returned by Log when the record has no table
	// name or no fields, so there is neither a table to create nor a row to
	// write.
	ErrRecordNotConfigured = errors.New("sink: record has no table name or fields")

	// ErrSchemaMismatch is returned by Log when the record's columns are not
	// present in the existing table.
	ErrSchemaMismatch = errors.New("sink: record columns do not match table")
)

// StorageError carries the engine error of a failed statement.
type StorageError struct {
	Op    string // "create", "insert", "inspect" or "checkpoint"
	Table string
	SQL   string
	Err   error
}

func (e *StorageError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("sink %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("sink %s %s: %v", e.Op, e.Table, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
