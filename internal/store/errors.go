package store

import (
	"errors"
	"fmt"
)

// PersistenceError wraps a failed read or write against the backing store.
// Callers get it back unretried; the surface layer decides what to do.
type PersistenceError struct {
	Op   string // "read", "write", "subscribe"
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("store %s %q: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// NewPersistenceError builds a PersistenceError for the given operation.
func NewPersistenceError(op, path string, err error) error {
	return &PersistenceError{Op: op, Path: path, Err: err}
}

// IsPersistenceError reports whether err is (or wraps) a PersistenceError.
func IsPersistenceError(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
