package board

import (
	"errors"
	"fmt"
)

// ErrNotFound signals a team/member lookup miss. The surface layer turns it
// into a redirect, never a user-facing error.
var ErrNotFound = errors.New("not found")

// ErrNotLoaded signals that the mirror has not received its first snapshot
// yet, so mutations have no base state to work from.
var ErrNotLoaded = errors.New("board state not loaded")

// ValidationError rejects bad input before any store interaction is
// attempted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
