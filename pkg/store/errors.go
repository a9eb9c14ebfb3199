package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the record does not exist for this owner.
	ErrNotFound = errors.New("store: record not found")

	// ErrNoSession means an operation needed a signed-in owner and had
	// none. The caller gates on the session, not the store.
	ErrNoSession = errors.New("store: no signed-in session")
)

// ValidationError rejects a write before it reaches disk.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("store: invalid %s", e.Field)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// RemoteError wraps a failure of the underlying storage. The operation
// names which store call failed.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

func remoteErr(op string, err error) error {
	return &RemoteError{Op: op, Err: err}
}
