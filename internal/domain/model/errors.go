package model

import (
	"errors"
	"fmt"
)

// Sentinel error kinds shared by the engine. These allow errors.Is from callers.
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrDuplicateMember = errors.New("duplicate member")
	ErrNotReady        = errors.New("engine not ready")
)

// InvalidInputError reports caller input the engine cannot work with, such as
// an undersized pool or an unknown identifier.
type InvalidInputError struct {
	Op     string
	Reason string
	Err    error
}

// Invalid builds an InvalidInputError.
func Invalid(op, reason string) *InvalidInputError {
	return &InvalidInputError{Op: op, Reason: reason}
}

// InvalidWrap builds an InvalidInputError carrying an underlying cause.
func InvalidWrap(op, reason string, err error) *InvalidInputError {
	return &InvalidInputError{Op: op, Reason: reason, Err: err}
}

func (e *InvalidInputError) Error() string {
	msg := fmt.Sprintf("%s: %s: %s", e.Op, ErrInvalidInput, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is matches ErrInvalidInput.
func (e *InvalidInputError) Is(target error) bool { return target == ErrInvalidInput }

func (e *InvalidInputError) Unwrap() error { return e.Err }

// DuplicateMemberError reports an ID present twice in one composition. It is
// a caller contract violation.
type DuplicateMemberError struct {
	ID string
}

func (e *DuplicateMemberError) Error() string {
	return fmt.Sprintf("%s: %q", ErrDuplicateMember, e.ID)
}

func (e *DuplicateMemberError) Unwrap() error { return ErrDuplicateMember }
