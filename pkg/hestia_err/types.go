// pkg/hestia_err/types.go

package hestia_err

import "errors"

// ErrInputMismatch is reported when a confirmed entry does not match the first entry.
var ErrInputMismatch = errors.New("entries do not match, please try again")

// ErrCancelled is returned when the operator declines to proceed.
var ErrCancelled = &UserError{cause: errors.New("installation cancelled by operator")}

// UserError marks an error as expected and recoverable by the user.
type UserError struct {
	cause error
}

func (e *UserError) Error() string {
	return e.cause.Error()
}

func (e *UserError) Unwrap() error {
	return e.cause
}
