package service

import (
	"errors"
	"fmt"
)

// Error kinds returned by the services. Handlers map them to status codes
// with errors.Is, the message is safe to show to clients.
var (
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
	ErrAuth       = errors.New("authentication failed")
	ErrNotFound   = errors.New("not found")
)

type serviceError struct {
	kind error
	msg  string
}

func (e *serviceError) Error() string { return e.msg }
func (e *serviceError) Unwrap() error { return e.kind }

func newError(kind error, format string, args ...any) error {
	return &serviceError{kind: kind, msg: fmt.Sprintf(format, args...)}
}

func validationError(format string, args ...any) error {
	return newError(ErrValidation, format, args...)
}

// Message returns the client facing message of a service error, or an
// empty string when err did not come from a service.
func Message(err error) string {
	var se *serviceError
	if errors.As(err, &se) {
		return se.msg
	}

	return ""
}
