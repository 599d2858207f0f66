package cf

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrIndexOutOfRange = errors.New("cf: index out of range")
	ErrInvalidArgument = errors.New("cf: invalid argument")
)

// Error wraps errors with operation context.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("cf.%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WrapError wraps an error with operation context.
func WrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}
