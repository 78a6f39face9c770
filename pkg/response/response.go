package response

import (
	"errors"
	"fmt"
)

type Error struct {
	Code int
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	var t *Error
	ok := errors.As(target, &t)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Err.Error() == t.Err.Error()
}

func NewError(code int, err string) error {
	return &Error{code, errors.New(err)}
}

// Wrap keeps the status code of kind and appends cause to its message.
func Wrap(kind error, cause interface{}) error {
	var k *Error
	if !errors.As(kind, &k) {
		return fmt.Errorf("%w: %v", kind, cause)
	}
	return &Error{Code: k.Code, Err: fmt.Errorf("%w: %v", kind, cause)}
}
