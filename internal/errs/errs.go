package errs

import (
	"errors"
	"fmt"
)

var (
	ErrUnexpectedType    = errors.New("unexpected type")    // Static error for unexpected payload shapes.
	ErrUnsupportedDriver = errors.New("unsupported database driver")
	ErrIncompletePayload = errors.New("incomplete payload") // Static error for payloads missing required keys.
)

// WrapUnexpectedType wraps the error for unexpected type.
func WrapUnexpectedType(expected string, actual interface{}) error {
	return fmt.Errorf("%w: expected %s, got %T", ErrUnexpectedType, expected, actual)
}

// WrapIncompletePayload wraps the error for a payload missing required keys.
func WrapIncompletePayload(entity string, keys ...string) error {
	return fmt.Errorf("%w: %s requires %v", ErrIncompletePayload, entity, keys)
}
