package store

import (
	"errors"
	"fmt"
)

// Predefined store errors
var (
	// ErrNotFound means the resource does not exist
	ErrNotFound = errors.New("resource not found")
	// ErrAlreadyExists means the resource already exists
	ErrAlreadyExists = errors.New("resource already exists")
	// ErrInvalidInput means the request was malformed or out of range
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnauthorized means the caller is not authenticated
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInternal is an internal failure
	ErrInternal = errors.New("internal error")
)

// StoreError carries a response code alongside the wrapped sentinel
type StoreError struct {
	Code    string
	Message string
	Err     error
}

func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// UserMessage returns the user-facing message without internal detail
func (e *StoreError) UserMessage() string {
	return e.Message
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a resource-not-found error
func NewNotFoundError(resourceType, id string) error {
	return &StoreError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s '%s' not found", resourceType, id),
		Err:     ErrNotFound,
	}
}

// NewAlreadyExistsError creates a resource-exists error
func NewAlreadyExistsError(resourceType, id string) error {
	return &StoreError{
		Code:    "ALREADY_EXISTS",
		Message: fmt.Sprintf("%s '%s' already exists", resourceType, id),
		Err:     ErrAlreadyExists,
	}
}

// NewInvalidInputError creates an invalid-input error
func NewInvalidInputError(message string) error {
	return &StoreError{
		Code:    "INVALID_INPUT",
		Message: message,
		Err:     ErrInvalidInput,
	}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError(message string) error {
	return &StoreError{
		Code:    "UNAUTHORIZED",
		Message: message,
		Err:     ErrUnauthorized,
	}
}

// IsNotFound reports whether err is a not-found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists reports whether err is an already-exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsInvalidInput reports whether err is an invalid-input error
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
