package core

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for comparison using errors.Is()
// These are generic errors that can be wrapped with additional context
var (
	// Resource errors
	ErrNotFound = errors.New("resource not found")
	ErrConflict = errors.New("resource conflict")

	// Cart state errors
	ErrNoCart         = errors.New("no cart available")
	ErrNotInitialized = errors.New("not initialized")

	// Principal errors
	ErrNoPrincipal = errors.New("no principal available")

	// Configuration errors
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrMissingConfiguration = errors.New("missing required configuration")

	// Form and interaction errors
	ErrValidation      = errors.New("validation failed")
	ErrCanceledByUser  = errors.New("canceled by user")
	ErrUnsupportedMode = errors.New("operation not supported in current mode")

	// HTTP/Network errors
	ErrConnectionFailed = errors.New("connection failed")
	ErrRequestFailed    = errors.New("request failed")
)

// StoreError provides structured error information with context
// It implements the error interface and supports error wrapping
type StoreError struct {
	Op      string // Operation that failed (e.g., "cart.AddToCart")
	Kind    string // Error kind (e.g., "cart", "api", "config")
	ID      string // Optional ID of the entity involved
	Message string // Human-readable message
	Err     error  // Underlying error for wrapping
}

// Error returns the string representation of the error
func (e *StoreError) Error() string {
	if e.Op != "" && e.Err != nil {
		if e.ID != "" {
			return fmt.Sprintf("%s [%s]: %v", e.Op, e.ID, e.Err)
		}
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s error", e.Kind)
}

// Unwrap returns the underlying error for use with errors.Is/As
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError
func NewStoreError(op, kind string, err error) *StoreError {
	return &StoreError{
		Op:   op,
		Kind: kind,
		Err:  err,
	}
}

// IsNotFound checks if an error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConfigurationError checks if an error is configuration-related
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrInvalidConfiguration) ||
		errors.Is(err, ErrMissingConfiguration)
}

// IsStateError checks if an error is caused by calling an operation before
// the state it depends on exists.
func IsStateError(err error) bool {
	return errors.Is(err, ErrNoCart) ||
		errors.Is(err, ErrNotInitialized) ||
		errors.Is(err, ErrNoPrincipal) ||
		errors.Is(err, ErrUnsupportedMode)
}

// IsTransportError reports whether the request never produced an HTTP response
// or produced a non-2xx one.
func IsTransportError(err error) bool {
	return errors.Is(err, ErrConnectionFailed) ||
		errors.Is(err, ErrRequestFailed) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrConflict)
}
