// Package errors provides error handling for the d2 client.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Sentinel errors for the client's failure taxonomy
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := doSomething(); err != nil {
//	    return errors.Wrap(err, "failed to do something")
//	}
//
//	// Check errors
//	if errors.Is(err, errors.ErrValidation) {
//	    // handle missing argument
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is        = crdb.Is
	IsAny     = crdb.IsAny
	As        = crdb.As
	Unwrap    = crdb.Unwrap
	UnwrapAll = crdb.UnwrapAll
)

// Sentinel errors for the d2 client failure taxonomy.
// Use these with errors.Is() for type-safe error checking.
// Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrValidation indicates the caller omitted a required argument.
	// Raised synchronously, before any mutation or network call.
	ErrValidation = New("validation failed")

	// ErrInvalidResponse indicates the server responded but the payload
	// shape violates the expected contract
	ErrInvalidResponse = New("invalid response")

	// ErrNoNamespaces indicates a namespace listing produced no usable
	// sequence of namespace names
	ErrNoNamespaces = New("no namespaces")

	// ErrNotImplemented indicates an abstract store operation was called
	// without a concrete specialization
	ErrNotImplemented = New("not implemented")

	// ErrIllegalState indicates an operation was invoked before the
	// receiver reached the state that operation requires
	ErrIllegalState = New("illegal state")
)

// IsValidationError checks if an error is or wraps ErrValidation
func IsValidationError(err error) bool {
	return err != nil && Is(err, ErrValidation)
}

// IsInvalidResponseError checks if an error is or wraps ErrInvalidResponse
func IsInvalidResponseError(err error) bool {
	return err != nil && Is(err, ErrInvalidResponse)
}

// IsNoNamespacesError checks if an error is or wraps ErrNoNamespaces
func IsNoNamespacesError(err error) bool {
	return err != nil && Is(err, ErrNoNamespaces)
}

// IsIllegalStateError checks if an error is or wraps ErrIllegalState
func IsIllegalStateError(err error) bool {
	return err != nil && Is(err, ErrIllegalState)
}

// NewValidationError creates a validation error with a formatted message
func NewValidationError(format string, args ...interface{}) error {
	return Wrap(ErrValidation, Newf(format, args...).Error())
}

// NewInvalidResponseError creates an invalid-response error with a formatted message
func NewInvalidResponseError(format string, args ...interface{}) error {
	return Wrap(ErrInvalidResponse, Newf(format, args...).Error())
}
