// Package common defines the error taxonomy and small helpers shared by the
// domain model, repositories and services. Callers should use errors.Is to
// match the sentinel values and errors.As to reach *FieldError.
package common

import (
	"errors"
	"fmt"
)

var (
	// Domain errors.
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrValidation        = errors.New("validation error")
	ErrOwnershipMismatch = errors.New("ownership mismatch")
	ErrInvalidOperation  = errors.New("invalid operation")

	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrEmailTaken     = errors.New("email already registered")
	ErrSessionExpired = errors.New("session expired")
	ErrInvalidToken   = errors.New("invalid token")
)

// FieldError ties one of the domain sentinels to the input that caused it.
type FieldError struct {
	Kind   error
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%v: %s: %s", e.Kind, e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error {
	return e.Kind
}

// NewValidationError reports a violated invariant on field.
func NewValidationError(field, reason string) error {
	return &FieldError{Kind: ErrValidation, Field: field, Reason: reason}
}

// NewInvalidArgumentError reports a blank or out-of-range input.
func NewInvalidArgumentError(field, reason string) error {
	return &FieldError{Kind: ErrInvalidArgument, Field: field, Reason: reason}
}

// NewOwnershipError reports a child attached to the wrong parent.
func NewOwnershipError(field, reason string) error {
	return &FieldError{Kind: ErrOwnershipMismatch, Field: field, Reason: reason}
}

// NewInvalidOperationError reports a state-dependent rule violation.
func NewInvalidOperationError(field, reason string) error {
	return &FieldError{Kind: ErrInvalidOperation, Field: field, Reason: reason}
}
