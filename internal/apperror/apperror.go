// Package apperror defines the error taxonomy shared by all services.
// Repositories return their own sentinels; services translate them into one
// of these kinds, and the HTTP layer maps each kind to a status code in a
// single place.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrConflict   = errors.New("conflict")
	ErrStore      = errors.New("store error")
)

type AppError struct {
	Err     error  // error kind, matched with errors.Is
	Message string // human-readable message
	Field   string // optional: field causing a validation error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func Validation(field, message string) *AppError {
	return &AppError{Err: ErrValidation, Message: message, Field: field}
}

// NotFound covers both "absent" and "owned by someone else" — callers must
// not be able to tell the two apart.
func NotFound(resource string) *AppError {
	return &AppError{Err: ErrNotFound, Message: resource + " not found"}
}

func Forbidden(message string) *AppError {
	return &AppError{Err: ErrForbidden, Message: message}
}

func Conflict(message string) *AppError {
	return &AppError{Err: ErrConflict, Message: message}
}

// Store wraps an underlying persistence failure. The original error stays
// reachable through the chain for logging; the message is safe for clients.
func Store(err error) *AppError {
	return &AppError{Err: fmt.Errorf("%w: %w", ErrStore, err), Message: "storage failure"}
}
