// Package apperror defines the error taxonomy shared by all usecases.
// Handlers map these sentinels to HTTP status codes in pkg/response.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInternal     = errors.New("internal error")
)

type AppError struct {
	Err     error  // taxonomy sentinel
	Message string // human-readable message, safe to return to clients
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

func Unauthorized(message string) *AppError {
	return &AppError{Err: ErrUnauthorized, Message: message}
}

func NotFound(message string) *AppError {
	return &AppError{Err: ErrNotFound, Message: message}
}

func Conflict(message string) *AppError {
	return &AppError{Err: ErrConflict, Message: message}
}

// Internal wraps an infrastructure failure. The underlying error is kept for
// logging but never rendered to clients.
func Internal(message string, cause error) *AppError {
	if cause != nil {
		return &AppError{Err: fmt.Errorf("%w: %w", ErrInternal, cause), Message: message}
	}
	return &AppError{Err: ErrInternal, Message: message}
}
