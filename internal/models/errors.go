package models

import (
	"errors"
	"fmt"
)

// Error codes covering the three failure classes the console handles:
// transport failures, server-reported errors, and client-side
// validation failures. All of them surface as a message in the active
// view; none are retried automatically and none are fatal.
const (
	CodeTransport    = "TRANSPORT_ERROR"
	CodeServer       = "SERVER_ERROR"
	CodeValidation   = "VALIDATION_ERROR"
	CodeNotFound     = "NOT_FOUND"
	CodeUnauthorized = "UNAUTHORIZED"
)

// AppError is the application error type carrying a stable code, a
// user-presentable message, and an optional wrapped cause.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewTransportError wraps a network-level failure reaching the backend.
func NewTransportError(err error) *AppError {
	return &AppError{
		Code:    CodeTransport,
		Message: "Could not reach the server",
		Err:     err,
	}
}

// NewServerError wraps an error message reported by the backend.
func NewServerError(message string) *AppError {
	return &AppError{
		Code:    CodeServer,
		Message: message,
	}
}

// NewValidationError reports a client-side pre-submission failure.
func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

// NewNotFoundError reports a missing resource.
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

// NewUnauthorizedError reports a rejected or missing credential.
func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
	}
}

// ErrorCode extracts the AppError code from err, or CodeTransport for
// anything that is not an AppError (unexpected failures are treated
// like the network being gone).
func ErrorCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeTransport
}

// UserMessage extracts the user-presentable message from err.
func UserMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
