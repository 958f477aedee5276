// Package apperror defines the typed outcomes returned by services. Every
// expected failure carries a stable Code; unexpected ones are wrapped as
// INTERNAL so their cause can be logged without reaching the client.
package apperror

import (
	"errors"
	"fmt"
)

type Code string

const (
	CodeNotFound          Code = "NOT_FOUND"
	CodeForbidden         Code = "FORBIDDEN"
	CodeUnauthorized      Code = "UNAUTHORIZED"
	CodeInvalidState      Code = "INVALID_STATE"
	CodeConflict          Code = "CONFLICT"
	CodeEditWindowExpired Code = "EDIT_WINDOW_EXPIRED"
	CodeValidation        Code = "VALIDATION_ERROR"
	CodeInternal          Code = "INTERNAL"
)

type AppError struct {
	Code    Code
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches any *AppError with the same Code, so callers can write
// errors.Is(err, apperror.ErrNotFound).
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

var (
	ErrNotFound          = &AppError{Code: CodeNotFound, Message: "resource not found"}
	ErrForbidden         = &AppError{Code: CodeForbidden, Message: "access denied"}
	ErrUnauthorized      = &AppError{Code: CodeUnauthorized, Message: "authentication required"}
	ErrInvalidState      = &AppError{Code: CodeInvalidState, Message: "operation not allowed in current state"}
	ErrConflict          = &AppError{Code: CodeConflict, Message: "resource already exists"}
	ErrEditWindowExpired = &AppError{Code: CodeEditWindowExpired, Message: "edit window has expired"}
	ErrValidation        = &AppError{Code: CodeValidation, Message: "invalid input"}
)

func NotFound(format string, args ...interface{}) *AppError {
	return &AppError{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...interface{}) *AppError {
	return &AppError{Code: CodeForbidden, Message: fmt.Sprintf(format, args...)}
}

func Unauthorized(format string, args ...interface{}) *AppError {
	return &AppError{Code: CodeUnauthorized, Message: fmt.Sprintf(format, args...)}
}

func InvalidState(format string, args ...interface{}) *AppError {
	return &AppError{Code: CodeInvalidState, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...interface{}) *AppError {
	return &AppError{Code: CodeConflict, Message: fmt.Sprintf(format, args...)}
}

func EditWindowExpired(format string, args ...interface{}) *AppError {
	return &AppError{Code: CodeEditWindowExpired, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...interface{}) *AppError {
	return &AppError{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// Internal wraps an unexpected failure. An *AppError passed in is returned
// unchanged so expected outcomes are never downgraded.
func Internal(err error) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return err
	}
	return &AppError{Code: CodeInternal, Message: "internal error", Err: err}
}

// CodeOf returns the code carried by err, INTERNAL for foreign errors.
func CodeOf(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}
