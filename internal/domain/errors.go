package domain

import (
	"errors"
	"fmt"
)

// ErrorCode classifies an expected, caller-facing failure.
type ErrorCode string

const (
	ErrCodeNotFound          ErrorCode = "NOT_FOUND"
	ErrCodeForbidden         ErrorCode = "FORBIDDEN"
	ErrCodeConflict          ErrorCode = "CONFLICT"
	ErrCodeInvalidState      ErrorCode = "INVALID_STATE"
	ErrCodeValidation        ErrorCode = "VALIDATION"
	ErrCodeInsufficientFunds ErrorCode = "INSUFFICIENT_FUNDS"
)

// Error is the typed failure returned by every service operation. These are
// expected conditions and must reach the caller as-is, never swallowed.
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func (e *Error) Error() string { return e.Message }

func NewNotFoundError(resource string) *Error {
	return &Error{Code: ErrCodeNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

func NewForbiddenError(message string) *Error {
	return &Error{Code: ErrCodeForbidden, Message: message}
}

func NewConflictError(message string) *Error {
	return &Error{Code: ErrCodeConflict, Message: message}
}

func NewInvalidStateError(message string) *Error {
	return &Error{Code: ErrCodeInvalidState, Message: message}
}

func NewValidationError(message string) *Error {
	return &Error{Code: ErrCodeValidation, Message: message}
}

func NewInsufficientFundsError(message string) *Error {
	return &Error{Code: ErrCodeInsufficientFunds, Message: message}
}

// CodeOf returns the ErrorCode carried by err, or "" for untyped errors.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}
