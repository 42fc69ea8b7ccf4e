package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeInvalid      ErrorCode = "INVALID"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeInternal     ErrorCode = "INTERNAL"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Invalid is a shorthand for validation failures raised at the handler boundary.
func Invalid(message string) *Error {
	return NewError(ErrCodeInvalid, message)
}

// Common domain errors.
var (
	ErrUserNotFound         = NewError(ErrCodeNotFound, "user not found")
	ErrTaskNotFound         = NewError(ErrCodeNotFound, "task not found")
	ErrTagNotFound          = NewError(ErrCodeNotFound, "tag not found")
	ErrCommentNotFound      = NewError(ErrCodeNotFound, "comment not found")
	ErrEmailTaken           = NewError(ErrCodeConflict, "email is already registered")
	ErrTagAlreadyLinked     = NewError(ErrCodeConflict, "tag is already attached to task")
	ErrTagExists            = NewError(ErrCodeConflict, "tag name already exists")
	ErrInvalidCredentials   = NewError(ErrCodeUnauthorized, "email or password incorrect")
	ErrUnauthorized         = NewError(ErrCodeUnauthorized, "unauthorized")
	ErrNotCommentAuthor     = NewError(ErrCodeForbidden, "only the author can modify this comment")
	ErrInvalidPayload       = NewError(ErrCodeInvalid, "invalid payload")
	ErrWrongCurrentPassword = NewError(ErrCodeInvalid, "current password is incorrect")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}

// CodeOf returns the classification of err, defaulting to ErrCodeInternal.
func CodeOf(err error) ErrorCode {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code
	}
	return ErrCodeInternal
}
