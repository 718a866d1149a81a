// Package apperr defines the business-rule error taxonomy for the API.
// Every expected failure carries a machine-readable code, the HTTP status
// it maps to, and a human-readable message. Handlers serialize these
// uniformly as {"errorCode": ..., "message": ...}.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is the single tagged error type raised for business-rule failures.
type Error struct {
	Code    string
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches errors by code, so a wrapped or re-messaged copy still
// matches its sentinel under errors.Is.
func (e *Error) Is(target error) bool {
	var appErr *Error
	if !errors.As(target, &appErr) {
		return false
	}
	return e.Code == appErr.Code
}

// Wrap returns a copy of the error carrying the underlying cause.
func (e *Error) Wrap(err error) *Error {
	clone := *e
	clone.Err = err
	return &clone
}

// WithMessage returns a copy of the error with a different human message.
// The code and status are preserved.
func (e *Error) WithMessage(message string) *Error {
	clone := *e
	clone.Message = message
	return &clone
}

// From extracts an *Error from err's chain.
func From(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

var (
	ErrUserNotFound                = New("USER_NOT_FOUND", http.StatusNotFound, "user not found")
	ErrInvalidPassword             = New("INVALID_PASSWORD", http.StatusUnauthorized, "password does not match")
	ErrEmailAlreadyExists          = New("EMAIL_ALREADY_EXISTS", http.StatusConflict, "email is already in use")
	ErrInvalidPasswordConfirmation = New("INVALID_PASSWORD_CONFIRMATION", http.StatusBadRequest, "password confirmation does not match")
	ErrUnauthorized                = New("UNAUTHORIZED", http.StatusUnauthorized, "login required")
	ErrInvalidRequest              = New("INVALID_REQUEST", http.StatusBadRequest, "request is not valid")
	ErrUserAlreadyDeleted          = New("USER_ALREADY_DELETED", http.StatusBadRequest, "account has already been deleted")
	ErrInvalidToken                = New("INVALID_TOKEN", http.StatusBadRequest, "token is not valid")
	ErrTokenExpired                = New("TOKEN_EXPIRED", http.StatusGone, "token has expired")
	ErrStore                       = New("STORE_ERROR", http.StatusInternalServerError, "backing store unavailable")
)
