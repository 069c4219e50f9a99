package main

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures so handlers can pick a response at the
// request boundary.
type ErrorKind string

const (
	KindValidation         ErrorKind = "ValidationError"
	KindDuplicateUser      ErrorKind = "DuplicateUser"
	KindInvalidCredentials ErrorKind = "InvalidCredentials"
	KindUnauthenticated    ErrorKind = "Unauthenticated"
	KindUnauthorized       ErrorKind = "Unauthorized"
	KindNotFound           ErrorKind = "NotFound"
	KindInternal           ErrorKind = "Internal"
)

// AppError is the error type returned by every store operation
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func newAppError(kind ErrorKind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

func wrapAppError(kind ErrorKind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

func validationError(format string, args ...any) *AppError {
	return newAppError(KindValidation, fmt.Sprintf(format, args...))
}

func internalError(message string, err error) *AppError {
	return wrapAppError(KindInternal, message, err)
}

// IsKind reports whether err is an AppError of the given kind
func IsKind(err error, kind ErrorKind) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

// userMessage returns the text that is safe to show to a visitor. Internal
// causes are never exposed.
func userMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Kind != KindInternal {
		return appErr.Message
	}
	return "Something went wrong, please try again"
}
