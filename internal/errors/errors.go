// Package errors classifies failures from the ticketing backend into
// application error codes the UI knows how to present.
package errors

import (
	"errors"
)

// Code is the category of an AppError.
type Code string

const (
	CodeNotFound   Code = "not_found"
	CodeConflict   Code = "conflict" // duplicate value, e.g. a registered email
	CodeValidation Code = "validation"
	CodeTimeout    Code = "timeout"
	CodeCanceled   Code = "canceled" // the browser went away
)

// AppError carries a message safe to show in the console. Field names the
// form field it belongs to, if any.
type AppError struct {
	Code    Code
	Message string
	Field   string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *AppError) Unwrap() error { return e.Cause }

// Wrap classifies err. A nil err stays nil.
func Wrap(err error, code Code, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

// As returns the first AppError in err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// CodeOf returns err's code, or "" when err is unclassified.
func CodeOf(err error) Code {
	if appErr, ok := As(err); ok {
		return appErr.Code
	}
	return ""
}

// FieldOf returns the form field err belongs to, or "".
func FieldOf(err error) string {
	if appErr, ok := As(err); ok {
		return appErr.Field
	}
	return ""
}

// IsNotFound reports whether err is classified as not found.
func IsNotFound(err error) bool { return CodeOf(err) == CodeNotFound }

// IsConflict reports whether err is classified as a conflict.
func IsConflict(err error) bool { return CodeOf(err) == CodeConflict }
