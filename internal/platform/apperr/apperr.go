// Package apperr defines the error taxonomy shared by all services. Handlers
// never build HTTP errors themselves; services return *Error values and the
// web error handler renders them into the response envelope.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// FieldError describes a single invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a domain error carrying the HTTP status it should render as.
type Error struct {
	Status  int
	Message string
	Fields  []FieldError
}

func (e *Error) Error() string { return e.Message }

// New creates an Error with an explicit status code.
func New(status int, format string, args ...interface{}) *Error {
	return &Error{Status: status, Message: fmt.Sprintf(format, args...)}
}

// Validation reports malformed input, caught before service logic runs.
func Validation(fields ...FieldError) *Error {
	return &Error{Status: http.StatusBadRequest, Message: "Validation failed", Fields: fields}
}

// NotFound reports an absent referenced entity, named by type.
func NotFound(entity string) *Error {
	return &Error{Status: http.StatusNotFound, Message: entity + " not found"}
}

// Conflict reports a uniqueness violation or a deletion blocked by dependents.
func Conflict(format string, args ...interface{}) *Error {
	return New(http.StatusConflict, format, args...)
}

// State reports a status-transition or draft-only-mutation violation.
func State(format string, args ...interface{}) *Error {
	return New(http.StatusBadRequest, format, args...)
}

// Unauthorized reports an authentication failure.
func Unauthorized(format string, args ...interface{}) *Error {
	return New(http.StatusUnauthorized, format, args...)
}

// Forbidden reports an authorization failure.
func Forbidden(format string, args ...interface{}) *Error {
	return New(http.StatusForbidden, format, args...)
}

// Internal reports an unexpected failure.
func Internal(format string, args ...interface{}) *Error {
	return New(http.StatusInternalServerError, format, args...)
}

// From returns err as an *Error, wrapping unknown errors as Internal.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Internal("%s", err.Error())
}

// IsStatus reports whether err is an *Error with the given status.
func IsStatus(err error, status int) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Status == status
}
