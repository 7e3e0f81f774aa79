package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is the request-level error type. Status drives the HTTP response
// code, Code is a stable machine-readable tag, Err carries the cause.
type Error struct {
	Status  int
	Code    string
	Message string
	Err     error

	// Details holds structured payload returned with the error body, e.g.
	// the list of missing required fields or similar duplicate records.
	Details map[string]interface{}
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	return fmt.Sprintf("api error (%d)", e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code, message string, err error) *Error {
	return &Error{Status: status, Code: code, Message: message, Err: err}
}

func Validation(message string) *Error {
	return New(http.StatusBadRequest, "validation_error", message, nil)
}

func Conflict(message string) *Error {
	return New(http.StatusConflict, "conflict", message, nil)
}

func Unprocessable(message string) *Error {
	return New(http.StatusUnprocessableEntity, "duplicate_description", message, nil)
}

func NotFound(message string) *Error {
	return New(http.StatusNotFound, "not_found", message, nil)
}

func Persistence(message string, err error) *Error {
	return New(http.StatusInternalServerError, "persistence_error", message, err)
}

func Unknown(message string, err error) *Error {
	return New(http.StatusInternalServerError, "unknown_error", message, err)
}

func (e *Error) WithDetails(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = map[string]interface{}{}
	}
	e.Details[key] = value
	return e
}

// From extracts an *Error from err, wrapping unexpected errors as Unknown.
func From(err error, fallbackMessage string) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Unknown(fallbackMessage, err)
}
