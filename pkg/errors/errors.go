// Package errors provides coded errors for the mlviz CLI and dashboard
// server.
//
// The diagram engine never returns errors on the interaction path: unknown
// archetypes, missing transforms and stray pointer events recover silently.
// The codes here describe the outer surfaces (configuration, catalogue
// loading, export formats and API requests) and carry the HTTP status the
// server answers with.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "duplicate method id: %s", id)
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // reject the catalogue
//	}
//
//	err = errors.Wrap(errors.ErrCodeInternal, cause, "load catalogue from %s", path)
//	code, msg := errors.Describe(err) // for API responses
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a machine-readable error category.
type Code string

const (
	ErrCodeInvalidInput  Code = "INVALID_INPUT"  // bad request data or arguments
	ErrCodeInvalidFormat Code = "INVALID_FORMAT" // unknown export or output format
	ErrCodeInvalidConfig Code = "INVALID_CONFIG" // unreadable or inconsistent config
	ErrCodeNotFound      Code = "NOT_FOUND"      // unknown method, diagram key or file
	ErrCodeInternal      Code = "INTERNAL_ERROR"
)

var statuses = map[Code]int{
	ErrCodeInvalidInput:  http.StatusBadRequest,
	ErrCodeInvalidFormat: http.StatusBadRequest,
	ErrCodeInvalidConfig: http.StatusInternalServerError,
	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeInternal:      http.StatusInternalServerError,
}

// Status returns the HTTP status for c. Unknown codes map to 500.
func (c Code) Status() int {
	if s, ok := statuses[c]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return Wrap(code, nil, format, args...)
}

// Wrap returns an Error with a formatted message around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	if e := find(err); e != nil {
		return e.Code
	}
	return ""
}

// Describe returns the code and the user-facing message for err. Errors
// without a code are reported as internal with their full text.
func Describe(err error) (Code, string) {
	if e := find(err); e != nil {
		return e.Code, e.Message
	}
	return ErrCodeInternal, err.Error()
}

func find(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}
