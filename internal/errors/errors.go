// Package errors provides standardized domain errors with codes for the SceneTune API.
//
// Usage:
//
//	// In services - return typed errors
//	if !found {
//	    return errors.GenreNotFoundf("unknown genre %q", genre)
//	}
//
//	// In handlers - check with errors.Is
//	if errors.Is(err, errors.ErrGenreNotFound) {
//	    ...
//	}
//
//	// Or use the Code directly for switch statements
//	var domainErr *errors.Error
//	if errors.As(err, &domainErr) {
//	    switch domainErr.Code {
//	    case errors.CodeGenreNotFound:
//	        ...
//	    }
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
)

// Code represents a machine-readable error code.
type Code string

// Error codes used throughout the application.
const (
	CodeGenreNotFound             Code = "GENRE_NOT_FOUND"
	CodeSceneNotFound             Code = "SCENE_NOT_FOUND"
	CodeRecommendationUnavailable Code = "RECOMMENDATION_UNAVAILABLE"
	CodeValidation                Code = "VALIDATION"
	CodeInternal                  Code = "INTERNAL"
)

// HTTPStatus returns the appropriate HTTP status code for an error code.
// Not-found conditions map to 404, a broken recommendation pipeline to 503,
// so the transport layer never has to inspect error messages.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeGenreNotFound, CodeSceneNotFound:
		return http.StatusNotFound
	case CodeRecommendationUnavailable:
		return http.StatusServiceUnavailable
	case CodeValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain error with a code, message, and optional details.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error  // unexported, for wrapping
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target matches this error.
// Matches if target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// HTTPStatus returns the HTTP status code for this error.
func (e *Error) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// WithDetails returns a new error with additional details.
func (e *Error) WithDetails(details any) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		cause:   e.cause,
	}
}

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		cause:   err,
	}
}

// Sentinel errors for use with errors.Is().
var (
	ErrGenreNotFound             = &Error{Code: CodeGenreNotFound, Message: "genre not found"}
	ErrSceneNotFound             = &Error{Code: CodeSceneNotFound, Message: "scene not found"}
	ErrRecommendationUnavailable = &Error{Code: CodeRecommendationUnavailable, Message: "recommendation unavailable"}
	ErrValidation                = &Error{Code: CodeValidation, Message: "validation error"}
	ErrInternal                  = &Error{Code: CodeInternal, Message: "internal error"}
)

// Constructor functions for creating errors with custom messages.

// GenreNotFound creates a genre not found error.
func GenreNotFound(msg string) *Error {
	return &Error{Code: CodeGenreNotFound, Message: msg}
}

// GenreNotFoundf creates a genre not found error with formatted message.
func GenreNotFoundf(format string, args ...any) *Error {
	return &Error{Code: CodeGenreNotFound, Message: fmt.Sprintf(format, args...)}
}

// SceneNotFound creates a scene not found error.
func SceneNotFound(msg string) *Error {
	return &Error{Code: CodeSceneNotFound, Message: msg}
}

// SceneNotFoundf creates a scene not found error with formatted message.
func SceneNotFoundf(format string, args ...any) *Error {
	return &Error{Code: CodeSceneNotFound, Message: fmt.Sprintf(format, args...)}
}

// RecommendationUnavailable creates a recommendation unavailable error.
func RecommendationUnavailable(msg string) *Error {
	return &Error{Code: CodeRecommendationUnavailable, Message: msg}
}

// RecommendationUnavailablef creates a recommendation unavailable error with formatted message.
func RecommendationUnavailablef(format string, args ...any) *Error {
	return &Error{Code: CodeRecommendationUnavailable, Message: fmt.Sprintf(format, args...)}
}

// Validation creates a validation error.
func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// Validationf creates a validation error with formatted message.
func Validationf(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// ValidationWithDetails creates a validation error with details.
func ValidationWithDetails(msg string, details any) *Error {
	return &Error{Code: CodeValidation, Message: msg, Details: details}
}

// Internal creates an internal error.
func Internal(msg string) *Error {
	return &Error{Code: CodeInternal, Message: msg}
}

// Internalf creates an internal error with formatted message.
func Internalf(format string, args ...any) *Error {
	return &Error{Code: CodeInternal, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with a code and message.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, cause: err}
}

// Wrapf wraps an error with a code and formatted message.
func Wrapf(err error, code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), cause: err}
}
