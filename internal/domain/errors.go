package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds. Every *Error matches exactly one of these with errors.Is.
var (
	// ErrValidation is the kind of errors caused by input that breaks a business rule.
	ErrValidation = errors.New("validation failed")

	// ErrAuthentication is the kind of errors caused by missing or invalid credentials.
	ErrAuthentication = errors.New("authentication failed")

	// ErrAuthorization is the kind of errors raised when the caller may not perform an operation.
	ErrAuthorization = errors.New("unauthorized operation")

	// ErrNotFound is the kind of errors raised when a resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrInternal is the kind of unexpected failures.
	ErrInternal = errors.New("internal error")
)

// Machine-readable error codes.
const (
	CodeValidation     = "VALIDATION_ERROR"
	CodeAuthentication = "AUTHENTICATION_ERROR"
	CodeAuthorization  = "AUTHORIZATION_ERROR"
	CodeNotFound       = "RESOURCE_NOT_FOUND"
	CodeInternal       = "INTERNAL_SERVER_ERROR"
)

type kindInfo struct {
	code   string
	status int
}

var kinds = map[error]kindInfo{
	ErrValidation:     {CodeValidation, http.StatusBadRequest},
	ErrAuthentication: {CodeAuthentication, http.StatusUnauthorized},
	ErrAuthorization:  {CodeAuthorization, http.StatusForbidden},
	ErrNotFound:       {CodeNotFound, http.StatusNotFound},
	ErrInternal:       {CodeInternal, http.StatusInternalServerError},
}

// ErrorDetail is the client-facing description of an application error.
type ErrorDetail struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Error is an application error of a known kind carrying a client-facing detail
// and an optional underlying cause.
type Error struct {
	Kind   error
	Detail ErrorDetail
	Cause  error
}

func newError(kind error, message string, details map[string]any) *Error {
	return &Error{
		Kind: kind,
		Detail: ErrorDetail{
			Code:    kinds[kind].code,
			Message: message,
			Details: details,
		},
	}
}

// NewValidationError creates an error that maps to 400 Bad Request.
func NewValidationError(message string, details map[string]any) *Error {
	return newError(ErrValidation, message, details)
}

// NewAuthenticationError creates an error that maps to 401 Unauthorized.
func NewAuthenticationError(message string, details map[string]any) *Error {
	return newError(ErrAuthentication, message, details)
}

// NewAuthorizationError creates an error that maps to 403 Forbidden.
func NewAuthorizationError(message string, details map[string]any) *Error {
	return newError(ErrAuthorization, message, details)
}

// NewNotFoundError creates an error that maps to 404 Not Found.
func NewNotFoundError(message string, details map[string]any) *Error {
	return newError(ErrNotFound, message, details)
}

// NewInternalError creates an error that maps to 500 Internal Server Error.
func NewInternalError(message string, details map[string]any) *Error {
	return newError(ErrInternal, message, details)
}

// WithCause records the underlying error and returns e.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Detail.Code, e.Detail.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Detail.Code, e.Detail.Message)
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

// StatusCode returns the HTTP status code of the error's kind.
func (e *Error) StatusCode() int {
	if info, ok := kinds[e.Kind]; ok {
		return info.status
	}
	return http.StatusInternalServerError
}
