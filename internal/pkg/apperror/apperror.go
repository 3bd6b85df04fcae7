package apperror

import (
	"fmt"
	"net/http"
)

// Kind classifies gateway failures. Every error that reaches the HTTP
// boundary belongs to exactly one kind.
type Kind int

const (
	// KindValidation means a local input check failed before any upstream call.
	KindValidation Kind = iota
	// KindUpstream means the upstream answered with a non-2xx status.
	KindUpstream
	// KindUnavailable means the upstream could not be reached at all.
	KindUnavailable
	// KindInternal covers anything else that went wrong while handling.
	KindInternal
)

// AppError carries an HTTP status code and a detail payload for the response body.
type AppError struct {
	Kind   Kind
	Code   int // HTTP status code sent to the client
	Detail any // string, or the upstream-provided structured detail
	Err    error
}

func (e *AppError) Error() string {
	if s, ok := e.Detail.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", e.Detail)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Validation creates a 400 error for a failed local input check.
func Validation(format string, args ...any) *AppError {
	return &AppError{
		Kind:   KindValidation,
		Code:   http.StatusBadRequest,
		Detail: fmt.Sprintf(format, args...),
	}
}

// Upstream creates an error that passes the upstream status and detail through.
func Upstream(code int, detail any) *AppError {
	return &AppError{
		Kind:   KindUpstream,
		Code:   code,
		Detail: detail,
	}
}

// Unavailable creates a 503 error wrapping a transport-level failure.
func Unavailable(err error) *AppError {
	return &AppError{
		Kind:   KindUnavailable,
		Code:   http.StatusServiceUnavailable,
		Detail: fmt.Sprintf("Service unavailable: %v", err),
		Err:    err,
	}
}

// Internal creates a 500 error wrapping an unexpected failure.
func Internal(err error) *AppError {
	return &AppError{
		Kind:   KindInternal,
		Code:   http.StatusInternalServerError,
		Detail: fmt.Sprintf("Internal server error: %v", err),
		Err:    err,
	}
}
