// Package apperr classifies failures into the categories the HTTP layer
// maps to status codes.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound marks a missing record or setting.
var ErrNotFound = errors.New("not found")

// ValidationError is returned for bad guest or admin input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Validation builds a ValidationError with a formatted message.
func Validation(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// AuthorizationError is returned when the admin credential is wrong.
// Its message never reveals why.
type AuthorizationError struct{}

func (e *AuthorizationError) Error() string { return "unauthorized" }

// Unauthorized is the shared authorization failure.
var Unauthorized error = &AuthorizationError{}

// UpstreamError wraps a failure of the data or image store.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Upstream wraps err as an UpstreamError for op. A nil err stays nil.
func Upstream(op string, err error) error {
	if err == nil {
		return nil
	}
	return &UpstreamError{Op: op, Err: err}
}

// Status maps an error to the HTTP status the API answers with.
func Status(err error) int {
	var ve *ValidationError
	var ae *AuthorizationError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.As(err, &ae):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
