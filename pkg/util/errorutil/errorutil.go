package errorutil

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// Error codes shared by the transport layer and the report engine.
const (
	CodeInvalidArgument      = "INVALID_ARGUMENT"
	CodeUpstreamQueryFailure = "UPSTREAM_QUERY_FAILURE"
	CodeNotFound             = "NOT_FOUND"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeForbidden            = "FORBIDDEN"
	CodeInternal             = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

// NewInvalidArgument reports a malformed filter or calculator input.
func NewInvalidArgument(message string, details map[string]any) error {
	return NewDomainError(CodeInvalidArgument, message, http.StatusBadRequest, details)
}

// NewUpstreamQueryFailure wraps a failed or timed out record-store read.
func NewUpstreamQueryFailure(query string, err error) error {
	return &DomainError{
		Code:       CodeUpstreamQueryFailure,
		Message:    "record store query failed",
		HTTPStatus: http.StatusBadGateway,
		Details:    map[string]any{"query": query},
		Err:        err,
	}
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError(CodeForbidden, message, http.StatusForbidden, nil)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// HasCode reports whether err carries a DomainError with the given code.
func HasCode(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return &DomainError{
			Code:       CodeNotFound,
			Message:    "resource not found",
			HTTPStatus: http.StatusNotFound,
			Err:        err,
		}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &DomainError{
			Code:       CodeUpstreamQueryFailure,
			Message:    "request timed out",
			HTTPStatus: http.StatusGatewayTimeout,
			Err:        err,
		}
	}
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// MapError converts err to a DomainError, keeping nil as nil.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	return ToDomainError(err)
}
