package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a specific error type of the API.
type ErrorCode string

const (
	// ErrCodeInvalidArgument indicates invalid input parameters.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeNotFound indicates the requested resource does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeRateLimitExceeded indicates rate limit has been exceeded.
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"
	// ErrCodeServiceUnavailable indicates the service is not available.
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	// ErrCodeContextCanceled indicates the operation was canceled.
	ErrCodeContextCanceled ErrorCode = "CONTEXT_CANCELED"
	// ErrCodeTimeout indicates the operation timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeInternal indicates an unexpected failure.
	ErrCodeInternal ErrorCode = "INTERNAL"
)

var httpStatus = map[ErrorCode]int{
	ErrCodeInvalidArgument:    http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeRateLimitExceeded:  http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	// 499 Client Closed Request
	ErrCodeContextCanceled: 499,
	ErrCodeTimeout:         http.StatusGatewayTimeout,
	ErrCodeInternal:        http.StatusInternalServerError,
}

// APIError represents a structured error returned by the API.
type APIError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]any
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *APIError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error.
func (e *APIError) WithContext(key string, value any) *APIError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// HTTPStatus returns the HTTP status of the error code.
func (e *APIError) HTTPStatus() int {
	if status, ok := httpStatus[e.Code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// InvalidArgument creates an invalid argument error.
func InvalidArgument(msg string, cause error) *APIError {
	return &APIError{Code: ErrCodeInvalidArgument, Message: msg, Cause: cause}
}

// NotFound creates a not found error.
func NotFound(msg string) *APIError {
	return &APIError{Code: ErrCodeNotFound, Message: msg}
}

// RateLimitExceeded creates a rate limit exceeded error.
func RateLimitExceeded(msg string) *APIError {
	return &APIError{Code: ErrCodeRateLimitExceeded, Message: msg}
}

// ServiceUnavailable creates a service unavailable error.
func ServiceUnavailable(msg string) *APIError {
	return &APIError{Code: ErrCodeServiceUnavailable, Message: msg}
}

// Internal creates an internal error.
func Internal(msg string, cause error) *APIError {
	return &APIError{Code: ErrCodeInternal, Message: msg, Cause: cause}
}

// Wrap wraps an existing error with a code. Context cancellation and
// deadlines keep codes of their own.
func Wrap(cause error, code ErrorCode, msg string) *APIError {
	switch {
	case stderrors.Is(cause, context.Canceled):
		code = ErrCodeContextCanceled
	case stderrors.Is(cause, context.DeadlineExceeded):
		code = ErrCodeTimeout
	}
	return &APIError{Code: code, Message: msg, Cause: cause}
}

// IsCode checks if an error is of a specific code.
func IsCode(err error, code ErrorCode) bool {
	return GetCodeFromError(err, "") == code
}

// GetCodeFromError extracts the error code from any error.
// Returns the provided default code if the error is not an APIError.
func GetCodeFromError(err error, defaultCode ErrorCode) ErrorCode {
	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr.Code
	}
	return defaultCode
}
