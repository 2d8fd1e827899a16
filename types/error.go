package types

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a unified error code across the gateway.
type ErrorCode string

// Provider error codes
const (
	ErrInvalidRequest  ErrorCode = "INVALID_REQUEST"
	ErrAuthentication  ErrorCode = "AUTHENTICATION"
	ErrUnauthorized    ErrorCode = "UNAUTHORIZED"
	ErrRateLimited     ErrorCode = "RATE_LIMITED"
	ErrVoiceNotFound   ErrorCode = "VOICE_NOT_FOUND"
	ErrUpstreamTimeout ErrorCode = "UPSTREAM_TIMEOUT"
	ErrUpstreamError   ErrorCode = "UPSTREAM_ERROR"
	ErrInternalError   ErrorCode = "INTERNAL_ERROR"
)

// Error represents a structured error with code, message, and metadata.
//
// Headers 保存远端响应头（认证错误等本地错误为空），供上层透传 Retry-After 等信息。
type Error struct {
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	HTTPStatus int         `json:"http_status,omitempty"`
	Retryable  bool        `json:"retryable"`
	Provider   string      `json:"provider,omitempty"`
	Headers    http.Header `json:"-"`
	Cause      error       `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new Error with the given code and message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithCause adds a cause to the error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithHTTPStatus sets the HTTP status code.
func (e *Error) WithHTTPStatus(status int) *Error {
	e.HTTPStatus = status
	return e
}

// WithRetryable marks the error as retryable.
func (e *Error) WithRetryable(retryable bool) *Error {
	e.Retryable = retryable
	return e
}

// WithProvider sets the provider name.
func (e *Error) WithProvider(provider string) *Error {
	e.Provider = provider
	return e
}

// WithHeaders attaches a copy of the remote response headers.
// nil 会被规范化为空 Header，调用方无需判空。
func (e *Error) WithHeaders(h http.Header) *Error {
	if h == nil {
		e.Headers = http.Header{}
		return e
	}
	e.Headers = h.Clone()
	return e
}

// AsError 沿错误链查找 *Error。
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	if e, ok := AsError(err); ok {
		return e.Retryable
	}
	return false
}

// GetErrorCode extracts the error code from an error.
func GetErrorCode(err error) ErrorCode {
	if e, ok := AsError(err); ok {
		return e.Code
	}
	return ""
}

// IsErrorCode reports whether err carries the given code.
func IsErrorCode(err error, code ErrorCode) bool {
	return GetErrorCode(err) == code
}

// IsAuthentication reports whether err is a missing/invalid credential error.
func IsAuthentication(err error) bool {
	return IsErrorCode(err, ErrAuthentication)
}

// StatusCode returns the HTTP status carried by err, or 0 when unknown.
func StatusCode(err error) int {
	if e, ok := AsError(err); ok {
		return e.HTTPStatus
	}
	return 0
}
