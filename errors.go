package gateway

import (
	"errors"
	"fmt"
	"time"
)

// Operation identifies a public client operation in error messages.
type Operation string

const (
	OperationValidate   Operation = "validate"
	OperationActivate   Operation = "activate"
	OperationDeactivate Operation = "deactivate"
	OperationInfo       Operation = "info"
	OperationHeartbeat  Operation = "heartbeat"
)

func (op Operation) failure() string {
	switch op {
	case OperationValidate:
		return "License validation failed"
	case OperationActivate:
		return "License activation failed"
	case OperationDeactivate:
		return "License deactivation failed"
	case OperationInfo:
		return "Failed to get license info"
	case OperationHeartbeat:
		return "Heartbeat failed"
	default:
		return string(op) + " failed"
	}
}

// OperationError wraps any failure returned from a public operation with a
// message naming the operation.
type OperationError struct {
	Op  Operation
	Err error
}

func (e *OperationError) Error() string { return fmt.Sprintf("%s: %v", e.Op.failure(), e.Err) }
func (e *OperationError) Unwrap() error { return e.Err }

// ConfigError represents an invalid client configuration.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string { return fmt.Sprintf("invalid %s: %v", e.Field, e.Err) }
func (e *ConfigError) Unwrap() error { return e.Err }

// UnsupportedMethodError is returned before any network call when a request
// uses a method other than GET, POST, PUT or DELETE.
type UnsupportedMethodError struct {
	Method string
}

func (e *UnsupportedMethodError) Error() string {
	return fmt.Sprintf("unsupported HTTP method: %s", e.Method)
}

// TransportError represents a network-level failure, e.g. a DNS lookup
// failure or a refused connection.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request failed: method=%s url=%s err=%v", e.Method, e.URL, e.Err)
}
func (e *TransportError) Unwrap() error { return e.Err }

// TimeoutError represents a request that exceeded the client timeout or its
// context deadline.
type TimeoutError struct {
	Method string
	URL    string
	Limit  time.Duration
	Err    error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timeout: method=%s url=%s timeout=%s", e.Method, e.URL, e.Limit)
}
func (e *TimeoutError) Unwrap() error { return e.Err }

// Timeout reports true, matching the net.Error timeout check.
func (e *TimeoutError) Timeout() bool { return true }

// HTTPStatusError represents a non-2xx API response.
type HTTPStatusError struct {
	Response *Response
}

func (e *HTTPStatusError) Error() string {
	res := e.Response

	return fmt.Sprintf("unexpected status: id=%s status=%d size=%d body=%s", res.ID, res.Status, res.Size, res.tldr())
}

// StatusCode returns the HTTP status of the response.
func (e *HTTPStatusError) StatusCode() int { return e.Response.Status }

// Body returns the raw response body.
func (e *HTTPStatusError) Body() []byte { return e.Response.Body }

// DecodeError represents a successful response whose body is not a JSON
// object.
type DecodeError struct {
	Response *Response
	Err      error
}

func (e *DecodeError) Error() string {
	res := e.Response

	return fmt.Sprintf("invalid response: id=%s status=%d size=%d body=%s err=%v", res.ID, res.Status, res.Size, res.tldr(), e.Err)
}
func (e *DecodeError) Unwrap() error { return e.Err }

// General errors
var (
	ErrAPIKeyMissing     = errors.New("API key is required")
	ErrBaseURLInvalid    = errors.New("base URL must be an absolute http(s) URL")
	ErrTimeoutInvalid    = errors.New("timeout must be positive")
	ErrRetryMaxInvalid   = errors.New("retry max must not be negative")
	ErrLicenseKeyMissing = errors.New("license key is missing")
	ErrHWIDMissing       = errors.New("hwid is missing")
)
