package httpclient

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// ErrorCode classifies what went wrong with a provider call. The dispatcher
// and the vendor error classifier branch on these rather than raw status
// codes.
type ErrorCode int

const (
	// ErrCodeTimeout marks a request or connection timeout.
	ErrCodeTimeout ErrorCode = iota
	// ErrCodeConnection marks a transport failure (refused, DNS, reset).
	ErrCodeConnection
	// ErrCodeAuth marks 401/403 responses.
	ErrCodeAuth
	// ErrCodeNotFound marks 404 responses.
	ErrCodeNotFound
	// ErrCodeRateLimit marks 429 responses.
	ErrCodeRateLimit
	// ErrCodeValidation marks request-shape failures, local or 4xx.
	ErrCodeValidation
	// ErrCodeServer marks 5xx responses.
	ErrCodeServer
)

// String returns the error code name.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeTimeout:
		return "timeout"
	case ErrCodeConnection:
		return "connection"
	case ErrCodeAuth:
		return "auth"
	case ErrCodeNotFound:
		return "not_found"
	case ErrCodeRateLimit:
		return "rate_limit"
	case ErrCodeValidation:
		return "validation"
	case ErrCodeServer:
		return "server"
	default:
		return "unknown"
	}
}

// Error is a classified provider-call failure. StatusCode is zero for
// failures below the HTTP layer.
type Error struct {
	StatusCode int
	Code       ErrorCode
	Message    string

	// Retryable marks failures worth re-attempting at the transport level.
	Retryable bool

	// Body preserves the vendor's error payload for the classifier.
	Body []byte

	// RetryAfter is the server-suggested wait parsed from the Retry-After
	// header on 429 responses. Zero when absent.
	RetryAfter time.Duration

	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("httpclient: %s (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("httpclient: %s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewTimeoutError wraps a timeout as a retryable Error.
func NewTimeoutError(err error) *Error {
	return &Error{Code: ErrCodeTimeout, Message: err.Error(), Retryable: true, Err: err}
}

// NewConnectionError wraps a transport failure as a retryable Error.
func NewConnectionError(err error) *Error {
	return &Error{Code: ErrCodeConnection, Message: err.Error(), Retryable: true, Err: err}
}

// NewAuthError builds an Error for a 401 or 403 response.
func NewAuthError(statusCode int, body []byte) *Error {
	return &Error{
		StatusCode: statusCode,
		Code:       ErrCodeAuth,
		Message:    fmt.Sprintf("HTTP %d", statusCode),
		Body:       body,
	}
}

// NewNotFoundError builds an Error for a 404 response.
func NewNotFoundError(body []byte) *Error {
	return &Error{
		StatusCode: http.StatusNotFound,
		Code:       ErrCodeNotFound,
		Message:    "HTTP 404",
		Body:       body,
	}
}

// NewRateLimitError builds a retryable Error for a 429 response.
func NewRateLimitError(body []byte) *Error {
	return &Error{
		StatusCode: http.StatusTooManyRequests,
		Code:       ErrCodeRateLimit,
		Message:    "HTTP 429",
		Retryable:  true,
		Body:       body,
	}
}

// NewValidationError builds an Error for a locally rejected request.
func NewValidationError(msg string) *Error {
	return &Error{Code: ErrCodeValidation, Message: msg}
}

// NewServerError builds a retryable Error for a 5xx response.
func NewServerError(statusCode int, body []byte) *Error {
	return &Error{
		StatusCode: statusCode,
		Code:       ErrCodeServer,
		Message:    fmt.Sprintf("HTTP %d", statusCode),
		Retryable:  true,
		Body:       body,
	}
}

// ClassifyStatusCode converts an HTTP status into a typed error, or nil
// for 2xx.
func ClassifyStatusCode(statusCode int, body []byte) *Error {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return nil
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return NewAuthError(statusCode, body)
	case statusCode == http.StatusNotFound:
		return NewNotFoundError(body)
	case statusCode == http.StatusTooManyRequests:
		return NewRateLimitError(body)
	case statusCode >= 400 && statusCode < 500:
		return &Error{
			StatusCode: statusCode,
			Code:       ErrCodeValidation,
			Message:    fmt.Sprintf("HTTP %d", statusCode),
			Body:       body,
		}
	case statusCode >= 500:
		return NewServerError(statusCode, body)
	default:
		// 1xx/3xx leaking through redirect handling; not retryable.
		return &Error{
			StatusCode: statusCode,
			Code:       ErrCodeServer,
			Message:    fmt.Sprintf("HTTP %d", statusCode),
			Body:       body,
		}
	}
}

// parseRetryAfter parses a Retry-After header value: either delay-seconds
// or an HTTP-date. Returns zero for anything unparsable or in the past.
func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}

// is reports whether err is an *Error carrying the given code.
func is(err error, code ErrorCode) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// IsTimeout reports whether err is a timeout failure.
func IsTimeout(err error) bool { return is(err, ErrCodeTimeout) }

// IsConnection reports whether err is a transport failure.
func IsConnection(err error) bool { return is(err, ErrCodeConnection) }

// IsAuth reports whether err is an authentication failure.
func IsAuth(err error) bool { return is(err, ErrCodeAuth) }

// IsNotFound reports whether err is a not-found failure.
func IsNotFound(err error) bool { return is(err, ErrCodeNotFound) }

// IsRateLimit reports whether err is an upstream throttle.
func IsRateLimit(err error) bool { return is(err, ErrCodeRateLimit) }

// IsServerError reports whether err is an upstream 5xx.
func IsServerError(err error) bool { return is(err, ErrCodeServer) }

// IsRetryable reports whether err is worth re-attempting.
func IsRetryable(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Retryable
}
