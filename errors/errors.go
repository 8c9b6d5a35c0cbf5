package errors

import (
	stderrors "errors"
	"fmt"
	"maps"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// clone returns a copy of the error with its own Details map, so annotating
// the copy cannot mutate an error value shared across goroutines or callers.
func (e *AppError) clone() *AppError {
	cp := *e
	cp.Details = maps.Clone(e.Details)
	return &cp
}

// Provider returns the provider name recorded on the error, if any.
func (e *AppError) Provider() string {
	if e.Details == nil {
		return ""
	}
	if p, ok := e.Details["provider"].(string); ok {
		return p
	}
	return ""
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// Attempt records the outcome of one skipped or failed candidate during a
// dispatch. Attempts are kept in priority order so an exhaustion error shows
// exactly what happened to each provider.
type Attempt struct {
	// Provider is the provider name.
	Provider string `json:"provider"`
	// Code is the normalized error kind for this candidate.
	Code ErrorCode `json:"code"`
	// Message is the candidate's failure description.
	Message string `json:"message"`
}

// String renders the attempt in "provider: CODE message" form.
func (a Attempt) String() string {
	return fmt.Sprintf("%s: %s %s", a.Provider, a.Code, a.Message)
}

// --- Orchestration Error Constructors ---

// CacheMiss creates the internal cache-miss error for a key.
func CacheMiss(key string) *AppError {
	return &AppError{
		Code: ErrCodeCacheMiss, Message: "no live cache entry for key",
		HTTPStatus: http.StatusNotFound, Retryable: false,
		Details: map[string]any{"key": key},
	}
}

// RateLimited creates an AppError for a provider whose quota denied the call.
func RateLimited(provider string) *AppError {
	return &AppError{
		Code: ErrCodeRateLimited, Message: fmt.Sprintf("provider %s is rate limited", provider),
		HTTPStatus: http.StatusTooManyRequests, Retryable: true,
		Details: map[string]any{"provider": provider},
	}
}

// CircuitOpen creates an AppError for a provider whose circuit is open.
func CircuitOpen(provider string) *AppError {
	return &AppError{
		Code: ErrCodeCircuitOpen, Message: fmt.Sprintf("circuit open for provider %s", provider),
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true,
		Details: map[string]any{"provider": provider},
	}
}

// ProviderTimeout creates an AppError for a provider call that timed out.
func ProviderTimeout(provider string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeProviderTimeout, Message: fmt.Sprintf("provider %s timed out", provider),
		HTTPStatus: http.StatusGatewayTimeout, Retryable: true,
		Details: map[string]any{"provider": provider}, Cause: cause,
	}
}

// ProviderUnavailable creates an AppError for an unreachable or failing provider.
func ProviderUnavailable(provider string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeProviderUnavailable, Message: fmt.Sprintf("provider %s is unavailable", provider),
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true,
		Details: map[string]any{"provider": provider}, Cause: cause,
	}
}

// InvalidResponse creates an AppError for a provider payload that violated
// its contract.
func InvalidResponse(provider, reason string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidResponse, Message: fmt.Sprintf("invalid response from provider %s: %s", provider, reason),
		HTTPStatus: http.StatusBadGateway, Retryable: false,
		Details: map[string]any{"provider": provider},
	}
}

// Exhausted creates the aggregated AllProvidersExhausted error. Attempts are
// retained in the order candidates were tried; causes are joined so callers
// can still errors.Is/As into individual failures.
func Exhausted(capability string, attempts []Attempt, causes ...error) *AppError {
	return &AppError{
		Code:       ErrCodeAllProvidersExhausted,
		Message:    fmt.Sprintf("all providers exhausted for capability %s", capability),
		HTTPStatus: http.StatusBadGateway,
		Retryable:  false,
		Details: map[string]any{
			"capability": capability,
			"attempts":   attempts,
		},
		Cause: stderrors.Join(causes...),
	}
}

// DeadlineExceeded creates the AppError returned when the caller-supplied
// deadline elapses mid-dispatch. Attempts made so far are retained.
func DeadlineExceeded(capability string, attempts []Attempt) *AppError {
	return &AppError{
		Code:       ErrCodeDeadlineExceeded,
		Message:    fmt.Sprintf("deadline exceeded dispatching capability %s", capability),
		HTTPStatus: http.StatusGatewayTimeout,
		Retryable:  false,
		Details: map[string]any{
			"capability": capability,
			"attempts":   attempts,
		},
	}
}

// UnknownCapability creates an AppError for a capability with no providers.
func UnknownCapability(capability string) *AppError {
	return &AppError{
		Code: ErrCodeUnknownCapability, Message: fmt.Sprintf("no providers registered for capability %s", capability),
		HTTPStatus: http.StatusNotFound, Retryable: false,
		Details: map[string]any{"capability": capability},
	}
}

// --- General Error Constructors ---

// ServiceUnavailable creates an AppError for a component that is temporarily
// unavailable.
func ServiceUnavailable(service string) *AppError {
	return &AppError{
		Code: ErrCodeServiceUnavailable, Message: fmt.Sprintf("The %s is temporarily unavailable. Please try again.", service),
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true,
		Details: map[string]any{"service": service},
	}
}

// NotFound creates an AppError for a resource that was not found.
func NotFound(resource, id string) *AppError {
	details := map[string]any{"resource": resource}
	if id != "" {
		details["id"] = id
	}
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("The requested %s was not found.", resource),
		HTTPStatus: http.StatusNotFound, Retryable: false, Details: details,
	}
}

// InvalidInput creates an AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		HTTPStatus: http.StatusBadRequest, Retryable: false, Details: details,
	}
}

// Validation creates an AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: message,
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// MissingField creates an AppError for a missing required field.
func MissingField(field string) *AppError {
	return &AppError{
		Code: ErrCodeMissingField, Message: fmt.Sprintf("Missing required field: %s", field),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: map[string]any{"field": field},
	}
}

// Internal creates an AppError for an internal error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred. Please try again or contact support.",
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
	}
}
