package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Orchestration errors. These are the kinds the dispatcher produces and
// consumes; provider invocation errors are normalized into the four
// invocation kinds (PROVIDER_TIMEOUT, PROVIDER_UNAVAILABLE, INVALID_RESPONSE,
// RATE_LIMITED) before any routing decision is made.
const (
	// ErrCodeCacheMiss indicates a cache lookup found no live entry.
	// Internal to the dispatch path; never surfaced to callers.
	ErrCodeCacheMiss ErrorCode = "CACHE_MISS"
	// ErrCodeRateLimited indicates a provider's token bucket denied the call,
	// or the provider itself reported upstream throttling.
	ErrCodeRateLimited ErrorCode = "RATE_LIMITED"
	// ErrCodeCircuitOpen indicates the provider's circuit breaker is open and
	// the call was suppressed locally without being attempted.
	ErrCodeCircuitOpen ErrorCode = "CIRCUIT_OPEN"
	// ErrCodeProviderTimeout indicates a provider call exceeded its per-call
	// timeout.
	ErrCodeProviderTimeout ErrorCode = "PROVIDER_TIMEOUT"
	// ErrCodeProviderUnavailable indicates the provider could not be reached
	// or answered with a server-side failure.
	ErrCodeProviderUnavailable ErrorCode = "PROVIDER_UNAVAILABLE"
	// ErrCodeInvalidResponse indicates the provider answered but the payload
	// violated its contract. Logged distinctly: it usually means a
	// provider-side bug rather than a transient fault.
	ErrCodeInvalidResponse ErrorCode = "INVALID_RESPONSE"
	// ErrCodeAllProvidersExhausted indicates every candidate for a capability
	// was skipped or failed. Carries the ordered per-provider attempts.
	ErrCodeAllProvidersExhausted ErrorCode = "ALL_PROVIDERS_EXHAUSTED"
	// ErrCodeDeadlineExceeded indicates the caller-supplied deadline elapsed
	// before any candidate succeeded. Distinct from exhaustion.
	ErrCodeDeadlineExceeded ErrorCode = "DEADLINE_EXCEEDED"
	// ErrCodeUnknownCapability indicates no provider is registered for the
	// requested capability.
	ErrCodeUnknownCapability ErrorCode = "UNKNOWN_CAPABILITY"
)

// General errors
const (
	// ErrCodeServiceUnavailable indicates the service is temporarily unavailable.
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
	// ErrCodeInternal indicates an internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeRateLimited:         true,
	ErrCodeCircuitOpen:         true,
	ErrCodeProviderTimeout:     true,
	ErrCodeProviderUnavailable: true,
	ErrCodeServiceUnavailable:  true,
	ErrCodeInvalidResponse:     false,
	ErrCodeInternal:            false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
// Retryable here means "the same request may succeed later", not "retry the
// same provider now": the dispatcher never re-invokes a failed candidate
// within a single dispatch.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
