package errors

import (
	"context"
	stderrors "errors"
)

// invocationKinds is the closed set of error kinds a provider invocation may
// surface to the dispatcher.
var invocationKinds = map[ErrorCode]bool{
	ErrCodeProviderTimeout:     true,
	ErrCodeProviderUnavailable: true,
	ErrCodeInvalidResponse:     true,
	ErrCodeRateLimited:         true,
}

// Normalize coerces an arbitrary error returned by a provider invocation into
// one of the four invocation kinds, tagged with the provider name. AppErrors
// already carrying an invocation kind pass through; context deadline errors
// become PROVIDER_TIMEOUT (cancellation in a dispatch is always
// deadline-driven); anything else becomes PROVIDER_UNAVAILABLE with the
// original error preserved as the cause.
func Normalize(provider string, err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if stderrors.As(err, &appErr) {
		if invocationKinds[appErr.Code] {
			if appErr.Provider() == "" {
				// Tag a copy. The incoming error may be a shared value
				// (a package-level sentinel, or one error fanned out to
				// several candidates), so annotating it in place would
				// cross-tag providers.
				return appErr.clone().WithDetail("provider", provider)
			}
			return appErr
		}
		switch appErr.Code {
		case ErrCodeServiceUnavailable, ErrCodeInternal:
			return ProviderUnavailable(provider, appErr)
		case ErrCodeNotFound:
			// Upstream 404s are contract data ("symbol does not exist"), not
			// infrastructure failures, but the dispatcher still treats them
			// as a failed candidate.
			return InvalidResponse(provider, appErr.Message).WithCause(appErr)
		default:
			return ProviderUnavailable(provider, appErr)
		}
	}

	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(err, context.Canceled) {
		return ProviderTimeout(provider, err)
	}

	return ProviderUnavailable(provider, err)
}

// CodeOf extracts the ErrorCode from an error, or empty string when the error
// carries no AppError.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

// IsCacheMiss reports whether err is a cache miss.
func IsCacheMiss(err error) bool { return HasCode(err, ErrCodeCacheMiss) }

// IsRateLimited reports whether err is a rate-limit denial (local or upstream).
func IsRateLimited(err error) bool { return HasCode(err, ErrCodeRateLimited) }

// IsCircuitOpen reports whether err is a suppressed call on an open circuit.
func IsCircuitOpen(err error) bool { return HasCode(err, ErrCodeCircuitOpen) }

// IsProviderTimeout reports whether err is a provider call timeout.
func IsProviderTimeout(err error) bool { return HasCode(err, ErrCodeProviderTimeout) }

// IsProviderUnavailable reports whether err is an unreachable provider.
func IsProviderUnavailable(err error) bool { return HasCode(err, ErrCodeProviderUnavailable) }

// IsInvalidResponse reports whether err is a provider contract violation.
func IsInvalidResponse(err error) bool { return HasCode(err, ErrCodeInvalidResponse) }

// IsExhausted reports whether err aggregates a fully exhausted candidate list.
func IsExhausted(err error) bool { return HasCode(err, ErrCodeAllProvidersExhausted) }

// IsDeadlineExceeded reports whether err is a caller-deadline overrun.
func IsDeadlineExceeded(err error) bool { return HasCode(err, ErrCodeDeadlineExceeded) }

// IsUnknownCapability reports whether err names an unregistered capability.
func IsUnknownCapability(err error) bool { return HasCode(err, ErrCodeUnknownCapability) }

// AttemptsOf returns the ordered per-provider attempts recorded on an
// exhaustion or deadline error, or nil.
func AttemptsOf(err error) []Attempt {
	var appErr *AppError
	if !stderrors.As(err, &appErr) || appErr.Details == nil {
		return nil
	}
	if attempts, ok := appErr.Details["attempts"].([]Attempt); ok {
		return attempts
	}
	return nil
}
