package provider

import (
	stderrors "errors"

	"github.com/quantfold/finkit/errors"
	"github.com/quantfold/finkit/httpclient"
)

// ClassifyVendorError maps an httpclient error onto the invocation error
// kinds the dispatcher routes on. Upstream 429s become RATE_LIMITED so the
// breaker ignores them; auth failures, 404s and malformed bodies become
// INVALID_RESPONSE (the vendor answered, the answer is unusable); timeouts
// and connection failures keep their transient kinds. Non-httpclient errors
// fall through to errors.Normalize.
func ClassifyVendorError(providerName string, err error) error {
	if err == nil {
		return nil
	}

	var clientErr *httpclient.Error
	if stderrors.As(err, &clientErr) {
		switch clientErr.Code {
		case httpclient.ErrCodeTimeout:
			return errors.ProviderTimeout(providerName, err)
		case httpclient.ErrCodeConnection, httpclient.ErrCodeServer:
			return errors.ProviderUnavailable(providerName, err)
		case httpclient.ErrCodeRateLimit:
			limited := errors.RateLimited(providerName).WithCause(err)
			if clientErr.RetryAfter > 0 {
				limited = limited.WithDetail("retry_after_ms", clientErr.RetryAfter.Milliseconds())
			}
			return limited
		default:
			return errors.InvalidResponse(providerName, clientErr.Message).WithCause(err)
		}
	}

	return errors.Normalize(providerName, err)
}
