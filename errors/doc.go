// Package errors provides unified error handling for the finkit orchestration
// layer. It implements structured error types with machine-readable codes,
// HTTP status mapping, and retryable detection, plus normalization of vendor
// errors into the small set of invocation kinds the dispatcher reasons about.
package errors
