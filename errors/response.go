package errors

import (
	stderrors "errors"
)

// ErrorResponse is the JSON envelope every failed request returns. Keeping
// the shape identical across market, insight, and admin routes lets API
// consumers write one error decoder.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody carries the client-visible part of an AppError. Internal
// context (wrapped causes, stack) stays server side.
type ErrorBody struct {
	Code      ErrorCode      `json:"code"`
	Message   string         `json:"message"`
	Retryable bool           `json:"retryable"`
	Details   map[string]any `json:"details,omitempty"`
}

// ToResponse shapes the error for JSON serialization.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{
		Error: ErrorBody{
			Code:      e.Code,
			Message:   e.Message,
			Retryable: e.Retryable,
			Details:   e.Details,
		},
	}
}

// IsAppError reports whether err has an AppError anywhere in its chain.
func IsAppError(err error) bool {
	_, ok := AsAppError(err)
	return ok
}

// AsAppError unwraps err to an AppError when possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	ok := stderrors.As(err, &appErr)
	return appErr, ok
}
