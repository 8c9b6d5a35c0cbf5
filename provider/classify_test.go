package provider

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/quantfold/finkit/errors"
	"github.com/quantfold/finkit/httpclient"
)

func TestClassifyVendorError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want errors.ErrorCode
	}{
		{"timeout", httpclient.NewTimeoutError(context.DeadlineExceeded), errors.ErrCodeProviderTimeout},
		{"server 500", httpclient.NewServerError(500, nil), errors.ErrCodeProviderUnavailable},
		{"upstream 429", httpclient.NewRateLimitError(nil), errors.ErrCodeRateLimited},
		{"auth 401", httpclient.NewAuthError(401, nil), errors.ErrCodeInvalidResponse},
		{"not found 404", httpclient.NewNotFoundError(nil), errors.ErrCodeInvalidResponse},
		{"plain error", stderrors.New("boom"), errors.ErrCodeProviderUnavailable},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ClassifyVendorError("fmp", tc.err)
			if errors.CodeOf(got) != tc.want {
				t.Errorf("expected %s, got %v", tc.want, got)
			}
		})
	}
}

func TestClassifyVendorErrorNil(t *testing.T) {
	if got := ClassifyVendorError("fmp", nil); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}
