package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// RequestOption configures a single request.
type RequestOption func(*Request)

// WithHeader adds a header to the request.
func WithHeader(key, value string) RequestOption {
	return func(r *Request) {
		if r.Headers == nil {
			r.Headers = make(map[string]string)
		}
		r.Headers[key] = value
	}
}

// WithQueryParam adds a query parameter to the request.
func WithQueryParam(key, value string) RequestOption {
	return func(r *Request) {
		if r.Query == nil {
			r.Query = make(map[string]string)
		}
		r.Query[key] = value
	}
}

// WithRequestAuth overrides authentication for the request.
func WithRequestAuth(auth *AuthConfig) RequestOption {
	return func(r *Request) {
		r.Auth = auth
	}
}

// GetJSON performs a GET request and decodes the JSON response into T.
func GetJSON[T any](c *Client, ctx context.Context, path string, opts ...RequestOption) (T, error) {
	return doJSON[T](c, ctx, http.MethodGet, path, nil, opts...)
}

// PostJSON performs a POST request with a JSON body and decodes the
// response into T.
func PostJSON[T any](c *Client, ctx context.Context, path string, body any, opts ...RequestOption) (T, error) {
	return doJSON[T](c, ctx, http.MethodPost, path, body, opts...)
}

func doJSON[T any](c *Client, ctx context.Context, method, path string, body any, opts ...RequestOption) (T, error) {
	var data T

	req := Request{Method: method, Path: path, Body: body}
	for _, opt := range opts {
		opt(&req)
	}

	resp, err := c.Do(ctx, req)
	if err != nil {
		return data, err
	}

	if len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, &data); err != nil {
			return data, NewValidationError(fmt.Sprintf("decode response: %v", err))
		}
	}
	return data, nil
}
