package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/quantfold/finkit/resilience"
)

// Client is a configurable HTTP client with built-in auth, TLS and bounded
// retry. Circuit breaking and rate limiting deliberately live in the
// orchestration layer, not here, so each provider has a single bookkeeping
// point.
type Client struct {
	httpClient *http.Client
	config     Config
}

// New creates a new HTTP client with the given configuration.
func New(cfg Config) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()

	if cfg.TLS != nil {
		tlsCfg, err := cfg.TLS.Build()
		if err != nil {
			return nil, err
		}
		if tlsCfg != nil {
			transport.TLSClientConfig = tlsCfg
		}
	}

	return &Client{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		config: cfg,
	}, nil
}

// Do executes an HTTP request and returns the complete response. When the
// client carries a retry config, retryable failures are re-attempted within
// ctx.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	if c.config.Retry != nil {
		return resilience.Retry(ctx, *c.config.Retry, func() (*Response, error) {
			return c.roundTrip(ctx, req)
		})
	}
	return c.roundTrip(ctx, req)
}

// Unwrap returns the underlying *http.Client for advanced use cases.
func (c *Client) Unwrap() *http.Client {
	return c.httpClient
}

// roundTrip sends one request and classifies the outcome. Non-2xx responses
// come back alongside their classified error so callers can still read the
// vendor payload.
func (c *Client) roundTrip(ctx context.Context, req Request) (*Response, error) {
	httpReq, err := c.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, NewTimeoutError(err)
		}
		return nil, NewConnectionError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewConnectionError(fmt.Errorf("read response body: %w", err))
	}

	result := &Response{
		StatusCode: resp.StatusCode,
		Headers:    flattenHeaders(resp.Header),
		Body:       body,
	}

	if classErr := ClassifyStatusCode(resp.StatusCode, body); classErr != nil {
		if classErr.Code == ErrCodeRateLimit {
			classErr.RetryAfter = parseRetryAfter(resp.Header.Get("Retry-After"))
		}
		return result, classErr
	}
	return result, nil
}

// buildRequest assembles the *http.Request: URL resolution against BaseURL,
// body encoding, header merge, and credentials.
func (c *Client) buildRequest(ctx context.Context, req Request) (*http.Request, error) {
	url := req.Path
	if c.config.BaseURL != "" && !strings.HasPrefix(req.Path, "http://") && !strings.HasPrefix(req.Path, "https://") {
		url = strings.TrimRight(c.config.BaseURL, "/") + "/" + strings.TrimLeft(req.Path, "/")
	}

	body, contentType, err := encodeBody(req.Body)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("encode body: %v", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, url, body)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("create request: %v", err))
	}

	if len(req.Query) > 0 {
		q := httpReq.URL.Query()
		for k, v := range req.Query {
			q.Set(k, v)
		}
		httpReq.URL.RawQuery = q.Encode()
	}

	for k, v := range c.config.Headers {
		httpReq.Header.Set(k, v)
	}
	// Request-specific headers override client defaults.
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	if body != nil && httpReq.Header.Get("Content-Type") == "" && contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	// Request-level auth overrides client-level.
	auth := c.config.Auth
	if req.Auth != nil {
		auth = req.Auth
	}
	auth.apply(httpReq)

	return httpReq, nil
}

// encodeBody converts a body value into an io.Reader and content type.
// Readers and raw bytes pass through untyped.
func encodeBody(body any) (io.Reader, string, error) {
	switch v := body.(type) {
	case nil:
		return nil, "", nil
	case io.Reader:
		return v, "", nil
	case []byte:
		return bytes.NewReader(v), "", nil
	case string:
		return strings.NewReader(v), "text/plain", nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), "application/json", nil
	}
}

// flattenHeaders keeps the first value of each response header.
func flattenHeaders(h http.Header) map[string]string {
	result := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			result[k] = v[0]
		}
	}
	return result
}
