package httpclient

// Request describes one outbound call to a provider API.
//
// Path is normally joined onto the client's BaseURL; a fully qualified URL
// bypasses the base, which the vendor drivers use for one-off endpoints.
type Request struct {
	Method  string
	Path    string
	Headers map[string]string // merged over the client defaults
	Query   map[string]string

	// Body accepts io.Reader, []byte, string, or any JSON-encodable value.
	Body any

	// Auth overrides the client-level credentials for this request only,
	// which lets a hot-swapped descriptor take effect without rebuilding
	// the client.
	Auth *AuthConfig
}

// Response is the raw result of a provider call, kept even when the status
// classifies as an error so callers can inspect the vendor payload.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

// IsSuccess reports whether the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsError reports whether the status code is 4xx or 5xx.
func (r *Response) IsError() bool {
	return r.StatusCode >= 400
}
