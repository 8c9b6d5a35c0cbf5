package httpclient

import "net/http"

// defaultAPIKeyHeader is used when an API key auth config names no header.
const defaultAPIKeyHeader = "X-API-Key"

// AuthType identifies how a request is credentialed.
type AuthType int

const (
	// AuthNone sends no credentials.
	AuthNone AuthType = iota
	// AuthBearer sends an Authorization: Bearer header.
	AuthBearer
	// AuthAPIKey sends a key in a named header or query parameter.
	AuthAPIKey
)

// AuthConfig configures request authentication. The three modes cover the
// vendor surface: bearer tokens (OpenAI), named API key headers (Anthropic),
// and query-signed API keys (FMP).
type AuthConfig struct {
	Type AuthType

	// Token is the bearer token for AuthBearer.
	Token string

	// Key, In, and Name describe an AuthAPIKey credential: the key value,
	// where it goes ("header" or "query"), and the header or parameter
	// name. Name defaults to X-API-Key.
	Key  string
	In   string
	Name string
}

// BearerAuth credentials requests with a bearer token.
func BearerAuth(token string) *AuthConfig {
	return &AuthConfig{Type: AuthBearer, Token: token}
}

// APIKeyAuthHeader sends the key in the named request header.
func APIKeyAuthHeader(key, headerName string) *AuthConfig {
	return &AuthConfig{Type: AuthAPIKey, Key: key, In: "header", Name: headerName}
}

// APIKeyAuthQuery sends the key as the named query parameter.
func APIKeyAuthQuery(key, paramName string) *AuthConfig {
	return &AuthConfig{Type: AuthAPIKey, Key: key, In: "query", Name: paramName}
}

// apply attaches the credential to req. A nil config is a no-op so callers
// do not need to special-case unauthenticated clients.
func (a *AuthConfig) apply(req *http.Request) {
	if a == nil {
		return
	}
	switch a.Type {
	case AuthBearer:
		req.Header.Set("Authorization", "Bearer "+a.Token)
	case AuthAPIKey:
		a.applyKey(req)
	}
}

func (a *AuthConfig) applyKey(req *http.Request) {
	name := a.Name
	if name == "" {
		name = defaultAPIKeyHeader
	}
	if a.In == "query" {
		q := req.URL.Query()
		q.Set(name, a.Key)
		req.URL.RawQuery = q.Encode()
		return
	}
	req.Header.Set(name, a.Key)
}
