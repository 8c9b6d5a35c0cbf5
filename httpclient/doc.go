// Package httpclient is the HTTP client the vendor adapters are built on:
// auth (bearer, basic, API key in header or query), TLS, default headers,
// bounded retry, and status-code classification into typed errors.
//
// Circuit breaking and rate limiting are deliberately absent here. The
// orchestration layer owns both so each provider has exactly one
// bookkeeping point; a client-embedded breaker would double-count failures.
//
//	client, err := httpclient.New(httpclient.Config{
//	    BaseURL: "https://financialmodelingprep.com/api/v3",
//	    Timeout: 10 * time.Second,
//	    Auth:    httpclient.APIKeyAuthQuery(key, "apikey"),
//	    Retry:   httpclient.DefaultRetryConfig(),
//	})
//
//	quote, err := httpclient.GetJSON[[]fmpQuote](client, ctx, "/quote/AAPL")
package httpclient
