// Package server is the HTTP surface: a Gin engine behind h2c with the
// standard middleware stack (recovery, request ID, CORS, request logging)
// and routes for market data, AI insights, the provider status/admin
// surface and system probes. Every API request is deadline-bounded; the
// X-Request-Deadline-Ms header overrides the configured default.
package server
