package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quantfold/finkit/logger"
)

// RequestLogger logs every request with method, path, status and duration.
// Probe endpoints are silently skipped.
func RequestLogger() gin.HandlerFunc {
	log := logger.Get("http")
	return func(c *gin.Context) {
		if isProbeEndpoint(c.Request.URL.Path) {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		status := c.Writer.Status()
		path := c.Request.URL.Path
		if q := c.Request.URL.RawQuery; q != "" {
			path = path + "?" + q
		}

		fields := map[string]interface{}{
			"method":      c.Request.Method,
			"path":        path,
			"status":      status,
			"duration_ms": latency.Milliseconds(),
			"client":      c.ClientIP(),
		}
		if id := GetRequestID(c); id != "" {
			fields[ContextRequestID] = id
		}
		if latency > 500*time.Millisecond {
			fields["slow"] = true
		}

		switch {
		case status >= 500:
			log.Error("request completed", fields)
		case status >= 400:
			log.Warn("request completed", fields)
		default:
			log.Debug("request completed", fields)
		}
	}
}

func isProbeEndpoint(path string) bool {
	switch path {
	case "/healthz", "/readyz", "/version":
		return true
	}
	return false
}
