package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextRequestID is the gin context key holding the request ID.
const ContextRequestID = "request_id"

// RequestID injects a unique X-Request-Id header into every
// request/response, keeping a caller-supplied one when present.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-Id")
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(ContextRequestID, id)
		c.Header("X-Request-Id", id)
		c.Next()
	}
}

// GetRequestID returns the request ID set by RequestID, or "".
func GetRequestID(c *gin.Context) string {
	return c.GetString(ContextRequestID)
}
