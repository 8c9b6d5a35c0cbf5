package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// DeadlineHeader lets callers bound a request end to end in milliseconds.
const DeadlineHeader = "X-Request-Deadline-Ms"

// maxDeadline caps caller-supplied deadlines so a bad client cannot pin a
// worker for minutes.
const maxDeadline = 2 * time.Minute

// Deadline applies a per-request deadline to the request context, taken
// from the DeadlineHeader or falling back to def. Handlers and everything
// below them (dispatch, provider calls) inherit the bound.
func Deadline(def time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		d := def
		if raw := c.GetHeader(DeadlineHeader); raw != "" {
			if ms, err := strconv.ParseInt(raw, 10, 64); err == nil && ms > 0 {
				d = time.Duration(ms) * time.Millisecond
			}
		}
		if d <= 0 || d > maxDeadline {
			d = maxDeadline
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
