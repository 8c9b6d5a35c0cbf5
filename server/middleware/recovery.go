package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	apperrors "github.com/quantfold/finkit/errors"
	"github.com/quantfold/finkit/logger"
)

// Recovery recovers from handler panics, logs the stack and answers with
// the standard error envelope.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", map[string]interface{}{
					logger.FieldError: fmt.Sprintf("%v", r),
					"stack":           string(debug.Stack()),
					"path":            c.Request.URL.Path,
					"method":          c.Request.Method,
				})
				appErr := apperrors.Internal(fmt.Errorf("panic: %v", r))
				c.AbortWithStatusJSON(http.StatusInternalServerError, appErr.ToResponse())
			}
		}()
		c.Next()
	}
}
