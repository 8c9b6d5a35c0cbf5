package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quantfold/finkit/component"
	"github.com/quantfold/finkit/version"
)

func (rt *Routes) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "alive",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// readyz reports ready once at least one provider is registered and every
// component says it is healthy.
func (rt *Routes) readyz(c *gin.Context) {
	status := "ready"
	httpStatus := http.StatusOK
	var checks []component.Health

	if rt.Registry == nil || rt.Registry.Len() == 0 {
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	}
	if rt.Ready != nil {
		checks = rt.Ready(c.Request.Context())
		for _, ch := range checks {
			if ch.Status == component.StatusUnhealthy {
				status = "not_ready"
				httpStatus = http.StatusServiceUnavailable
				break
			}
		}
	}

	c.JSON(httpStatus, gin.H{
		"status":     status,
		"components": checks,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	})
}

func (rt *Routes) version(c *gin.Context) {
	v := version.Current()
	c.JSON(http.StatusOK, gin.H{
		"version":    v.Version,
		"commit":     v.Commit,
		"build_time": v.BuildTime,
		"go_version": v.GoVersion,
	})
}
