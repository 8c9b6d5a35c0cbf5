package server

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quantfold/finkit/cache"
	"github.com/quantfold/finkit/component"
	"github.com/quantfold/finkit/dispatch"
	"github.com/quantfold/finkit/health"
	"github.com/quantfold/finkit/provider"
	"github.com/quantfold/finkit/ratelimit"
	"github.com/quantfold/finkit/server/middleware"
)

// Routes wires the HTTP handlers to the orchestration layer.
type Routes struct {
	Dispatcher *dispatch.Dispatcher
	Registry   *provider.Registry
	Monitor    *health.Monitor
	Limits     *ratelimit.Limits
	// Cache feeds the status surface. Nil when caching is disabled.
	Cache *cache.Cache
	// Ready supplies component health for the readiness probe.
	Ready func(ctx context.Context) []component.Health
	// DefaultDeadline bounds API requests that carry no deadline header.
	DefaultDeadline time.Duration
}

// Register mounts all routes on the engine. System probes stay outside the
// deadline middleware so a saturated dispatcher cannot fail a liveness
// check.
func (rt *Routes) Register(engine *gin.Engine) {
	engine.GET("/healthz", rt.healthz)
	engine.GET("/readyz", rt.readyz)
	engine.GET("/version", rt.version)

	api := engine.Group("/api/v1")
	api.Use(middleware.Deadline(rt.DefaultDeadline))

	market := api.Group("/market")
	market.GET("/quote/:symbol", rt.marketQuote)
	market.GET("/profile/:symbol", rt.marketProfile)
	market.GET("/historical/:symbol", rt.marketHistorical)
	market.GET("/search", rt.marketSearch)
	market.GET("/crypto/:symbol", rt.marketCrypto)
	market.GET("/overview", rt.marketOverview)

	insights := api.Group("/insights")
	insights.POST("/analyze", rt.insightAnalyze)
	insights.GET("/sentiment/:symbol", rt.insightSentiment)
	insights.GET("/market", rt.insightMarket)

	providers := api.Group("/providers")
	providers.GET("/status", rt.providerStatus)
	providers.PUT("/:name", rt.providerSwap)
	providers.DELETE("/:name", rt.providerRemove)
	providers.PATCH("/:name/priority", rt.providerPriority)
}

// dispatch runs one operation and renders the envelope.
func (rt *Routes) dispatch(c *gin.Context, capability provider.Capability, params map[string]any) {
	res, err := rt.Dispatcher.Dispatch(c.Request.Context(), capability, params)
	if err != nil {
		respondError(c, err)
		return
	}
	respondResult(c, res)
}
