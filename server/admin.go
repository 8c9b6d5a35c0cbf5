package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quantfold/finkit/cache"
	"github.com/quantfold/finkit/config"
	apperrors "github.com/quantfold/finkit/errors"
	"github.com/quantfold/finkit/health"
	"github.com/quantfold/finkit/provider"
	"github.com/quantfold/finkit/validation"
)

// providerStatusView joins a provider's health snapshot with its registry
// policy and rate headroom.
type providerStatusView struct {
	health.Status
	Priority     int      `json:"priority"`
	Capabilities []string `json:"capabilities"`
	Vendor       string   `json:"vendor,omitempty"`
	RateHeadroom float64  `json:"rate_headroom"`
}

type statusResponse struct {
	Providers []providerStatusView `json:"providers"`
	Cache     *cache.StatsSnapshot `json:"cache,omitempty"`
}

func (rt *Routes) providerStatus(c *gin.Context) {
	names := rt.Registry.Names()
	views := make([]providerStatusView, 0, len(names))
	for _, name := range names {
		desc, ok := rt.Registry.Get(name)
		if !ok {
			continue
		}
		view := providerStatusView{
			Status:       rt.Monitor.Tracker(desc).Status(),
			Priority:     desc.Priority,
			Capabilities: make([]string, 0, len(desc.Capabilities)),
			Vendor:       desc.Metadata["vendor"],
			RateHeadroom: rt.Limits.Headroom(name),
		}
		for _, capability := range desc.Capabilities {
			view.Capabilities = append(view.Capabilities, string(capability))
		}
		views = append(views, view)
	}

	resp := statusResponse{Providers: views}
	if rt.Cache != nil {
		stats := rt.Cache.Stats()
		resp.Cache = &stats
	}
	respondOK(c, resp)
}

type swapRequest struct {
	Kind   string         `json:"kind" validate:"required"`
	Config map[string]any `json:"config"`
}

// providerSwap rebuilds the named provider from its vendor factory with
// new config and replaces it atomically. The body is decoded like a config
// file provider entry, so policy fields (priority, timeout, rate, breaker,
// probe_interval, capabilities) take effect on swap exactly as they do at
// startup. In-flight dispatches finish on the descriptor they captured.
func (rt *Routes) providerSwap(c *gin.Context) {
	name := c.Param("name")

	var req swapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.InvalidInput("body", err.Error()))
		return
	}
	if err := validation.Validate(req); err != nil {
		respondError(c, err)
		return
	}

	pc, err := config.DecodeProvider(req.Config)
	if err != nil {
		respondError(c, apperrors.InvalidInput("config", err.Error()))
		return
	}
	pc.Name = name
	pc.Type = req.Kind

	desc, err := provider.FromConfig(pc)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := rt.Registry.Register(desc); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"provider": name, "kind": req.Kind})
}

func (rt *Routes) providerRemove(c *gin.Context) {
	name := c.Param("name")
	if err := rt.Registry.Remove(name); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type priorityRequest struct {
	Priority *int `json:"priority" validate:"required,gte=0"`
}

func (rt *Routes) providerPriority(c *gin.Context) {
	name := c.Param("name")

	var req priorityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.InvalidInput("body", err.Error()))
		return
	}
	if err := validation.Validate(req); err != nil {
		respondError(c, err)
		return
	}
	if err := rt.Registry.SetPriority(name, *req.Priority); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"provider": name, "priority": *req.Priority})
}
