package server

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/quantfold/finkit/errors"
	"github.com/quantfold/finkit/insight"
	"github.com/quantfold/finkit/validation"
)

type analyzeRequest struct {
	Symbol string `json:"symbol" validate:"required,max=12"`
	Focus  string `json:"focus" validate:"max=200"`
}

func (rt *Routes) insightAnalyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.InvalidInput("body", err.Error()))
		return
	}
	if err := validation.Validate(req); err != nil {
		respondError(c, err)
		return
	}

	params := map[string]any{"symbol": req.Symbol}
	if req.Focus != "" {
		params["focus"] = req.Focus
	}
	rt.dispatch(c, insight.CapAnalyze, params)
}

func (rt *Routes) insightSentiment(c *gin.Context) {
	rt.dispatch(c, insight.CapSentiment, map[string]any{
		"symbol": c.Param("symbol"),
	})
}

func (rt *Routes) insightMarket(c *gin.Context) {
	rt.dispatch(c, insight.CapMarketInsights, map[string]any{})
}

// intQuery parses an integer query parameter.
func intQuery(c *gin.Context, key string) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}
