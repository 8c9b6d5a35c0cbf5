package server

import (
	"github.com/gin-gonic/gin"

	"github.com/quantfold/finkit/marketdata"
)

func (rt *Routes) marketQuote(c *gin.Context) {
	rt.dispatch(c, marketdata.CapQuote, map[string]any{
		marketdata.ParamSymbol: c.Param("symbol"),
	})
}

func (rt *Routes) marketProfile(c *gin.Context) {
	rt.dispatch(c, marketdata.CapProfile, map[string]any{
		marketdata.ParamSymbol: c.Param("symbol"),
	})
}

func (rt *Routes) marketHistorical(c *gin.Context) {
	params := map[string]any{
		marketdata.ParamSymbol: c.Param("symbol"),
	}
	if period := c.Query("period"); period != "" {
		params[marketdata.ParamPeriod] = period
	}
	rt.dispatch(c, marketdata.CapHistorical, params)
}

func (rt *Routes) marketSearch(c *gin.Context) {
	params := map[string]any{
		marketdata.ParamQuery: c.Query("q"),
	}
	if limit, ok := intQuery(c, "limit"); ok {
		params[marketdata.ParamLimit] = limit
	}
	rt.dispatch(c, marketdata.CapSearch, params)
}

func (rt *Routes) marketCrypto(c *gin.Context) {
	rt.dispatch(c, marketdata.CapCryptoQuote, map[string]any{
		marketdata.ParamSymbol: c.Param("symbol"),
	})
}

func (rt *Routes) marketOverview(c *gin.Context) {
	rt.dispatch(c, marketdata.CapMarketOverview, map[string]any{})
}
