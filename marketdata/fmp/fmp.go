// Package fmp is the Financial Modeling Prep market-data adapter. Importing
// it registers the "fmp" vendor factory.
package fmp

import (
	"context"
	"fmt"
	"time"

	"github.com/quantfold/finkit/errors"
	"github.com/quantfold/finkit/httpclient"
	"github.com/quantfold/finkit/logger"
	"github.com/quantfold/finkit/marketdata"
	"github.com/quantfold/finkit/provider"
)

// Kind is the vendor factory key.
const Kind = "fmp"

const (
	defaultBaseURL = "https://financialmodelingprep.com/api/v3"
	probeSymbol    = "AAPL"
)

// overviewSymbols are the index proxies and crypto pairs batched into one
// quote call for the market overview.
const overviewSymbols = "SPY,QQQ,DIA,BTC-USD,ETH-USD"

func init() {
	provider.RegisterFactory(Kind, NewDescriptor)
}

// Client serves market-data capabilities from the FMP v3 REST API.
type Client struct {
	name string
	http *httpclient.Client
	log  *logger.Logger
}

var (
	_ provider.Invoker = (*Client)(nil)
	_ provider.Prober  = (*Client)(nil)
)

// New creates an FMP client. The API key travels as the apikey query
// parameter on every request, which is why cache keys strip it.
func New(name, baseURL, apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, errors.MissingField("api_key")
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient, err := httpclient.New(httpclient.Config{
		BaseURL: baseURL,
		Auth:    httpclient.APIKeyAuthQuery(apiKey, "apikey"),
		Retry:   httpclient.DefaultRetryConfig(),
	})
	if err != nil {
		return nil, err
	}
	return &Client{
		name: name,
		http: httpClient,
		log:  logger.Get("fmp"),
	}, nil
}

// NewDescriptor builds the FMP descriptor from a vendor config map. The
// registry-facing policy knobs (priority, timeout, rate, breaker) carry the
// vendor defaults; bootstrap overlays configured values on top.
func NewDescriptor(cfg map[string]any) (provider.Descriptor, error) {
	name, _ := cfg["name"].(string)
	if name == "" {
		name = Kind
	}
	baseURL, _ := cfg["base_url"].(string)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	apiKey, _ := cfg["api_key"].(string)

	client, err := New(name, baseURL, apiKey)
	if err != nil {
		return provider.Descriptor{}, err
	}

	return provider.Descriptor{
		Name: name,
		Capabilities: []provider.Capability{
			marketdata.CapQuote,
			marketdata.CapProfile,
			marketdata.CapHistorical,
			marketdata.CapSearch,
			marketdata.CapCryptoQuote,
			marketdata.CapMarketOverview,
		},
		Priority:      10,
		Timeout:       10 * time.Second,
		RateLimit:     provider.RatePolicy{PerSecond: 5, Burst: 10},
		ProbeInterval: 5 * time.Minute,
		Invoker:       client,
		Metadata: map[string]string{
			"vendor":   Kind,
			"base_url": baseURL,
		},
	}, nil
}

// Invoke dispatches one market-data operation against FMP.
func (c *Client) Invoke(ctx context.Context, capability provider.Capability, params map[string]any) (any, error) {
	c.log.Debug("fmp call", map[string]interface{}{
		logger.FieldProvider:   c.name,
		logger.FieldCapability: string(capability),
	})
	switch capability {
	case marketdata.CapQuote:
		return c.quote(ctx, params)
	case marketdata.CapProfile:
		return c.profile(ctx, params)
	case marketdata.CapHistorical:
		return c.historical(ctx, params)
	case marketdata.CapSearch:
		return c.search(ctx, params)
	case marketdata.CapCryptoQuote:
		return c.cryptoQuote(ctx, params)
	case marketdata.CapMarketOverview:
		return c.overview(ctx)
	default:
		return nil, errors.UnknownCapability(string(capability))
	}
}

// Probe fetches a single liquid quote as a cheap liveness check.
func (c *Client) Probe(ctx context.Context) error {
	_, err := c.fetchQuotes(ctx, probeSymbol)
	return err
}

func (c *Client) quote(ctx context.Context, params map[string]any) (any, error) {
	symbol, err := marketdata.SymbolParam(params)
	if err != nil {
		return nil, err
	}
	quotes, err := c.fetchQuotes(ctx, symbol)
	if err != nil {
		return nil, err
	}
	q := mapQuote(quotes[0])
	return &q, nil
}

func (c *Client) cryptoQuote(ctx context.Context, params map[string]any) (any, error) {
	symbol, err := marketdata.SymbolParam(params)
	if err != nil {
		return nil, err
	}
	quotes, err := c.fetchQuotes(ctx, marketdata.CryptoPair(symbol))
	if err != nil {
		return nil, err
	}
	q := mapQuote(quotes[0])
	q.AssetType = "crypto"
	return &q, nil
}

func (c *Client) profile(ctx context.Context, params map[string]any) (any, error) {
	symbol, err := marketdata.SymbolParam(params)
	if err != nil {
		return nil, err
	}
	profiles, err := httpclient.GetJSON[[]wireProfile](c.http, ctx, "/profile/"+symbol)
	if err != nil {
		return nil, provider.ClassifyVendorError(c.name, err)
	}
	if len(profiles) == 0 {
		return nil, errors.InvalidResponse(c.name, "empty profile response for "+symbol)
	}
	p := profiles[0]
	return &marketdata.Profile{
		Symbol:      p.Symbol,
		Name:        p.CompanyName,
		Exchange:    p.ExchangeShortName,
		Currency:    p.Currency,
		Sector:      p.Sector,
		Industry:    p.Industry,
		Description: p.Description,
		Website:     p.Website,
		CEO:         p.CEO,
		Employees:   p.FullTimeEmployees,
		Country:     p.Country,
		MarketCap:   p.MktCap,
	}, nil
}

func (c *Client) historical(ctx context.Context, params map[string]any) (any, error) {
	symbol, err := marketdata.SymbolParam(params)
	if err != nil {
		return nil, err
	}
	period, err := marketdata.PeriodParam(params)
	if err != nil {
		return nil, err
	}

	resp, err := httpclient.GetJSON[wireHistorical](c.http, ctx, "/historical-price-full/"+symbol,
		httpclient.WithQueryParam("timeseries", fmt.Sprintf("%d", tradingDays(period))))
	if err != nil {
		return nil, provider.ClassifyVendorError(c.name, err)
	}
	if len(resp.Historical) == 0 {
		return nil, errors.InvalidResponse(c.name, "empty historical response for "+symbol)
	}

	bars := make([]marketdata.Bar, 0, len(resp.Historical))
	for _, b := range resp.Historical {
		bars = append(bars, marketdata.Bar{
			Date: b.Date, Open: b.Open, High: b.High,
			Low: b.Low, Close: b.Close, Volume: b.Volume,
		})
	}
	return &marketdata.Historical{Symbol: symbol, Period: period, Bars: bars}, nil
}

func (c *Client) search(ctx context.Context, params map[string]any) (any, error) {
	query, err := marketdata.QueryParam(params)
	if err != nil {
		return nil, err
	}
	limit := marketdata.LimitParam(params, 10)

	matches, err := httpclient.GetJSON[[]wireSearchResult](c.http, ctx, "/search",
		httpclient.WithQueryParam("query", query),
		httpclient.WithQueryParam("limit", fmt.Sprintf("%d", limit)))
	if err != nil {
		return nil, provider.ClassifyVendorError(c.name, err)
	}

	results := make([]marketdata.SearchResult, 0, len(matches))
	for _, m := range matches {
		results = append(results, marketdata.SearchResult{
			Symbol:    m.Symbol,
			Name:      m.Name,
			Exchange:  m.StockExchange,
			Currency:  m.Currency,
			AssetType: "stock",
		})
	}
	return &marketdata.SearchResults{Query: query, Results: results, Count: len(results)}, nil
}

func (c *Client) overview(ctx context.Context) (any, error) {
	quotes, err := c.fetchQuotes(ctx, overviewSymbols)
	if err != nil {
		return nil, err
	}

	overview := &marketdata.Overview{Timestamp: time.Now().UTC()}
	for _, wq := range quotes {
		q := mapQuote(wq)
		if isCryptoPair(q.Symbol) {
			q.AssetType = "crypto"
			overview.Crypto = append(overview.Crypto, q)
		} else {
			overview.Indices = append(overview.Indices, q)
		}
	}
	return overview, nil
}

// fetchQuotes gets one or more quotes in a single batched call.
func (c *Client) fetchQuotes(ctx context.Context, symbols string) ([]wireQuote, error) {
	quotes, err := httpclient.GetJSON[[]wireQuote](c.http, ctx, "/quote/"+symbols)
	if err != nil {
		return nil, provider.ClassifyVendorError(c.name, err)
	}
	if len(quotes) == 0 {
		return nil, errors.InvalidResponse(c.name, "empty quote response for "+symbols)
	}
	return quotes, nil
}

func mapQuote(q wireQuote) marketdata.Quote {
	ts := time.Now().UTC()
	if q.Timestamp > 0 {
		ts = time.Unix(q.Timestamp, 0).UTC()
	}
	return marketdata.Quote{
		Symbol:        q.Symbol,
		Name:          q.Name,
		Price:         q.Price,
		Change:        q.Change,
		ChangePercent: q.ChangesPercentage,
		PreviousClose: q.PreviousClose,
		Open:          q.Open,
		DayHigh:       q.DayHigh,
		DayLow:        q.DayLow,
		Volume:        q.Volume,
		MarketCap:     q.MarketCap,
		PERatio:       q.PE,
		Timestamp:     ts,
	}
}

func isCryptoPair(symbol string) bool {
	return len(symbol) > 4 && symbol[len(symbol)-4:] == "-USD"
}

// tradingDays converts an API period into FMP's timeseries day count.
func tradingDays(period string) int {
	switch period {
	case "1d":
		return 1
	case "5d":
		return 5
	case "1mo":
		return 22
	case "3mo":
		return 66
	case "6mo":
		return 126
	case "5y":
		return 1260
	default: // 1y
		return 252
	}
}
