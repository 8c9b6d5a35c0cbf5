// Package yahoo is the Yahoo Finance market-data adapter. Importing it
// registers the "yahoo" vendor factory.
package yahoo

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
const Kind = "yahoo"

const (
	defaultBaseURL = "https://query1.finance.yahoo.com"
	probeSymbol    = "AAPL"
)

func init() {
	provider.RegisterFactory(Kind, NewDescriptor)
}

// Client serves market-data capabilities from the public Yahoo Finance
// chart and search endpoints. No credential is required, which makes it
// the natural fallback behind keyed vendors.
type Client struct {
	name string
	http *httpclient.Client
	log  *logger.Logger
}

var (
	_ provider.Invoker = (*Client)(nil)
	_ provider.Prober  = (*Client)(nil)
)

// New creates a Yahoo Finance client.
func New(name, baseURL string) (*Client, error) {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient, err := httpclient.New(httpclient.Config{
		BaseURL: baseURL,
		Retry:   httpclient.DefaultRetryConfig(),
		Headers: map[string]string{
			// Yahoo rejects requests without a browser-looking agent.
			"User-Agent": "Mozilla/5.0 (compatible; finkit/1.0)",
		},
	})
	if err != nil {
		return nil, err
	}
	return &Client{
		name: name,
		http: httpClient,
		log:  logger.Get("yahoo"),
	}, nil
}

// NewDescriptor builds the Yahoo descriptor from a vendor config map.
// Priority sits behind FMP so Yahoo only serves when the keyed vendor is
// open-circuited, throttled, or absent.
func NewDescriptor(cfg map[string]any) (provider.Descriptor, error) {
	name, _ := cfg["name"].(string)
	if name == "" {
		name = Kind
	}
	baseURL, _ := cfg["base_url"].(string)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	client, err := New(name, baseURL)
	if err != nil {
		return provider.Descriptor{}, err
	}

	return provider.Descriptor{
		Name: name,
		Capabilities: []provider.Capability{
			marketdata.CapQuote,
			marketdata.CapHistorical,
			marketdata.CapSearch,
			marketdata.CapCryptoQuote,
		},
		Priority:      20,
		Timeout:       10 * time.Second,
		RateLimit:     provider.RatePolicy{PerSecond: 2, Burst: 5},
		ProbeInterval: 5 * time.Minute,
		Invoker:       client,
		Metadata: map[string]string{
			"vendor":   Kind,
			"base_url": baseURL,
		},
	}, nil
}

// Invoke dispatches one market-data operation against Yahoo Finance.
func (c *Client) Invoke(ctx context.Context, capability provider.Capability, params map[string]any) (any, error) {
	c.log.Debug("yahoo call", map[string]interface{}{
		logger.FieldProvider:   c.name,
		logger.FieldCapability: string(capability),
	})
	switch capability {
	case marketdata.CapQuote:
		return c.quote(ctx, params, false)
	case marketdata.CapCryptoQuote:
		return c.quote(ctx, params, true)
	case marketdata.CapHistorical:
		return c.historical(ctx, params)
	case marketdata.CapSearch:
		return c.search(ctx, params)
	default:
		return nil, errors.UnknownCapability(string(capability))
	}
}

// Probe fetches a single liquid chart as a cheap liveness check.
func (c *Client) Probe(ctx context.Context) error {
	_, err := c.fetchChart(ctx, probeSymbol, "1d", "1d")
	return err
}

func (c *Client) quote(ctx context.Context, params map[string]any, crypto bool) (any, error) {
	symbol, err := marketdata.SymbolParam(params)
	if err != nil {
		return nil, err
	}
	if crypto {
		symbol = marketdata.CryptoPair(symbol)
	}
	result, err := c.fetchChart(ctx, symbol, "1d", "1d")
	if err != nil {
		return nil, err
	}

	meta := result.Meta
	q := marketdata.Quote{
		Symbol:        meta.Symbol,
		Name:          meta.LongName,
		Price:         meta.RegularMarketPrice,
		PreviousClose: meta.ChartPreviousClose,
		DayHigh:       meta.RegularMarketDayHigh,
		DayLow:        meta.RegularMarketDayLow,
		Volume:        meta.RegularMarketVolume,
		Timestamp:     time.Unix(meta.RegularMarketTime, 0).UTC(),
	}
	if q.PreviousClose != 0 {
		q.Change = q.Price - q.PreviousClose
		q.ChangePercent = q.Change / q.PreviousClose * 100
	}
	if crypto {
		q.AssetType = "crypto"
	}
	return &q, nil
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

	result, err := c.fetchChart(ctx, symbol, period, chartInterval(period))
	if err != nil {
		return nil, err
	}

	if len(result.Indicators.Quote) == 0 {
		return nil, errors.InvalidResponse(c.name, "chart response missing quote indicators for "+symbol)
	}
	ohlcv := result.Indicators.Quote[0]

	bars := make([]marketdata.Bar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		// Yahoo nulls out rows for halted or pre-listing sessions.
		if i >= len(ohlcv.Close) || ohlcv.Close[i] == nil {
			continue
		}
		bar := marketdata.Bar{
			Date:  time.Unix(ts, 0).UTC().Format("2006-01-02"),
			Close: *ohlcv.Close[i],
		}
		if i < len(ohlcv.Open) && ohlcv.Open[i] != nil {
			bar.Open = *ohlcv.Open[i]
		}
		if i < len(ohlcv.High) && ohlcv.High[i] != nil {
			bar.High = *ohlcv.High[i]
		}
		if i < len(ohlcv.Low) && ohlcv.Low[i] != nil {
			bar.Low = *ohlcv.Low[i]
		}
		if i < len(ohlcv.Volume) && ohlcv.Volume[i] != nil {
			bar.Volume = *ohlcv.Volume[i]
		}
		bars = append(bars, bar)
	}
	if len(bars) == 0 {
		return nil, errors.InvalidResponse(c.name, "empty chart response for "+symbol)
	}
	return &marketdata.Historical{Symbol: symbol, Period: period, Bars: bars}, nil
}

func (c *Client) search(ctx context.Context, params map[string]any) (any, error) {
	query, err := marketdata.QueryParam(params)
	if err != nil {
		return nil, err
	}
	limit := marketdata.LimitParam(params, 10)

	resp, err := httpclient.GetJSON[wireSearch](c.http, ctx, "/v1/finance/search",
		httpclient.WithQueryParam("q", query),
		httpclient.WithQueryParam("quotesCount", fmt.Sprintf("%d", limit)))
	if err != nil {
		return nil, provider.ClassifyVendorError(c.name, err)
	}

	results := make([]marketdata.SearchResult, 0, len(resp.Quotes))
	for _, m := range resp.Quotes {
		name := m.LongName
		if name == "" {
			name = m.ShortName
		}
		results = append(results, marketdata.SearchResult{
			Symbol:    m.Symbol,
			Name:      name,
			Exchange:  m.Exchange,
			AssetType: assetType(m.QuoteType),
		})
	}
	return &marketdata.SearchResults{Query: query, Results: results, Count: len(results)}, nil
}

// fetchChart gets one chart result, unwrapping Yahoo's nested envelope and
// its in-band error object.
func (c *Client) fetchChart(ctx context.Context, symbol, yrange, interval string) (*wireChartResult, error) {
	resp, err := httpclient.GetJSON[wireChart](c.http, ctx, "/v8/finance/chart/"+symbol,
		httpclient.WithQueryParam("range", yrange),
		httpclient.WithQueryParam("interval", interval))
	if err != nil {
		return nil, provider.ClassifyVendorError(c.name, err)
	}
	if resp.Chart.Error != nil {
		return nil, errors.InvalidResponse(c.name,
			fmt.Sprintf("chart error for %s: %s", symbol, resp.Chart.Error.Description))
	}
	if len(resp.Chart.Result) == 0 {
		return nil, errors.InvalidResponse(c.name, "empty chart response for "+symbol)
	}
	return &resp.Chart.Result[0], nil
}

// chartInterval picks the candle width for a range. Intraday ranges get
// intraday candles, everything else gets dailies.
func chartInterval(period string) string {
	switch period {
	case "1d":
		return "5m"
	case "5d":
		return "30m"
	default:
		return "1d"
	}
}

func assetType(quoteType string) string {
	switch quoteType {
	case "CRYPTOCURRENCY":
		return "crypto"
	case "ETF":
		return "etf"
	case "INDEX":
		return "index"
	default:
		return "stock"
	}
}
