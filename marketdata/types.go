package marketdata

import "time"

// Quote is a normalized real-time quote for an equity or crypto asset.
type Quote struct {
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name,omitempty"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
	PreviousClose float64   `json:"previous_close"`
	Open          float64   `json:"open"`
	DayHigh       float64   `json:"day_high"`
	DayLow        float64   `json:"day_low"`
	Volume        int64     `json:"volume"`
	MarketCap     float64   `json:"market_cap,omitempty"`
	PERatio       float64   `json:"pe_ratio,omitempty"`
	AssetType     string    `json:"asset_type,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// Profile is a normalized company profile.
type Profile struct {
	Symbol      string  `json:"symbol"`
	Name        string  `json:"name"`
	Exchange    string  `json:"exchange,omitempty"`
	Currency    string  `json:"currency,omitempty"`
	Sector      string  `json:"sector,omitempty"`
	Industry    string  `json:"industry,omitempty"`
	Description string  `json:"description,omitempty"`
	Website     string  `json:"website,omitempty"`
	CEO         string  `json:"ceo,omitempty"`
	Employees   int64   `json:"employees,omitempty"`
	Country     string  `json:"country,omitempty"`
	MarketCap   float64 `json:"market_cap,omitempty"`
}

// Bar is one period of historical OHLCV data.
type Bar struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// Historical is a normalized historical price series, newest bar first.
type Historical struct {
	Symbol string `json:"symbol"`
	Period string `json:"period"`
	Bars   []Bar  `json:"bars"`
}

// SearchResult is one security matching a search query.
type SearchResult struct {
	Symbol    string `json:"symbol"`
	Name      string `json:"name"`
	Exchange  string `json:"exchange,omitempty"`
	Currency  string `json:"currency,omitempty"`
	AssetType string `json:"asset_type,omitempty"`
}

// SearchResults is a normalized search response.
type SearchResults struct {
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
	Count   int            `json:"count"`
}

// Overview is a normalized market overview: major index proxies plus the
// large-cap crypto pairs.
type Overview struct {
	Indices   []Quote   `json:"indices"`
	Crypto    []Quote   `json:"crypto"`
	Timestamp time.Time `json:"timestamp"`
}

// ValidPeriods are the historical ranges the API accepts.
var ValidPeriods = []string{"1d", "5d", "1mo", "3mo", "6mo", "1y", "5y"}

// ValidPeriod reports whether period is an accepted historical range.
func ValidPeriod(period string) bool {
	for _, p := range ValidPeriods {
		if p == period {
			return true
		}
	}
	return false
}
