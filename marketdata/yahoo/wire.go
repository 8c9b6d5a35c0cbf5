package yahoo

// Wire shapes as the Yahoo chart v8 and search v1 endpoints return them.
// OHLCV columns are parallel arrays of nullable floats aligned with the
// timestamp array.

type wireChart struct {
	Chart struct {
		Result []wireChartResult `json:"result"`
		Error  *wireChartError   `json:"error"`
	} `json:"chart"`
}

type wireChartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type wireChartResult struct {
	Meta       wireMeta `json:"meta"`
	Timestamp  []int64  `json:"timestamp"`
	Indicators struct {
		Quote []wireOHLCV `json:"quote"`
	} `json:"indicators"`
}

type wireMeta struct {
	Symbol               string  `json:"symbol"`
	LongName             string  `json:"longName"`
	Currency             string  `json:"currency"`
	ExchangeName         string  `json:"exchangeName"`
	RegularMarketPrice   float64 `json:"regularMarketPrice"`
	ChartPreviousClose   float64 `json:"chartPreviousClose"`
	RegularMarketDayHigh float64 `json:"regularMarketDayHigh"`
	RegularMarketDayLow  float64 `json:"regularMarketDayLow"`
	RegularMarketVolume  int64   `json:"regularMarketVolume"`
	RegularMarketTime    int64   `json:"regularMarketTime"`
}

type wireOHLCV struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*int64   `json:"volume"`
}

type wireSearch struct {
	Quotes []wireSearchQuote `json:"quotes"`
}

type wireSearchQuote struct {
	Symbol    string `json:"symbol"`
	ShortName string `json:"shortname"`
	LongName  string `json:"longname"`
	Exchange  string `json:"exchange"`
	QuoteType string `json:"quoteType"`
}
