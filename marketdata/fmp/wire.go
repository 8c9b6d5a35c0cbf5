package fmp

// Wire shapes as FMP v3 returns them. Quotes and profiles arrive as
// single-element arrays.

type wireQuote struct {
	Symbol            string  `json:"symbol"`
	Name              string  `json:"name"`
	Price             float64 `json:"price"`
	Change            float64 `json:"change"`
	ChangesPercentage float64 `json:"changesPercentage"`
	PreviousClose     float64 `json:"previousClose"`
	Open              float64 `json:"open"`
	DayHigh           float64 `json:"dayHigh"`
	DayLow            float64 `json:"dayLow"`
	Volume            int64   `json:"volume"`
	MarketCap         float64 `json:"marketCap"`
	PE                float64 `json:"pe"`
	Timestamp         int64   `json:"timestamp"`
}

type wireProfile struct {
	Symbol            string  `json:"symbol"`
	CompanyName       string  `json:"companyName"`
	Description       string  `json:"description"`
	Industry          string  `json:"industry"`
	Sector            string  `json:"sector"`
	Country           string  `json:"country"`
	Website           string  `json:"website"`
	MktCap            float64 `json:"mktCap"`
	FullTimeEmployees int64   `json:"fullTimeEmployees,string"`
	ExchangeShortName string  `json:"exchangeShortName"`
	Currency          string  `json:"currency"`
	CEO               string  `json:"ceo"`
}

type wireHistorical struct {
	Symbol     string    `json:"symbol"`
	Historical []wireBar `json:"historical"`
}

type wireBar struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

type wireSearchResult struct {
	Symbol        string `json:"symbol"`
	Name          string `json:"name"`
	Currency      string `json:"currency"`
	StockExchange string `json:"stockExchange"`
}
