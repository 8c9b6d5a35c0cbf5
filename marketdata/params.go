package marketdata

import (
	"strings"

	"github.com/quantfold/finkit/errors"
)

// Parameter keys shared by the HTTP layer and the vendor adapters.
const (
	ParamSymbol = "symbol"
	ParamPeriod = "period"
	ParamQuery  = "q"
	ParamLimit  = "limit"
)

// SymbolParam extracts and uppercases the symbol parameter.
func SymbolParam(params map[string]any) (string, error) {
	symbol, _ := params[ParamSymbol].(string)
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return "", errors.MissingField(ParamSymbol)
	}
	return symbol, nil
}

// PeriodParam extracts the historical period, defaulting to one year.
func PeriodParam(params map[string]any) (string, error) {
	period, _ := params[ParamPeriod].(string)
	if period == "" {
		return "1y", nil
	}
	if !ValidPeriod(period) {
		return "", errors.InvalidInput(ParamPeriod, "period must be one of "+strings.Join(ValidPeriods, ", "))
	}
	return period, nil
}

// QueryParam extracts the search query parameter.
func QueryParam(params map[string]any) (string, error) {
	query, _ := params[ParamQuery].(string)
	query = strings.TrimSpace(query)
	if query == "" {
		return "", errors.MissingField(ParamQuery)
	}
	return query, nil
}

// LimitParam extracts the result limit, defaulting to def and capping at 50.
func LimitParam(params map[string]any, def int) int {
	limit := def
	switch v := params[ParamLimit].(type) {
	case int:
		limit = v
	case float64:
		limit = int(v)
	}
	if limit <= 0 {
		limit = def
	}
	if limit > 50 {
		limit = 50
	}
	return limit
}

// CryptoPair normalizes a crypto symbol to its USD pair form (BTC -> BTC-USD).
func CryptoPair(symbol string) string {
	if strings.HasSuffix(symbol, "-USD") {
		return symbol
	}
	return symbol + "-USD"
}
