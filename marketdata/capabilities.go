package marketdata

import "github.com/quantfold/finkit/provider"

// Market-data capabilities. Vendor adapters declare the subset they serve;
// the dispatcher routes by these names and the cache keys entries under
// them.
const (
	CapQuote          provider.Capability = "quote"
	CapProfile        provider.Capability = "profile"
	CapHistorical     provider.Capability = "historical"
	CapSearch         provider.Capability = "search"
	CapCryptoQuote    provider.Capability = "crypto-quote"
	CapMarketOverview provider.Capability = "market-overview"
)
