// Package marketdata defines the market-data capabilities, their parameter
// contracts and the normalized payload types every vendor adapter maps its
// wire format into. The dispatcher moves these payloads as opaque values;
// the HTTP layer serializes them; only the vendor packages (fmp, yahoo)
// know the upstream shapes.
package marketdata
