// Package insight is the AI-insight provider kit. An Adapter pairs the
// shared HTTP client with a vendor Dialect that maps universal completion
// types onto the vendor's wire format, and serves three capabilities:
// analyze, sentiment and market-insights. Structured outputs are requested
// as strict JSON; responses that fail to parse are invalid responses, not
// transport failures.
//
// Dialect drivers live in sub-packages (insight/openai, insight/anthropic)
// and register themselves on import, the same way database/sql drivers do.
package insight
