package insight

import "github.com/quantfold/finkit/provider"

// AI-insight capabilities. Adapters serve all three; the dispatcher routes
// by these names and the cache keys entries under them.
const (
	CapAnalyze        provider.Capability = "analyze"
	CapSentiment      provider.Capability = "sentiment"
	CapMarketInsights provider.Capability = "market-insights"
)

// Message is a single chat message.
type Message struct {
	Role    string `json:"role"` // "system", "user", "assistant"
	Content string `json:"content"`
}

// CompletionRequest is the universal input for all completion vendors.
// Dialects map it onto their wire format.
type CompletionRequest struct {
	// Model overrides the adapter's default model.
	Model string `json:"model,omitempty"`
	// Messages is the conversation history.
	Messages []Message `json:"messages"`
	// SystemPrompt is prepended as a system message.
	SystemPrompt string `json:"system_prompt,omitempty"`
	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64 `json:"temperature,omitempty"`
	// MaxTokens limits the response length. 0 means adapter default.
	MaxTokens int `json:"max_tokens,omitempty"`
}

// CompletionResponse is the universal output from all completion vendors.
type CompletionResponse struct {
	// Content is the generated text.
	Content string `json:"content"`
	// Model is the model that produced the response.
	Model string `json:"model"`
	// Usage reports token consumption.
	Usage Usage `json:"usage"`
}

// Usage reports token consumption.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Analysis is the structured output of the analyze capability.
type Analysis struct {
	Symbol     string   `json:"symbol"`
	Summary    string   `json:"summary"`
	Signals    []string `json:"signals"`
	RiskLevel  string   `json:"risk_level"` // "low", "medium", "high"
	Confidence float64  `json:"confidence"` // 0..1
}

// Sentiment is the structured output of the sentiment capability.
type Sentiment struct {
	Symbol    string  `json:"symbol"`
	Score     float64 `json:"score"` // -1 (bearish) .. 1 (bullish)
	Label     string  `json:"label"` // "bearish", "neutral", "bullish"
	Rationale string  `json:"rationale"`
}

// MarketInsights is the structured output of the market-insights capability.
type MarketInsights struct {
	Themes     []string `json:"themes"`
	Outlook    string   `json:"outlook"`
	Confidence float64  `json:"confidence"` // 0..1
}
