// Package anthropic is the Anthropic insight driver. Importing it
// registers the "anthropic" dialect and vendor factory.
package anthropic

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/quantfold/finkit/errors"
	"github.com/quantfold/finkit/httpclient"
	"github.com/quantfold/finkit/insight"
	"github.com/quantfold/finkit/provider"
)

// Kind is the vendor factory key and dialect name.
const Kind = "anthropic"

const (
	defaultBaseURL = "https://api.anthropic.com"
	defaultModel   = "claude-3-sonnet"
	apiVersion     = "2023-06-01"
)

func init() {
	insight.RegisterDialect(Kind, Dialect{})
	provider.RegisterFactory(Kind, NewDescriptor)
}

// Dialect speaks the Anthropic messages wire format. The system prompt
// travels as a top-level field, not a message.
type Dialect struct{}

var _ insight.Dialect = Dialect{}

func (Dialect) Name() string       { return Kind }
func (Dialect) ChatPath() string   { return "/v1/messages" }
func (Dialect) HealthPath() string { return "" }

// BuildRequest maps a universal request onto the messages body. The
// messages endpoint rejects a zero max_tokens, so the adapter default
// always arrives filled in.
func (Dialect) BuildRequest(req insight.CompletionRequest) (any, error) {
	messages := make([]wireMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, wireMessage{Role: m.Role, Content: m.Content})
	}
	return wireRequest{
		Model:       req.Model,
		System:      req.SystemPrompt,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}, nil
}

// ParseResponse extracts content[0].text and the usage token counts.
func (Dialect) ParseResponse(body []byte) (*insight.CompletionResponse, error) {
	var resp wireResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}
	if len(resp.Content) == 0 {
		return nil, fmt.Errorf("message has no content blocks")
	}
	return &insight.CompletionResponse{
		Content: resp.Content[0].Text,
		Model:   resp.Model,
		Usage: insight.Usage{
			PromptTokens:     resp.Usage.InputTokens,
			CompletionTokens: resp.Usage.OutputTokens,
			TotalTokens:      resp.Usage.InputTokens + resp.Usage.OutputTokens,
		},
	}, nil
}

// NewDescriptor builds the Anthropic descriptor from a vendor config map.
func NewDescriptor(cfg map[string]any) (provider.Descriptor, error) {
	name, _ := cfg["name"].(string)
	if name == "" {
		name = Kind
	}
	apiKey, _ := cfg["api_key"].(string)
	if apiKey == "" {
		return provider.Descriptor{}, errors.MissingField("api_key")
	}
	baseURL, _ := cfg["base_url"].(string)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model, _ := cfg["model"].(string)
	if model == "" {
		model = defaultModel
	}

	var temperature *float64
	if v, ok := cfg["temperature"].(float64); ok {
		temperature = &v
	}
	var maxTokens int
	switch v := cfg["max_tokens"].(type) {
	case int:
		maxTokens = v
	case float64:
		// JSON-decoded config maps carry numbers as float64.
		maxTokens = int(v)
	}

	adapter, err := insight.NewAdapter(Dialect{}, insight.Config{
		Name:        name,
		BaseURL:     baseURL,
		Auth:        httpclient.APIKeyAuthHeader(apiKey, "x-api-key"),
		Headers:     map[string]string{"anthropic-version": apiVersion},
		Model:       model,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return provider.Descriptor{}, err
	}

	return provider.Descriptor{
		Name: name,
		Capabilities: []provider.Capability{
			insight.CapAnalyze,
			insight.CapSentiment,
			insight.CapMarketInsights,
		},
		Priority:      20,
		Timeout:       30 * time.Second,
		RateLimit:     provider.RatePolicy{PerSecond: 1, Burst: 3},
		ProbeInterval: 5 * time.Minute,
		Invoker:       adapter,
		Metadata: map[string]string{
			"vendor":   Kind,
			"base_url": baseURL,
			"model":    model,
		},
	}, nil
}

type wireRequest struct {
	Model       string        `json:"model"`
	System      string        `json:"system,omitempty"`
	Messages    []wireMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type wireResponse struct {
	Model   string `json:"model"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}
