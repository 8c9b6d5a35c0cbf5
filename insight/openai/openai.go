// Package openai is the OpenAI-compatible insight driver. Importing it
// registers the "openai" dialect and vendor factory. Any gateway speaking
// the chat-completions wire format works through a base_url override.
package openai

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
const Kind = "openai"

const (
	defaultBaseURL = "https://api.openai.com"
	defaultModel   = "gpt-4"
)

func init() {
	insight.RegisterDialect(Kind, Dialect{})
	provider.RegisterFactory(Kind, NewDescriptor)
}

// Dialect speaks the OpenAI chat-completions wire format.
type Dialect struct{}

var _ insight.Dialect = Dialect{}

func (Dialect) Name() string       { return Kind }
func (Dialect) ChatPath() string   { return "/v1/chat/completions" }
func (Dialect) HealthPath() string { return "/v1/models" }

// BuildRequest maps a universal request onto the chat-completions body.
// The system prompt becomes the leading message.
func (Dialect) BuildRequest(req insight.CompletionRequest) (any, error) {
	messages := make([]wireMessage, 0, len(req.Messages)+1)
	if req.SystemPrompt != "" {
		messages = append(messages, wireMessage{Role: "system", Content: req.SystemPrompt})
	}
	for _, m := range req.Messages {
		messages = append(messages, wireMessage{Role: m.Role, Content: m.Content})
	}
	return wireRequest{
		Model:       req.Model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}, nil
}

// ParseResponse extracts choices[0].message.content and the usage block.
func (Dialect) ParseResponse(body []byte) (*insight.CompletionResponse, error) {
	var resp wireResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion has no choices")
	}
	return &insight.CompletionResponse{
		Content: resp.Choices[0].Message.Content,
		Model:   resp.Model,
		Usage: insight.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

// NewDescriptor builds the OpenAI descriptor from a vendor config map.
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
		Auth:        httpclient.BearerAuth(apiKey),
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
		Priority:      10,
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
	Messages    []wireMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type wireResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message wireMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}
