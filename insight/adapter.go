package insight

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"strings"

	"github.com/quantfold/finkit/errors"
	"github.com/quantfold/finkit/httpclient"
	"github.com/quantfold/finkit/logger"
	"github.com/quantfold/finkit/provider"
	"github.com/quantfold/finkit/resilience"
)

const (
	defaultTemperature   = 0.1
	defaultMaxTokens     = 2000
	defaultMaxConcurrent = 4
)

// Config configures an insight adapter. Dialect-specific transport details
// (auth scheme, extra headers) come from the driver package that builds it.
type Config struct {
	// Name identifies the provider instance.
	Name string
	// BaseURL is the vendor API root.
	BaseURL string
	// Auth authenticates every request.
	Auth *httpclient.AuthConfig
	// Headers are added to every request.
	Headers map[string]string
	// Model is the default model when the request names none.
	Model string
	// Temperature is the default sampling temperature. Nil means 0.1; an
	// explicit 0 requests greedy decoding.
	Temperature *float64
	// MaxTokens is the default response cap. Zero means 2000.
	MaxTokens int
	// MaxConcurrent caps in-flight upstream calls. Zero means 4.
	MaxConcurrent int
}

func (c *Config) applyDefaults() {
	if c.Temperature == nil {
		temp := defaultTemperature
		c.Temperature = &temp
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = defaultMaxTokens
	}
	if c.MaxConcurrent == 0 {
		c.MaxConcurrent = defaultMaxConcurrent
	}
}

// Adapter serves the insight capabilities from one completion vendor. It
// composes the HTTP client with a Dialect for wire mapping and a bulkhead
// so one slow model cannot absorb every worker.
type Adapter struct {
	name      string
	http      *httpclient.Client
	dialect   Dialect
	model     string
	temp      float64
	maxTokens int
	bulkhead  *resilience.Bulkhead
	log       *logger.Logger
}

var (
	_ provider.Invoker = (*Adapter)(nil)
	_ provider.Prober  = (*Adapter)(nil)
)

// NewAdapter creates an insight adapter with an explicit dialect instance.
func NewAdapter(dialect Dialect, cfg Config) (*Adapter, error) {
	if dialect == nil {
		return nil, errors.MissingField("dialect")
	}
	cfg.applyDefaults()
	if cfg.Name == "" {
		cfg.Name = dialect.Name()
	}

	httpClient, err := httpclient.New(httpclient.Config{
		BaseURL: cfg.BaseURL,
		Auth:    cfg.Auth,
		Headers: cfg.Headers,
		Retry:   httpclient.DefaultRetryConfig(),
	})
	if err != nil {
		return nil, err
	}

	return &Adapter{
		name:      cfg.Name,
		http:      httpClient,
		dialect:   dialect,
		model:     cfg.Model,
		temp:      *cfg.Temperature,
		maxTokens: cfg.MaxTokens,
		bulkhead:  resilience.NewBulkhead(resilience.BulkheadConfig{Name: cfg.Name, MaxConcurrent: cfg.MaxConcurrent}),
		log:       logger.Get("insight"),
	}, nil
}

// New creates an insight adapter using the global dialect registry.
func New(dialectName string, cfg Config) (*Adapter, error) {
	dialect, err := GetDialect(dialectName)
	if err != nil {
		return nil, err
	}
	return NewAdapter(dialect, cfg)
}

// Name returns the provider instance name.
func (a *Adapter) Name() string { return a.name }

// Invoke dispatches one insight operation.
func (a *Adapter) Invoke(ctx context.Context, capability provider.Capability, params map[string]any) (any, error) {
	a.log.Debug("insight call", map[string]interface{}{
		logger.FieldProvider:   a.name,
		logger.FieldCapability: string(capability),
	})
	switch capability {
	case CapAnalyze:
		return a.analyze(ctx, params)
	case CapSentiment:
		return a.sentiment(ctx, params)
	case CapMarketInsights:
		return a.marketInsights(ctx)
	default:
		return nil, errors.UnknownCapability(string(capability))
	}
}

// Probe hits the dialect's liveness endpoint when it has one. Vendors
// without one are assumed healthy; a full completion is too expensive for
// a background probe.
func (a *Adapter) Probe(ctx context.Context) error {
	hp := a.dialect.HealthPath()
	if hp == "" {
		return nil
	}
	_, err := httpclient.GetJSON[json.RawMessage](a.http, ctx, hp)
	if err != nil {
		return provider.ClassifyVendorError(a.name, err)
	}
	return nil
}

// Complete sends a completion request and returns the full response.
func (a *Adapter) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	a.fillDefaults(&req)

	body, err := a.dialect.BuildRequest(req)
	if err != nil {
		return nil, errors.InvalidResponse(a.name, "build request: "+err.Error()).WithCause(err)
	}

	var raw json.RawMessage
	err = a.bulkhead.Execute(ctx, func() error {
		var callErr error
		raw, callErr = httpclient.PostJSON[json.RawMessage](a.http, ctx, a.dialect.ChatPath(), body)
		return callErr
	})
	if err != nil {
		if stderrors.Is(err, resilience.ErrBulkheadFull) || stderrors.Is(err, resilience.ErrBulkheadTimeout) {
			return nil, errors.RateLimited(a.name).WithCause(err)
		}
		return nil, provider.ClassifyVendorError(a.name, err)
	}

	resp, err := a.dialect.ParseResponse(raw)
	if err != nil {
		return nil, errors.InvalidResponse(a.name, "parse response: "+err.Error()).WithCause(err)
	}
	return resp, nil
}

// completeStructured sends a prompt expecting JSON and unmarshals the
// response into out. Model output wrapped in markdown fences is tolerated;
// anything that still fails to parse is an invalid response.
func (a *Adapter) completeStructured(ctx context.Context, system, user string, out any) error {
	system += "\n\nIMPORTANT: Respond with ONLY the JSON object. " +
		"No markdown, no code blocks, no explanations. " +
		"Start with { and end with }."

	resp, err := a.Complete(ctx, CompletionRequest{
		SystemPrompt: system,
		Messages:     []Message{{Role: "user", Content: user}},
	})
	if err != nil {
		return err
	}

	content := extractJSON(resp.Content)
	if err := json.Unmarshal([]byte(content), out); err != nil {
		return errors.InvalidResponse(a.name, "unmarshal structured response: "+err.Error()).WithCause(err)
	}
	return nil
}

func (a *Adapter) analyze(ctx context.Context, params map[string]any) (any, error) {
	symbol, err := symbolParam(params)
	if err != nil {
		return nil, err
	}
	focus, _ := params["focus"].(string)

	var result Analysis
	if err := a.completeStructured(ctx, analysisSystemPrompt, analysisUserPrompt(symbol, focus), &result); err != nil {
		return nil, err
	}
	if result.Symbol == "" {
		result.Symbol = symbol
	}
	return &result, nil
}

func (a *Adapter) sentiment(ctx context.Context, params map[string]any) (any, error) {
	symbol, err := symbolParam(params)
	if err != nil {
		return nil, err
	}

	var result Sentiment
	if err := a.completeStructured(ctx, sentimentSystemPrompt, sentimentUserPrompt(symbol), &result); err != nil {
		return nil, err
	}
	if result.Symbol == "" {
		result.Symbol = symbol
	}
	return &result, nil
}

func (a *Adapter) marketInsights(ctx context.Context) (any, error) {
	var result MarketInsights
	if err := a.completeStructured(ctx, marketSystemPrompt, marketUserPrompt(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (a *Adapter) fillDefaults(req *CompletionRequest) {
	if req.Model == "" {
		req.Model = a.model
	}
	if req.Temperature == 0 {
		req.Temperature = a.temp
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = a.maxTokens
	}
}

func symbolParam(params map[string]any) (string, error) {
	symbol, _ := params["symbol"].(string)
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return "", errors.MissingField("symbol")
	}
	return symbol, nil
}

// extractJSON pulls a JSON object from model output that may carry
// markdown code fences despite the prompt.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s[3:], "\n"); idx >= 0 {
			s = s[3+idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}
