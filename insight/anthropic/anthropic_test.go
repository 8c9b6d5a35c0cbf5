package anthropic

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/quantfold/finkit/insight"
)

func TestBuildRequest(t *testing.T) {
	body, err := Dialect{}.BuildRequest(insight.CompletionRequest{
		Model:        "claude-3-sonnet",
		SystemPrompt: "be terse",
		Messages:     []insight.Message{{Role: "user", Content: "hi"}},
		MaxTokens:    2000,
	})
	if err != nil {
		t.Fatalf("BuildRequest: %v", err)
	}

	req := body.(wireRequest)
	if req.System != "be terse" {
		t.Errorf("expected top-level system field, got %+v", req)
	}
	if len(req.Messages) != 1 || req.Messages[0].Role != "user" {
		t.Errorf("system prompt must not appear as a message: %+v", req.Messages)
	}
	if req.MaxTokens != 2000 {
		t.Errorf("unexpected max_tokens %d", req.MaxTokens)
	}
}

func TestParseResponse(t *testing.T) {
	resp, err := Dialect{}.ParseResponse([]byte(`{
		"model":"claude-3-sonnet-20240229",
		"content":[{"type":"text","text":"hello"}],
		"usage":{"input_tokens":12,"output_tokens":3}}`))
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if resp.Content != "hello" {
		t.Errorf("unexpected content %q", resp.Content)
	}
	if resp.Usage.TotalTokens != 15 {
		t.Errorf("expected total from input+output, got %+v", resp.Usage)
	}
}

func TestParseResponseNoContent(t *testing.T) {
	if _, err := (Dialect{}).ParseResponse([]byte(`{"content":[]}`)); err == nil {
		t.Error("expected error for empty content")
	}
}

func TestDescriptorEndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("x-api-key"); got != "sk-ant-test" {
			t.Errorf("expected x-api-key header, got %q", got)
		}
		if got := r.Header.Get("anthropic-version"); got != apiVersion {
			t.Errorf("expected anthropic-version header, got %q", got)
		}
		w.Write([]byte(`{"model":"claude-3-sonnet",
			"content":[{"type":"text","text":"{\"themes\":[\"rates\"],\"outlook\":\"flat\",\"confidence\":0.4}"}],
			"usage":{"input_tokens":40,"output_tokens":20}}`))
	}))
	defer srv.Close()

	desc, err := NewDescriptor(map[string]any{"api_key": "sk-ant-test", "base_url": srv.URL})
	if err != nil {
		t.Fatalf("NewDescriptor: %v", err)
	}
	if desc.Priority != 20 || !desc.HasCapability(insight.CapMarketInsights) {
		t.Errorf("unexpected descriptor %+v", desc)
	}

	got, err := desc.Invoker.Invoke(context.Background(), insight.CapMarketInsights, nil)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if got.(*insight.MarketInsights).Outlook != "flat" {
		t.Errorf("unexpected insights %+v", got)
	}
}

func TestNewDescriptorRequiresAPIKey(t *testing.T) {
	if _, err := NewDescriptor(map[string]any{"name": "anthropic"}); err == nil {
		t.Fatal("expected error for missing api_key")
	}
}
