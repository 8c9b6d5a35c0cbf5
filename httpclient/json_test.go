package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type echoPayload struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
}

func TestGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if got := r.URL.Query().Get("symbol"); got != "AAPL" {
			t.Errorf("expected symbol=AAPL, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"symbol":"AAPL","price":187.44}`))
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := GetJSON[echoPayload](c, context.Background(), "/quote", WithQueryParam("symbol", "AAPL"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Symbol != "AAPL" || got.Price != 187.44 {
		t.Errorf("unexpected payload: %+v", got)
	}
}

func TestPostJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected JSON content type, got %q", ct)
		}
		w.Write([]byte(`{"symbol":"MSFT","price":431.1}`))
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := PostJSON[echoPayload](c, context.Background(), "/quote", echoPayload{Symbol: "MSFT"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Symbol != "MSFT" {
		t.Errorf("unexpected payload: %+v", got)
	}
}

func TestGetJSON_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"symbol":`))
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = GetJSON[echoPayload](c, context.Background(), "/quote")
	if err == nil {
		t.Fatal("expected decode error")
	}
	var clientErr *Error
	if !errors.As(err, &clientErr) || clientErr.Code != ErrCodeValidation {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestGetJSON_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(429)
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = GetJSON[echoPayload](c, context.Background(), "/quote")
	if !IsRateLimit(err) {
		t.Errorf("expected rate limit error, got %v", err)
	}
}
