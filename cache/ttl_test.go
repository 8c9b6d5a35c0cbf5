package cache

import (
	"testing"
	"time"
)

func TestTTLPolicy_DefaultTable(t *testing.T) {
	policy := DefaultTTLPolicy()

	tests := []struct {
		class string
		want  time.Duration
	}{
		{"quote", 30 * time.Second},
		{"crypto-quote", 30 * time.Second},
		{"market-overview", 5 * time.Minute},
		{"search", 15 * time.Minute},
		{"analyze", 30 * time.Minute},
		{"sentiment", 30 * time.Minute},
		{"market-insights", 30 * time.Minute},
		{"profile", time.Hour},
		{"historical", 4 * time.Hour},
		{"unknown-class", time.Minute},
	}
	for _, tt := range tests {
		if got := policy.For(tt.class); got != tt.want {
			t.Errorf("For(%s): expected %s, got %s", tt.class, tt.want, got)
		}
	}
}

func TestTTLPolicy_CustomTable(t *testing.T) {
	policy := NewTTLPolicy(map[string]time.Duration{"quote": 5 * time.Second}, 10*time.Second)

	if got := policy.For("quote"); got != 5*time.Second {
		t.Errorf("expected configured TTL, got %s", got)
	}
	if got := policy.For("profile"); got != 10*time.Second {
		t.Errorf("expected fallback TTL, got %s", got)
	}
}
