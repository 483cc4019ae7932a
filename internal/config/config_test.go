package config

import (
	"testing"
	"time"
)

func TestNewReadsEnvironment(t *testing.T) {
	t.Setenv("WORKROOM_BASE_URL", "https://api.example.test")
	t.Setenv("WORKROOM_API_KEY", "key-1")
	t.Setenv("WORKROOM_HTTP_TIMEOUT_SECONDS", "7")

	cfg, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if cfg.BaseURL != "https://api.example.test" || cfg.APIKey != "key-1" {
		t.Fatalf("cfg: %+v", cfg)
	}
	if cfg.HTTPTimeout() != 7*time.Second {
		t.Fatalf("HTTPTimeout: %v", cfg.HTTPTimeout())
	}
	if !cfg.BackendConfigured() {
		t.Fatal("BackendConfigured: false")
	}
	if cfg.StorageBucket != "workroom-files" {
		t.Fatalf("StorageBucket default: %q", cfg.StorageBucket)
	}
}

func TestBackendConfiguredNeedsBothValues(t *testing.T) {
	cases := []struct {
		baseURL, apiKey string
		want            bool
	}{
		{"", "", false},
		{"https://x", "", false},
		{"", "k", false},
		{"https://x", "k", true},
	}
	for _, tc := range cases {
		cfg := Config{BaseURL: tc.baseURL, APIKey: tc.apiKey}
		if got := cfg.BackendConfigured(); got != tc.want {
			t.Errorf("(%q,%q): got %v", tc.baseURL, tc.apiKey, got)
		}
	}
}
