package config

import (
	"strings"
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name: "empty product url",
			mutate: func(cfg *Config) {
				cfg.ProductURL = ""
			},
			wantErr: "product URL",
		},
		{
			name: "url without host",
			mutate: func(cfg *Config) {
				cfg.ProductURL = "http://"
			},
			wantErr: "product URL",
		},
		{
			name: "empty user agent",
			mutate: func(cfg *Config) {
				cfg.UserAgent = ""
			},
			wantErr: "user agent",
		},
		{
			name: "negative timeout",
			mutate: func(cfg *Config) {
				cfg.Timeout = -1 * time.Second
			},
			wantErr: "timeout",
		},
		{
			name: "unknown backend",
			mutate: func(cfg *Config) {
				cfg.StoreBackend = "postgres"
			},
			wantErr: "store backend",
		},
		{
			name: "empty store path",
			mutate: func(cfg *Config) {
				cfg.StorePath = ""
			},
			wantErr: "store path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
}

func TestSQLiteBackendValid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StoreBackend = BackendSQLite
	cfg.StorePath = "price_history.db"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sqlite config should validate, got %v", err)
	}
}

func TestEnvString(t *testing.T) {
	t.Setenv("TRACKER_TEST_STRING", "value")
	if got, ok := EnvString("TRACKER_TEST_STRING"); !ok || got != "value" {
		t.Fatalf("EnvString = %q, %v", got, ok)
	}
	if _, ok := EnvString("TRACKER_TEST_UNSET"); ok {
		t.Fatalf("EnvString reported unset variable as present")
	}
}

func TestEnvInt(t *testing.T) {
	t.Setenv("TRACKER_TEST_INT", "30")
	got, ok, err := EnvInt("TRACKER_TEST_INT")
	if err != nil || !ok || got != 30 {
		t.Fatalf("EnvInt = %d, %v, %v", got, ok, err)
	}

	t.Setenv("TRACKER_TEST_INT", "thirty")
	if _, _, err := EnvInt("TRACKER_TEST_INT"); err == nil {
		t.Fatalf("EnvInt accepted non-numeric value")
	}

	if _, ok, err := EnvInt("TRACKER_TEST_UNSET"); ok || err != nil {
		t.Fatalf("EnvInt reported unset variable as present")
	}
}
