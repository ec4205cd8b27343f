package internal

import (
	"log/slog"
	"testing"
	"time"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.App.HTTP.Port != 8080 {
		t.Errorf("default port = %d", cfg.App.HTTP.Port)
	}
	if cfg.Store.Backend != StoreBackendSQLite {
		t.Errorf("default backend = %q", cfg.Store.Backend)
	}
	if cfg.Notes.WeekStart() != time.Monday {
		t.Errorf("default week start = %v", cfg.Notes.WeekStart())
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"zero port", func(c *Config) { c.App.HTTP.Port = 0 }, true},
		{"port too high", func(c *Config) { c.App.HTTP.Port = 70000 }, true},
		{"bad log level", func(c *Config) { c.App.LogLevel = "verbose" }, true},
		{"empty log level ok", func(c *Config) { c.App.LogLevel = "" }, false},
		{"unknown backend", func(c *Config) { c.Store.Backend = "redis" }, true},
		{"fs backend", func(c *Config) { c.Store.Backend = StoreBackendFS }, false},
		{"empty store path", func(c *Config) { c.Store.Path = "" }, true},
		{"bad week start", func(c *Config) { c.Notes.WeekStartsOn = "payday" }, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr && err == nil {
				t.Error("Validate() = nil, want error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("Validate() = %v", err)
			}
		})
	}
}

func TestStoreConfigDefaultsBackend(t *testing.T) {
	cfg := StoreConfig{Path: "./x.db"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cfg.Backend != StoreBackendSQLite {
		t.Errorf("backend = %q, want sqlite", cfg.Backend)
	}
}

func TestNotesConfigNormalizesWeekStart(t *testing.T) {
	cfg := NotesConfig{WeekStartsOn: "Sunday"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cfg.WeekStartsOn != "sunday" {
		t.Errorf("week start = %q, not lowercased", cfg.WeekStartsOn)
	}
	if cfg.WeekStart() != time.Sunday {
		t.Errorf("WeekStart() = %v", cfg.WeekStart())
	}

	empty := NotesConfig{}
	if err := empty.Validate(); err != nil {
		t.Fatalf("validate empty: %v", err)
	}
	if empty.WeekStart() != time.Monday {
		t.Errorf("empty week start = %v, want Monday", empty.WeekStart())
	}
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
	}
	for _, tc := range tests {
		cfg := ApplicationConfig{LogLevel: tc.level}
		if got := cfg.SlogLevel(); got != tc.want {
			t.Errorf("SlogLevel(%q) = %v, want %v", tc.level, got, tc.want)
		}
	}
}

func TestHTTPAddress(t *testing.T) {
	cfg := HTTPConfig{Port: 9090}
	if got := cfg.Address(); got != ":9090" {
		t.Errorf("Address() = %q", got)
	}
}
