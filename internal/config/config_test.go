package config

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default config should be valid: %v", err)
	}
	if cfg.LimitMinutes != DefaultLimit {
		t.Errorf("Expected default limit %d, got %v", DefaultLimit, cfg.LimitMinutes)
	}
	if cfg.TickInterval != 500*time.Millisecond {
		t.Errorf("Expected 500ms tick, got %s", cfg.TickInterval)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.LimitMinutes != DefaultLimit {
		t.Errorf("Expected defaults, got limit %v", cfg.LimitMinutes)
	}
}

func TestLoadConfigPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "limit_minutes: 45\ntick_interval: 250ms\ntheme: light\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.LimitMinutes != 45 {
		t.Errorf("Expected limit 45, got %v", cfg.LimitMinutes)
	}
	if cfg.TickInterval != 250*time.Millisecond {
		t.Errorf("Expected 250ms tick, got %s", cfg.TickInterval)
	}
	if cfg.Theme != ThemeLight {
		t.Errorf("Expected light theme, got %q", cfg.Theme)
	}
	// untouched keys keep defaults
	if !cfg.Notify {
		t.Error("Expected notify to default to true")
	}
	if cfg.Indicator.SideFraction != DefaultConfig().Indicator.SideFraction {
		t.Errorf("Expected default side fraction, got %v", cfg.Indicator.SideFraction)
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("limit_minutes: 500\n"), 0o600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("Expected error for out-of-range limit")
	}
	if !strings.Contains(err.Error(), "invalid config") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestLoadConfigBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("limit_minutes: [\n"), 0o600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("Expected parse error")
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.LimitMinutes = 30
	cfg.Notify = false
	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if got.LimitMinutes != 30 || got.Notify {
		t.Errorf("Reloaded config mismatch: %+v", got)
	}
}

func TestSaveConfigRejectsInvalid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Theme = "solarized"
	if err := SaveConfig(filepath.Join(t.TempDir(), "c.yaml"), cfg); err == nil {
		t.Error("Expected validation error")
	}
	if err := SaveConfig(filepath.Join(t.TempDir(), "c.yaml"), nil); err == nil {
		t.Error("Expected error for nil config")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"min limit", func(c *Config) { c.LimitMinutes = MinLimit }, false},
		{"max limit", func(c *Config) { c.LimitMinutes = MaxLimit }, false},
		{"limit too small", func(c *Config) { c.LimitMinutes = 0.5 }, true},
		{"limit too large", func(c *Config) { c.LimitMinutes = 121 }, true},
		{"limit NaN", func(c *Config) { c.LimitMinutes = math.NaN() }, true},
		{"zero tick", func(c *Config) { c.TickInterval = 0 }, true},
		{"bad theme", func(c *Config) { c.Theme = "" }, true},
		{"zero pen", func(c *Config) { c.Indicator.PenWidth = 0 }, true},
		{"negative accent", func(c *Config) { c.Indicator.AccentWidth = -1 }, true},
		{"margin too large", func(c *Config) { c.Indicator.MarginPercent = 50 }, true},
		{"side fraction zero", func(c *Config) { c.Indicator.SideFraction = 0 }, true},
		{"side fraction above one", func(c *Config) { c.Indicator.SideFraction = 1.5 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("Expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestClampLimit(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, MinLimit},
		{-10, MinLimit},
		{math.NaN(), MinLimit},
		{25, 25},
		{120, 120},
		{500, MaxLimit},
	}
	for _, tt := range tests {
		if got := ClampLimit(tt.in); got != tt.want {
			t.Errorf("ClampLimit(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
