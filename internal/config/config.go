// Package config loads and validates the pomo configuration file.
package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Limits enforced on limit_minutes, in minutes.
const (
	MinLimit     = 1
	MaxLimit     = 120
	DefaultLimit = 20
)

// Themes selectable with the theme key.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Config holds pomo settings.
type Config struct {
	// LimitMinutes is the countdown length.
	LimitMinutes float64 `yaml:"limit_minutes"`
	// TickInterval is how often progress is reported.
	TickInterval time.Duration `yaml:"tick_interval"`
	// Notify shows a desktop notification when a run completes.
	Notify bool `yaml:"notify"`
	// Theme picks the palette: dark or light.
	Theme string `yaml:"theme"`
	// Indicator tunes the ring geometry, in terminal drawing units.
	Indicator IndicatorConfig `yaml:"indicator"`
}

// IndicatorConfig controls ring geometry.
type IndicatorConfig struct {
	PenWidth      float64 `yaml:"pen_width"`
	AccentWidth   float64 `yaml:"accent_width"`
	MarginPercent float64 `yaml:"margin_percent"`
	SideFraction  float64 `yaml:"side_fraction"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		LimitMinutes: DefaultLimit,
		TickInterval: 500 * time.Millisecond,
		Notify:       true,
		Theme:        ThemeDark,
		Indicator: IndicatorConfig{
			PenWidth:      1.6,
			AccentWidth:   0.8,
			MarginPercent: 8,
			SideFraction:  0.95,
		},
	}
}

// Dir returns ~/.pomo.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home dir: %w", err)
	}
	return filepath.Join(home, ".pomo"), nil
}

// DefaultPath returns ~/.pomo/config.yaml.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// LoadConfig loads configuration from a YAML file. A missing file yields the
// defaults; keys absent from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// LoadConfigFromHome loads configuration from ~/.pomo/config.yaml.
func LoadConfigFromHome() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadConfig(path)
}

// SaveConfig saves configuration to a YAML file, creating parent directories if needed.
func SaveConfig(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// SaveConfigToHome saves configuration to ~/.pomo/config.yaml.
func SaveConfigToHome(cfg *Config) error {
	path, err := DefaultPath()
	if err != nil {
		return err
	}
	return SaveConfig(path, cfg)
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if err := ValidateLimit(c.LimitMinutes); err != nil {
		return err
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick_interval must be positive, got %s", c.TickInterval)
	}
	if c.Theme != ThemeDark && c.Theme != ThemeLight {
		return fmt.Errorf("invalid theme %q, must be: %s or %s", c.Theme, ThemeDark, ThemeLight)
	}

	ind := c.Indicator
	if ind.PenWidth <= 0 {
		return fmt.Errorf("indicator.pen_width must be positive")
	}
	if ind.AccentWidth < 0 {
		return fmt.Errorf("indicator.accent_width must not be negative")
	}
	if ind.MarginPercent < 0 || ind.MarginPercent >= 50 {
		return fmt.Errorf("indicator.margin_percent must be in [0, 50), got %v", ind.MarginPercent)
	}
	if ind.SideFraction <= 0 || ind.SideFraction > 1 {
		return fmt.Errorf("indicator.side_fraction must be in (0, 1], got %v", ind.SideFraction)
	}

	return nil
}

// ValidateLimit checks a countdown length against MinLimit and MaxLimit.
func ValidateLimit(minutes float64) error {
	if math.IsNaN(minutes) || minutes < MinLimit || minutes > MaxLimit {
		return fmt.Errorf("limit_minutes must be between %d and %d, got %v", MinLimit, MaxLimit, minutes)
	}
	return nil
}

// ClampLimit forces minutes into [MinLimit, MaxLimit].
func ClampLimit(minutes float64) float64 {
	switch {
	case math.IsNaN(minutes), minutes < MinLimit:
		return MinLimit
	case minutes > MaxLimit:
		return MaxLimit
	default:
		return minutes
	}
}
