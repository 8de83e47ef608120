// Package config holds the per-session pipeline configuration.
//
// Configuration is an explicit value constructed once at session start and
// passed into every component; there is no ambient mutable global. Sources,
// in increasing precedence: built-in defaults, an optional JSON file, an
// optional .env file, then CIRCLE_SEARCH_* environment variables.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config is the full pipeline configuration.
type Config struct {
	// Languages are the OCR language codes, passed through to the engine
	// unchanged.
	Languages []string `json:"languages"`

	// TokenFloor is the per-token noise floor (0-100): observations at or
	// below it are discarded during extraction.
	TokenFloor float64 `json:"token_floor"`

	// MinConfidence is the aggregate acceptance threshold (0-100) below
	// which routing falls back to visual search.
	MinConfidence float64 `json:"min_confidence"`

	// MinTextLen is the minimum normalized text length for a text route.
	MinTextLen int `json:"min_text_len"`

	// TranslateTarget is the target language code for translate mode.
	TranslateTarget string `json:"translate_target"`

	// CaptureTimeoutSecs bounds each non-interactive capture attempt.
	CaptureTimeoutSecs int `json:"capture_timeout_secs"`

	// TempRoot is where session workspaces are created; empty means the
	// system temp directory.
	TempRoot string `json:"temp_root"`

	// AdaptiveWindow is the local-threshold window side length (odd).
	AdaptiveWindow int `json:"adaptive_window"`

	// AdaptiveBias is subtracted from the local mean before comparison.
	AdaptiveBias int `json:"adaptive_bias"`

	// ContrastFactor is the contrast strategy's boost percentage.
	ContrastFactor float64 `json:"contrast_factor"`
}

// Default returns the configuration the pipeline was calibrated with.
//
// The confidence thresholds are deliberately tunable rather than contractual:
// 30/55 is the calibrated pick, with the window and bias matching the
// adaptive parameters of the original preprocessing.
func Default() *Config {
	return &Config{
		Languages:          []string{"eng"},
		TokenFloor:         30,
		MinConfidence:      55,
		MinTextLen:         3,
		TranslateTarget:    "en",
		CaptureTimeoutSecs: 20,
		TempRoot:           "",
		AdaptiveWindow:     11,
		AdaptiveBias:       2,
		ContrastFactor:     40,
	}
}

// LoadFromFile reads a JSON config file over the defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Load assembles the effective configuration. An explicit path must exist;
// otherwise the default config path is used when present. A .env file in the
// working directory is honored before environment overrides are applied.
func Load(path string) (*Config, error) {
	var cfg *Config
	var err error

	switch {
	case path != "":
		cfg, err = LoadFromFile(path)
	default:
		defaultPath := ConfigPath()
		if _, statErr := os.Stat(defaultPath); statErr == nil {
			cfg, err = LoadFromFile(defaultPath)
		} else {
			cfg = Default()
		}
	}
	if err != nil {
		return nil, err
	}

	// Missing .env is the normal case, not an error.
	_ = godotenv.Load()
	cfg.applyEnv(os.Getenv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides fields from CIRCLE_SEARCH_* variables.
func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv("CIRCLE_SEARCH_LANGUAGES"); v != "" {
		c.Languages = splitList(v)
	}
	if v := getenv("CIRCLE_SEARCH_TOKEN_FLOOR"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.TokenFloor = f
		}
	}
	if v := getenv("CIRCLE_SEARCH_MIN_CONFIDENCE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.MinConfidence = f
		}
	}
	if v := getenv("CIRCLE_SEARCH_MIN_TEXT_LEN"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MinTextLen = n
		}
	}
	if v := getenv("CIRCLE_SEARCH_TRANSLATE_TARGET"); v != "" {
		c.TranslateTarget = v
	}
	if v := getenv("CIRCLE_SEARCH_CAPTURE_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.CaptureTimeoutSecs = n
		}
	}
	if v := getenv("CIRCLE_SEARCH_TEMP_ROOT"); v != "" {
		c.TempRoot = v
	}
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks the configuration for out-of-range values.
func (c *Config) Validate() error {
	if len(c.Languages) == 0 {
		return fmt.Errorf("languages cannot be empty")
	}
	if c.TokenFloor < 0 || c.TokenFloor > 100 {
		return fmt.Errorf("token_floor must be between 0 and 100")
	}
	if c.MinConfidence < 0 || c.MinConfidence > 100 {
		return fmt.Errorf("min_confidence must be between 0 and 100")
	}
	if c.TokenFloor > c.MinConfidence {
		return fmt.Errorf("token_floor must not exceed min_confidence")
	}
	if c.MinTextLen < 1 {
		return fmt.Errorf("min_text_len must be positive")
	}
	if c.CaptureTimeoutSecs < 1 {
		return fmt.Errorf("capture_timeout_secs must be positive")
	}
	if c.AdaptiveWindow < 3 {
		return fmt.Errorf("adaptive_window must be at least 3")
	}
	if c.ContrastFactor < 0 || c.ContrastFactor > 100 {
		return fmt.Errorf("contrast_factor must be between 0 and 100")
	}
	return nil
}

// ConfigPath returns the default configuration file location.
func ConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./circle-search.json"
	}
	return filepath.Join(home, ".config", "circle-search", "config.json")
}
