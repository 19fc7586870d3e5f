// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for parley.
//
// Configuration sources, in order of precedence:
//   - PARLEY_* environment variables
//   - ~/.parley/config.toml
//   - Built-in defaults
package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/parley-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the complete parley configuration.
type Config struct {
	// API configures how the terminal client reaches the parley server.
	API APIConfig `toml:"api"`

	// Chat configures completion parameters sent with every request.
	Chat ChatConfig `toml:"chat"`

	// Server configures the embedded API server (parley-tui serve).
	Server ServerConfig `toml:"server"`

	// UI configures terminal rendering.
	UI UIConfig `toml:"ui"`
}

// APIConfig points the client at a parley server.
type APIConfig struct {
	// BaseURL is the parley server address.
	BaseURL string `toml:"base_url"`
}

// ChatConfig holds completion parameters.
type ChatConfig struct {
	// Temperature is the sampling temperature for completions.
	Temperature float64 `toml:"temperature"`
	// MaxTokens caps the completion length.
	MaxTokens int `toml:"max_tokens"`
}

// ServerConfig configures the embedded API server.
type ServerConfig struct {
	// Port is the listen port for parley-tui serve.
	Port int `toml:"port"`
	// DatabasePath is the sqlite file (empty = ~/.parley/parley.db).
	DatabasePath string `toml:"database_path"`
	// TokenSecret signs auth tokens. Required to run the server.
	TokenSecret string `toml:"token_secret"`
	// UpstreamURL is the OpenAI-compatible completion endpoint.
	UpstreamURL string `toml:"upstream_url"`
	// UpstreamKey is the API key for the upstream endpoint.
	UpstreamKey string `toml:"upstream_key"`
	// Model is the model identifier sent upstream.
	Model string `toml:"model"`
	// LogPath is the rotating server log file (empty = ~/.parley/server.log).
	LogPath string `toml:"log_path"`
}

// UIConfig configures terminal rendering.
type UIConfig struct {
	// Theme selects the color theme: "dark" or "light".
	Theme string `toml:"theme"`
	// RevealIntervalMs is the word reveal pace in milliseconds.
	RevealIntervalMs int `toml:"reveal_interval_ms"`
}

// =============================================================================
// DEFAULTS AND PATHS
// =============================================================================

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:8787",
		},
		Chat: ChatConfig{
			Temperature: 0.7,
			MaxTokens:   2000,
		},
		Server: ServerConfig{
			Port:        8787,
			UpstreamURL: "https://openrouter.ai/api/v1",
			Model:       "openrouter/auto",
		},
		UI: UIConfig{
			Theme:            "dark",
			RevealIntervalMs: 40,
		},
	}
}

// Dir returns the parley configuration directory (~/.parley).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: resolve home directory: %w", err)
	}
	return filepath.Join(home, ".parley"), nil
}

// Path returns the configuration file path (~/.parley/config.toml).
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureDir creates the configuration directory with owner-only permissions.
func EnsureDir() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}

// =============================================================================
// LOAD AND SAVE
// =============================================================================

// Load reads the configuration file, fills defaults, and applies environment
// overrides. A missing file is not an error; defaults are used.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from an explicit file path.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration atomically with owner-only permissions.
func Save(cfg *Config) error {
	if err := EnsureDir(); err != nil {
		return err
	}
	path, err := Path()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}

	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies PARLEY_* environment variables over the loaded
// values. Invalid numeric values are ignored.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("PARLEY_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("PARLEY_MODEL"); v != "" {
		c.Server.Model = v
	}
	if v := os.Getenv("PARLEY_UPSTREAM_URL"); v != "" {
		c.Server.UpstreamURL = v
	}
	if v := os.Getenv("PARLEY_UPSTREAM_KEY"); v != "" {
		c.Server.UpstreamKey = v
	}
	if v := os.Getenv("PARLEY_TOKEN_SECRET"); v != "" {
		c.Server.TokenSecret = v
	}
	if v := os.Getenv("PARLEY_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("PARLEY_THEME"); v != "" {
		c.UI.Theme = v
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError describes one invalid configuration value.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if _, err := url.Parse(c.API.BaseURL); err != nil || c.API.BaseURL == "" {
		return ValidationError{Field: "api.base_url", Message: "must be a valid URL"}
	}
	if c.Chat.Temperature < 0 || c.Chat.Temperature > 2 {
		return ValidationError{Field: "chat.temperature", Message: "must be between 0 and 2"}
	}
	if c.Chat.MaxTokens < 1 {
		return ValidationError{Field: "chat.max_tokens", Message: "must be positive"}
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return ValidationError{Field: "server.port", Message: "must be a valid port"}
	}
	if c.UI.Theme != "dark" && c.UI.Theme != "light" {
		return ValidationError{Field: "ui.theme", Message: `must be "dark" or "light"`}
	}
	if c.UI.RevealIntervalMs < 1 {
		return ValidationError{Field: "ui.reveal_interval_ms", Message: "must be positive"}
	}
	return nil
}
