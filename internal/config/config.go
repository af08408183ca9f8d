// Package config provides configuration for the recipe scraper API. Settings
// come from an optional YAML file with environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrInvalidPort     = errors.New("server.port must be between 1 and 65535")
	ErrInvalidLogLevel = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidTimeout  = errors.New("scraper.timeout_sec must be non-negative")
	ErrMissingCommand  = errors.New("scraper.command is required")
)

// Config is the complete service configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Scraper ScraperConfig `yaml:"scraper"`
}

// ServerConfig contains HTTP server settings. An empty APIKey disables
// request authentication.
type ServerConfig struct {
	Port   int    `yaml:"port"`
	APIKey string `yaml:"api_key"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// ScraperConfig configures the extractor sidecar: the command to run, the
// ingredient parser command (defaults to the scraper command), the hosts it
// supports and the per-scrape deadline.
type ScraperConfig struct {
	Command       string   `yaml:"command"`
	ParserCommand string   `yaml:"parser_command"`
	Sites         []string `yaml:"sites"`
	TimeoutSec    int      `yaml:"timeout_sec"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		Server:  ServerConfig{Port: 8080},
		Logging: LoggingConfig{Level: "info"},
		Scraper: ScraperConfig{TimeoutSec: 30},
	}
}

// Load reads configuration from path (skipped when empty), applies
// environment overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overrides file values with environment variables.
func applyEnv(cfg *Config) error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("API_KEY"); v != "" {
		cfg.Server.APIKey = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("SCRAPER_CMD"); v != "" {
		cfg.Scraper.Command = v
	}
	if v := os.Getenv("PARSER_CMD"); v != "" {
		cfg.Scraper.ParserCommand = v
	}
	if v := os.Getenv("SCRAPE_TIMEOUT"); v != "" {
		sec, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid SCRAPE_TIMEOUT %q: %w", v, err)
		}
		cfg.Scraper.TimeoutSec = sec
	}
	return nil
}

// Validate checks the configuration for consistency.
func (c Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return ErrInvalidPort
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return ErrInvalidLogLevel
	}
	if c.Scraper.TimeoutSec < 0 {
		return ErrInvalidTimeout
	}
	if c.Scraper.Command == "" {
		return ErrMissingCommand
	}
	return nil
}
