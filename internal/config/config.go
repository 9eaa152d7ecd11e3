package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Prefix scopes the fully qualified variable names (WEBENV_LOGGING_LOG_LEVEL
// and so on); the bare tag names such as LOG_LEVEL are honored as fallbacks.
const Prefix = "webenv"

// Config holds all environment configuration.
type Config struct {
	Runtime   RuntimeConfig
	Fixtures  FixturesConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// RuntimeConfig holds script runtime configuration.
type RuntimeConfig struct {
	ScriptTimeout time.Duration `envconfig:"SCRIPT_TIMEOUT" default:"5s"`
	UserAgent     string        `envconfig:"USER_AGENT" default:"Mozilla/5.0 (webenv)"`
	BaseURL       string        `envconfig:"BASE_URL" default:"http://localhost/"`
	MaxConsole    int           `envconfig:"MAX_CONSOLE" default:"1000"`
}

// FixturesConfig holds fixture server configuration.
type FixturesConfig struct {
	Host string `envconfig:"FIXTURES_HOST" default:"127.0.0.1"`
	Port string `envconfig:"FIXTURES_PORT" default:"0"`
}

// LogConfig holds log output configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"warn"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds fixture server rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"false"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault reads configuration from the environment, falling back
// to Default when a variable does not parse.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Runtime: RuntimeConfig{
			ScriptTimeout: 5 * time.Second,
			UserAgent:     "Mozilla/5.0 (webenv)",
			BaseURL:       "http://localhost/",
			MaxConsole:    1000,
		},
		Fixtures: FixturesConfig{
			Host: "127.0.0.1",
			Port: "0",
		},
		Logging: LogConfig{
			Level:       "warn",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           false,
		},
	}
}
