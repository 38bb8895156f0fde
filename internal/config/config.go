// Package config provides configuration for the messaging service.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the messaging service configuration.
type Config struct {
	// Server settings
	HTTPPort     int `envconfig:"HTTP_PORT" default:"8080"`
	InternalPort int `envconfig:"INTERNAL_PORT" default:"8081"`

	// Storage
	StoreDriver  string        `envconfig:"STORE_DRIVER" default:"sqlite"`
	DatabaseURL  string        `envconfig:"DATABASE_URL" default:"file:messaging.db?cache=shared&mode=rwc"`
	BadgerPath   string        `envconfig:"BADGER_PATH" default:"data/badger"`
	StoreTimeout time.Duration `envconfig:"STORE_TIMEOUT" default:"5s"`

	// Completion endpoint
	Mode       string        `envconfig:"LLM_MODE"`
	LLMBaseURL string        `envconfig:"LLM_BASE_URL" default:"http://localhost:4000"`
	LLMAPIKey  string        `envconfig:"LLM_API_KEY"`
	LLMModel   string        `envconfig:"LLM_MODEL" default:"gpt-4o-mini"`
	LLMTimeout time.Duration `envconfig:"LLM_TIMEOUT" default:"30s"`

	// Assistant
	AssistantName   string `envconfig:"ASSISTANT_NAME" default:"Wellness Assistant"`
	AIHistoryWindow int    `envconfig:"AI_HISTORY_WINDOW" default:"10"`

	// Auth and policy
	JWTSecret  string `envconfig:"JWT_SECRET" required:"true"`
	PolicyPath string `envconfig:"POLICY_PATH"`

	// Logging
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values envconfig cannot express.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if c.StoreTimeout <= 0 {
		return fmt.Errorf("STORE_TIMEOUT must be positive, got %s", c.StoreTimeout)
	}
	if c.LLMTimeout <= 0 {
		return fmt.Errorf("LLM_TIMEOUT must be positive, got %s", c.LLMTimeout)
	}
	if c.AIHistoryWindow < 0 {
		return fmt.Errorf("AI_HISTORY_WINDOW must not be negative, got %d", c.AIHistoryWindow)
	}
	return nil
}
