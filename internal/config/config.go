package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration for the application. It is loaded once at
// startup and read-only afterwards.
type Config struct {
	// Slack configuration
	SlackBotToken      string `koanf:"slack_bot_token"`      // Required: Slack bot user OAuth token
	SlackSigningSecret string `koanf:"slack_signing_secret"` // Required: secret for inbound request signatures

	// Azure OpenAI configuration
	AzureOpenAIKey        string `koanf:"azure_openai_key"`        // Required: Azure OpenAI API key
	AzureOpenAIEndpoint   string `koanf:"azure_openai_endpoint"`   // Required: Azure OpenAI endpoint URL
	AzureOpenAIDeployment string `koanf:"azure_openai_deployment"` // Required: Azure OpenAI model deployment name

	// HTTP server
	Port int `koanf:"port"`

	// Moderation pipeline
	ProcessTimeoutSeconds int `koanf:"process_timeout_seconds"` // per-message budget for classify + warn
	HistoryLimit          int `koanf:"history_limit"`           // conversation context window size

	// Log level
	LogLevel string `koanf:"log_level"`
}

var (
	// instance holds the singleton config instance
	instance *Config
)

// Get returns the singleton config instance
func Get() *Config {
	if instance == nil {
		panic("config not initialized")
	}
	return instance
}

// Load creates a new Config instance from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:                  5000,
		ProcessTimeoutSeconds: 60,
		HistoryLimit:          20,
		LogLevel:              "info",
	}

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", strings.ToLower), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %v", err)
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %v", err)
	}

	requiredVars := map[string]string{
		"SLACK_BOT_TOKEN":         cfg.SlackBotToken,
		"SLACK_SIGNING_SECRET":    cfg.SlackSigningSecret,
		"AZURE_OPENAI_KEY":        cfg.AzureOpenAIKey,
		"AZURE_OPENAI_ENDPOINT":   cfg.AzureOpenAIEndpoint,
		"AZURE_OPENAI_DEPLOYMENT": cfg.AzureOpenAIDeployment,
	}

	var missingVars []string
	for name, value := range requiredVars {
		if value == "" {
			missingVars = append(missingVars, name)
		}
	}

	if len(missingVars) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missingVars, ", "))
	}

	// Store the instance
	instance = cfg

	return cfg, nil
}

// ProcessTimeout returns the per-message moderation budget as a duration.
func (c *Config) ProcessTimeout() time.Duration {
	return time.Duration(c.ProcessTimeoutSeconds) * time.Second
}
