package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

const (
	defaultPort  = "8080"
	defaultModel = "gpt-4o-mini"
)

type Config struct {
	SlackBotToken      string
	SlackSigningSecret string
	SlackAppToken      string
	LinearAccessToken  string
	OpenAIAPIKey       string
	OpenAIModel        string
	Port               string
}

// SocketMode returns true when a Slack app-level token is configured,
// enabling the outbound Socket Mode connection alongside the webhook.
func (c *Config) SocketMode() bool {
	return c.SlackAppToken != ""
}

func Load() (*Config, error) {
	// Best-effort .env load; a missing file is not an error.
	_ = godotenv.Load()

	cfg := &Config{
		SlackBotToken:      os.Getenv("SLACK_BOT_TOKEN"),
		SlackSigningSecret: os.Getenv("SLACK_SIGNING_SECRET"),
		SlackAppToken:      os.Getenv("SLACK_APP_TOKEN"),
		LinearAccessToken:  os.Getenv("LINEAR_ACCESS_TOKEN"),
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:        os.Getenv("OPENAI_MODEL"),
		Port:               os.Getenv("PORT"),
	}

	if cfg.SlackBotToken == "" {
		return nil, fmt.Errorf("SLACK_BOT_TOKEN is required")
	}

	// Slash commands must arrive somehow: either the signed webhook or
	// Socket Mode. Linear and OpenAI credentials are deliberately not
	// validated here; the first failing API call surfaces them.
	if cfg.SlackSigningSecret == "" && cfg.SlackAppToken == "" {
		return nil, fmt.Errorf("SLACK_SIGNING_SECRET is required (or set SLACK_APP_TOKEN for Socket Mode)")
	}

	if cfg.OpenAIModel == "" {
		cfg.OpenAIModel = defaultModel
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}

	return cfg, nil
}
