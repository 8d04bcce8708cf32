// Package config loads environment variables and provides a typed Config used across the CLI.
// It applies sensible defaults so the binary can run locally with minimal setup.
// Only the AzuraCast integration has hard requirements; use AzuraCastConfigured when you need it.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/oauth2/google"
)

// Default OAuth scopes requested for the YouTube Live Streaming API.
var DefaultScopes = []string{
	"https://www.googleapis.com/auth/youtube",
	"https://www.googleapis.com/auth/youtube.force-ssl",
}

type Config struct {
	// Auth file locations
	ConfigDir        string
	TokenPath        string
	ClientSecretPath string

	// OAuth
	Scopes   []string
	TokenURL string

	// Environment variable names for the ENVIRONMENT auth strategy.
	// Configurable so multiple channels can coexist in one shell profile.
	ClientIDEnv     string
	ClientSecretEnv string
	RefreshTokenEnv string

	// How long the interactive browser flow waits for the OAuth redirect.
	FlowTimeout time.Duration

	// AzuraCast (restart actuator)
	AzuraCastURL       string
	AzuraCastAPIKey    string
	AzuraCastStationID string

	// Notifications
	DiscordWebhookURL string
}

// Load reads environment variables and applies defaults. It doesn't fail if AzuraCast or
// Discord settings are missing; those features simply stay disabled.
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.ConfigDir = os.Getenv("STREAM_TOOLS_CONFIG_DIR")
	if cfg.ConfigDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		cfg.ConfigDir = filepath.Join(home, ".config", "stream-tools")
	}
	cfg.TokenPath = filepath.Join(cfg.ConfigDir, "token.json")
	cfg.ClientSecretPath = filepath.Join(cfg.ConfigDir, "client_secret.json")

	cfg.Scopes = DefaultScopes
	if v := os.Getenv("YT_SCOPES"); v != "" {
		// allow comma or space separated
		s := strings.ReplaceAll(v, ",", " ")
		if fields := strings.Fields(s); len(fields) > 0 {
			cfg.Scopes = fields
		}
	}
	cfg.TokenURL = google.Endpoint.TokenURL

	cfg.ClientIDEnv = "YT_CLIENT_ID"
	cfg.ClientSecretEnv = "YT_CLIENT_SECRET"
	cfg.RefreshTokenEnv = "YT_REFRESH_TOKEN"

	cfg.FlowTimeout = 5 * time.Minute
	if v := os.Getenv("OAUTH_FLOW_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.FlowTimeout = d
		}
	}

	cfg.AzuraCastURL = strings.TrimRight(os.Getenv("AZURACAST_URL"), "/")
	cfg.AzuraCastAPIKey = os.Getenv("AZURACAST_API_KEY")
	cfg.AzuraCastStationID = os.Getenv("AZURACAST_STATION_ID")

	cfg.DiscordWebhookURL = os.Getenv("DISCORD_WEBHOOK_URL")

	return cfg, nil
}

// AzuraCastConfigured reports whether all AzuraCast connection settings are present.
func (c *Config) AzuraCastConfigured() bool {
	return c.AzuraCastURL != "" && c.AzuraCastAPIKey != "" && c.AzuraCastStationID != ""
}
