package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("STREAM_TOOLS_CONFIG_DIR", dir)
	t.Setenv("YT_SCOPES", "")
	t.Setenv("OAUTH_FLOW_TIMEOUT", "")
	t.Setenv("AZURACAST_URL", "")
	t.Setenv("AZURACAST_API_KEY", "")
	t.Setenv("AZURACAST_STATION_ID", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TokenPath != filepath.Join(dir, "token.json") {
		t.Errorf("TokenPath = %s", cfg.TokenPath)
	}
	if cfg.ClientSecretPath != filepath.Join(dir, "client_secret.json") {
		t.Errorf("ClientSecretPath = %s", cfg.ClientSecretPath)
	}
	if len(cfg.Scopes) != 2 {
		t.Errorf("Scopes = %v, want the two YouTube defaults", cfg.Scopes)
	}
	if cfg.FlowTimeout != 5*time.Minute {
		t.Errorf("FlowTimeout = %v, want 5m", cfg.FlowTimeout)
	}
	if cfg.ClientIDEnv != "YT_CLIENT_ID" || cfg.RefreshTokenEnv != "YT_REFRESH_TOKEN" {
		t.Errorf("env names = %s/%s", cfg.ClientIDEnv, cfg.RefreshTokenEnv)
	}
	if cfg.AzuraCastConfigured() {
		t.Error("AzuraCast should not be configured by default")
	}
}

func TestLoadScopeOverride(t *testing.T) {
	t.Setenv("STREAM_TOOLS_CONFIG_DIR", t.TempDir())
	t.Setenv("YT_SCOPES", "https://example.com/a, https://example.com/b")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Scopes) != 2 || cfg.Scopes[0] != "https://example.com/a" {
		t.Errorf("Scopes = %v", cfg.Scopes)
	}
}

func TestLoadFlowTimeoutOverride(t *testing.T) {
	t.Setenv("STREAM_TOOLS_CONFIG_DIR", t.TempDir())
	t.Setenv("OAUTH_FLOW_TIMEOUT", "90s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.FlowTimeout != 90*time.Second {
		t.Errorf("FlowTimeout = %v, want 90s", cfg.FlowTimeout)
	}

	// Invalid values keep the default instead of failing.
	t.Setenv("OAUTH_FLOW_TIMEOUT", "soon")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.FlowTimeout != 5*time.Minute {
		t.Errorf("FlowTimeout = %v, want 5m fallback", cfg.FlowTimeout)
	}
}

func TestAzuraCastConfigured(t *testing.T) {
	t.Setenv("STREAM_TOOLS_CONFIG_DIR", t.TempDir())
	t.Setenv("AZURACAST_URL", "https://radio.example.com/")
	t.Setenv("AZURACAST_API_KEY", "key")
	t.Setenv("AZURACAST_STATION_ID", "1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.AzuraCastConfigured() {
		t.Error("AzuraCast should be configured")
	}
	if cfg.AzuraCastURL != "https://radio.example.com" {
		t.Errorf("AzuraCastURL = %s, want trailing slash trimmed", cfg.AzuraCastURL)
	}
}
