package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	if cfg.Server.Port != 8000 {
		t.Errorf("Port: got %d", cfg.Server.Port)
	}
	if cfg.Clients.CoinGecko.BaseURL != "https://api.coingecko.com/api/v3" {
		t.Errorf("BaseURL: got %s", cfg.Clients.CoinGecko.BaseURL)
	}
	if cfg.Clients.CoinGecko.Currency != "usd" {
		t.Errorf("Currency: got %s", cfg.Clients.CoinGecko.Currency)
	}
	if got := cfg.Market.GetCacheTTL(); got != 5*time.Minute {
		t.Errorf("CacheTTL: got %v", got)
	}
	if got := cfg.Auth.GetAccessTokenExpiry(); got != 60*time.Minute {
		t.Errorf("AccessTokenExpiry: got %v", got)
	}
	if got := cfg.Auth.GetRefreshTokenExpiry(); got != 24*time.Hour {
		t.Errorf("RefreshTokenExpiry: got %v", got)
	}
	if cfg.IsProduction() {
		t.Error("default config should not be production")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/cryptod.toml")
	if err != nil {
		t.Fatalf("missing file should fall back to defaults: %v", err)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("Port: got %d", cfg.Server.Port)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cryptod.toml")
	content := `
environment = "production"

[server]
port = 9090

[market]
cache_ttl = "2m"

[auth]
jwt_secret = "file-secret"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Port: got %d", cfg.Server.Port)
	}
	if got := cfg.Market.GetCacheTTL(); got != 2*time.Minute {
		t.Errorf("CacheTTL: got %v", got)
	}
	if cfg.Auth.JWTSecret != "file-secret" {
		t.Errorf("JWTSecret: got %s", cfg.Auth.JWTSecret)
	}
	if !cfg.IsProduction() {
		t.Error("expected production environment")
	}
	// Untouched sections keep defaults
	if cfg.Clients.CoinGecko.PerPage != 100 {
		t.Errorf("PerPage default lost: got %d", cfg.Clients.CoinGecko.PerPage)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CRYPTOD_PORT", "7777")
	t.Setenv("CRYPTOD_JWT_SECRET", "env-secret")
	t.Setenv("CRYPTOD_CACHE_TTL", "30s")
	t.Setenv("CRYPTOD_LOG_LEVEL", "debug")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != 7777 {
		t.Errorf("Port: got %d", cfg.Server.Port)
	}
	if cfg.Auth.JWTSecret != "env-secret" {
		t.Errorf("JWTSecret: got %s", cfg.Auth.JWTSecret)
	}
	if got := cfg.Market.GetCacheTTL(); got != 30*time.Second {
		t.Errorf("CacheTTL: got %v", got)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Level: got %s", cfg.Logging.Level)
	}
}

func TestGetCacheTTLInvalidValue(t *testing.T) {
	cfg := MarketConfig{CacheTTL: "not-a-duration"}
	if got := cfg.GetCacheTTL(); got != 5*time.Minute {
		t.Errorf("invalid TTL should fall back to default, got %v", got)
	}
}
