package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppConfig_Defaults(t *testing.T) {
	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.False(t, cfg.IsDev)
	assert.Equal(t, AuthModeOAuth, cfg.Auth.Mode)
	assert.Equal(t, 12*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "openid email profile", cfg.Auth.Google.Scope)
	assert.Equal(t, "localhost", cfg.Postgres.Host)
	assert.Equal(t, 5432, cfg.Postgres.Port)
	assert.True(t, cfg.Postgres.RunMigrationsOnStart)
	assert.Equal(t, "localhost:6379", cfg.Redis.URI)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 6, cfg.HTTP.CompressionLevel)
	assert.Equal(t, 10*time.Second, cfg.MarketData.Timeout)
}

func TestAppConfig_EnvOverrides(t *testing.T) {
	t.Setenv("AUTH_MODE", "mock")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("MARKET_DATA_BASE_URL", "https://feed.example.com")
	t.Setenv("CONSOLE_CALLBACK_URL", "https://console.example.com/auth/callback")

	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.Equal(t, AuthModeMock, cfg.Auth.Mode)
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, "db.internal", cfg.Postgres.Host)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "https://feed.example.com", cfg.MarketData.BaseURL)
	assert.Equal(t, "https://console.example.com/auth/callback", cfg.Auth.ConsoleCallbackURL)
}

func TestAuthMode_UnmarshalText(t *testing.T) {
	var m AuthMode
	require.NoError(t, m.UnmarshalText([]byte("OAuth")))
	assert.Equal(t, AuthModeOAuth, m)

	require.NoError(t, m.UnmarshalText([]byte("mock")))
	assert.Equal(t, AuthModeMock, m)

	assert.Error(t, m.UnmarshalText([]byte("saml")))
}

func TestAppConfig_Sanitize_Clamps(t *testing.T) {
	cfg := AppConfig{
		HTTP:       HTTPConfig{CompressionLevel: 42},
		Auth:       AuthConfig{TokenTTL: -time.Hour},
		MarketData: MarketDataConfig{Timeout: 0},
	}
	cfg.Sanitize()

	assert.Equal(t, 9, cfg.HTTP.CompressionLevel)
	assert.Equal(t, 12*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 10*time.Second, cfg.MarketData.Timeout)
}

func TestAppConfig_DevModeFromNodeEnv(t *testing.T) {
	t.Setenv("NODE_ENV", "development")

	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.True(t, cfg.IsDev)
}
