package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "file:test.db")
	t.Setenv("DATABASE_DRIVER", "sqlite")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "https://api.groq.com/openai/v1", cfg.GroqBaseURL)
	assert.Equal(t, 100, cfg.RateLimitPerMinute)
	assert.False(t, cfg.CacheEnabled)
	assert.Equal(t, time.Hour, cfg.CacheTTL())
	assert.Equal(t, 50, cfg.LogsDefaultLimit)
	assert.Equal(t, 2*time.Second, cfg.DashboardRefresh())
	assert.True(t, cfg.DashboardAutoRefresh)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/router")
	t.Setenv("PORT", "9090")
	t.Setenv("CACHE_ENABLED", "true")
	t.Setenv("CACHE_TTL_SECONDS", "60")
	t.Setenv("GROQ_API_KEY", "gsk-test")
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.True(t, cfg.CacheEnabled)
	assert.Equal(t, time.Minute, cfg.CacheTTL())
	assert.Equal(t, []string{"GEMINI_API_KEY"}, cfg.MissingProviderKeys())
}

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestValidate(t *testing.T) {
	valid := Config{
		DatabaseDriver:          "sqlite",
		DatabaseURL:             ":memory:",
		LogsDefaultLimit:        50,
		DashboardRefreshSeconds: 2,
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "unknown driver", mutate: func(c *Config) { c.DatabaseDriver = "mysql" }, wantErr: "DATABASE_DRIVER"},
		{name: "zero limit", mutate: func(c *Config) { c.LogsDefaultLimit = 0 }, wantErr: "LOGS_DEFAULT_LIMIT"},
		{name: "refresh too fast", mutate: func(c *Config) { c.DashboardRefreshSeconds = 0 }, wantErr: "DASHBOARD_REFRESH_SECONDS"},
		{name: "refresh too slow", mutate: func(c *Config) { c.DashboardRefreshSeconds = 11 }, wantErr: "DASHBOARD_REFRESH_SECONDS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMissingProviderKeys(t *testing.T) {
	cfg := Config{}
	assert.Equal(t, []string{"GROQ_API_KEY", "GEMINI_API_KEY"}, cfg.MissingProviderKeys())

	cfg.GroqAPIKey = "a"
	cfg.GeminiAPIKey = "b"
	assert.Empty(t, cfg.MissingProviderKeys())
}
