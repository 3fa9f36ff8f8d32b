package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the router and the dashboard
type Config struct {
	// Server
	Port string `envconfig:"PORT" default:"8080"`
	Env  string `envconfig:"ENV" default:"development"`

	// Logging
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	LogFile  string `envconfig:"LOG_FILE"`

	// Database
	DatabaseDriver string `envconfig:"DATABASE_DRIVER" default:"postgres"`
	DatabaseURL    string `envconfig:"DATABASE_URL"`

	// Redis (optional; enables the response cache and shared rate limiting)
	RedisURL string `envconfig:"REDIS_URL"`

	// Provider API Keys
	GroqAPIKey   string `envconfig:"GROQ_API_KEY"`
	GroqBaseURL  string `envconfig:"GROQ_BASE_URL" default:"https://api.groq.com/openai/v1"`
	GeminiAPIKey string `envconfig:"GEMINI_API_KEY"`

	// Rate Limiting
	RateLimitPerMinute int `envconfig:"RATE_LIMIT_PER_MINUTE" default:"100"`

	// Caching
	CacheEnabled    bool `envconfig:"CACHE_ENABLED" default:"false"`
	CacheTTLSeconds int  `envconfig:"CACHE_TTL_SECONDS" default:"3600"`

	// Log listing
	LogsDefaultLimit int `envconfig:"LOGS_DEFAULT_LIMIT" default:"50"`

	// Dashboard
	DashboardRefreshSeconds int  `envconfig:"DASHBOARD_REFRESH_SECONDS" default:"2"`
	DashboardAutoRefresh    bool `envconfig:"DASHBOARD_AUTO_REFRESH" default:"true"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not found)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks required fields and value ranges
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	switch c.DatabaseDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("DATABASE_DRIVER must be postgres or sqlite, got %q", c.DatabaseDriver)
	}

	if c.LogsDefaultLimit <= 0 {
		return fmt.Errorf("LOGS_DEFAULT_LIMIT must be positive")
	}

	if c.DashboardRefreshSeconds < 1 || c.DashboardRefreshSeconds > 10 {
		return fmt.Errorf("DASHBOARD_REFRESH_SECONDS must be between 1 and 10")
	}

	return nil
}

// MissingProviderKeys lists provider credentials that are not set.
// Missing keys are not fatal: the dispatcher reports them per request.
func (c *Config) MissingProviderKeys() []string {
	var missing []string
	if c.GroqAPIKey == "" {
		missing = append(missing, "GROQ_API_KEY")
	}
	if c.GeminiAPIKey == "" {
		missing = append(missing, "GEMINI_API_KEY")
	}
	return missing
}

// CacheTTL returns the response cache TTL
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// DashboardRefresh returns the dashboard polling interval
func (c *Config) DashboardRefresh() time.Duration {
	return time.Duration(c.DashboardRefreshSeconds) * time.Second
}
