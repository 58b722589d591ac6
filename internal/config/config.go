package config

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Grant strategies
const (
	GrantStrategyAPI     = "api"
	GrantStrategyBrowser = "browser"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Auth       AuthConfig
	GitHub     GitHubConfig
	Grant      GrantConfig
	Encryption EncryptionConfig
	Log        LogConfig
	RateLimit  RateLimitConfig
	Readme     ReadmeConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string        `env:"SERVER_PORT" envDefault:"8080"`
	Host            string        `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"60s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"120s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	GinMode         string        `env:"GIN_MODE" envDefault:"release"`
	CORSOrigins     []string      `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver   string `env:"DB_DRIVER" envDefault:"sqlite"`
	DSN      string `env:"DB_DSN" envDefault:"./data/gitcollab.db"`
	MaxConns int    `env:"DB_MAX_CONNS" envDefault:"25"`
	MinConns int    `env:"DB_MIN_CONNS" envDefault:"5"`
}

// AuthConfig holds login and token settings
type AuthConfig struct {
	JWTSecret          string        `env:"JWT_SECRET"`
	TokenTTL           time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	SessionSecret      string        `env:"SESSION_SECRET"`
	SecureCookies      bool          `env:"SECURE_COOKIES" envDefault:"false"`
	GitHubClientID     string        `env:"GITHUB_CLIENT_ID"`
	GitHubClientSecret string        `env:"GITHUB_CLIENT_SECRET"`
	GitHubCallbackURL  string        `env:"GITHUB_CALLBACK_URL" envDefault:"http://localhost:8080/api/v1/auth/github/callback"`
}

// GitHubConfig points the clients at GitHub. APIBaseURL is empty for api.github.com.
type GitHubConfig struct {
	APIBaseURL string `env:"GITHUB_API_URL"`
	WebBaseURL string `env:"GITHUB_WEB_URL" envDefault:"https://github.com"`
}

// GrantConfig selects and tunes the collaborator grant strategy
type GrantConfig struct {
	Strategy         string        `env:"GRANT_STRATEGY" envDefault:"api"`
	OperationTimeout time.Duration `env:"GRANT_TIMEOUT" envDefault:"30s"`
	StepTimeout      time.Duration `env:"GRANT_STEP_TIMEOUT" envDefault:"10s"`
	SettleDelay      time.Duration `env:"GRANT_SETTLE_DELAY" envDefault:"2s"`
	Headless         bool          `env:"BROWSER_HEADLESS" envDefault:"true"`
	BrowserPath      string        `env:"BROWSER_PATH"`
	UserDataDir      string        `env:"BROWSER_USER_DATA_DIR"`
}

// EncryptionConfig holds the key used for credentials at rest (32 bytes, base64)
type EncryptionConfig struct {
	Key string `env:"ENCRYPTION_KEY"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
	File   string `env:"LOG_FILE"`
}

// RateLimitConfig bounds mutating requests per user
type RateLimitConfig struct {
	PerMinute int `env:"RATE_LIMIT_PER_MINUTE" envDefault:"60"`
	Burst     int `env:"RATE_LIMIT_BURST" envDefault:"10"`
}

// ReadmeConfig sizes the profile README cache
type ReadmeConfig struct {
	CacheSize int           `env:"README_CACHE_SIZE" envDefault:"256"`
	CacheTTL  time.Duration `env:"README_CACHE_TTL" envDefault:"10m"`
}

// Load loads configuration from an optional .env file and the environment
func Load() (*Config, error) {
	cfg, err := LoadEnv()
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadEnv is Load without validation, for tools that only need part of the configuration
func LoadEnv() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

// LoadFrom parses configuration from an explicit variable set, without validation
func LoadFrom(vars map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: vars}); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Auth.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	if c.Encryption.Key == "" {
		return fmt.Errorf("ENCRYPTION_KEY is required (32-byte base64-encoded key)")
	}
	key, err := base64.StdEncoding.DecodeString(c.Encryption.Key)
	if err != nil || len(key) != 32 {
		return fmt.Errorf("ENCRYPTION_KEY must be a base64-encoded 32-byte key")
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", c.Database.Driver)
	}
	switch c.Grant.Strategy {
	case GrantStrategyAPI, GrantStrategyBrowser:
	default:
		return fmt.Errorf("GRANT_STRATEGY must be %s or %s, got %q", GrantStrategyAPI, GrantStrategyBrowser, c.Grant.Strategy)
	}
	if c.Grant.OperationTimeout <= 0 || c.Grant.StepTimeout <= 0 {
		return fmt.Errorf("grant timeouts must be positive")
	}
	if c.RateLimit.PerMinute <= 0 || c.RateLimit.Burst <= 0 {
		return fmt.Errorf("rate limit values must be positive")
	}
	return nil
}

// GetServerAddress returns the server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

// OAuthEnabled reports whether GitHub login is configured
func (c *Config) OAuthEnabled() bool {
	return c.Auth.GitHubClientID != "" && c.Auth.GitHubClientSecret != ""
}
