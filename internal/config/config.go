package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/oranjParker/mlapi/internal/core"
)

// Config holds everything the server needs at start. Defaults match the
// addresses the rest of the pipeline expects.
type Config struct {
	// Server settings
	Host           string
	HTTPPort       string
	GRPCPort       string // empty disables the gRPC health server
	MaxConnections int

	// Simulated work
	ProcessingDelay time.Duration

	// Collaborator callback
	ScrapeCallbackURL string
	CallbackTimeout   time.Duration

	// Optional notification mirrors
	NatsURL      string
	NatsSubject  string
	RedisURL     string
	RedisChannel string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	cfg := &Config{
		Host:              getEnvOrDefault("HOST", ""),
		HTTPPort:          getEnvOrDefault("HTTP_PORT", getEnvOrDefault("PORT", "5001")),
		GRPCPort:          getEnvOrDefault("GRPC_PORT", ""),
		ScrapeCallbackURL: getEnvOrDefault("SCRAPE_CALLBACK_URL", "http://127.0.0.1:8000/scrape"),
		NatsURL:           getEnvOrDefault("NATS_URL", ""),
		NatsSubject:       getEnvOrDefault("NATS_SUBJECT", "scrape.completed"),
		RedisURL:          getEnvOrDefault("REDIS_URL", ""),
		RedisChannel:      getEnvOrDefault("REDIS_CHANNEL", "mlapi:scrape"),
	}

	var err error
	if cfg.ProcessingDelay, err = getDurationOrDefault("PROCESSING_DELAY", 2*time.Second); err != nil {
		return nil, err
	}
	if cfg.CallbackTimeout, err = getDurationOrDefault("CALLBACK_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.MaxConnections, err = getIntOrDefault("MAX_CONNECTIONS", 256); err != nil {
		return nil, err
	}

	return cfg, cfg.validate()
}

// Addr is the HTTP listen address.
func (c *Config) Addr() string {
	return c.Host + ":" + c.HTTPPort
}

func (c *Config) validate() error {
	if c.ScrapeCallbackURL == "" {
		return &ConfigError{Field: "SCRAPE_CALLBACK_URL", Message: core.ErrMissingCallbackURL.Error()}
	}
	u, err := url.Parse(c.ScrapeCallbackURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return &ConfigError{Field: "SCRAPE_CALLBACK_URL", Message: "must be an absolute http(s) url"}
	}
	if _, err := strconv.Atoi(c.HTTPPort); err != nil {
		return &ConfigError{Field: "HTTP_PORT", Message: "must be numeric"}
	}
	if c.GRPCPort != "" {
		if _, err := strconv.Atoi(c.GRPCPort); err != nil {
			return &ConfigError{Field: "GRPC_PORT", Message: "must be numeric"}
		}
	}
	if c.ProcessingDelay < 0 {
		return &ConfigError{Field: "PROCESSING_DELAY", Message: "must not be negative"}
	}
	if c.CallbackTimeout <= 0 {
		return &ConfigError{Field: "CALLBACK_TIMEOUT", Message: "must be positive"}
	}
	if c.MaxConnections <= 0 {
		return &ConfigError{Field: "MAX_CONNECTIONS", Message: "must be positive"}
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, &ConfigError{Field: key, Message: fmt.Sprintf("invalid duration %q", raw)}
	}
	return d, nil
}

func getIntOrDefault(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ConfigError{Field: key, Message: fmt.Sprintf("invalid integer %q", raw)}
	}
	return n, nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *ConfigError) Unwrap() error {
	return core.ErrInvalidConfig
}
