package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const PROD_STRING = "prod"

// DefaultUpstreamBaseURL is the Hourglass QA origin the gateway proxies to.
const DefaultUpstreamBaseURL = "https://hourglass-qa.shieldfoundry.com"

// Config holds all application configuration loaded from environment.
type Config struct {
	IsProduction    bool
	HTTPAddr        string
	AllowedOrigins  string
	APIKey          string
	UpstreamBaseURL string
	UpstreamTimeout time.Duration
}

// Load loads configuration from .env (optional) and environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		log.Printf("failed to load .env file: %v", err)
	}

	cfg := &Config{}

	// Application environment (default: dev)
	appEnvStr := getEnv("APP_ENV", "dev")
	cfg.IsProduction = appEnvStr == PROD_STRING

	// HTTP listen address (default: :5000, the port the front end expects)
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":5000")

	// Extra allowed CORS origins, comma-separated (default: empty)
	cfg.AllowedOrigins = getEnv("ALLOWED_ORIGINS", "")

	// Upstream API key. Missing key is a warning, not a startup failure:
	// the server still runs but every proxied call will fail upstream auth.
	cfg.APIKey = os.Getenv("API_KEY")

	// Upstream base URL (default: Hourglass QA)
	cfg.UpstreamBaseURL = getEnv("UPSTREAM_BASE_URL", DefaultUpstreamBaseURL)

	// Per-call upstream timeout, parse as time.Duration (e.g. "30s", "1m").
	timeoutStr := getEnv("UPSTREAM_TIMEOUT", "30s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid UPSTREAM_TIMEOUT: %w", err)
	}
	cfg.UpstreamTimeout = timeout

	return cfg, nil
}

// MaskedAPIKey returns the API key shortened for logging, so the secret
// itself never lands in log output.
func (c *Config) MaskedAPIKey() string {
	if len(c.APIKey) <= 10 {
		return "***"
	}
	return c.APIKey[:6] + "..." + c.APIKey[len(c.APIKey)-4:]
}

// getEnv returns the value of the environment variable if set,
// otherwise returns the provided default value.
func getEnv(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultValue
}
