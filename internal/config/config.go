package config

import (
	"fmt"
	"os"
	"time"
)

// devSessionSecret is only ever acceptable for local development. Load
// refuses to start a production process with it.
const devSessionSecret = "polyglotta-dev-secret-do-not-use"

// Config holds application configuration
type Config struct {
	Environment     string
	DatabaseURL     string
	RedisURL        string
	RabbitMQURL     string
	ServerPort      string
	FrontendURL     string
	SessionSecret   string
	TokenTTL        time.Duration
	SessionTTL      time.Duration
	RoutesFile      string
	EnableHSTS      bool
	ServerDebugMode bool
	OTELEnabled     bool
	OTELEndpoint    string
}

// IsProduction reports whether the process runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Environment:     getEnv("ENVIRONMENT", "development"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		RedisURL:        getEnv("REDIS_URL", "redis://localhost:6379/0"),
		RabbitMQURL:     getEnv("RABBITMQ_URL", ""),
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		FrontendURL:     getEnv("FRONTEND_URL", "http://localhost:3000"),
		SessionSecret:   getEnv("SESSION_SECRET", ""),
		TokenTTL:        getEnvDuration("TOKEN_TTL", 24*time.Hour),
		SessionTTL:      getEnvDuration("SESSION_TTL", 7*24*time.Hour),
		RoutesFile:      getEnv("ROUTES_FILE", ""),
		EnableHSTS:      getEnvBool("ENABLE_HSTS", false),
		ServerDebugMode: getEnvBool("SERVER_DEBUG_MODE", false),
		OTELEnabled:     getEnvBool("OTEL_ENABLED", false),
		OTELEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	// The signing secret must be shared by every instance that issues or
	// validates tokens, so it always comes from the environment in
	// production. The dev fallback only exists so local setups boot.
	if cfg.SessionSecret == "" {
		if cfg.IsProduction() {
			return nil, fmt.Errorf("SESSION_SECRET is required in production")
		}
		cfg.SessionSecret = devSessionSecret
	} else if cfg.IsProduction() && cfg.SessionSecret == devSessionSecret {
		return nil, fmt.Errorf("SESSION_SECRET must not use the development default in production")
	}

	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("TOKEN_TTL must be positive")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
