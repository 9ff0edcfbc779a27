package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// placeholderAPIKey is shipped in sample env files and must never enable the classifier
const placeholderAPIKey = "PLACEHOLDER_API_KEY"

// Config holds all application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Logging    LoggingConfig
	Metrics    MetricsConfig
	Classifier ClassifierConfig
	Catalog    CatalogConfig
	CORS       CORSConfig
}

type ServerConfig struct {
	Host                    string
	Port                    int
	ReadTimeout             time.Duration
	WriteTimeout            time.Duration
	IdleTimeout             time.Duration
	RequestTimeout          time.Duration
	GracefulShutdownTimeout time.Duration
	RateLimitPerMinute      int // per client IP, 0 disables
}

type DatabaseConfig struct {
	URL             string
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

type RedisConfig struct {
	URL string
}

type LoggingConfig struct {
	Level  string
	Format string // json or text
}

type MetricsConfig struct {
	Enabled bool
	Port    int
	Path    string
}

// ClassifierConfig configures the primary (LLM) issue classifier
type ClassifierConfig struct {
	APIKey        string
	Model         string
	Endpoint      string
	Timeout       time.Duration
	RateLimit     float64 // calls per second
	Burst         int
	MaxConcurrent int
}

// Enabled reports whether a usable API key is configured
func (c ClassifierConfig) Enabled() bool {
	return c.APIKey != "" && c.APIKey != placeholderAPIKey
}

// CatalogConfig selects where service centers and mechanics are loaded from.
// With no path and no database the embedded default catalog is used.
type CatalogConfig struct {
	Path string
	Seed bool // upsert the file or embedded catalog into Postgres at startup
}

type CORSConfig struct {
	AllowedOrigins []string
}

// Load loads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:                    getEnv("SERVER_HOST", "0.0.0.0"),
			Port:                    getEnvInt("SERVER_PORT", 8000),
			ReadTimeout:             getEnvDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:            getEnvDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:             getEnvDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
			RequestTimeout:          getEnvDuration("SERVER_REQUEST_TIMEOUT", 30*time.Second),
			GracefulShutdownTimeout: getEnvDuration("SERVER_GRACEFUL_SHUTDOWN_TIMEOUT", 30*time.Second),
			RateLimitPerMinute:      getEnvInt("SERVER_RATE_LIMIT_PER_MINUTE", 120),
		},
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvInt("DB_MAX_CONNS", 5),
			MinConns:        getEnvInt("DB_MIN_CONNS", 1),
			MaxConnLifetime: getEnvDuration("DB_MAX_CONN_LIFETIME", 1*time.Hour),
			MaxConnIdleTime: getEnvDuration("DB_MAX_CONN_IDLE_TIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvBool("METRICS_ENABLED", true),
			Port:    getEnvInt("METRICS_PORT", 9090),
			Path:    getEnv("METRICS_PATH", "/metrics"),
		},
		Classifier: ClassifierConfig{
			APIKey:        getEnvFirst([]string{"GEMINI_API_KEY", "VITE_GEMINI_API_KEY"}, ""),
			Model:         getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
			Endpoint:      getEnv("GEMINI_ENDPOINT", "https://generativelanguage.googleapis.com/v1beta"),
			Timeout:       getEnvDuration("CLASSIFIER_TIMEOUT", 8*time.Second),
			RateLimit:     getEnvFloat("CLASSIFIER_RATE_LIMIT", 5.0),
			Burst:         getEnvInt("CLASSIFIER_BURST", 10),
			MaxConcurrent: getEnvInt("CLASSIFIER_MAX_CONCURRENT", 8),
		},
		Catalog: CatalogConfig{
			Path: getEnv("CATALOG_PATH", ""),
			Seed: getEnvBool("CATALOG_SEED", false),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.RateLimitPerMinute < 0 {
		return fmt.Errorf("server rate limit must not be negative")
	}
	if c.Metrics.Enabled && (c.Metrics.Port < 1 || c.Metrics.Port > 65535) {
		return fmt.Errorf("invalid metrics port: %d", c.Metrics.Port)
	}
	if c.Database.URL != "" && c.Database.MaxConns < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}
	if c.Classifier.Timeout <= 0 {
		return fmt.Errorf("classifier timeout must be positive")
	}
	if c.Classifier.RateLimit <= 0 {
		return fmt.Errorf("classifier rate limit must be positive")
	}
	if c.Classifier.Burst < 1 {
		return fmt.Errorf("classifier burst must be at least 1")
	}
	if c.Classifier.MaxConcurrent < 1 {
		return fmt.Errorf("classifier max concurrent must be at least 1")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFirst(keys []string, defaultValue string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
