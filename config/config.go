// Package config reads application configuration from the environment.
// Everything is resolved here once and passed to constructors explicitly;
// the domain and service layers never touch env state themselves.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port            int
	LogLevel        string
	DevMode         bool
	MetricsAPIBase  string        // volatility metrics API, e.g. http://localhost:5002
	MetricsCacheTTL time.Duration // TTL for cached metrics responses
	RedisAddr       string        // empty disables redis, falls back to in-memory cache
	OpenAIAPIKey    string        // empty disables the remote classifier
	OpenAIModel     string
	RateLimitPerMin int
}

// Load reads configuration from environment variables (.env honored if present).
func Load() (*Config, error) {
	_ = godotenv.Load()

	return &Config{
		Port:            getEnvAsInt("PORT", 8080),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		DevMode:         getEnvAsBool("DEV_MODE", false),
		MetricsAPIBase:  getEnv("METRICS_API_BASE", "http://localhost:5002"),
		MetricsCacheTTL: time.Duration(getEnvAsInt("METRICS_CACHE_TTL_SECONDS", 60)) * time.Second,
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:     getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		RateLimitPerMin: getEnvAsInt("RATE_LIMIT_PER_MIN", 5),
	}, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}
