// Package config provides application configuration management.
// It loads settings from environment variables and provides defaults for
// the server, the generation pipeline, LLM providers, and observability.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server Configuration
	Port            string
	LogLevel        string
	ShutdownTimeout time.Duration

	// Data Configuration
	DataDir string // Directory for the SQLite course archive

	// Generation pipeline
	StageDelay               time.Duration // Pause between early pipeline stages
	LessonTimeout            time.Duration // Per-lesson remote generation budget
	PollInterval             time.Duration // Status poll cadence for watchers
	MaxConcurrentGenerations int           // Bound on simultaneously running pipelines
	GenerateRateBurst        float64       // Token bucket burst for generation requests per client
	GenerateRateRefillPerSec float64       // Token bucket refill rate per second

	// LLM Configuration
	LLMProviders   []string // Ordered provider chain, e.g. ["gemini","groq"]
	GeminiAPIKey   string
	GroqAPIKey     string
	CerebrasAPIKey string
	GeminiModels   []string // Empty = genai package defaults
	GroqModels     []string
	CerebrasModels []string

	// Sentry
	SentryEnabled     bool
	SentryDSN         string
	SentryEnvironment string
	SentryRelease     string
	SentrySampleRate  float64

	// Better Stack
	BetterStackToken    string
	BetterStackEndpoint string

	// Metrics Authentication
	MetricsUsername string // Username for /metrics Basic Auth (default: "prometheus")
	MetricsPassword string // Password for /metrics Basic Auth (empty = no auth)
}

// Load reads configuration from environment variables.
// It attempts to load a .env file first, then reads from env vars.
func Load() (*Config, error) {
	// Missing .env is fine
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnv(EnvPort, "10000"),
		LogLevel:        getEnv(EnvLogLevel, "info"),
		ShutdownTimeout: getDurationEnv(EnvShutdownTimeout, GracefulShutdown),

		DataDir: getEnv(EnvDataDir, defaultDataDir()),

		StageDelay:               getDurationEnv(EnvStageDelay, StageDelay),
		LessonTimeout:            getDurationEnv(EnvLessonTimeout, LessonGeneration),
		PollInterval:             getDurationEnv(EnvPollInterval, PollInterval),
		MaxConcurrentGenerations: getIntEnv(EnvMaxConcurrentGens, 8),
		GenerateRateBurst:        getFloatEnv(EnvGenerateRateBurst, 5.0),
		GenerateRateRefillPerSec: getFloatEnv(EnvGenerateRateRefill, 0.2), // 1 per 5s

		LLMProviders:   getListEnv(EnvLLMProviders, []string{"gemini", "groq", "cerebras"}),
		GeminiAPIKey:   getEnv(EnvGeminiAPIKey, ""),
		GroqAPIKey:     getEnv(EnvGroqAPIKey, ""),
		CerebrasAPIKey: getEnv(EnvCerebrasAPIKey, ""),
		GeminiModels:   getListEnv(EnvGeminiModels, nil),
		GroqModels:     getListEnv(EnvGroqModels, nil),
		CerebrasModels: getListEnv(EnvCerebrasModels, nil),

		SentryEnabled:     getBoolEnv(EnvSentryEnabled, false),
		SentryDSN:         getEnv(EnvSentryDSN, ""),
		SentryEnvironment: getEnv(EnvSentryEnvironment, "production"),
		SentryRelease:     getEnv(EnvSentryRelease, ""),
		SentrySampleRate:  getFloatEnv(EnvSentrySampleRate, 1.0),

		BetterStackToken:    getEnv(EnvBetterStackToken, ""),
		BetterStackEndpoint: getEnv(EnvBetterStackEndpoint, ""),

		MetricsUsername: getEnv(EnvMetricsUsername, "prometheus"),
		MetricsPassword: getEnv(EnvMetricsPassword, ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	var errs []error

	if c.Port == "" {
		errs = append(errs, errors.New(EnvPort+" is required"))
	}
	if c.DataDir == "" {
		errs = append(errs, errors.New(EnvDataDir+" is required"))
	}
	if c.StageDelay < 0 {
		errs = append(errs, fmt.Errorf("%s cannot be negative, got %v", EnvStageDelay, c.StageDelay))
	}
	if c.LessonTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvLessonTimeout, c.LessonTimeout))
	}
	if c.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvPollInterval, c.PollInterval))
	}
	if c.MaxConcurrentGenerations <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %d", EnvMaxConcurrentGens, c.MaxConcurrentGenerations))
	}
	for _, p := range c.LLMProviders {
		switch p {
		case "gemini", "groq", "cerebras":
		default:
			errs = append(errs, fmt.Errorf("%s contains unknown provider %q", EnvLLMProviders, p))
		}
	}

	return errors.Join(errs...)
}

// HasLLMProvider reports whether any LLM provider credential is present.
func (c *Config) HasLLMProvider() bool {
	return c.GeminiAPIKey != "" || c.GroqAPIKey != "" || c.CerebrasAPIKey != ""
}

// SQLitePath returns the path of the course archive database.
func (c *Config) SQLitePath() string {
	return filepath.Join(c.DataDir, "wondering.db")
}

func defaultDataDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "wondering")
	}
	return "data"
}

// getEnv retrieves environment variable with fallback to default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv retrieves integer environment variable with fallback to default value
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getFloatEnv retrieves float64 environment variable with fallback to default value
func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getBoolEnv retrieves boolean environment variable with fallback to default value
func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getDurationEnv retrieves duration environment variable with fallback to default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getListEnv retrieves a comma-separated list with fallback to default value
func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
