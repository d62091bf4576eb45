// Package config defines environment variable keys for configuration.
package config

//nolint:gosec,revive // Environment variable keys are not credentials and do not need per-const comments.
const (
	// Server
	EnvPort            = "WONDER_PORT"
	EnvLogLevel        = "WONDER_LOG_LEVEL"
	EnvShutdownTimeout = "WONDER_SHUTDOWN_TIMEOUT"

	// Data
	EnvDataDir = "WONDER_DATA_DIR"

	// Generation pipeline
	EnvStageDelay         = "WONDER_STAGE_DELAY"
	EnvLessonTimeout      = "WONDER_LESSON_TIMEOUT"
	EnvMaxConcurrentGens  = "WONDER_MAX_CONCURRENT_GENERATIONS"
	EnvPollInterval       = "WONDER_POLL_INTERVAL"
	EnvGenerateRateBurst  = "WONDER_GENERATE_RATE_BURST"
	EnvGenerateRateRefill = "WONDER_GENERATE_RATE_REFILL"

	// LLM Feature
	EnvLLMProviders   = "WONDER_LLM_PROVIDERS"
	EnvGeminiAPIKey   = "WONDER_GEMINI_API_KEY"
	EnvGroqAPIKey     = "WONDER_GROQ_API_KEY"
	EnvCerebrasAPIKey = "WONDER_CEREBRAS_API_KEY"
	EnvGeminiModels   = "WONDER_GEMINI_CARD_MODELS"
	EnvGroqModels     = "WONDER_GROQ_CARD_MODELS"
	EnvCerebrasModels = "WONDER_CEREBRAS_CARD_MODELS"

	// Sentry Feature
	EnvSentryEnabled     = "WONDER_SENTRY_ENABLED"
	EnvSentryDSN         = "WONDER_SENTRY_DSN"
	EnvSentryEnvironment = "WONDER_SENTRY_ENVIRONMENT"
	EnvSentryRelease     = "WONDER_SENTRY_RELEASE"
	EnvSentrySampleRate  = "WONDER_SENTRY_SAMPLE_RATE"

	// Better Stack Feature
	EnvBetterStackToken    = "WONDER_BETTERSTACK_TOKEN"
	EnvBetterStackEndpoint = "WONDER_BETTERSTACK_ENDPOINT"

	// Metrics Auth Feature
	EnvMetricsUsername = "WONDER_METRICS_USERNAME"
	EnvMetricsPassword = "WONDER_METRICS_PASSWORD"
)
