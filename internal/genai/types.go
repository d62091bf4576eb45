// Package genai provides integration with LLM APIs (Gemini, Groq, and Cerebras)
// for flashcard generation. Shared types, interfaces, and configuration live
// in this file.
//
// Architecture:
// - Gemini: Uses google.golang.org/genai (official SDK)
// - Groq/Cerebras: Uses github.com/openai/openai-go/v3 (OpenAI-compatible API)
//
// Fallback Strategy (3-layer):
// 1. Model Retry: Same model retried with exponential backoff
// 2. Model Chain: Next model in same provider's model list
// 3. Provider Chain: Next provider in WONDER_LLM_PROVIDERS order
//
// The deterministic offline card generator is NOT part of this package: when
// every provider fails, the orchestration layer falls back locally.
package genai

import (
	"context"
	"time"

	"github.com/wondering-app/wondering-go/internal/course"
)

// Provider represents an LLM provider.
type Provider string

const (
	// ProviderGemini represents Google's Gemini API (non-OpenAI-compatible).
	ProviderGemini Provider = "gemini"
	// ProviderGroq represents Groq's API (OpenAI-compatible, fast inference).
	ProviderGroq Provider = "groq"
	// ProviderCerebras represents Cerebras's API (OpenAI-compatible, ultra-fast inference).
	ProviderCerebras Provider = "cerebras"
)

// ProviderEndpoint defines the base URL for OpenAI-compatible providers.
// Gemini is not included as it uses a different SDK.
var ProviderEndpoint = map[Provider]string{
	ProviderGroq:     "https://api.groq.com/openai/v1/",
	ProviderCerebras: "https://api.cerebras.ai/v1/",
}

// IsOpenAICompatible returns true if the provider uses OpenAI-compatible API.
func (p Provider) IsOpenAICompatible() bool {
	_, ok := ProviderEndpoint[p]
	return ok
}

// String returns the string representation of the provider.
func (p Provider) String() string {
	return string(p)
}

// LessonRef identifies the lesson a card request is for.
type LessonRef struct {
	LessonID     string `json:"lessonId"`
	LessonNumber string `json:"lessonNumber"`
	Title        string `json:"title"`
	Description  string `json:"description"`
}

// CardRequest carries everything needed to generate one lesson's cards.
type CardRequest struct {
	Topic      string
	Goal       string
	Level      course.ExperienceLevel
	Lesson     LessonRef
	CardsCount int
}

// CardGenerator defines the interface for lesson flashcard generation.
// Implementations include Gemini (native) and OpenAI-compatible providers
// (Groq, Cerebras).
type CardGenerator interface {
	// GenerateCards produces the requested number of cards for a lesson.
	// Returned cards are normalized: ids filled, types defaulted, key
	// terms never nil.
	GenerateCards(ctx context.Context, req CardRequest) ([]course.Card, error)
	// Provider returns the provider type for metrics.
	Provider() Provider
	// Close releases any resources held by the generator.
	Close() error
}

// RetryConfig defines retry behavior for LLM API calls.
// Uses AWS-recommended Full Jitter exponential backoff.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (including initial).
	// Default: 2 (1 initial + 1 retry)
	MaxAttempts int

	// InitialDelay is the base delay before first retry.
	// Default: 500ms
	InitialDelay time.Duration

	// MaxDelay is the maximum delay between retries.
	// Default: 3s
	MaxDelay time.Duration
}

// ProviderConfig holds configuration for a single LLM provider.
type ProviderConfig struct {
	// APIKey is the API key for the provider.
	APIKey string

	// CardModels is the ordered list of models for card generation.
	// First model is primary, rest are fallbacks tried in order.
	CardModels []string
}

// LLMConfig holds configuration for all LLM providers.
type LLMConfig struct {
	// Providers is the ordered list of providers to try.
	// Fallback happens in order: first provider's models, then second, etc.
	Providers []Provider

	Gemini   ProviderConfig
	Groq     ProviderConfig
	Cerebras ProviderConfig

	RetryConfig RetryConfig
}

// Default model configurations.
// First element is primary model, subsequent elements are fallbacks.
var (
	// DefaultGeminiCardModels is the default model chain for Gemini card generation.
	// gemini-2.0-flash matches the hosted generation endpoint; the lite
	// model is a cheaper fallback.
	DefaultGeminiCardModels = []string{"gemini-2.0-flash", "gemini-2.0-flash-lite"}

	// DefaultGroqCardModels is the default model chain for Groq card generation.
	DefaultGroqCardModels = []string{"llama-3.3-70b-versatile", "llama-3.1-8b-instant"}

	// DefaultCerebrasCardModels is the default model chain for Cerebras card generation.
	DefaultCerebrasCardModels = []string{"llama-3.3-70b", "llama-3.1-8b"}

	// DefaultProviders is the default provider order for fallback.
	DefaultProviders = []Provider{ProviderGemini, ProviderGroq, ProviderCerebras}
)

// Generation parameters shared by all providers.
const (
	// GenerationTemperature balances variety against format adherence.
	GenerationTemperature = 0.7
	// MaxOutputTokens bounds one lesson's card payload.
	MaxOutputTokens = 8192
)

// Retry configuration defaults
const (
	DefaultMaxRetryAttempts  = 2
	DefaultInitialRetryDelay = 500 * time.Millisecond
	DefaultMaxRetryDelay     = 3 * time.Second
)

// HasAnyProvider returns true if at least one provider is configured.
func (c *LLMConfig) HasAnyProvider() bool {
	return c.Gemini.APIKey != "" || c.Groq.APIKey != "" || c.Cerebras.APIKey != ""
}

// HasProvider returns true if the specified provider is configured with an API key.
func (c *LLMConfig) HasProvider(p Provider) bool {
	switch p {
	case ProviderGemini:
		return c.Gemini.APIKey != ""
	case ProviderGroq:
		return c.Groq.APIKey != ""
	case ProviderCerebras:
		return c.Cerebras.APIKey != ""
	default:
		return false
	}
}

// GetProviderConfig returns the configuration for a specific provider.
func (c *LLMConfig) GetProviderConfig(p Provider) *ProviderConfig {
	switch p {
	case ProviderGemini:
		return &c.Gemini
	case ProviderGroq:
		return &c.Groq
	case ProviderCerebras:
		return &c.Cerebras
	default:
		return nil
	}
}

// ConfiguredProviders returns the list of providers with configured API keys,
// in the order specified by c.Providers.
func (c *LLMConfig) ConfiguredProviders() []Provider {
	result := make([]Provider, 0, len(c.Providers))
	for _, p := range c.Providers {
		if c.HasProvider(p) {
			result = append(result, p)
		}
	}
	return result
}

// DefaultLLMConfig returns a default LLM configuration.
// API keys must be provided separately.
func DefaultLLMConfig() LLMConfig {
	return LLMConfig{
		Providers: DefaultProviders,
		Gemini:    ProviderConfig{CardModels: DefaultGeminiCardModels},
		Groq:      ProviderConfig{CardModels: DefaultGroqCardModels},
		Cerebras:  ProviderConfig{CardModels: DefaultCerebrasCardModels},
		RetryConfig: RetryConfig{
			MaxAttempts:  DefaultMaxRetryAttempts,
			InitialDelay: DefaultInitialRetryDelay,
			MaxDelay:     DefaultMaxRetryDelay,
		},
	}
}
