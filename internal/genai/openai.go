// Package genai provides integration with LLM APIs (Gemini, Groq, and Cerebras).
// This file contains the unified OpenAI-compatible implementation of card
// generation. It works with any OpenAI-compatible provider (Groq, Cerebras)
// via custom BaseURL.
package genai

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/wondering-app/wondering-go/internal/course"
)

// openaiCardGenerator generates lesson flashcards via an OpenAI-compatible
// chat completion API. It implements the CardGenerator interface.
type openaiCardGenerator struct {
	client   openai.Client
	model    string
	provider Provider
}

// newOpenAICardGenerator creates a new OpenAI-compatible card generator.
// Returns nil if apiKey is empty (provider disabled).
func newOpenAICardGenerator(_ context.Context, provider Provider, apiKey, model string) (*openaiCardGenerator, error) {
	if apiKey == "" {
		return nil, nil //nolint:nilnil // Intentional: provider disabled when no API key
	}

	baseURL, ok := ProviderEndpoint[provider]
	if !ok {
		return nil, fmt.Errorf("unsupported OpenAI-compatible provider: %s", provider)
	}

	if model == "" {
		switch provider {
		case ProviderGroq:
			model = DefaultGroqCardModels[0]
		case ProviderCerebras:
			model = DefaultCerebrasCardModels[0]
		default:
			return nil, fmt.Errorf("no default model for provider: %s", provider)
		}
	}

	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)

	return &openaiCardGenerator{
		client:   client,
		model:    model,
		provider: provider,
	}, nil
}

// GenerateCards requests one lesson's flashcards via chat completion and
// parses the JSON payload out of the response text.
func (g *openaiCardGenerator) GenerateCards(ctx context.Context, req CardRequest) ([]course.Card, error) {
	prompt := BuildLessonPrompt(req)

	params := openai.ChatCompletionNewParams{
		Model: g.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(GenerationTemperature),
		MaxTokens:   openai.Int(MaxOutputTokens),
	}

	start := time.Now()
	resp, err := g.client.Chat.Completions.New(ctx, params)
	duration := time.Since(start)

	if err != nil {
		slog.WarnContext(ctx, "card generation API call failed",
			"provider", g.provider,
			"model", g.model,
			"lesson_id", req.Lesson.LessonID,
			"duration_ms", duration.Milliseconds(),
			"error", err)
		// Return error for retry/fallback decision
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}

	var text string
	if len(resp.Choices) > 0 {
		text = resp.Choices[0].Message.Content
	}

	cards, err := ParseCards(text, req.Lesson.LessonID)
	if err != nil {
		return nil, fmt.Errorf("%s response: %w", g.provider, err)
	}

	if resp.Usage.TotalTokens > 0 {
		slog.DebugContext(ctx, "card generation completed",
			"provider", g.provider,
			"model", g.model,
			"lesson_id", req.Lesson.LessonID,
			"cards", len(cards),
			"input_tokens", resp.Usage.PromptTokens,
			"output_tokens", resp.Usage.CompletionTokens,
			"total_tokens", resp.Usage.TotalTokens,
			"duration_ms", duration.Milliseconds())
	}

	return cards, nil
}

// Provider returns the provider type for this generator.
func (g *openaiCardGenerator) Provider() Provider {
	return g.provider
}

// Close releases resources.
// Safe to call on nil receiver.
func (g *openaiCardGenerator) Close() error {
	return nil
}
