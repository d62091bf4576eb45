// Package genai provides integration with LLM APIs (Gemini, Groq, and Cerebras).
// This file contains the Gemini implementation of card generation.
package genai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/wondering-app/wondering-go/internal/course"
)

// geminiCardGenerator generates lesson flashcards via the Gemini API.
// It implements the CardGenerator interface.
type geminiCardGenerator struct {
	client *genai.Client
	model  string
}

// newGeminiCardGenerator creates a new Gemini-based card generator.
// Returns nil if apiKey is empty (provider disabled).
func newGeminiCardGenerator(ctx context.Context, apiKey, model string) (*geminiCardGenerator, error) {
	if apiKey == "" {
		return nil, nil //nolint:nilnil // Intentional: provider disabled when no API key
	}

	if model == "" {
		model = DefaultGeminiCardModels[0]
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &geminiCardGenerator{
		client: client,
		model:  model,
	}, nil
}

// GenerateCards requests one lesson's flashcards and parses the JSON
// payload out of the model's text response.
func (g *geminiCardGenerator) GenerateCards(ctx context.Context, req CardRequest) ([]course.Card, error) {
	prompt := BuildLessonPrompt(req)

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](GenerationTemperature),
		MaxOutputTokens: MaxOutputTokens,
	}

	start := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	duration := time.Since(start)

	if err != nil {
		slog.WarnContext(ctx, "card generation API call failed",
			"provider", "gemini",
			"model", g.model,
			"lesson_id", req.Lesson.LessonID,
			"duration_ms", duration.Milliseconds(),
			"error", err)
		// Return error for retry/fallback decision
		return nil, fmt.Errorf("generate content failed: %w", err)
	}

	var text strings.Builder
	if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if part.Text != "" {
				text.WriteString(part.Text)
			}
		}
	}

	cards, err := ParseCards(text.String(), req.Lesson.LessonID)
	if err != nil {
		return nil, fmt.Errorf("gemini response: %w", err)
	}

	if resp.UsageMetadata != nil {
		slog.DebugContext(ctx, "card generation completed",
			"provider", "gemini",
			"model", g.model,
			"lesson_id", req.Lesson.LessonID,
			"cards", len(cards),
			"input_tokens", resp.UsageMetadata.PromptTokenCount,
			"output_tokens", resp.UsageMetadata.CandidatesTokenCount,
			"total_tokens", resp.UsageMetadata.TotalTokenCount,
			"duration_ms", duration.Milliseconds())
	}

	return cards, nil
}

// Provider returns the provider type for this generator.
func (g *geminiCardGenerator) Provider() Provider {
	return ProviderGemini
}

// Close releases resources.
// Safe to call on nil receiver.
func (g *geminiCardGenerator) Close() error {
	if g == nil {
		return nil
	}
	// Note: genai.Client does not require explicit cleanup in current SDK version
	return nil
}
