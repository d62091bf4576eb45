// Package genai provides integration with LLM APIs (Gemini, Groq, and Cerebras).
// This file contains the fallback wrapper for cross-model and cross-provider
// failover.
package genai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/wondering-app/wondering-go/internal/course"
)

// FallbackCardGenerator wraps an ordered chain of card generators.
// Each link is tried with retry/backoff; classification of the failure
// decides whether to retry the same link or move down the chain.
// It implements the CardGenerator interface itself, so the chain nests
// into any call site expecting a single generator.
type FallbackCardGenerator struct {
	chain       []CardGenerator
	retryConfig RetryConfig
}

// NewFallbackCardGenerator creates a new fallback-enabled card generator.
// The chain is tried in order; generators from the same provider realize
// model-to-model fallback, across providers provider-to-provider fallback.
func NewFallbackCardGenerator(cfg RetryConfig, chain ...CardGenerator) *FallbackCardGenerator {
	filtered := make([]CardGenerator, 0, len(chain))
	for _, g := range chain {
		if g != nil {
			filtered = append(filtered, g)
		}
	}
	return &FallbackCardGenerator{
		chain:       filtered,
		retryConfig: cfg,
	}
}

// GenerateCards walks the chain until one generator succeeds.
func (f *FallbackCardGenerator) GenerateCards(ctx context.Context, req CardRequest) ([]course.Card, error) {
	if f == nil || len(f.chain) == 0 {
		return nil, errors.New("card generator not configured")
	}

	var lastErr error
	for i, gen := range f.chain {
		start := time.Now()
		cards, err := f.generateWithRetry(ctx, gen, req)
		if err == nil {
			if i > 0 {
				slog.InfoContext(ctx, "card generation succeeded on fallback",
					"provider", gen.Provider(),
					"chain_position", i,
					"lesson_id", req.Lesson.LessonID,
					"duration_ms", time.Since(start).Milliseconds())
			}
			return cards, nil
		}
		lastErr = err

		action := ClassifyError(err)
		slog.WarnContext(ctx, "card generator failed",
			"provider", gen.Provider(),
			"chain_position", i,
			"action", action.String(),
			"error", err)

		// Permanent errors that are not provider-specific (context gone,
		// invalid request) will fail every link the same way.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}

	slog.ErrorContext(ctx, "all card generators failed",
		"chain_size", len(f.chain),
		"lesson_id", req.Lesson.LessonID,
		"error", lastErr)
	return nil, fmt.Errorf("all providers failed: %w", lastErr)
}

// generateWithRetry attempts one generator with retry logic.
func (f *FallbackCardGenerator) generateWithRetry(ctx context.Context, gen CardGenerator, req CardRequest) ([]course.Card, error) {
	var lastErr error

	for attempt := 0; attempt < f.retryConfig.MaxAttempts; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if attempt > 0 {
			delay := CalculateBackoff(attempt, f.retryConfig.InitialDelay, f.retryConfig.MaxDelay)
			if err := Sleep(ctx, delay); err != nil {
				return nil, err
			}
		}

		cards, err := gen.GenerateCards(ctx, req)
		if err == nil {
			return cards, nil
		}
		lastErr = err

		if ClassifyError(err) != ActionRetry {
			break
		}
	}

	return nil, lastErr
}

// Provider returns the provider of the first link in the chain.
func (f *FallbackCardGenerator) Provider() Provider {
	if f == nil || len(f.chain) == 0 {
		return ""
	}
	return f.chain[0].Provider()
}

// Close closes every generator in the chain, joining errors.
func (f *FallbackCardGenerator) Close() error {
	if f == nil {
		return nil
	}
	var errs []error
	for _, g := range f.chain {
		if err := g.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
