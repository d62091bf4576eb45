package genai

import (
	"context"
	"fmt"
	"log/slog"
)

// CreateCardGenerator builds the full fallback chain from configuration.
// The chain is ordered by cfg.Providers, expanding each configured provider
// into its per-model generators. Returns nil (no error) when no provider
// has an API key, so callers can detect the unconfigured state and rely on
// the deterministic local generator instead.
func CreateCardGenerator(ctx context.Context, cfg LLMConfig) (CardGenerator, error) {
	if !cfg.HasAnyProvider() {
		slog.InfoContext(ctx, "no LLM provider configured, remote card generation disabled")
		return nil, nil
	}

	var chain []CardGenerator
	for _, p := range cfg.ConfiguredProviders() {
		pc := cfg.GetProviderConfig(p)
		if pc == nil || len(pc.CardModels) == 0 {
			continue
		}
		for _, model := range pc.CardModels {
			gen, err := createProviderGenerator(ctx, p, pc.APIKey, model)
			if err != nil {
				closeAll(chain)
				return nil, fmt.Errorf("create %s generator (model %s): %w", p, model, err)
			}
			if gen != nil {
				chain = append(chain, gen)
			}
		}
	}

	if len(chain) == 0 {
		slog.WarnContext(ctx, "LLM providers configured but no usable models")
		return nil, nil
	}

	slog.InfoContext(ctx, "card generator chain built",
		"chain_size", len(chain),
		"primary_provider", chain[0].Provider())
	return NewFallbackCardGenerator(cfg.RetryConfig, chain...), nil
}

func createProviderGenerator(ctx context.Context, p Provider, apiKey, model string) (CardGenerator, error) {
	switch p {
	case ProviderGemini:
		g, err := newGeminiCardGenerator(ctx, apiKey, model)
		if err != nil || g == nil {
			return nil, err
		}
		return g, nil
	case ProviderGroq, ProviderCerebras:
		g, err := newOpenAICardGenerator(ctx, p, apiKey, model)
		if err != nil || g == nil {
			return nil, err
		}
		return g, nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", p)
	}
}

func closeAll(chain []CardGenerator) {
	for _, g := range chain {
		_ = g.Close()
	}
}
