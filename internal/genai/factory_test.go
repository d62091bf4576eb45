package genai

import (
	"context"
	"testing"
)

func TestCreateCardGenerator_NoProviders(t *testing.T) {
	t.Parallel()
	cfg := DefaultLLMConfig()
	gen, err := CreateCardGenerator(context.Background(), cfg)
	if err != nil {
		t.Fatalf("CreateCardGenerator() error = %v", err)
	}
	if gen != nil {
		t.Error("no configured providers should yield a nil generator")
	}
}

func TestCreateCardGenerator_OpenAICompatible(t *testing.T) {
	t.Parallel()
	cfg := DefaultLLMConfig()
	cfg.Providers = []Provider{ProviderCerebras, ProviderGroq}
	cfg.Groq.APIKey = "test-key"
	cfg.Cerebras.APIKey = "test-key"

	gen, err := CreateCardGenerator(context.Background(), cfg)
	if err != nil {
		t.Fatalf("CreateCardGenerator() error = %v", err)
	}
	if gen == nil {
		t.Fatal("expected a generator with two configured providers")
	}
	defer gen.Close()

	// Chain order follows cfg.Providers, so Cerebras leads.
	if gen.Provider() != ProviderCerebras {
		t.Errorf("Provider() = %s, want cerebras", gen.Provider())
	}
}

func TestConfiguredProviders(t *testing.T) {
	t.Parallel()
	cfg := DefaultLLMConfig()
	cfg.Groq.APIKey = "k"

	got := cfg.ConfiguredProviders()
	if len(got) != 1 || got[0] != ProviderGroq {
		t.Errorf("ConfiguredProviders() = %v, want [groq]", got)
	}
	if !cfg.HasAnyProvider() {
		t.Error("HasAnyProvider() = false with a Groq key set")
	}
	if cfg.HasProvider(ProviderGemini) {
		t.Error("HasProvider(gemini) = true without a key")
	}
}
