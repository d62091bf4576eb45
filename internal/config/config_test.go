package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != "10000" {
		t.Errorf("Port = %q, want 10000", cfg.Port)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.StageDelay != StageDelay {
		t.Errorf("StageDelay = %v, want %v", cfg.StageDelay, StageDelay)
	}
	if cfg.LessonTimeout != LessonGeneration {
		t.Errorf("LessonTimeout = %v, want %v", cfg.LessonTimeout, LessonGeneration)
	}
	if cfg.PollInterval != 400*time.Millisecond {
		t.Errorf("PollInterval = %v, want 400ms", cfg.PollInterval)
	}
	if cfg.MaxConcurrentGenerations != 8 {
		t.Errorf("MaxConcurrentGenerations = %d, want 8", cfg.MaxConcurrentGenerations)
	}
	if len(cfg.LLMProviders) != 3 {
		t.Errorf("LLMProviders = %v, want 3 defaults", cfg.LLMProviders)
	}
	if cfg.HasLLMProvider() {
		t.Error("HasLLMProvider() = true without keys")
	}
	if cfg.DataDir == "" {
		t.Error("DataDir should have a default")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv(EnvPort, "8080")
	t.Setenv(EnvStageDelay, "0s")
	t.Setenv(EnvLessonTimeout, "5s")
	t.Setenv(EnvLLMProviders, "groq, cerebras")
	t.Setenv(EnvGroqAPIKey, "k")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.StageDelay != 0 {
		t.Errorf("StageDelay = %v, want 0", cfg.StageDelay)
	}
	if cfg.LessonTimeout != 5*time.Second {
		t.Errorf("LessonTimeout = %v", cfg.LessonTimeout)
	}
	if len(cfg.LLMProviders) != 2 || cfg.LLMProviders[0] != "groq" {
		t.Errorf("LLMProviders = %v", cfg.LLMProviders)
	}
	if !cfg.HasLLMProvider() {
		t.Error("HasLLMProvider() = false with a Groq key")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"missing port", func(c *Config) { c.Port = "" }, true},
		{"missing data dir", func(c *Config) { c.DataDir = "" }, true},
		{"negative stage delay", func(c *Config) { c.StageDelay = -time.Second }, true},
		{"zero lesson timeout", func(c *Config) { c.LessonTimeout = 0 }, true},
		{"zero poll interval", func(c *Config) { c.PollInterval = 0 }, true},
		{"zero concurrency", func(c *Config) { c.MaxConcurrentGenerations = 0 }, true},
		{"unknown provider", func(c *Config) { c.LLMProviders = []string{"openai"} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Port:                     "10000",
				DataDir:                  "data",
				LessonTimeout:            LessonGeneration,
				PollInterval:             PollInterval,
				MaxConcurrentGenerations: 8,
				LLMProviders:             []string{"gemini"},
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSQLitePath(t *testing.T) {
	cfg := &Config{DataDir: "/tmp/wondering"}
	if got := cfg.SQLitePath(); got != "/tmp/wondering/wondering.db" {
		t.Errorf("SQLitePath() = %q", got)
	}
}
