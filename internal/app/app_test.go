package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/wondering-app/wondering-go/internal/config"
	"github.com/wondering-app/wondering-go/internal/genai"
	"github.com/wondering-app/wondering-go/internal/generation"
	"github.com/wondering-app/wondering-go/internal/logger"
	"github.com/wondering-app/wondering-go/internal/metrics"
	"github.com/wondering-app/wondering-go/internal/storage"
)

// setupTestApp creates a minimal Application for testing endpoints
func setupTestApp(t *testing.T) *Application {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")
	db, err := storage.New(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	log := logger.New("info")

	service := generation.NewService(generation.NewRegistry(), generation.Options{
		Content: generation.NewContentClient(nil, time.Second, m),
		Metrics: m,
	})
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = service.Shutdown(ctx)
	})

	return &Application{
		db:      db,
		archive: storage.NewCourseRepository(db),
		metrics: m,
		logger:  log,
		service: service,
	}
}

func TestLivenessCheck(t *testing.T) {
	t.Parallel()
	app := setupTestApp(t)

	router := gin.New()
	router.GET("/livez", app.livenessCheck)

	req := httptest.NewRequest(http.MethodGet, "/livez", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var response map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse JSON response: %v", err)
	}
	if status, ok := response["status"].(string); !ok || status != "alive" {
		t.Errorf("Expected status='alive', got %v", response["status"])
	}
}

func TestReadinessCheckReady(t *testing.T) {
	t.Parallel()
	app := setupTestApp(t)

	router := gin.New()
	router.GET("/readyz", app.readinessCheck)

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var response map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse JSON response: %v", err)
	}
	if status, ok := response["status"].(string); !ok || status != "ready" {
		t.Errorf("Expected status='ready', got %v", response["status"])
	}
	if db, ok := response["database"].(string); !ok || db != "connected" {
		t.Errorf("Expected database='connected', got %v", response["database"])
	}
	features, ok := response["features"].(map[string]any)
	if !ok {
		t.Fatalf("Expected features object, got %v", response["features"])
	}
	if enabled, ok := features["llm_generation"].(bool); !ok || enabled {
		t.Errorf("Expected llm_generation=false without providers, got %v", features["llm_generation"])
	}
}

func TestReadinessCheckDatabaseDown(t *testing.T) {
	t.Parallel()
	app := setupTestApp(t)

	_ = app.db.Close()

	router := gin.New()
	router.GET("/readyz", app.readinessCheck)

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503 with closed database, got %d", w.Code)
	}
}

func TestBuildLLMConfig(t *testing.T) {
	t.Parallel()
	cfg := &config.Config{
		LLMProviders:   []string{"cerebras", "gemini", "bogus"},
		GeminiAPIKey:   "gem-key",
		CerebrasAPIKey: "cer-key",
		GroqModels:     []string{"custom-groq-model"},
	}

	llmCfg := buildLLMConfig(cfg)

	if llmCfg.Gemini.APIKey != "gem-key" || llmCfg.Cerebras.APIKey != "cer-key" {
		t.Errorf("API keys not propagated: %+v", llmCfg)
	}
	want := []genai.Provider{genai.ProviderCerebras, genai.ProviderGemini}
	if len(llmCfg.Providers) != len(want) {
		t.Fatalf("Expected %d providers, got %v", len(want), llmCfg.Providers)
	}
	for i, p := range want {
		if llmCfg.Providers[i] != p {
			t.Errorf("Provider order mismatch at %d: got %v, want %v", i, llmCfg.Providers[i], p)
		}
	}
	if len(llmCfg.Groq.CardModels) != 1 || llmCfg.Groq.CardModels[0] != "custom-groq-model" {
		t.Errorf("Model override not applied: %v", llmCfg.Groq.CardModels)
	}
	if len(llmCfg.Gemini.CardModels) == 0 {
		t.Error("Expected default Gemini models to remain")
	}
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	t.Parallel()
	router := gin.New()
	router.Use(securityHeadersMiddleware())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("Expected nosniff, got %q", got)
	}
	if got := w.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("Expected DENY, got %q", got)
	}
}
