// Package app provides application initialization and lifecycle management.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wondering-app/wondering-go/internal/api"
	"github.com/wondering-app/wondering-go/internal/buildinfo"
	"github.com/wondering-app/wondering-go/internal/config"
	"github.com/wondering-app/wondering-go/internal/genai"
	"github.com/wondering-app/wondering-go/internal/generation"
	"github.com/wondering-app/wondering-go/internal/logger"
	"github.com/wondering-app/wondering-go/internal/metrics"
	"github.com/wondering-app/wondering-go/internal/ratelimit"
	"github.com/wondering-app/wondering-go/internal/sentry"
	"github.com/wondering-app/wondering-go/internal/storage"
)

// Application manages the application lifecycle and dependencies.
type Application struct {
	cfg        *config.Config
	logger     *logger.Logger
	db         *storage.DB
	archive    *storage.CourseRepository
	metrics    *metrics.Metrics
	registry   *prometheus.Registry
	generator  genai.CardGenerator // nil when no provider is configured
	service    *generation.Service
	limiter    *ratelimit.KeyedLimiter
	apiHandler *api.Handler
	server     *http.Server
}

// Initialize creates and initializes a new application with all dependencies.
func Initialize(ctx context.Context, cfg *config.Config) (*Application, error) {
	log := logger.NewWithOptions(cfg.LogLevel, os.Stdout, logger.Options{
		BetterStackToken:    cfg.BetterStackToken,
		BetterStackEndpoint: cfg.BetterStackEndpoint,
	})

	log = log.WithField("service", "wondering-go")
	if host, err := os.Hostname(); err == nil && host != "" {
		log = log.WithField("instance_id", host)
	}

	// Set as default logger so package-level slog.*Context() calls pick up
	// generation/lesson ids via ContextHandler.
	slog.SetDefault(log.Logger)

	log.Info("Initializing application...")
	if cfg.BetterStackToken != "" {
		log.WithField("endpoint", cfg.BetterStackEndpoint).Info("Better Stack logging enabled")
	}

	if cfg.SentryEnabled {
		if err := sentry.Initialize(sentry.Config{
			DSN:         cfg.SentryDSN,
			Environment: cfg.SentryEnvironment,
			Release:     cfg.SentryRelease,
			SampleRate:  cfg.SentrySampleRate,
		}); err != nil {
			log.WithError(err).Warn("Sentry initialization failed")
		} else if sentry.IsEnabled() {
			log.WithField("environment", cfg.SentryEnvironment).Info("Sentry error tracking enabled")
		}
	}

	db, err := storage.New(ctx, cfg.SQLitePath())
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	log.WithField("path", cfg.SQLitePath()).Info("Database connected")
	archive := storage.NewCourseRepository(db)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewBuildInfoCollector(),
	)
	m := metrics.New(registry)

	var generator genai.CardGenerator
	if cfg.HasLLMProvider() {
		llmCfg := buildLLMConfig(cfg)
		generator, err = genai.CreateCardGenerator(ctx, llmCfg)
		if err != nil {
			log.WithError(err).Warn("LLM card generator initialization failed, using local content")
		}
		if generator != nil {
			providers := llmCfg.ConfiguredProviders()
			providerNames := make([]string, len(providers))
			for i, p := range providers {
				providerNames[i] = p.String()
			}
			log.WithField("providers", providerNames).Info("LLM card generation enabled")
		}
	}
	if generator == nil {
		log.Info("No LLM provider configured, lessons use locally generated content")
	}

	limiter := ratelimit.NewKeyedLimiter(ratelimit.KeyedConfig{
		Name:          "generate",
		Burst:         cfg.GenerateRateBurst,
		RefillRate:    cfg.GenerateRateRefillPerSec,
		CleanupPeriod: 5 * time.Minute,
		OnDrop:        func() { m.RecordRateLimiterDrop("generate") },
	})

	service := generation.NewService(generation.NewRegistry(), generation.Options{
		Content:       generation.NewContentClient(generator, cfg.LessonTimeout, m),
		Archive:       archive,
		Metrics:       m,
		StageDelay:    cfg.StageDelay,
		MaxConcurrent: int64(cfg.MaxConcurrentGenerations),
		PollInterval:  cfg.PollInterval,
	})

	apiHandler := api.NewHandler(api.Config{
		Service:       service,
		Generator:     generator,
		LessonTimeout: cfg.LessonTimeout,
		Limiter:       limiter,
		Metrics:       m,
	})

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	if sentry.IsEnabled() {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(securityHeadersMiddleware())
	router.Use(loggingMiddleware(log))
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	app := &Application{
		cfg:        cfg,
		logger:     log,
		db:         db,
		archive:    archive,
		metrics:    m,
		registry:   registry,
		generator:  generator,
		service:    service,
		limiter:    limiter,
		apiHandler: apiHandler,
	}

	router.GET("/", app.serviceInfo)
	router.GET("/livez", app.livenessCheck)
	router.HEAD("/livez", app.livenessCheck)
	router.GET("/readyz", app.readinessCheck)
	router.HEAD("/readyz", app.readinessCheck)
	router.GET("/metrics",
		metricsAuthMiddleware(cfg.MetricsPassword != "", cfg.MetricsUsername, cfg.MetricsPassword),
		gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	apiGroup := router.Group("/api")
	apiGroup.POST("/courses/generate", apiHandler.GenerateCourse)
	apiGroup.GET("/courses/:id", apiHandler.GetCourse)
	apiGroup.GET("/courses/:id/status", apiHandler.GenerationStatus)
	apiGroup.GET("/courses/:id/content", apiHandler.GetCourseContent)
	apiGroup.GET("/courses/:id/lessons/:lessonId", apiHandler.GetLesson)
	apiGroup.POST("/generate-lesson", apiHandler.GenerateLesson)

	app.server = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: config.HTTPRead,
		ReadTimeout:       config.HTTPRead,
		WriteTimeout:      config.HTTPWrite,
		IdleTimeout:       config.HTTPIdle,
	}

	log.Info("Initialization complete")
	return app, nil
}

// buildLLMConfig creates an LLMConfig from the application config.
func buildLLMConfig(cfg *config.Config) genai.LLMConfig {
	llmCfg := genai.DefaultLLMConfig()

	llmCfg.Gemini.APIKey = cfg.GeminiAPIKey
	llmCfg.Groq.APIKey = cfg.GroqAPIKey
	llmCfg.Cerebras.APIKey = cfg.CerebrasAPIKey

	if len(cfg.GeminiModels) > 0 {
		llmCfg.Gemini.CardModels = cfg.GeminiModels
	}
	if len(cfg.GroqModels) > 0 {
		llmCfg.Groq.CardModels = cfg.GroqModels
	}
	if len(cfg.CerebrasModels) > 0 {
		llmCfg.Cerebras.CardModels = cfg.CerebrasModels
	}
	if len(cfg.LLMProviders) > 0 {
		providers := make([]genai.Provider, 0, len(cfg.LLMProviders))
		for _, p := range cfg.LLMProviders {
			switch p {
			case "gemini":
				providers = append(providers, genai.ProviderGemini)
			case "groq":
				providers = append(providers, genai.ProviderGroq)
			case "cerebras":
				providers = append(providers, genai.ProviderCerebras)
			default:
				slog.Warn("ignoring unknown provider", "name", p)
			}
		}
		if len(providers) > 0 {
			llmCfg.Providers = providers
		}
	}

	return llmCfg
}

func (a *Application) serviceInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "wondering-go",
		"version": buildinfo.Version,
		"commit":  buildinfo.Commit,
	})
}

func (a *Application) livenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "alive",
		"version": buildinfo.Version,
	})
}

func (a *Application) readinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := a.db.Ping(ctx); err != nil {
		a.logger.WithError(err).Warn("Readiness check failed: database unavailable")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": "database unavailable",
		})
		return
	}

	archived := 0
	if count, err := a.archive.CountCourses(ctx); err == nil {
		archived = count
	} else {
		a.logger.WithError(err).Warn("Failed to count archived courses")
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ready",
		"database": "connected",
		"courses": gin.H{
			"active":   a.service.Registry().Len(),
			"archived": archived,
		},
		"features": gin.H{
			"llm_generation": a.generator != nil,
		},
	})
}

// Run starts the HTTP server and blocks until a shutdown signal arrives.
//
// Graceful shutdown sequence:
//  1. Stop accepting new HTTP requests and drain in-flight ones
//  2. Wait for running generation pipelines to finish
//  3. Close resources (LLM clients, database, rate limiters, logger)
func (a *Application) Run() error {
	a.startHTTPServer()

	sig := a.waitForShutdownSignal()
	a.logger.WithField("signal", sig.String()).Info("Received shutdown signal")

	return a.shutdown()
}

// startHTTPServer starts the HTTP server in a goroutine.
func (a *Application) startHTTPServer() {
	go func() {
		a.logger.WithField("port", a.cfg.Port).Info("Starting HTTP server")
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.WithError(err).Error("HTTP server error")
		}
	}()
}

// waitForShutdownSignal blocks until SIGINT/SIGTERM is received.
func (a *Application) waitForShutdownSignal() os.Signal {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	return <-quit
}

func (a *Application) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	a.logger.Info("Stopping HTTP server...")
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.WithError(err).Error("HTTP server shutdown error")
	}

	a.logger.Info("Waiting for running generations to finish...")
	start := time.Now()
	if err := a.service.Shutdown(shutdownCtx); err != nil {
		a.logger.WithError(err).Warn("Generation shutdown timeout")
	} else {
		a.logger.WithField("duration_ms", time.Since(start).Milliseconds()).
			Info("All generations completed")
	}

	a.logger.Info("Closing resources...")

	if a.generator != nil {
		if err := a.generator.Close(); err != nil {
			a.logger.WithError(err).WithField("component", "card_generator").Error("Component close error")
		}
	}

	if err := a.db.Close(); err != nil {
		a.logger.WithError(err).WithField("component", "database").Error("Component close error")
	}

	if a.limiter != nil {
		a.limiter.Stop()
	}

	if sentry.IsEnabled() {
		sentry.Flush(2 * time.Second)
	}

	if err := a.logger.Shutdown(shutdownCtx); err != nil {
		a.logger.WithError(err).Warn("Logger shutdown timed out")
	}

	a.logger.Info("Shutdown complete")
	return nil
}
