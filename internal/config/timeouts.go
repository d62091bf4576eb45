// Package config provides centralized timeout constants for the application.
//
// These values are tuned around the generation pipeline's observable
// behavior: the UI polls generation status every 400ms and renders a
// staged progress indicator, so stage pacing and lesson timeouts shape
// what users actually see.
package config

import "time"

// Generation pipeline timing
const (
	// StageDelay is the pause between the early pipeline stages
	// (goal analysis, structure design). The stages are near-instant
	// computations; the pause keeps the staged progress indicator
	// readable instead of jumping straight to lesson generation.
	StageDelay = 800 * time.Millisecond

	// LessonGeneration is the per-lesson budget for one remote card
	// generation call, covering retries within a single provider.
	// On expiry the lesson falls back to deterministic content.
	LessonGeneration = 20 * time.Second

	// PollInterval is the status poll cadence consumed by watchers.
	// Part of the UI contract.
	PollInterval = 400 * time.Millisecond
)

// HTTP server timeouts
const (
	// HTTPRead bounds request header+body reads. Generation requests
	// are small JSON payloads.
	HTTPRead = 10 * time.Second

	// HTTPWrite must accommodate the synchronous lesson-content
	// endpoint, which performs a full remote generation inline.
	HTTPWrite = 30 * time.Second

	// HTTPIdle is the keep-alive idle timeout.
	HTTPIdle = 120 * time.Second
)

// Database timeouts
const (
	// DatabaseBusyTimeout is the SQLite busy_timeout pragma value.
	DatabaseBusyTimeout = 5 * time.Second

	// DatabaseConnMaxLifetime caps connection age so the pool refreshes.
	DatabaseConnMaxLifetime = time.Hour
)

// Graceful shutdown
const (
	// GracefulShutdown allows in-flight requests and running
	// generations to finish before forceful termination.
	GracefulShutdown = 30 * time.Second
)
