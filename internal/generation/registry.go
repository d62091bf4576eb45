// Package generation drives the asynchronous course generation pipeline:
// an in-memory status registry, the lesson content client with its
// deterministic fallback, the orchestrator, and the status watcher.
package generation

import (
	"sync"

	"github.com/wondering-app/wondering-go/internal/course"
)

// State is the lifecycle state of one generation.
type State string

// Generation states.
const (
	StateGenerating State = "generating"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
)

// Status is the externally observable state of a generation, polled by
// the UI's progress indicator.
type Status struct {
	Status             State  `json:"status"`
	ProgressPercentage int    `json:"progressPercentage"`
	CurrentStep        string `json:"currentStep"`
	ErrorMessage       string `json:"errorMessage,omitempty"`
}

// Terminal reports whether the status will never change again.
func (s Status) Terminal() bool {
	return s.Status == StateCompleted || s.Status == StateFailed
}

// StepAnalyzing is the initial step label, set synchronously at creation.
const StepAnalyzing = "Analyzing your goals..."

// unknownStatus is returned for ids the registry has never seen.
// Callers must treat it as terminal and non-retryable.
var unknownStatus = Status{
	Status:             StateFailed,
	ProgressPercentage: 0,
	CurrentStep:        "Course not found",
	ErrorMessage:       "Course not found",
}

type record struct {
	status Status
	course *course.Course
}

// Registry maps generation ids to their latest status and, once
// completed, the generated course. Writes for a given id come only from
// the orchestrator goroutine that owns it; reads come from anywhere.
// Entries are never evicted; lifetime is the process.
type Registry struct {
	mu      sync.RWMutex
	records map[string]*record
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{records: make(map[string]*record)}
}

// Create registers a new generation in its initial state.
func (r *Registry) Create(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[id] = &record{
		status: Status{
			Status:             StateGenerating,
			ProgressPercentage: 0,
			CurrentStep:        StepAnalyzing,
		},
	}
}

// SetProgress advances a running generation. Updates on terminal or
// unknown entries are ignored, and progress never moves backwards, so
// successive polls of the same id observe a non-decreasing percentage.
func (r *Registry) SetProgress(id string, progress int, step string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok || rec.status.Terminal() {
		return
	}
	if progress > rec.status.ProgressPercentage {
		rec.status.ProgressPercentage = progress
	}
	rec.status.CurrentStep = step
}

// Complete transitions a generation to its completed terminal state and
// attaches the course.
func (r *Registry) Complete(id string, c *course.Course) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok || rec.status.Terminal() {
		return
	}
	rec.status = Status{
		Status:             StateCompleted,
		ProgressPercentage: 100,
		CurrentStep:        "Complete!",
	}
	rec.course = c
}

// Fail transitions a generation to its failed terminal state, keeping
// the last known progress value.
func (r *Registry) Fail(id, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok || rec.status.Terminal() {
		return
	}
	rec.status.Status = StateFailed
	rec.status.CurrentStep = "Generation failed"
	rec.status.ErrorMessage = message
}

// Status returns the latest status for id. Unknown ids yield a failed
// "Course not found" status rather than an absence signal.
func (r *Registry) Status(id string) Status {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[id]
	if !ok {
		return unknownStatus
	}
	return rec.status
}

// Course returns the generated course for id, or nil before completion
// and for unknown ids. Use Status to disambiguate.
func (r *Registry) Course(id string) *course.Course {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[id]
	if !ok {
		return nil
	}
	return rec.course
}

// Len returns the number of tracked generations.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}
