package generation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/wondering-app/wondering-go/internal/config"
	"github.com/wondering-app/wondering-go/internal/course"
	"github.com/wondering-app/wondering-go/internal/ctxutil"
	apperrors "github.com/wondering-app/wondering-go/internal/errors"
	"github.com/wondering-app/wondering-go/internal/metrics"
	"github.com/wondering-app/wondering-go/internal/storage"
)

// Pipeline progress contract: values and labels are rendered by the
// polling UI's stage indicator.
const (
	progressAnalyzing   = 15
	progressStructuring = 35
	progressLessonBase  = 50
	progressLessonSpan  = 45
	progressFinalizing  = 95

	stepStructuring = "Designing course structure..."
	stepFinalizing  = "Finalizing your course..."
)

// Options configures a Service.
type Options struct {
	Content    *ContentClient
	Archive    *storage.CourseRepository // optional durable store for completed courses
	Metrics    *metrics.Metrics          // optional
	StageDelay time.Duration             // pacing between the early stages
	// MaxConcurrent bounds simultaneously running pipelines. Zero
	// means a sensible default.
	MaxConcurrent int64
	// PollInterval is the default cadence for Watch. Zero means the
	// package default.
	PollInterval time.Duration
}

// Service owns the generation pipeline. Generate returns immediately
// with an id; all further work happens on a background goroutine that is
// the single writer for that id's registry entry.
type Service struct {
	registry     *Registry
	content      *ContentClient
	archive      *storage.CourseRepository
	metrics      *metrics.Metrics
	stageDelay   time.Duration
	pollInterval time.Duration
	sem          *semaphore.Weighted
	wg           sync.WaitGroup
}

// NewService creates a generation service.
func NewService(registry *Registry, opts Options) *Service {
	maxConcurrent := opts.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 8
	}
	content := opts.Content
	if content == nil {
		content = NewContentClient(nil, config.LessonGeneration, opts.Metrics)
	}
	pollInterval := opts.PollInterval
	if pollInterval <= 0 {
		pollInterval = config.PollInterval
	}
	return &Service{
		registry:     registry,
		content:      content,
		archive:      opts.Archive,
		metrics:      opts.Metrics,
		stageDelay:   opts.StageDelay,
		pollInterval: pollInterval,
		sem:          semaphore.NewWeighted(maxConcurrent),
	}
}

// Watch starts a status poller for one generation at the service's
// configured interval. See Watch for the callback contract.
func (s *Service) Watch(ctx context.Context, id string, fn func(Status)) *Watcher {
	return Watch(ctx, s.registry, id, s.pollInterval, fn)
}

// Registry exposes the registry for status reads.
func (s *Service) Registry() *Registry {
	return s.registry
}

// Generate validates params, registers a new generation and starts its
// pipeline. The returned id can be polled immediately: the initial
// status is generating/0 with the analyzing step label.
func (s *Service) Generate(ctx context.Context, params course.GenerationParams) (string, error) {
	params = params.Normalize()
	if err := params.Validate(); err != nil {
		return "", err
	}

	id := newGenerationID()
	s.registry.Create(id)
	if s.metrics != nil {
		s.metrics.SetRegistrySize(s.registry.Len())
	}

	slog.InfoContext(ctx, "course generation started",
		"generation_id", id,
		"topic", params.Topic,
		"level", params.Level,
		"frequency", params.Frequency)

	s.wg.Add(1)
	go s.run(id, params)
	return id, nil
}

// Status returns the current status for id.
func (s *Service) Status(id string) Status {
	return s.registry.Status(id)
}

// Course returns the completed course for id, or nil.
func (s *Service) Course(id string) *course.Course {
	return s.registry.Course(id)
}

// Content returns the completed course by id, consulting the in-memory
// registry first and the durable archive second.
func (s *Service) Content(ctx context.Context, id string) (*course.Course, error) {
	if c := s.registry.Course(id); c != nil {
		return c, nil
	}
	if s.archive == nil {
		return nil, nil
	}
	c, err := s.archive.GetCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Shutdown waits for running pipelines to finish or ctx to expire.
func (s *Service) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run executes the pipeline for one generation. It is the only writer
// for this id. The context is detached from the caller: the pipeline
// runs to completion even if the initiating request goes away.
func (s *Service) run(id string, params course.GenerationParams) {
	defer s.wg.Done()

	ctx := ctxutil.WithGenerationID(context.Background(), id)
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			msg := panicMessage(r)
			slog.ErrorContext(ctx, "course generation failed", "error", msg)
			s.registry.Fail(id, msg)
			if s.metrics != nil {
				s.metrics.RecordGeneration(string(StateFailed), time.Since(start).Seconds())
			}
		}
	}()

	if err := s.sem.Acquire(ctx, 1); err != nil {
		panic(err)
	}
	defer s.sem.Release(1)

	if s.metrics != nil {
		s.metrics.GenerationsActive.Inc()
		defer s.metrics.GenerationsActive.Dec()
	}

	// Stage 1: goal analysis.
	s.registry.SetProgress(id, progressAnalyzing, StepAnalyzing)
	s.pause(ctx)

	// Stage 2: structuring.
	s.registry.SetProgress(id, progressStructuring, stepStructuring)
	s.pause(ctx)
	sk := course.BuildSkeleton(params)

	// Stage 3: eager lesson content, sequential to bound provider load
	// and keep progress monotonic.
	total := len(sk.Eager)
	for i, ref := range sk.Eager {
		lesson := &sk.Levels[ref.LevelIndex].Lessons[ref.LessonIndex]
		result := s.content.LessonCards(ctx, params, *lesson, ref.Verb)
		lesson.Cards = result.Cards
		lesson.Status = course.LessonGenerated

		completed := i + 1
		progress := progressLessonBase + completed*progressLessonSpan/total
		s.registry.SetProgress(id, progress, fmt.Sprintf("Creating lesson %d/%d...", completed, total))
	}

	// Stage 4: finalization.
	s.registry.SetProgress(id, progressFinalizing, stepFinalizing)
	generated := &course.Course{
		CourseID:       id,
		Title:          course.Title(params.Level, params.Topic),
		Description:    course.Description(params, sk.Plan.EstimatedHours),
		Topic:          params.Topic,
		Goal:           params.Goal,
		Level:          params.Level,
		EstimatedHours: sk.Plan.EstimatedHours,
		Structure:      course.Structure{Levels: sk.Levels},
	}

	s.archiveCourse(ctx, generated)
	s.registry.Complete(id, generated)

	if s.metrics != nil {
		s.metrics.RecordGeneration(string(StateCompleted), time.Since(start).Seconds())
	}
	slog.InfoContext(ctx, "course generation completed",
		"levels", len(generated.Structure.Levels),
		"lessons", generated.TotalLessons(),
		"duration_ms", time.Since(start).Milliseconds())
}

// archiveCourse writes the completed course to the durable store.
// Archive failures degrade durability, not the generation itself.
func (s *Service) archiveCourse(ctx context.Context, c *course.Course) {
	if s.archive == nil {
		return
	}
	if err := s.archive.SaveCourse(ctx, c); err != nil {
		slog.WarnContext(ctx, "course archive write failed",
			"error", apperrors.NewGenerationError("archive", err))
		if s.metrics != nil {
			s.metrics.RecordArchiveSave("error")
		}
		return
	}
	if s.metrics != nil {
		s.metrics.RecordArchiveSave("success")
	}
}

func (s *Service) pause(ctx context.Context) {
	if s.stageDelay <= 0 {
		return
	}
	select {
	case <-time.After(s.stageDelay):
	case <-ctx.Done():
	}
}

// newGenerationID mints a unique id. The millisecond prefix keeps ids
// roughly sortable by creation time; the uuid fragment removes collisions.
func newGenerationID() string {
	frag := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("gen-%d-%s", time.Now().UnixMilli(), frag)
}

func panicMessage(r any) string {
	switch v := r.(type) {
	case error:
		if msg := v.Error(); msg != "" {
			return msg
		}
	case string:
		if v != "" {
			return v
		}
	}
	return "Unknown error"
}
