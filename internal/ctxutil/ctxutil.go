// Package ctxutil provides typed context keys for request tracing values.
// Values stored here are picked up by the logger's ContextHandler so call
// sites do not have to thread ids into every log statement.
package ctxutil

import "context"

type contextKey int

const (
	requestIDKey contextKey = iota
	generationIDKey
	lessonIDKey
)

// WithRequestID returns a context carrying the HTTP request id.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID returns the request id, if any.
func GetRequestID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(requestIDKey).(string)
	return v, ok
}

// WithGenerationID returns a context carrying the course generation id.
func WithGenerationID(ctx context.Context, generationID string) context.Context {
	return context.WithValue(ctx, generationIDKey, generationID)
}

// GetGenerationID returns the generation id, if any.
func GetGenerationID(ctx context.Context) string {
	v, _ := ctx.Value(generationIDKey).(string)
	return v
}

// WithLessonID returns a context carrying the lesson currently being generated.
func WithLessonID(ctx context.Context, lessonID string) context.Context {
	return context.WithValue(ctx, lessonIDKey, lessonID)
}

// GetLessonID returns the lesson id, if any.
func GetLessonID(ctx context.Context) string {
	v, _ := ctx.Value(lessonIDKey).(string)
	return v
}
