package metrics

import "context"

// Span represents a single unit of traced work.
type Span interface {
	// RecordError marks the span as failed with err.
	RecordError(err error)
	// End finishes the span.
	End()
}

// Tracer starts spans for repository operations.
type Tracer interface {
	// StartSpan starts a span named name as a child of the span in ctx, if any.
	// The returned context carries the new span.
	StartSpan(ctx context.Context, name string, attributes map[string]string) (context.Context, Span)
}

// NoOpTracer starts spans that record nothing.
type NoOpTracer struct{}

// NewNoOpTracer creates a new NoOpTracer.
func NewNoOpTracer() *NoOpTracer {
	return &NoOpTracer{}
}

// StartSpan implements Tracer.
func (t *NoOpTracer) StartSpan(ctx context.Context, name string, attributes map[string]string) (context.Context, Span) {
	return ctx, noOpSpan{}
}

type noOpSpan struct{}

func (noOpSpan) RecordError(error) {}
func (noOpSpan) End()              {}

var _ Tracer = (*NoOpTracer)(nil)
