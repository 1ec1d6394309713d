// Package metrics defines the observability contracts of the repository layer.
package metrics

import (
	"context"
	"time"
)

// Outcome labels of RecordOperation besides the error kinds of the exception package.
const (
	OutcomeOK = "ok"
)

// Recorder records the outcome and latency of repository operations.
type Recorder interface {
	// RecordOperation records one completed operation.
	//
	// entity is the entity type (e.g., "flow_execution"), operation the repository
	// operation (e.g., "create"), outcome "ok" or the error kind.
	RecordOperation(ctx context.Context, entity, operation, outcome string, duration time.Duration)
}

// NoOpRecorder discards every measurement.
type NoOpRecorder struct{}

// NewNoOpRecorder creates a new NoOpRecorder.
func NewNoOpRecorder() *NoOpRecorder {
	return &NoOpRecorder{}
}

// RecordOperation implements Recorder.
func (r *NoOpRecorder) RecordOperation(ctx context.Context, entity, operation, outcome string, duration time.Duration) {
}

var _ Recorder = (*NoOpRecorder)(nil)
