// Package metrics provides the Prometheus and OpenTelemetry implementations of
// the repository observability contracts.
package metrics

import (
	"context"

	"go.uber.org/fx"

	config "github.com/tigerroll/tunestore/pkg/tuning/core/config"
	metrics "github.com/tigerroll/tunestore/pkg/tuning/core/metrics"
)

// NewRecorder provides the Prometheus recorder when metrics are enabled, else a no-op.
func NewRecorder(cfg *config.ObservabilityConfig) metrics.Recorder {
	if !cfg.Metrics.Enabled {
		return metrics.NewNoOpRecorder()
	}
	return NewPrometheusRecorder(cfg.Metrics)
}

// NewTracer provides the OpenTelemetry tracer when tracing is enabled, else a no-op.
// The provider is shut down with the application.
func NewTracer(lc fx.Lifecycle, cfg *config.ObservabilityConfig) (metrics.Tracer, error) {
	if !cfg.Tracing.Enabled {
		return metrics.NewNoOpTracer(), nil
	}
	t, err := NewOpenTelemetryTracer(context.Background(), cfg.Tracing)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{OnStop: t.Shutdown})
	return t, nil
}

// Module is an Fx module that provides the metrics.Recorder and metrics.Tracer.
var Module = fx.Options(
	fx.Provide(NewRecorder),
	fx.Provide(NewTracer),
)
