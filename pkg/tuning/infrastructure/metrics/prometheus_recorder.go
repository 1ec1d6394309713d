package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	config "github.com/tigerroll/tunestore/pkg/tuning/core/config"
	metrics "github.com/tigerroll/tunestore/pkg/tuning/core/metrics"
)

// PrometheusRecorder is a Prometheus implementation of metrics.Recorder.
type PrometheusRecorder struct {
	registry *prometheus.Registry

	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
}

// NewPrometheusRecorder creates a recorder registering its collectors on a private registry.
func NewPrometheusRecorder(cfg config.MetricsConfig) *PrometheusRecorder {
	registry := prometheus.NewRegistry()

	// Register Go standard metrics and process/OS metrics.
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &PrometheusRecorder{
		registry: registry,
		operationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "operations_total",
			Help:      "Total number of repository operations by entity, operation and outcome.",
		}, []string{"entity", "operation", "outcome"}),
		operationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of repository operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"entity", "operation"}),
	}
	registry.MustRegister(r.operationsTotal, r.operationDuration)
	return r
}

// Registry returns the registry holding the recorder's collectors.
func (r *PrometheusRecorder) Registry() *prometheus.Registry {
	return r.registry
}

// RecordOperation implements metrics.Recorder.
func (r *PrometheusRecorder) RecordOperation(ctx context.Context, entity, operation, outcome string, duration time.Duration) {
	r.operationsTotal.WithLabelValues(entity, operation, outcome).Inc()
	r.operationDuration.WithLabelValues(entity, operation).Observe(duration.Seconds())
}

var _ metrics.Recorder = (*PrometheusRecorder)(nil)
