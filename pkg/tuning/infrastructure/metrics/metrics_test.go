package metrics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	config "github.com/tigerroll/tunestore/pkg/tuning/core/config"
	coremetrics "github.com/tigerroll/tunestore/pkg/tuning/core/metrics"
	"github.com/tigerroll/tunestore/pkg/tuning/infrastructure/metrics"
)

func TestPrometheusRecorder_RecordOperation(t *testing.T) {
	r := metrics.NewPrometheusRecorder(config.MetricsConfig{Enabled: true, Namespace: "tunestore"})
	ctx := context.Background()

	r.RecordOperation(ctx, "flow_definition", "create", "ok", 3*time.Millisecond)
	r.RecordOperation(ctx, "flow_definition", "create", "ok", 2*time.Millisecond)
	r.RecordOperation(ctx, "flow_definition", "create", "constraint", time.Millisecond)

	n, err := testutil.GatherAndCount(r.Registry(), "tunestore_operations_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n, "one series per outcome")

	n, err = testutil.GatherAndCount(r.Registry(), "tunestore_operation_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNewRecorder_DisabledIsNoOp(t *testing.T) {
	cfg := config.NewConfig().Tunestore.Observability
	cfg.Metrics.Enabled = false
	_, ok := metrics.NewRecorder(&cfg).(*coremetrics.NoOpRecorder)
	assert.True(t, ok)
}

func TestOpenTelemetryTracer_RecordsSpansAndErrors(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tracer := metrics.NewOpenTelemetryTracerWithProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr)))
	t.Cleanup(func() { _ = tracer.Shutdown(context.Background()) })

	_, span := tracer.StartSpan(context.Background(), "SQLTuningRepository.CreateFlowDefinition", map[string]string{"entity": "flow_definition"})
	span.RecordError(errors.New("duplicate"))
	span.End()

	ended := sr.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "SQLTuningRepository.CreateFlowDefinition", ended[0].Name())
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Len(t, ended[0].Events(), 1)
}

func TestOpenTelemetryTracer_UnsupportedProtocol(t *testing.T) {
	_, err := metrics.NewOpenTelemetryTracer(context.Background(), config.TracingConfig{
		Enabled:     true,
		ServiceName: "tunestore",
		OTLP:        config.OTLPConfig{Endpoint: "localhost:4317", Protocol: "carrier-pigeon"},
	})
	assert.ErrorContains(t, err, "unsupported OTLP protocol")
}
