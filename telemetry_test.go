package sequent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestOperationSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	engine := newTestEngine(t, WithTracer(tp.Tracer("test")))
	ctx := context.Background()

	observe(t, engine, "p1", "a")
	_, err := engine.Learn(ctx, "p1")
	require.NoError(t, err)
	_, err = engine.Predict(ctx, "p1")
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 3)
	assert.Equal(t, "Engine.Observe", spans[0].Name())
	assert.Equal(t, "Engine.Learn", spans[1].Name())
	assert.Equal(t, "Engine.Predict", spans[2].Name())

	for _, span := range spans {
		assert.Contains(t, span.Attributes(),
			attribute.String("sequent.processor.id", "p1"))
	}
}

func TestFailedOperationSpanStatus(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	engine := newTestEngine(t, WithTracer(tp.Tracer("test")))

	_, err := engine.Learn(context.Background(), "p1")
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	require.Len(t, spans[0].Events(), 1, "the error must be recorded on the span")
}

func TestOperationCounters(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	engine := newTestEngine(t, WithMeterProvider(mp))
	ctx := context.Background()

	observe(t, engine, "p1", "a")
	observe(t, engine, "p1", "b")
	_, err := engine.Learn(ctx, "p1")
	require.NoError(t, err)

	require.NoError(t, engine.Configure(ctx, "p1", ProcessorConfig{
		MaxPredictions:  10,
		RecallThreshold: 0.5,
	}))
	observe(t, engine, "p1", "a")
	_, err = engine.Predict(ctx, "p1")
	require.NoError(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	assert.Equal(t, int64(3), counterValue(t, rm, "sequent.observations"))
	assert.Equal(t, int64(1), counterValue(t, rm, "sequent.learns"))
	assert.Equal(t, int64(1), counterValue(t, rm, "sequent.predictions"))
}

// counterValue sums the data points of the named Int64 counter.
func counterValue(t *testing.T, rm metricdata.ResourceMetrics, name string) int64 {
	t.Helper()

	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "metric %s is not an int64 sum", name)

			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			return total
		}
	}
	t.Fatalf("metric %s not collected", name)
	return 0
}
