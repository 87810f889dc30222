package sequent

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

const instrumentationName = "github.com/sequent-ai/sequent"

// telemetry carries the engine's optional tracer and counters. With no
// tracer or meter provider configured both collapse to no-ops, keeping the
// operation path free of observability overhead.
type telemetry struct {
	tracer trace.Tracer

	observations metric.Int64Counter
	learns       metric.Int64Counter
	predictions  metric.Int64Counter
}

func newTelemetry(tracer trace.Tracer, mp metric.MeterProvider) (*telemetry, error) {
	if tracer == nil {
		tracer = tracenoop.NewTracerProvider().Tracer(instrumentationName)
	}
	if mp == nil {
		mp = metricnoop.NewMeterProvider()
	}

	meter := mp.Meter(instrumentationName)

	observations, err := meter.Int64Counter("sequent.observations",
		metric.WithDescription("Observations appended to working memory"))
	if err != nil {
		return nil, err
	}

	learns, err := meter.Int64Counter("sequent.learns",
		metric.WithDescription("Sequences learned into the knowledge store"))
	if err != nil {
		return nil, err
	}

	predictions, err := meter.Int64Counter("sequent.predictions",
		metric.WithDescription("Prediction entries returned"))
	if err != nil {
		return nil, err
	}

	return &telemetry{
		tracer:       tracer,
		observations: observations,
		learns:       learns,
		predictions:  predictions,
	}, nil
}

// start opens a span for one engine operation.
func (t *telemetry) start(ctx context.Context, op, processorID string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, op, trace.WithAttributes(
		attribute.String("sequent.processor.id", processorID),
	))
}

// end records the operation outcome on the span and closes it.
func (t *telemetry) end(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func processorAttr(id string) metric.AddOption {
	return metric.WithAttributes(attribute.String("sequent.processor.id", id))
}
