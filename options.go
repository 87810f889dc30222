package sequent

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/sequent-ai/sequent/config"
	"github.com/sequent-ai/sequent/kv"
)

// Option configures the Engine.
type Option func(*engineOptions)

// engineOptions holds configuration for an Engine instance.
type engineOptions struct {
	configPath    string
	cfg           *config.Config
	logger        *slog.Logger
	tracer        trace.Tracer
	meterProvider metric.MeterProvider
	backend       kv.Store
}

// WithConfigFile sets the path of the sequent.yaml file to load. Ignored
// when WithConfig is also given.
func WithConfigFile(path string) Option {
	return func(o *engineOptions) {
		o.configPath = path
	}
}

// WithConfig sets the engine configuration directly, bypassing file
// loading. The configuration is validated by New.
func WithConfig(cfg *config.Config) Option {
	return func(o *engineOptions) {
		o.cfg = cfg
	}
}

// WithLogger sets a custom logger for engine lifecycle events.
// If not provided, a default JSON logger is created. The operation path
// (observe, learn, predict) never logs.
func WithLogger(logger *slog.Logger) Option {
	return func(o *engineOptions) {
		o.logger = logger
	}
}

// WithTracer sets an OpenTelemetry tracer. Each engine operation runs
// inside one span carrying the processor identity.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *engineOptions) {
		o.tracer = tracer
	}
}

// WithMeterProvider sets an OpenTelemetry meter provider for the engine's
// observation, learn, and prediction counters.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *engineOptions) {
		o.meterProvider = mp
	}
}

// WithBackend injects a kv backend directly, overriding the backend the
// configuration would open. The engine does not close injected backends.
func WithBackend(store kv.Store) Option {
	return func(o *engineOptions) {
		o.backend = store
	}
}
