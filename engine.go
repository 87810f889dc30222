package sequent

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/sequent-ai/sequent/config"
	"github.com/sequent-ai/sequent/event"
	"github.com/sequent-ai/sequent/knowledge"
	"github.com/sequent-ai/sequent/kv"
	"github.com/sequent-ai/sequent/memory"
	"github.com/sequent-ai/sequent/predict"
)

// Engine is the explicit processor registry and the entry point for every
// engine operation. It maps caller-supplied identities to processors,
// creating them lazily on first use, and owns the shared persistence
// backend they store models in.
//
// Thread-safety: all methods are safe for concurrent use. Distinct
// processors operate fully in parallel; operations on one processor are
// serialized by that processor's own lock.
type Engine struct {
	instanceID string
	cfg        *config.Config
	logger     *slog.Logger
	telemetry  *telemetry

	backend     kv.Store
	ownsBackend bool

	// sharedStore is non-nil when configuration puts every processor in
	// one knowledge namespace.
	sharedStore *knowledge.Store

	mu         sync.RWMutex
	processors map[string]*Processor
	closed     bool
}

// New creates an engine from the provided options.
//
// With no options the engine uses the in-memory backend, isolated
// knowledge namespaces, and the default processor configuration
// (MaxPredictions 10, RecallThreshold 0.1).
func New(opts ...Option) (*Engine, error) {
	settings := &engineOptions{}
	for _, opt := range opts {
		opt(settings)
	}

	cfg := settings.cfg
	if cfg == nil && settings.configPath != "" {
		loaded, err := config.Load(settings.configPath)
		if err != nil {
			return nil, opError("New", KindConfiguration, "", err)
		}
		cfg = loaded
	}
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, opError("New", KindConfiguration, "", err)
	}

	logger := settings.logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}

	tel, err := newTelemetry(settings.tracer, settings.meterProvider)
	if err != nil {
		return nil, opError("New", KindConfiguration, "", err)
	}

	backend := settings.backend
	ownsBackend := false
	if backend == nil {
		opened, err := cfg.Knowledge.Open()
		if err != nil {
			return nil, opError("New", KindStorage, "", err)
		}
		backend = opened
		ownsBackend = true
	}

	e := &Engine{
		instanceID:  uuid.New().String(),
		cfg:         cfg,
		logger:      logger,
		telemetry:   tel,
		backend:     backend,
		ownsBackend: ownsBackend,
		processors:  make(map[string]*Processor),
	}

	if cfg.Knowledge.Shared {
		shared, err := knowledge.NewStore(context.Background(), backend, cfg.Knowledge.Namespace)
		if err != nil {
			if ownsBackend {
				backend.Close()
			}
			return nil, opError("New", KindStorage, "", err)
		}
		e.sharedStore = shared
	}

	logger.Info("engine created",
		"instance_id", e.instanceID,
		"backend", cfg.Knowledge.Backend,
		"shared_knowledge", cfg.Knowledge.Shared,
	)

	return e, nil
}

// Close releases the engine's resources. Backends injected with
// WithBackend are not closed; backends the engine opened itself are.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true

	if e.ownsBackend {
		return e.backend.Close()
	}
	return nil
}

// Observe canonicalizes one observation and appends it to the processor's
// working memory. The canonical event is returned.
func (e *Engine) Observe(ctx context.Context, processorID string, obs Observation) (event.Event, error) {
	const op = "Engine.Observe"
	ctx, span := e.telemetry.start(ctx, op, processorID)
	defer span.End()

	p, err := e.processor(ctx, op, processorID)
	if err != nil {
		e.telemetry.end(span, err)
		return event.Event{}, err
	}

	ev := p.observe(obs)
	e.telemetry.observations.Add(ctx, 1, processorAttr(processorID))
	return ev, nil
}

// Learn crystallizes the processor's working memory into a stored model
// and clears the working memory. Returns the model ID, which is stable
// across learns of identical sequences.
//
// Fails with ErrEmptySequence if the working memory is empty; the working
// memory is unchanged by a failed learn.
func (e *Engine) Learn(ctx context.Context, processorID string) (string, error) {
	const op = "Engine.Learn"
	ctx, span := e.telemetry.start(ctx, op, processorID)

	p, err := e.processor(ctx, op, processorID)
	if err != nil {
		e.telemetry.end(span, err)
		return "", err
	}

	modelID, err := p.learn(ctx)
	if err != nil {
		kind := KindStorage
		if errors.Is(err, ErrEmptySequence) {
			kind = KindValidation
		}
		err = opError(op, kind, processorID, err)
		e.telemetry.end(span, err)
		return "", err
	}

	e.telemetry.learns.Add(ctx, 1, processorAttr(processorID))
	e.telemetry.end(span, nil)
	return modelID, nil
}

// WorkingMemory returns an immutable copy of the processor's current
// working memory, in observation order.
func (e *Engine) WorkingMemory(ctx context.Context, processorID string) ([]event.Event, error) {
	const op = "Engine.WorkingMemory"
	ctx, span := e.telemetry.start(ctx, op, processorID)
	defer span.End()

	p, err := e.processor(ctx, op, processorID)
	if err != nil {
		e.telemetry.end(span, err)
		return nil, err
	}
	return p.workingMemory(), nil
}

// ClearWorkingMemory resets the processor's working memory to empty.
// Stored models are unaffected.
func (e *Engine) ClearWorkingMemory(ctx context.Context, processorID string) error {
	const op = "Engine.ClearWorkingMemory"
	ctx, span := e.telemetry.start(ctx, op, processorID)
	defer span.End()

	p, err := e.processor(ctx, op, processorID)
	if err != nil {
		e.telemetry.end(span, err)
		return err
	}

	p.clearWorkingMemory()
	return nil
}

// Predict searches the processor's knowledge for models that plausibly
// continue the current working memory and returns them ranked and
// segmented, at most MaxPredictions entries.
//
// Prediction only reads: calling it twice with no intervening mutation
// returns identical ordered results.
func (e *Engine) Predict(ctx context.Context, processorID string) ([]predict.Prediction, error) {
	const op = "Engine.Predict"
	ctx, span := e.telemetry.start(ctx, op, processorID)

	p, err := e.processor(ctx, op, processorID)
	if err != nil {
		e.telemetry.end(span, err)
		return nil, err
	}

	predictions, err := p.predict(ctx)
	if err != nil {
		err = opError(op, KindStorage, processorID, err)
		e.telemetry.end(span, err)
		return nil, err
	}

	e.telemetry.predictions.Add(ctx, int64(len(predictions)), processorAttr(processorID))
	e.telemetry.end(span, nil)
	return predictions, nil
}

// Configure replaces the processor's configuration. Fails with
// ErrInvalidConfiguration if MaxPredictions is not positive or
// RecallThreshold lies outside [0, 1]; the previous configuration is kept
// on failure.
func (e *Engine) Configure(ctx context.Context, processorID string, cfg ProcessorConfig) error {
	const op = "Engine.Configure"
	ctx, span := e.telemetry.start(ctx, op, processorID)
	defer span.End()

	p, err := e.processor(ctx, op, processorID)
	if err != nil {
		e.telemetry.end(span, err)
		return err
	}

	if err := p.configure(cfg); err != nil {
		err = opError(op, KindConfiguration, processorID, err)
		e.telemetry.end(span, err)
		return err
	}
	return nil
}

// Model retrieves one stored model from the processor's knowledge
// namespace. Returns ErrModelNotFound if no such model exists.
func (e *Engine) Model(ctx context.Context, processorID, modelID string) (*knowledge.Model, error) {
	const op = "Engine.Model"
	ctx, span := e.telemetry.start(ctx, op, processorID)
	defer span.End()

	p, err := e.processor(ctx, op, processorID)
	if err != nil {
		e.telemetry.end(span, err)
		return nil, err
	}

	model, err := p.store.Get(ctx, modelID)
	if err != nil {
		kind := KindStorage
		if errors.Is(err, ErrModelNotFound) {
			kind = KindNotFound
		}
		err = opError(op, kind, processorID, err)
		e.telemetry.end(span, err)
		return nil, err
	}
	return model, nil
}

// processor returns the processor for the given identity, creating it on
// first use.
func (e *Engine) processor(ctx context.Context, op, processorID string) (*Processor, error) {
	if processorID == "" {
		return nil, opError(op, KindValidation, processorID, ErrInvalidProcessorID)
	}

	e.mu.RLock()
	if e.closed {
		e.mu.RUnlock()
		return nil, opError(op, KindValidation, processorID, ErrEngineClosed)
	}
	p, ok := e.processors[processorID]
	e.mu.RUnlock()
	if ok {
		return p, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, opError(op, KindValidation, processorID, ErrEngineClosed)
	}
	if p, ok := e.processors[processorID]; ok {
		return p, nil
	}

	store := e.sharedStore
	if store == nil {
		created, err := knowledge.NewStore(ctx, e.backend, "processor/"+processorID)
		if err != nil {
			return nil, opError(op, KindStorage, processorID, err)
		}
		store = created
	}

	p = &Processor{
		id:         processorID,
		instanceID: uuid.New().String(),
		buffer:     memory.NewBufferWithLimit(e.cfg.Processor.WorkingMemoryLimit),
		cfg: ProcessorConfig{
			MaxPredictions:  e.cfg.Processor.MaxPredictions,
			RecallThreshold: e.cfg.Processor.RecallThreshold,
		},
		store: store,
	}
	e.processors[processorID] = p

	e.logger.Info("processor created",
		"processor_id", processorID,
		"instance_id", p.instanceID,
		"namespace", store.Namespace(),
	)

	return p, nil
}
