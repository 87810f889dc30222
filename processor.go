package sequent

import (
	"context"
	"fmt"
	"sync"

	"github.com/sequent-ai/sequent/event"
	"github.com/sequent-ai/sequent/knowledge"
	"github.com/sequent-ai/sequent/memory"
	"github.com/sequent-ai/sequent/predict"
	"github.com/sequent-ai/sequent/recall"
)

// Observation is one raw, uncanonicalized observation as supplied by the
// caller. The engine canonicalizes it into an event on Observe.
type Observation struct {
	// Strings holds the symbols of the observation, in any order.
	Strings []string

	// Vectors holds opaque numeric payloads, order-significant.
	Vectors [][]float64

	// Emotives maps emotive name to value.
	Emotives map[string]float64
}

// ProcessorConfig is the validated per-processor configuration.
type ProcessorConfig struct {
	// MaxPredictions caps the number of prediction entries returned.
	MaxPredictions int

	// RecallThreshold is the minimum similarity score in [0, 1] a model
	// must reach to be predicted.
	RecallThreshold float64
}

// validate reports whether the configuration is in range.
func (c ProcessorConfig) validate() error {
	if c.MaxPredictions <= 0 {
		return fmt.Errorf("%w: max predictions must be positive, got %d",
			ErrInvalidConfiguration, c.MaxPredictions)
	}
	if c.RecallThreshold < 0 || c.RecallThreshold > 1 {
		return fmt.Errorf("%w: recall threshold must lie in [0,1], got %v",
			ErrInvalidConfiguration, c.RecallThreshold)
	}
	return nil
}

// Processor is one isolated unit of engine state: a working memory, a
// knowledge namespace, and configuration, bound to a caller-supplied
// identity. Processors are created lazily by the engine on first use.
//
// Thread-safety: the processor lock serializes working-memory mutation and
// learn against each other, so a learn never observes a partially appended
// event. Prediction snapshots the working memory under the lock and then
// searches without it.
type Processor struct {
	id         string
	instanceID string

	mu     sync.Mutex
	buffer *memory.Buffer
	cfg    ProcessorConfig

	store *knowledge.Store
}

// ID returns the caller-supplied processor identity.
func (p *Processor) ID() string {
	return p.id
}

// Config returns the processor's current configuration.
func (p *Processor) Config() ProcessorConfig {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cfg
}

func (p *Processor) observe(obs Observation) event.Event {
	ev := event.New(obs.Strings, obs.Vectors, obs.Emotives)

	p.mu.Lock()
	p.buffer.Append(ev)
	p.mu.Unlock()

	return ev
}

// learn snapshots the working memory, stores it as one model occurrence,
// and clears the working memory on success. A failed learn leaves the
// working memory untouched.
func (p *Processor) learn(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	id, err := p.store.Learn(ctx, p.buffer.Snapshot())
	if err != nil {
		return "", err
	}

	p.buffer.Clear()
	return id, nil
}

func (p *Processor) workingMemory() []event.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.buffer.Snapshot()
}

func (p *Processor) clearWorkingMemory() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.buffer.Clear()
}

// predict searches the knowledge store with the current working memory as
// the query. The snapshot is taken under the processor lock for a
// consistent view; the scan itself runs without it, relying on the store's
// own per-model synchronization.
func (p *Processor) predict(ctx context.Context) ([]predict.Prediction, error) {
	p.mu.Lock()
	query := p.buffer.Snapshot()
	cfg := p.cfg
	p.mu.Unlock()

	matches, err := recall.Search(ctx, p.store, query, cfg.RecallThreshold)
	if err != nil {
		return nil, err
	}

	return predict.SegmentAll(matches, query, cfg.MaxPredictions), nil
}

func (p *Processor) configure(cfg ProcessorConfig) error {
	if err := cfg.validate(); err != nil {
		return err
	}

	p.mu.Lock()
	p.cfg = cfg
	p.mu.Unlock()
	return nil
}
