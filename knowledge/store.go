package knowledge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/sequent-ai/sequent/event"
	"github.com/sequent-ai/sequent/kv"
)

// Common errors returned by knowledge operations.
var (
	// ErrEmptySequence is returned when Learn is called with zero events.
	// Empty learning is rejected rather than ignored so caller bugs
	// surface immediately.
	ErrEmptySequence = errors.New("knowledge: cannot learn an empty sequence")

	// ErrNotFound is returned when a requested model does not exist.
	ErrNotFound = errors.New("knowledge: model not found")

	// ErrInvalidNamespace is returned when a namespace is empty.
	ErrInvalidNamespace = errors.New("knowledge: invalid namespace")
)

// Store is a content-addressed model store over a kv backend.
//
// All models of one Store live under a single key namespace, so several
// Stores (and therefore several processors) can share one backend without
// seeing each other's models.
//
// Thread-safety: all methods are safe for concurrent use. Updates to a
// single model are serialized by a per-model lock; operations on distinct
// models proceed in parallel.
type Store struct {
	backend   kv.Store
	namespace string

	mu    sync.Mutex
	locks map[string]*sync.Mutex

	index *signatureIndex
}

// NewStore opens a model store over the given backend and namespace.
//
// The inverted index is rebuilt by iterating the namespace, so opening a
// store over a populated backend is linear in the number of stored models.
func NewStore(ctx context.Context, backend kv.Store, namespace string) (*Store, error) {
	if namespace == "" {
		return nil, ErrInvalidNamespace
	}

	s := &Store{
		backend:   backend,
		namespace: namespace,
		locks:     make(map[string]*sync.Mutex),
		index:     newSignatureIndex(),
	}

	err := s.Each(ctx, func(m *Model) error {
		s.index.add(m)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild index for namespace %s: %w", namespace, err)
	}

	return s, nil
}

// Namespace returns the key namespace of this store.
func (s *Store) Namespace() string {
	return s.namespace
}

// Learn stores one occurrence of an event sequence and returns its model ID.
//
// If no model with that ID exists, a new model is inserted with frequency 1
// and the occurrence's emotive values as initial means. If the model exists,
// its frequency is incremented and the occurrence's per-event emotive
// values are folded into the stored means, aligned positionally:
//
//	mean' = mean*(n-1)/n + value/n
//
// at the new frequency n, with an absent key contributing value 0. Learn is
// idempotent at the identity level, since the same sequence always yields
// the same ID, but never a no-op at the statistics level.
//
// Returns ErrEmptySequence if events is empty.
func (s *Store) Learn(ctx context.Context, events []event.Event) (string, error) {
	if len(events) == 0 {
		return "", ErrEmptySequence
	}

	id := HashEvents(events)

	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	existing, err := s.get(ctx, id)
	switch {
	case errors.Is(err, kv.ErrNotFound):
		model := &Model{
			ID:        id,
			Events:    event.CloneAll(events),
			Frequency: 1,
		}
		if err := s.put(ctx, model); err != nil {
			return "", err
		}
		s.index.add(model)
		return id, nil

	case err != nil:
		return "", err
	}

	existing.Frequency++
	foldEmotives(existing.Events, events, existing.Frequency)
	if err := s.put(ctx, existing); err != nil {
		return "", err
	}
	// Same sequence, same signatures: the index needs no update.
	return id, nil
}

// Get retrieves a model by ID. Returns ErrNotFound if no such model exists.
func (s *Store) Get(ctx context.Context, id string) (*Model, error) {
	model, err := s.get(ctx, id)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, ErrNotFound
	}
	return model, err
}

// Each calls fn for every model in the namespace. Iteration is finite and
// restartable; it stops early and returns fn's error if fn returns non-nil.
func (s *Store) Each(ctx context.Context, fn func(*Model) error) error {
	return s.backend.Each(ctx, s.prefix(), func(key string, value []byte) error {
		var model Model
		if err := json.Unmarshal(value, &model); err != nil {
			return fmt.Errorf("failed to decode model at %s: %w", key, err)
		}
		return fn(&model)
	})
}

// Candidates returns the IDs of models containing at least one event with
// one of the given signatures. The result is sorted for determinism.
func (s *Store) Candidates(signatures []string) []string {
	return s.index.candidates(signatures)
}

func (s *Store) get(ctx context.Context, id string) (*Model, error) {
	value, err := s.backend.Get(ctx, s.key(id))
	if err != nil {
		return nil, err
	}

	var model Model
	if err := json.Unmarshal(value, &model); err != nil {
		return nil, fmt.Errorf("failed to decode model %s: %w", id, err)
	}
	return &model, nil
}

func (s *Store) put(ctx context.Context, model *Model) error {
	value, err := json.Marshal(model)
	if err != nil {
		return fmt.Errorf("failed to encode model %s: %w", model.ID, err)
	}
	return s.backend.Put(ctx, s.key(model.ID), value)
}

func (s *Store) prefix() string {
	return s.namespace + "/"
}

func (s *Store) key(id string) string {
	return s.prefix() + id
}

func (s *Store) lockFor(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[id] = lock
	}
	return lock
}

// foldEmotives folds one occurrence's per-event emotive values into the
// stored running means at the new frequency n. Keys absent from the new
// occurrence decay toward zero; keys new to the model enter at value/n.
func foldEmotives(stored []event.Event, occurrence []event.Event, n int) {
	fn := float64(n)
	for i := range stored {
		var obs map[string]float64
		if i < len(occurrence) {
			obs = occurrence[i].Emotives
		}

		if len(stored[i].Emotives) == 0 && len(obs) == 0 {
			continue
		}

		means := make(map[string]float64, len(stored[i].Emotives)+len(obs))
		for k, mean := range stored[i].Emotives {
			means[k] = mean * (fn - 1) / fn
		}
		for k, value := range obs {
			means[k] += value / fn
		}
		stored[i].Emotives = means
	}
}
