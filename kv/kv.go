package kv

import (
	"context"
	"errors"
)

// Common errors returned by kv backends.
var (
	// ErrNotFound is returned when a requested key does not exist.
	ErrNotFound = errors.New("kv: key not found")

	// ErrInvalidKey is returned when a key is empty.
	ErrInvalidKey = errors.New("kv: invalid key")

	// ErrClosed is returned when an operation is attempted on a closed store.
	ErrClosed = errors.New("kv: store closed")
)

// Store is the key-value persistence interface consumed by the knowledge
// store.
//
// Implementations must be safe for concurrent use. Values are opaque bytes;
// keys are non-empty strings. Iteration must be finite and restartable:
// calling Each twice with the same prefix and an unchanged store visits the
// same set of pairs both times.
type Store interface {
	// Get retrieves the value stored under key.
	// Returns ErrNotFound if the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores value under key, replacing any existing value.
	// Returns ErrInvalidKey if the key is empty.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes the value stored under key.
	// Returns ErrNotFound if the key does not exist.
	Delete(ctx context.Context, key string) error

	// Each calls fn for every key with the given prefix. Iteration stops
	// early and returns fn's error if fn returns non-nil. Visit order is
	// unspecified but stable for an unchanged store.
	Each(ctx context.Context, prefix string, fn func(key string, value []byte) error) error

	// Close releases any resources held by the store.
	Close() error
}
