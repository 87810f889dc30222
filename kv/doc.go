// Package kv defines the key-value persistence interface the knowledge
// store is built on, plus the backends the engine ships with.
//
// The engine only ever needs three capabilities from its persistence layer:
// get by key, put by key, and finite restartable iteration over a key
// prefix. Anything that can do those three things can hold learned models.
// Four backends are provided:
//
//   - Memory: process-local map, the default. Fast, ephemeral, ideal for
//     tests and for deployments that treat models as rebuildable.
//   - Redis: shared networked store, configured by URL. Iteration uses
//     SCAN so it never blocks the server.
//   - Etcd: clustered store with optional mutual TLS. Iteration uses a
//     single prefix range read.
//   - SQLite: single-file durable store with zero external processes.
//
// Backends store opaque byte values; encoding is the caller's concern.
// All backends are safe for concurrent use.
package kv
