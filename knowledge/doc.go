// Package knowledge provides the content-addressed store of learned models.
//
// A model is an immutable, ordered sequence of canonical events identified
// by a deterministic hash of the sequence's identity encoding. Learning the
// same sequence twice therefore collapses to the same model: the first
// learn inserts it with frequency 1, every re-learn increments the
// frequency and folds the new occurrence's emotive values into per-event
// running means. Identity is immutable; statistics are not.
//
// The store is built on the kv.Store persistence interface, so models can
// live in memory, Redis, etcd, or SQLite without the learning logic
// changing. Updates to a single model are serialized by a per-model lock,
// which keeps concurrent learns of the same sequence correct even when
// several processors share one namespace.
//
// The store also maintains an in-memory inverted index from event
// signature to the models containing that event. Recall uses it to narrow
// full scans; the index is rebuilt from the backend on open and is purely
// an optimization: ranked results must match a brute-force scan exactly.
package knowledge
