// Package event defines the canonical observation unit of the engine.
//
// An Event is one observation normalized into a comparable, deterministic
// form: a lexicographically sorted list of symbols, an ordered list of
// opaque numeric vectors, and a map of emotive values. Canonicalization is
// what makes content addressing possible: two observations that carry the
// same symbols (in any order), the same vectors (in the same order), and
// the same emotive values always produce byte-identical encodings, and
// therefore identical signatures and identical model hashes downstream.
//
// Events carry two encodings:
//
//   - Encode returns the full canonical encoding, covering symbols, vectors,
//     and emotives. It defines value equality between events.
//   - Signature returns a hex SHA-256 digest over the identity encoding,
//     which covers symbols and vectors only. Emotive values are statistics
//     aggregated on models, not part of an event's identity, so two events
//     that differ only in emotives share a signature.
//
// Example:
//
//	a := event.New([]string{"world", "hello"}, nil, nil)
//	b := event.New([]string{"hello", "world"}, nil, nil)
//	a.Equal(b) // true: symbol order never matters
package event
