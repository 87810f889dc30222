// Package memory provides the working memory of a processor.
//
// Working memory is the ordered, ephemeral buffer of canonical events
// observed since the last clear. It is the staging area between observation
// and learning: observe appends to it, learn snapshots and resets it, and
// predict snapshots it as the query. It is never persisted: durability
// begins only when a sequence is learned into the knowledge store.
//
// A Buffer preserves exact append order with no deduplication and no
// reordering. An optional length limit evicts the oldest events first,
// keeping the buffer a sliding window over the most recent observations.
//
// Buffers are not safe for concurrent use; the owning processor serializes
// access under its own lock so that a learn never observes a partially
// appended event.
package memory
