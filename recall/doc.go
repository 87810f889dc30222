// Package recall implements threshold-gated similarity search over the
// knowledge store.
//
// Given the current working-memory snapshot as a query, recall aligns every
// candidate model against the query, scores the alignment, discards models
// below the recall threshold, and returns the survivors ranked. Alignment
// is positional: the query is slid across the model at every offset and the
// offset with the most signature-equal pairs wins, earlier offsets breaking
// ties. The score is the fraction of query events matched in [0, 1].
//
// Ranking is total and deterministic: score descending, then model
// frequency descending, then model ID ascending.
//
// FullScan is the correctness baseline; Search consults the store's
// inverted signature index to narrow the scan when the threshold is
// positive. The two must produce identical ranked output for every
// threshold and store content: a property pinned by randomized tests.
package recall
