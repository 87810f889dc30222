// Package predict turns ranked recall matches into temporally segmented
// predictions.
//
// Segmentation is a pure transformation of (model, match, query): the
// model's events before the aligned span are the past, the span itself is
// the present, and the events after it are the future. Span events no
// query event matched are missing; query events no model event accounted
// for are extras. Identical inputs always produce identical output: the
// segmenter holds no state and touches no storage.
package predict
