// Package sequent provides a temporal recall-and-prediction engine.
//
// Sequent ingests discrete, time-ordered observations, accumulates them in
// a per-processor working memory, crystallizes completed sequences into
// content-addressed models, and, given a partial observation stream,
// retrieves and ranks the stored models that plausibly continue it. Each
// result is segmented in time relative to the current stream: what the
// model says already happened (past), where the stream is now (present),
// what comes next (future), what the stream should have contained but
// didn't (missing), and what it contained that the model didn't expect
// (extras).
//
// # Core Concepts
//
//   - Event: one observation canonicalized into a comparable form
//   - Working Memory: the ordered buffer of events since the last clear
//   - Model: a learned event sequence identified by its content hash
//   - Processor: an isolated unit of state (working memory + configuration
//     + knowledge namespace) identified by a caller-supplied identity
//   - Prediction: one ranked model match segmented against the stream
//
// # Getting Started
//
// Create an engine and drive a processor through observe → learn → predict:
//
//	engine, err := sequent.New()
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer engine.Close()
//
//	ctx := context.Background()
//	engine.Observe(ctx, "proc-1", sequent.Observation{Strings: []string{"hello"}})
//	engine.Observe(ctx, "proc-1", sequent.Observation{Strings: []string{"world"}})
//	modelID, _ := engine.Learn(ctx, "proc-1")
//
//	engine.Observe(ctx, "proc-1", sequent.Observation{Strings: []string{"hello"}})
//	predictions, _ := engine.Predict(ctx, "proc-1")
//	// predictions[0].ModelID == modelID
//	// predictions[0].Future holds the "world" event
//
// Processors are created lazily on first reference and are fully isolated
// from each other by default: separate working memories, separate
// configuration, separate knowledge namespaces. Sharing one knowledge
// namespace across processors is opt-in through configuration.
//
// # Persistence
//
// Models live behind the kv.Store interface. The engine ships in-memory,
// Redis, etcd, and SQLite backends, selected through sequent.yaml or
// injected with WithBackend. Working memory is ephemeral by design; only
// learned models persist.
//
// The engine is a library: it exposes no network endpoints and never logs
// from the core operation path. A transport layer is expected to sit in
// front of it and translate the returned errors to its protocol of choice.
package sequent
