package sequent_test

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"

	sequent "github.com/sequent-ai/sequent"
	"github.com/sequent-ai/sequent/config"
)

// Helper to create an engine without lifecycle logging.
func newQuietEngine(opts ...sequent.Option) (*sequent.Engine, error) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return sequent.New(append([]sequent.Option{sequent.WithLogger(logger)}, opts...)...)
}

// ExampleNew demonstrates creating an engine and observing events.
func ExampleNew() {
	engine, err := newQuietEngine()
	if err != nil {
		log.Fatal(err)
	}
	defer engine.Close()

	ctx := context.Background()

	// Observations are canonicalized: strings are sorted on the way in.
	ev, err := engine.Observe(ctx, "sensor", sequent.Observation{
		Strings: []string{"warm", "humid"},
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Observed %v\n", ev.Strings)

	// Output: Observed [humid warm]
}

// ExampleEngine_Learn demonstrates crystallizing working memory into a
// model and the stability of model identity.
func ExampleEngine_Learn() {
	engine, err := newQuietEngine()
	if err != nil {
		log.Fatal(err)
	}
	defer engine.Close()

	ctx := context.Background()

	for _, symbol := range []string{"on", "off"} {
		if _, err := engine.Observe(ctx, "switch", sequent.Observation{
			Strings: []string{symbol},
		}); err != nil {
			log.Fatal(err)
		}
	}

	first, err := engine.Learn(ctx, "switch")
	if err != nil {
		log.Fatal(err)
	}

	// Learning the identical sequence again yields the same model with a
	// higher frequency.
	for _, symbol := range []string{"on", "off"} {
		if _, err := engine.Observe(ctx, "switch", sequent.Observation{
			Strings: []string{symbol},
		}); err != nil {
			log.Fatal(err)
		}
	}
	second, err := engine.Learn(ctx, "switch")
	if err != nil {
		log.Fatal(err)
	}

	model, err := engine.Model(ctx, "switch", first)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Same model: %t\n", first == second)
	fmt.Printf("Frequency: %d\n", model.Frequency)

	// Output:
	// Same model: true
	// Frequency: 2
}

// ExampleEngine_Predict demonstrates recall with temporal segmentation.
func ExampleEngine_Predict() {
	engine, err := newQuietEngine()
	if err != nil {
		log.Fatal(err)
	}
	defer engine.Close()

	ctx := context.Background()

	for _, symbol := range []string{"wake", "coffee", "work"} {
		if _, err := engine.Observe(ctx, "routine", sequent.Observation{
			Strings: []string{symbol},
		}); err != nil {
			log.Fatal(err)
		}
	}
	if _, err := engine.Learn(ctx, "routine"); err != nil {
		log.Fatal(err)
	}

	// Seeing the start of the routine recalls the rest of it.
	if _, err := engine.Observe(ctx, "routine", sequent.Observation{
		Strings: []string{"wake"},
	}); err != nil {
		log.Fatal(err)
	}

	predictions, err := engine.Predict(ctx, "routine")
	if err != nil {
		log.Fatal(err)
	}

	p := predictions[0]
	fmt.Printf("present: %v\n", p.Present[0].Strings)
	for _, ev := range p.Future {
		fmt.Printf("future:  %v\n", ev.Strings)
	}

	// Output:
	// present: [wake]
	// future:  [coffee]
	// future:  [work]
}

// ExampleEngine_Configure demonstrates per-processor tuning.
func ExampleEngine_Configure() {
	engine, err := newQuietEngine()
	if err != nil {
		log.Fatal(err)
	}
	defer engine.Close()

	ctx := context.Background()

	// Require exact matches and return at most three predictions.
	err = engine.Configure(ctx, "strict", sequent.ProcessorConfig{
		MaxPredictions:  3,
		RecallThreshold: 1.0,
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("Processor configured")

	// Output: Processor configured
}

// Example demonstrates the full observe, learn, predict cycle with shared
// knowledge between processors.
func Example() {
	cfg := config.Default()
	cfg.Knowledge.Shared = true

	engine, err := newQuietEngine(sequent.WithConfig(cfg))
	if err != nil {
		log.Fatal(err)
	}
	defer engine.Close()

	ctx := context.Background()

	// One processor learns a sequence.
	for _, symbol := range []string{"question", "answer"} {
		if _, err := engine.Observe(ctx, "writer", sequent.Observation{
			Strings: []string{symbol},
		}); err != nil {
			log.Fatal(err)
		}
	}
	if _, err := engine.Learn(ctx, "writer"); err != nil {
		log.Fatal(err)
	}

	// Another processor recalls it through the shared namespace.
	if _, err := engine.Observe(ctx, "reader", sequent.Observation{
		Strings: []string{"question"},
	}); err != nil {
		log.Fatal(err)
	}

	predictions, err := engine.Predict(ctx, "reader")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("next: %v\n", predictions[0].Future[0].Strings)

	// Output: next: [answer]
}
