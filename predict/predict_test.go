package predict

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sequent-ai/sequent/event"
	"github.com/sequent-ai/sequent/knowledge"
	"github.com/sequent-ai/sequent/kv"
	"github.com/sequent-ai/sequent/recall"
)

func seq(symbols ...string) []event.Event {
	events := make([]event.Event, len(symbols))
	for i, s := range symbols {
		events[i] = event.New([]string{s}, nil, nil)
	}
	return events
}

// match builds a real recall match by learning the model sequence and
// searching with the query, so segmentation is tested against the exact
// alignment recall produces.
func match(t *testing.T, model []event.Event, query []event.Event) recall.Match {
	t.Helper()

	backend := kv.NewMemoryStore()
	t.Cleanup(func() { _ = backend.Close() })

	store, err := knowledge.NewStore(context.Background(), backend, "predict-test")
	require.NoError(t, err)
	_, err = store.Learn(context.Background(), model)
	require.NoError(t, err)

	matches, err := recall.Search(context.Background(), store, query, 0)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	return matches[0]
}

func symbolsOf(events []event.Event) [][]string {
	out := make([][]string, len(events))
	for i, ev := range events {
		out[i] = ev.Strings
	}
	return out
}

func TestSegmentPastPresentFuture(t *testing.T) {
	m := match(t, seq("a", "b", "c", "d"), seq("b", "c"))
	p := Segment(m, seq("b", "c"))

	assert.Equal(t, [][]string{{"a"}}, symbolsOf(p.Past))
	assert.Equal(t, [][]string{{"b"}, {"c"}}, symbolsOf(p.Present))
	assert.Equal(t, [][]string{{"d"}}, symbolsOf(p.Future))
	assert.Empty(t, p.Missing)
	assert.Empty(t, p.Extras)
}

func TestSegmentMissing(t *testing.T) {
	query := seq("a", "x", "c")
	m := match(t, seq("a", "b", "c"), query)
	p := Segment(m, query)

	// Model position 1 ("b") is inside the span but unmatched.
	assert.Equal(t, [][]string{{"b"}}, symbolsOf(p.Missing))
	// Query position 1 ("x") matched nothing.
	assert.Equal(t, [][]string{{"x"}}, symbolsOf(p.Extras))
}

func TestSegmentFullFutureOnFreshQuery(t *testing.T) {
	query := seq("hello")
	m := match(t, seq("hello", "world"), query)
	p := Segment(m, query)

	assert.Empty(t, p.Past)
	assert.Equal(t, [][]string{{"hello"}}, symbolsOf(p.Present))
	assert.Equal(t, [][]string{{"world"}}, symbolsOf(p.Future))
}

func TestSegmentIsDeterministic(t *testing.T) {
	query := seq("a", "z")
	m := match(t, seq("a", "b", "c"), query)

	first := Segment(m, query)
	second := Segment(m, query)
	assert.Equal(t, first.ModelID, second.ModelID)
	assert.Equal(t, symbolsOf(first.Present), symbolsOf(second.Present))
	assert.Equal(t, symbolsOf(first.Missing), symbolsOf(second.Missing))
	assert.Equal(t, symbolsOf(first.Extras), symbolsOf(second.Extras))
}

func TestSegmentDoesNotAliasModel(t *testing.T) {
	query := seq("a")
	m := match(t, seq("a", "b"), query)
	p := Segment(m, query)

	p.Future[0].Strings[0] = "mutated"
	assert.Equal(t, []string{"b"}, m.Model.Events[1].Strings)
}

func TestSegmentEmotives(t *testing.T) {
	model := []event.Event{
		event.New([]string{"a"}, nil, map[string]float64{"joy": 2}),
		event.New([]string{"b"}, nil, map[string]float64{"joy": 4}),
	}
	query := seq("a")
	m := match(t, model, query)
	p := Segment(m, query)

	// Mean over present ∪ future: (2 + 4) / 2.
	assert.InDelta(t, 3.0, p.Emotives["joy"], 1e-9)
}

func TestSegmentAllTruncates(t *testing.T) {
	query := seq("a")
	m := match(t, seq("a", "b"), query)

	matches := []recall.Match{m, m, m, m}
	preds := SegmentAll(matches, query, 2)
	assert.Len(t, preds, 2)

	preds = SegmentAll(matches, query, 0)
	assert.Len(t, preds, 4)

	assert.Nil(t, SegmentAll(nil, query, 5))
}
