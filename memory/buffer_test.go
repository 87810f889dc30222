package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sequent-ai/sequent/event"
)

func ev(symbols ...string) event.Event {
	return event.New(symbols, nil, nil)
}

func TestAppendPreservesOrder(t *testing.T) {
	b := NewBuffer()
	b.Append(ev("first"))
	b.Append(ev("second"))
	b.Append(ev("first")) // no dedup

	snap := b.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, []string{"first"}, snap[0].Strings)
	assert.Equal(t, []string{"second"}, snap[1].Strings)
	assert.Equal(t, []string{"first"}, snap[2].Strings)
}

func TestSnapshotIsImmutable(t *testing.T) {
	b := NewBuffer()
	b.Append(ev("a"))

	snap := b.Snapshot()
	b.Append(ev("b"))
	b.Clear()

	require.Len(t, snap, 1)
	assert.Equal(t, []string{"a"}, snap[0].Strings)
}

func TestEmptySnapshot(t *testing.T) {
	b := NewBuffer()
	assert.Nil(t, b.Snapshot())
	assert.Equal(t, 0, b.Len())
}

func TestClear(t *testing.T) {
	b := NewBuffer()
	b.Append(ev("a"))
	b.Append(ev("b"))
	require.Equal(t, 2, b.Len())

	b.Clear()
	assert.Equal(t, 0, b.Len())
	assert.Nil(t, b.Snapshot())

	// Usable after clear.
	b.Append(ev("c"))
	require.Equal(t, 1, b.Len())
}

func TestLimitEvictsOldest(t *testing.T) {
	b := NewBufferWithLimit(3)
	for _, s := range []string{"a", "b", "c", "d", "e"} {
		b.Append(ev(s))
	}

	snap := b.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, []string{"c"}, snap[0].Strings)
	assert.Equal(t, []string{"d"}, snap[1].Strings)
	assert.Equal(t, []string{"e"}, snap[2].Strings)
}

func TestZeroLimitIsUnbounded(t *testing.T) {
	b := NewBufferWithLimit(0)
	for i := 0; i < 100; i++ {
		b.Append(ev("x"))
	}
	assert.Equal(t, 100, b.Len())
}
