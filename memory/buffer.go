package memory

import (
	"github.com/sequent-ai/sequent/event"
)

// Buffer is the ordered working-memory buffer of one processor.
//
// The zero value is an unbounded empty buffer ready for use.
type Buffer struct {
	events []event.Event
	limit  int
}

// NewBuffer returns an empty unbounded buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// NewBufferWithLimit returns an empty buffer that holds at most limit
// events, evicting the oldest event on overflow. A limit of zero or less
// means unbounded.
func NewBufferWithLimit(limit int) *Buffer {
	return &Buffer{limit: limit}
}

// Append adds an event to the end of the buffer. If the buffer has a
// length limit and is full, the oldest event is evicted first.
func (b *Buffer) Append(ev event.Event) {
	if b.limit > 0 && len(b.events) >= b.limit {
		drop := len(b.events) - b.limit + 1
		b.events = append(b.events[:0], b.events[drop:]...)
	}
	b.events = append(b.events, ev)
}

// Snapshot returns an immutable ordered copy of the buffer contents.
// Later appends or clears never affect a returned snapshot.
func (b *Buffer) Snapshot() []event.Event {
	if len(b.events) == 0 {
		return nil
	}
	out := make([]event.Event, len(b.events))
	copy(out, b.events)
	return out
}

// Clear resets the buffer to empty.
func (b *Buffer) Clear() {
	b.events = nil
}

// Len returns the number of buffered events.
func (b *Buffer) Len() int {
	return len(b.events)
}
