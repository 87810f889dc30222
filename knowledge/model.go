package knowledge

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/sequent-ai/sequent/event"
)

// Model is one learned event sequence.
//
// ID is the content hash of the sequence and never changes. Frequency
// counts how many times the sequence has been learned. Each event's
// Emotives field holds the running mean of that position's emotive values
// across all occurrences (see Store.Learn for the exact fold).
type Model struct {
	// ID is the hex SHA-256 content hash of the event sequence.
	ID string `json:"id"`

	// Events is the ordered, immutable event sequence.
	Events []event.Event `json:"events"`

	// Frequency is the number of times this sequence has been learned.
	Frequency int `json:"frequency"`
}

// Length returns the number of events in the model.
func (m *Model) Length() int {
	return len(m.Events)
}

// Signatures returns the signature of each model event in order.
func (m *Model) Signatures() []string {
	return event.Signatures(m.Events)
}

// MeanEmotives averages the per-event emotive means over the events in
// [start, end), clamped to the model bounds. Events without a given key
// contribute zero, mirroring the fold used at learn time.
func (m *Model) MeanEmotives(start, end int) map[string]float64 {
	if start < 0 {
		start = 0
	}
	if end > len(m.Events) {
		end = len(m.Events)
	}
	if start >= end {
		return nil
	}

	sums := make(map[string]float64)
	for _, ev := range m.Events[start:end] {
		for k, v := range ev.Emotives {
			sums[k] += v
		}
	}
	if len(sums) == 0 {
		return nil
	}

	n := float64(end - start)
	means := make(map[string]float64, len(sums))
	for k, sum := range sums {
		means[k] = sum / n
	}
	return means
}

// HashEvents computes the content hash of an event sequence: a SHA-256
// digest over the concatenated event signatures, hex-encoded. The hash
// covers event identity only (symbols and vectors), so occurrences that
// differ only in emotive values collapse to the same model.
func HashEvents(events []event.Event) string {
	h := sha256.New()
	for _, ev := range events {
		sum := sha256.Sum256(ev.EncodeIdentity())
		h.Write(sum[:])
	}
	return hex.EncodeToString(h.Sum(nil))
}
