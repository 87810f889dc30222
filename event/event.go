package event

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
	"sort"
)

// Event is one canonicalized observation.
//
// Events must be constructed with New so the canonical invariants hold:
// Strings is sorted lexicographically (duplicates preserved: a repeated
// symbol is meaningful), Vectors keeps its input order (vectors are
// positional, not sortable), and Emotives holds the last-written value for
// each name. Fields are exported for serialization; callers must not
// mutate an Event after construction.
type Event struct {
	// Strings is the sorted symbol list of the observation.
	Strings []string `json:"strings"`

	// Vectors is the ordered sequence of opaque numeric payloads.
	// The engine never interprets vector contents beyond equality.
	Vectors [][]float64 `json:"vectors,omitempty"`

	// Emotives maps emotive name to value. Duplicate names within one
	// observation collapse last-write-wins before canonicalization.
	Emotives map[string]float64 `json:"emotives,omitempty"`
}

// New canonicalizes one raw observation into an Event.
//
// The inputs are copied, never aliased, so the caller may reuse its slices.
// Canonicalization is a pure function: inputs that are equal up to symbol
// order produce byte-identical encodings.
func New(strings []string, vectors [][]float64, emotives map[string]float64) Event {
	ev := Event{}

	if len(strings) > 0 {
		ev.Strings = make([]string, len(strings))
		copy(ev.Strings, strings)
		sort.Strings(ev.Strings)
	}

	if len(vectors) > 0 {
		ev.Vectors = make([][]float64, len(vectors))
		for i, v := range vectors {
			ev.Vectors[i] = make([]float64, len(v))
			copy(ev.Vectors[i], v)
		}
	}

	if len(emotives) > 0 {
		ev.Emotives = make(map[string]float64, len(emotives))
		for k, v := range emotives {
			ev.Emotives[k] = v
		}
	}

	return ev
}

// Encode returns the full canonical encoding of the event, covering
// symbols, vectors, and emotives. Two events are equal values iff their
// encodings are byte-identical.
func (e Event) Encode() []byte {
	var buf bytes.Buffer
	e.encodeIdentity(&buf)

	buf.WriteByte('E')
	writeUint32(&buf, uint32(len(e.Emotives)))
	for _, k := range sortedKeys(e.Emotives) {
		writeString(&buf, k)
		writeFloat64(&buf, e.Emotives[k])
	}

	return buf.Bytes()
}

// EncodeIdentity returns the identity encoding of the event: symbols and
// vectors only. This is the input to Signature and, transitively, to model
// hashing. Emotives are excluded so that re-learning a sequence with
// different emotive values updates the same model instead of minting a
// new one.
func (e Event) EncodeIdentity() []byte {
	var buf bytes.Buffer
	e.encodeIdentity(&buf)
	return buf.Bytes()
}

func (e Event) encodeIdentity(buf *bytes.Buffer) {
	buf.WriteByte('S')
	writeUint32(buf, uint32(len(e.Strings)))
	for _, s := range e.Strings {
		writeString(buf, s)
	}

	buf.WriteByte('V')
	writeUint32(buf, uint32(len(e.Vectors)))
	for _, v := range e.Vectors {
		writeUint32(buf, uint32(len(v)))
		for _, f := range v {
			writeFloat64(buf, f)
		}
	}
}

// Signature returns the hex-encoded SHA-256 digest of the identity
// encoding. Events that differ only in emotive values share a signature.
func (e Event) Signature() string {
	sum := sha256.Sum256(e.EncodeIdentity())
	return hex.EncodeToString(sum[:])
}

// Equal reports whether two events are identical values, emotives included.
func (e Event) Equal(other Event) bool {
	return bytes.Equal(e.Encode(), other.Encode())
}

// Clone returns a deep copy of the event.
func (e Event) Clone() Event {
	return New(e.Strings, e.Vectors, e.Emotives)
}

// Signatures returns the signature of each event in order. Recall
// precomputes these once per query instead of re-hashing per candidate.
func Signatures(events []Event) []string {
	sigs := make([]string, len(events))
	for i, e := range events {
		sigs[i] = e.Signature()
	}
	return sigs
}

// CloneAll returns a deep copy of a slice of events.
func CloneAll(events []Event) []Event {
	if events == nil {
		return nil
	}
	out := make([]Event, len(events))
	for i, e := range events {
		out[i] = e.Clone()
	}
	return out
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func writeUint32(buf *bytes.Buffer, n uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], n)
	buf.Write(b[:])
}

func writeString(buf *bytes.Buffer, s string) {
	writeUint32(buf, uint32(len(s)))
	buf.WriteString(s)
}

func writeFloat64(buf *bytes.Buffer, f float64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], math.Float64bits(f))
	buf.Write(b[:])
}
