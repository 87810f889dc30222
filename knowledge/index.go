package knowledge

import (
	"sort"
	"sync"
)

// signatureIndex is an inverted index from event signature to the IDs of
// models containing an event with that signature. It narrows recall scans
// for thresholds above zero: any model scoring above zero shares at least
// one signature with the query, so the candidate union is complete.
type signatureIndex struct {
	mu     sync.RWMutex
	models map[string]map[string]struct{}
}

func newSignatureIndex() *signatureIndex {
	return &signatureIndex{models: make(map[string]map[string]struct{})}
}

// add indexes every event signature of the model.
func (idx *signatureIndex) add(m *Model) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	for _, sig := range m.Signatures() {
		ids, ok := idx.models[sig]
		if !ok {
			ids = make(map[string]struct{})
			idx.models[sig] = ids
		}
		ids[m.ID] = struct{}{}
	}
}

// candidates returns the union of model IDs over the given signatures,
// sorted for deterministic iteration.
func (idx *signatureIndex) candidates(signatures []string) []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	union := make(map[string]struct{})
	for _, sig := range signatures {
		for id := range idx.models[sig] {
			union[id] = struct{}{}
		}
	}

	out := make([]string, 0, len(union))
	for id := range union {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
