package recall

import (
	"context"
	"sort"

	"github.com/sequent-ai/sequent/event"
	"github.com/sequent-ai/sequent/knowledge"
)

// Source is the view of the knowledge store recall searches over.
// *knowledge.Store satisfies it.
type Source interface {
	// Each visits every model in the namespace.
	Each(ctx context.Context, fn func(*knowledge.Model) error) error

	// Get retrieves a model by ID.
	Get(ctx context.Context, id string) (*knowledge.Model, error)

	// Candidates returns the IDs of models sharing at least one event
	// signature with the given set, sorted.
	Candidates(signatures []string) []string
}

// Span identifies the contiguous region [Start, End) of a model's event
// sequence aligned with the query.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Pair records one matched alignment position: query event Query aligned
// to model event Model with equal signatures.
type Pair struct {
	Query int `json:"query"`
	Model int `json:"model"`
}

// Match is one model that passed the recall threshold.
type Match struct {
	// ModelID is the content hash of the matched model.
	ModelID string

	// Score is the fraction of query events matched, in [0, 1].
	Score float64

	// Frequency is the model's occurrence counter, used for ranking.
	Frequency int

	// Span is the aligned region of the model.
	Span Span

	// Pairs lists the matched (query, model) positions inside the span.
	Pairs []Pair

	// Model is the matched model. Derived per search, never stored.
	Model *knowledge.Model
}

// Search returns the ranked models whose alignment score against query
// reaches threshold, which must lie in [0, 1].
//
// For a positive threshold the store's signature index narrows the scan:
// any model scoring above zero shares at least one signature with the
// query, so the candidate set is complete. A zero threshold admits models
// with score zero, so Search falls back to a full scan. Either path
// produces output identical to FullScan.
func Search(ctx context.Context, source Source, query []event.Event, threshold float64) ([]Match, error) {
	if threshold <= 0 || len(query) == 0 {
		return FullScan(ctx, source, query, threshold)
	}

	querySigs := event.Signatures(query)

	var matches []Match
	for _, id := range source.Candidates(querySigs) {
		model, err := source.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if m, ok := score(model, querySigs, threshold); ok {
			matches = append(matches, m)
		}
	}

	rank(matches)
	return matches, nil
}

// FullScan is the brute-force baseline: it visits every model in the store
// and applies the same scoring, filtering, and ranking as Search.
func FullScan(ctx context.Context, source Source, query []event.Event, threshold float64) ([]Match, error) {
	querySigs := event.Signatures(query)

	var matches []Match
	err := source.Each(ctx, func(model *knowledge.Model) error {
		if m, ok := score(model, querySigs, threshold); ok {
			matches = append(matches, m)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	rank(matches)
	return matches, nil
}

// score aligns one model against the query signatures and reports whether
// it passes the threshold.
func score(model *knowledge.Model, querySigs []string, threshold float64) (Match, bool) {
	span, pairs := align(model.Signatures(), querySigs)

	// Guard the empty query: score is defined as 0, never a division.
	var s float64
	if len(querySigs) > 0 {
		s = float64(len(pairs)) / float64(len(querySigs))
	}

	if s < threshold {
		return Match{}, false
	}

	return Match{
		ModelID:   model.ID,
		Score:     s,
		Frequency: model.Frequency,
		Span:      span,
		Pairs:     pairs,
		Model:     model,
	}, true
}

// align slides the query across the model and returns the span and matched
// pairs of the best offset. More matched pairs win; equal counts prefer the
// smaller offset. When nothing matches, the alignment defaults to offset 0
// so the span is still well defined.
func align(modelSigs, querySigs []string) (Span, []Pair) {
	modelLen := len(modelSigs)
	queryLen := len(querySigs)
	if modelLen == 0 || queryLen == 0 {
		return Span{}, nil
	}

	bestOffset := 0
	bestMatched := countMatches(modelSigs, querySigs, 0)

	for offset := -(queryLen - 1); offset < modelLen; offset++ {
		if offset == 0 {
			continue
		}
		if matched := countMatches(modelSigs, querySigs, offset); matched > bestMatched ||
			(matched == bestMatched && matched > 0 && offset < bestOffset) {
			bestOffset = offset
			bestMatched = matched
		}
	}

	span := Span{
		Start: clamp(bestOffset, 0, modelLen),
		End:   clamp(bestOffset+queryLen, 0, modelLen),
	}

	var pairs []Pair
	if bestMatched > 0 {
		pairs = make([]Pair, 0, bestMatched)
		for q := 0; q < queryLen; q++ {
			m := bestOffset + q
			if m >= 0 && m < modelLen && querySigs[q] == modelSigs[m] {
				pairs = append(pairs, Pair{Query: q, Model: m})
			}
		}
	}

	return span, pairs
}

func countMatches(modelSigs, querySigs []string, offset int) int {
	matched := 0
	for q := 0; q < len(querySigs); q++ {
		m := offset + q
		if m >= 0 && m < len(modelSigs) && querySigs[q] == modelSigs[m] {
			matched++
		}
	}
	return matched
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// rank orders matches by score descending, frequency descending, model ID
// ascending. The ordering is total, so equal inputs always rank equally.
func rank(matches []Match) {
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		if matches[i].Frequency != matches[j].Frequency {
			return matches[i].Frequency > matches[j].Frequency
		}
		return matches[i].ModelID < matches[j].ModelID
	})
}
