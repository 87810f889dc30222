package predict

import (
	"github.com/sequent-ai/sequent/event"
	"github.com/sequent-ai/sequent/recall"
)

// Prediction is one ranked model match segmented relative to the query.
// Predictions are derived views, computed per call and never stored.
type Prediction struct {
	// ModelID is the content hash of the matched model.
	ModelID string `json:"model_id"`

	// Score is the similarity score the match passed recall with.
	Score float64 `json:"score"`

	// Frequency is how many times the matched model has been learned.
	Frequency int `json:"frequency"`

	// Past holds the model events strictly before the aligned region.
	Past []event.Event `json:"past"`

	// Present holds the model events of the aligned region.
	Present []event.Event `json:"present"`

	// Future holds the model events strictly after the aligned region.
	Future []event.Event `json:"future"`

	// Missing holds present-region model events the query did not supply.
	Missing []event.Event `json:"missing"`

	// Extras holds query events no model event accounted for.
	Extras []event.Event `json:"extras"`

	// Emotives is the model's mean emotive values over the present and
	// future regions: the emotional expectation of where the sequence
	// is and where it leads.
	Emotives map[string]float64 `json:"emotives,omitempty"`
}

// Segment builds the Prediction for one recall match against the query it
// was matched with.
//
// All event slices are deep copies: a Prediction never aliases model or
// query storage.
func Segment(match recall.Match, query []event.Event) Prediction {
	model := match.Model
	span := match.Span

	matchedModel := make(map[int]bool, len(match.Pairs))
	matchedQuery := make(map[int]bool, len(match.Pairs))
	for _, p := range match.Pairs {
		matchedModel[p.Model] = true
		matchedQuery[p.Query] = true
	}

	var missing []event.Event
	for i := span.Start; i < span.End; i++ {
		if !matchedModel[i] {
			missing = append(missing, model.Events[i].Clone())
		}
	}

	var extras []event.Event
	for i, ev := range query {
		if !matchedQuery[i] {
			extras = append(extras, ev.Clone())
		}
	}

	return Prediction{
		ModelID:   match.ModelID,
		Score:     match.Score,
		Frequency: match.Frequency,
		Past:      event.CloneAll(model.Events[:span.Start]),
		Present:   event.CloneAll(model.Events[span.Start:span.End]),
		Future:    event.CloneAll(model.Events[span.End:]),
		Missing:   missing,
		Extras:    extras,
		Emotives:  model.MeanEmotives(span.Start, model.Length()),
	}
}

// SegmentAll builds predictions for ranked matches in order, truncated to
// limit entries. A limit of zero or less means no truncation.
func SegmentAll(matches []recall.Match, query []event.Event, limit int) []Prediction {
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	if len(matches) == 0 {
		return nil
	}

	out := make([]Prediction, len(matches))
	for i, m := range matches {
		out[i] = Segment(m, query)
	}
	return out
}
