// Package analysis filters the enriched trade set and computes the
// grouped summary statistics the dashboards render.
package analysis

import (
	"time"

	"sentiment-trader/internal/dataset"
	"sentiment-trader/internal/models"
)

// FilterSpec is a conjunction of three predicates over enriched
// trades: an inclusive calendar-date range, a sentiment-label set and
// a trade-side set. An empty set selects nothing; use NewFilterSpec to
// start from the full domain of a dataset, then narrow.
type FilterSpec struct {
	From            time.Time
	To              time.Time
	Classifications map[models.Classification]bool
	Sides           map[models.TradeSide]bool
}

// NewFilterSpec builds the identity filter for a dataset: the date
// range spans the whole set and both membership sets cover every value
// present, so applying it unchanged selects every trade.
func NewFilterSpec(ds *dataset.Dataset) FilterSpec {
	spec := FilterSpec{
		Classifications: make(map[models.Classification]bool),
		Sides:           make(map[models.TradeSide]bool),
	}
	spec.From, spec.To, _ = ds.Span()
	for _, label := range ds.Labels() {
		spec.Classifications[label] = true
	}
	for _, t := range ds.Trades {
		spec.Sides[t.Side] = true
	}
	return spec
}

// Allows reports whether a trade satisfies all three predicates.
// Side matching is case-sensitive: "BUY" and "buy" are different values.
func (s FilterSpec) Allows(t models.EnrichedTrade) bool {
	if t.Date.Before(s.From) || t.Date.After(s.To) {
		return false
	}
	if !s.Classifications[t.Classification] {
		return false
	}
	return s.Sides[t.Side]
}

// Filter returns the subsequence of trades satisfying the spec,
// preserving input order. Filtering an already-filtered sequence with
// the same spec returns an identical sequence.
func Filter(trades []models.EnrichedTrade, spec FilterSpec) []models.EnrichedTrade {
	out := make([]models.EnrichedTrade, 0, len(trades))
	for _, t := range trades {
		if spec.Allows(t) {
			out = append(out, t)
		}
	}
	return out
}
