package dataset

import (
	"sort"
	"time"

	"sentiment-trader/internal/models"
)

// Join left-joins trades to sentiment records by UTC calendar date.
// The output has the same cardinality and order as the trade input:
// every trade is preserved, and trades with no sentiment day are
// tagged models.ClassificationUnknown so totals never lose rows.
//
// If the sentiment source contains more than one record for a date,
// the first in source order wins. The source promises one row per day;
// the tie-break is arbitrary but deterministic.
func Join(trades []models.TradeRecord, sentiments []models.SentimentRecord) []models.EnrichedTrade {
	byDate := make(map[time.Time]models.Classification, len(sentiments))
	for _, s := range sentiments {
		if _, ok := byDate[s.Date]; !ok {
			byDate[s.Date] = s.Classification
		}
	}

	enriched := make([]models.EnrichedTrade, 0, len(trades))
	for _, t := range trades {
		label, ok := byDate[t.Date]
		if !ok {
			label = models.ClassificationUnknown
		}
		enriched = append(enriched, models.EnrichedTrade{
			TradeRecord:    t,
			Classification: label,
		})
	}
	return enriched
}

// Dataset is the enriched trade set plus the schema facts carried over
// from loading. It is the unit the filter and aggregation layers
// operate on, and the unit the cache memoizes.
type Dataset struct {
	Trades           []models.EnrichedTrade
	HasStartPosition bool
	SentimentPath    string
	TradesPath       string
}

// Span returns the earliest and latest trade dates in the set.
// ok is false when the set is empty.
func (d *Dataset) Span() (min, max time.Time, ok bool) {
	if len(d.Trades) == 0 {
		return time.Time{}, time.Time{}, false
	}
	min, max = d.Trades[0].Date, d.Trades[0].Date
	for _, t := range d.Trades[1:] {
		if t.Date.Before(min) {
			min = t.Date
		}
		if t.Date.After(max) {
			max = t.Date
		}
	}
	return min, max, true
}

// Labels returns the distinct classification labels present in the
// set, in display order.
func (d *Dataset) Labels() []models.Classification {
	seen := make(map[models.Classification]bool)
	var labels []models.Classification
	for _, t := range d.Trades {
		if !seen[t.Classification] {
			seen[t.Classification] = true
			labels = append(labels, t.Classification)
		}
	}
	sort.Slice(labels, func(i, j int) bool {
		return LabelLess(labels[i], labels[j])
	})
	return labels
}

// Unmatched returns the number of trades carrying the Unknown bucket.
func (d *Dataset) Unmatched() int {
	n := 0
	for _, t := range d.Trades {
		if t.Classification == models.ClassificationUnknown {
			n++
		}
	}
	return n
}

// labelRank orders the known Fear & Greed labels from most fearful to
// most greedy, with the Unknown bucket last. Labels the source
// introduces later sort alphabetically between the known set and
// Unknown.
var labelRank = map[models.Classification]int{
	models.ExtremeFear:           0,
	models.Fear:                  1,
	models.Neutral:               2,
	models.Greed:                 3,
	models.ExtremeGreed:          4,
	models.ClassificationUnknown: 1000,
}

// LabelLess is the display ordering for classification labels.
func LabelLess(a, b models.Classification) bool {
	ra, aKnown := labelRank[a]
	rb, bKnown := labelRank[b]
	switch {
	case aKnown && bKnown:
		return ra < rb
	case aKnown:
		return ra < 1000
	case bKnown:
		return rb == 1000
	default:
		return a < b
	}
}
