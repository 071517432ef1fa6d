package analysis

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"sentiment-trader/internal/dataset"
	"sentiment-trader/internal/errors"
	"sentiment-trader/internal/models"
)

// groupBy buckets trades by classification label. Groups are the
// distinct labels present in the input, so a grouped metric never sees
// an empty group; only the global metrics can run over nothing.
func groupBy(trades []models.EnrichedTrade) map[models.Classification][]models.EnrichedTrade {
	groups := make(map[models.Classification][]models.EnrichedTrade)
	for _, t := range trades {
		groups[t.Classification] = append(groups[t.Classification], t)
	}
	return groups
}

// sortedRows converts a per-label value map into rows in display order.
func sortedRows(values map[models.Classification]float64) []models.SummaryRow {
	rows := make([]models.SummaryRow, 0, len(values))
	for label, v := range values {
		rows = append(rows, models.SummaryRow{Classification: label, Value: v})
	}
	sort.Slice(rows, func(i, j int) bool {
		return dataset.LabelLess(rows[i].Classification, rows[j].Classification)
	})
	return rows
}

// MeanPnL returns the arithmetic mean of closed PnL per classification.
func MeanPnL(trades []models.EnrichedTrade) []models.SummaryRow {
	values := make(map[models.Classification]float64)
	for label, group := range groupBy(trades) {
		sum := 0.0
		for _, t := range group {
			sum += t.ClosedPnL
		}
		values[label] = sum / float64(len(group))
	}
	return sortedRows(values)
}

// TotalVolume returns the summed USD notional per classification.
func TotalVolume(trades []models.EnrichedTrade) []models.SummaryRow {
	values := make(map[models.Classification]float64)
	for label, group := range groupBy(trades) {
		sum := 0.0
		for _, t := range group {
			sum += t.SizeUSD
		}
		values[label] = sum
	}
	return sortedRows(values)
}

// WinRate returns the percentage of trades with positive closed PnL
// per classification. Values are always within [0, 100].
func WinRate(trades []models.EnrichedTrade) []models.SummaryRow {
	values := make(map[models.Classification]float64)
	for label, group := range groupBy(trades) {
		wins := 0
		for _, t := range group {
			if t.ClosedPnL > 0 {
				wins++
			}
		}
		values[label] = 100 * float64(wins) / float64(len(group))
	}
	return sortedRows(values)
}

// MeanStartPosition returns the mean start position per
// classification, restricted to trades where the field is present.
// When the trade export has no Start Position column at all the metric
// is unavailable system-wide and a FieldError is returned; a group
// with no present values yields NaN.
func MeanStartPosition(trades []models.EnrichedTrade, hasStartPosition bool) ([]models.SummaryRow, error) {
	if !hasStartPosition {
		return nil, errors.NewFieldError("trades", "Start Position")
	}
	values := make(map[models.Classification]float64)
	for label, group := range groupBy(trades) {
		sum, n := 0.0, 0
		for _, t := range group {
			if t.StartPosition != nil {
				sum += *t.StartPosition
				n++
			}
		}
		if n == 0 {
			values[label] = math.NaN()
		} else {
			values[label] = sum / float64(n)
		}
	}
	return sortedRows(values), nil
}

// SideSplit counts trades per side over the given records, in the
// canonical BUY/SELL order. Side values outside the known domain are
// appended after the canonical ones so nothing disappears from view.
func SideSplit(trades []models.EnrichedTrade) []models.SideCount {
	counts := make(map[models.TradeSide]int)
	for _, t := range trades {
		counts[t.Side]++
	}

	out := make([]models.SideCount, 0, len(counts))
	for _, side := range models.AllSides() {
		if n, ok := counts[side]; ok {
			out = append(out, models.SideCount{Side: side, Count: n})
			delete(counts, side)
		}
	}
	extras := make([]models.SideCount, 0, len(counts))
	for side, n := range counts {
		extras = append(extras, models.SideCount{Side: side, Count: n})
	}
	sort.Slice(extras, func(i, j int) bool { return extras[i].Side < extras[j].Side })
	return append(out, extras...)
}

// SideSplitByClassification computes the buy/sell split per
// classification, keyed by label.
func SideSplitByClassification(trades []models.EnrichedTrade) map[models.Classification][]models.SideCount {
	out := make(map[models.Classification][]models.SideCount)
	for label, group := range groupBy(trades) {
		out[label] = SideSplit(group)
	}
	return out
}

// GlobalMetrics are the same aggregations applied to the entire
// filtered set as one implicit group. Mean-style metrics are NaN over
// an empty set; sums are zero.
type GlobalMetrics struct {
	TradeCount   int
	TotalPnL     float64
	TotalVolume  float64
	WinRate      float64
	AvgTradeSize float64
}

// Globals computes the global summary metrics over the filtered set.
func Globals(trades []models.EnrichedTrade) GlobalMetrics {
	m := GlobalMetrics{TradeCount: len(trades)}
	if len(trades) == 0 {
		m.WinRate = math.NaN()
		m.AvgTradeSize = math.NaN()
		return m
	}
	wins := 0
	for _, t := range trades {
		m.TotalPnL += t.ClosedPnL
		m.TotalVolume += t.SizeUSD
		if t.ClosedPnL > 0 {
			wins++
		}
	}
	m.WinRate = 100 * float64(wins) / float64(len(trades))
	m.AvgTradeSize = m.TotalVolume / float64(len(trades))
	return m
}

// MarshalJSON encodes NaN metric values as null so JSON output mode
// never fails on an empty filtered set.
func (m GlobalMetrics) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf(
		`{"trade_count":%d,"total_pnl":%s,"total_volume":%s,"win_rate":%s,"avg_trade_size":%s}`,
		m.TradeCount,
		jsonFloat(m.TotalPnL),
		jsonFloat(m.TotalVolume),
		jsonFloat(m.WinRate),
		jsonFloat(m.AvgTradeSize),
	)), nil
}

func jsonFloat(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "null"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
