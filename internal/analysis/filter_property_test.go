package analysis

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"sentiment-trader/internal/models"
)

var propertyLabels = []models.Classification{
	models.ExtremeFear, models.Fear, models.Neutral,
	models.Greed, models.ExtremeGreed, models.ClassificationUnknown,
}

// genEnrichedTrades generates enriched trade sets over a 60-day window
// with the full label and side domain represented.
func genEnrichedTrades() gopter.Gen {
	return gen.SliceOf(gopter.CombineGens(
		gen.Int64Range(0, 60),
		gen.Bool(),
		gen.Float64Range(0, 1_000_000),
		gen.Float64Range(-10_000, 10_000),
		gen.IntRange(0, len(propertyLabels)-1),
	).Map(func(vals []interface{}) models.EnrichedTrade {
		side := models.SideSell
		if vals[1].(bool) {
			side = models.SideBuy
		}
		return models.EnrichedTrade{
			TradeRecord: models.TradeRecord{
				Date:      models.DayFromUnix(vals[0].(int64) * 86400),
				Side:      side,
				SizeUSD:   vals[2].(float64),
				ClosedPnL: vals[3].(float64),
			},
			Classification: propertyLabels[vals[4].(int)],
		}
	}))
}

// genSpec generates filter specs with arbitrary date windows and
// label/side subsets, empty subsets included.
func genSpec() gopter.Gen {
	return gopter.CombineGens(
		gen.Int64Range(0, 60),
		gen.Int64Range(0, 60),
		gen.IntRange(0, (1<<len(propertyLabels))-1),
		gen.IntRange(0, 3),
	).Map(func(vals []interface{}) FilterSpec {
		from := models.DayFromUnix(vals[0].(int64) * 86400)
		to := models.DayFromUnix(vals[1].(int64) * 86400)
		if to.Before(from) {
			from, to = to, from
		}
		spec := FilterSpec{
			From:            from,
			To:              to,
			Classifications: make(map[models.Classification]bool),
			Sides:           make(map[models.TradeSide]bool),
		}
		labelMask := vals[2].(int)
		for i, label := range propertyLabels {
			if labelMask&(1<<i) != 0 {
				spec.Classifications[label] = true
			}
		}
		sideMask := vals[3].(int)
		if sideMask&1 != 0 {
			spec.Sides[models.SideBuy] = true
		}
		if sideMask&2 != 0 {
			spec.Sides[models.SideSell] = true
		}
		return spec
	})
}

func equalTrades(a, b []models.EnrichedTrade) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Date.Equal(b[i].Date) || a[i].Side != b[i].Side ||
			a[i].SizeUSD != b[i].SizeUSD || a[i].ClosedPnL != b[i].ClosedPnL ||
			a[i].Classification != b[i].Classification {
			return false
		}
	}
	return true
}

func TestFilterIdempotent(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("filtering twice with the same spec changes nothing", prop.ForAll(
		func(trades []models.EnrichedTrade, spec FilterSpec) bool {
			once := Filter(trades, spec)
			twice := Filter(once, spec)
			return equalTrades(once, twice)
		},
		genEnrichedTrades(),
		genSpec(),
	))

	properties.Property("filter output is a subsequence of its input", prop.ForAll(
		func(trades []models.EnrichedTrade, spec FilterSpec) bool {
			return len(Filter(trades, spec)) <= len(trades)
		},
		genEnrichedTrades(),
		genSpec(),
	))

	properties.TestingRun(t)
}

func TestWinRateBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("grouped win rates stay within [0, 100]", prop.ForAll(
		func(trades []models.EnrichedTrade) bool {
			for _, r := range WinRate(trades) {
				if r.Value < 0 || r.Value > 100 {
					return false
				}
			}
			return true
		},
		genEnrichedTrades(),
	))

	properties.Property("global win rate is within [0, 100] or NaN when empty", prop.ForAll(
		func(trades []models.EnrichedTrade) bool {
			rate := Globals(trades).WinRate
			if len(trades) == 0 {
				return math.IsNaN(rate)
			}
			return rate >= 0 && rate <= 100
		},
		genEnrichedTrades(),
	))

	properties.TestingRun(t)
}

func TestVolumeMonotone(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	// With non-negative trade sizes, narrowing the set can only shrink
	// the total volume.
	properties.Property("filtered total volume never exceeds unfiltered", prop.ForAll(
		func(trades []models.EnrichedTrade, spec FilterSpec) bool {
			full := Globals(trades).TotalVolume
			filtered := Globals(Filter(trades, spec)).TotalVolume
			return filtered <= full+1e-6
		},
		genEnrichedTrades(),
		genSpec(),
	))

	properties.Property("per-group volume is non-negative", prop.ForAll(
		func(trades []models.EnrichedTrade) bool {
			for _, r := range TotalVolume(trades) {
				if r.Value < 0 {
					return false
				}
			}
			return true
		},
		genEnrichedTrades(),
	))

	properties.TestingRun(t)
}
