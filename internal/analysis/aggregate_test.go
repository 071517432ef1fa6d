package analysis

import (
	"math"
	"testing"

	"sentiment-trader/internal/errors"
	"sentiment-trader/internal/models"
)

func enriched(label models.Classification, side models.TradeSide, size, pnl float64) models.EnrichedTrade {
	return models.EnrichedTrade{
		TradeRecord: models.TradeRecord{
			Date:      models.DayFromUnix(1609459200),
			Side:      side,
			SizeUSD:   size,
			ClosedPnL: pnl,
		},
		Classification: label,
	}
}

func rowValue(t *testing.T, rows []models.SummaryRow, label models.Classification) float64 {
	t.Helper()
	for _, r := range rows {
		if r.Classification == label {
			return r.Value
		}
	}
	t.Fatalf("no row for label %s", label)
	return 0
}

func TestAggregatorSingleFearTrade(t *testing.T) {
	// One Fear-day BUY of $100 with +10 PnL: mean PnL 10, volume 100,
	// win rate 100.
	trades := []models.EnrichedTrade{
		enriched(models.Fear, models.SideBuy, 100, 10),
	}

	if got := rowValue(t, MeanPnL(trades), models.Fear); got != 10 {
		t.Errorf("mean pnl: expected 10, got %f", got)
	}
	if got := rowValue(t, TotalVolume(trades), models.Fear); got != 100 {
		t.Errorf("total volume: expected 100, got %f", got)
	}
	if got := rowValue(t, WinRate(trades), models.Fear); got != 100 {
		t.Errorf("win rate: expected 100, got %f", got)
	}
}

func TestUnknownBucketCountsInTotals(t *testing.T) {
	trades := []models.EnrichedTrade{
		enriched(models.Fear, models.SideBuy, 100, 10),
		enriched(models.Greed, models.SideSell, 200, -5),
		enriched(models.ClassificationUnknown, models.SideBuy, 75, 3),
	}

	globals := Globals(trades)
	if globals.TotalVolume != 375 {
		t.Errorf("expected global volume 375, got %f", globals.TotalVolume)
	}

	classified := 0.0
	for _, r := range TotalVolume(trades) {
		if r.Classification != models.ClassificationUnknown {
			classified += r.Value
		}
	}
	// The unmatched trade is exactly the gap between global volume and
	// the classified groups.
	if diff := globals.TotalVolume - classified; diff != 75 {
		t.Errorf("expected unknown gap 75, got %f", diff)
	}
}

func TestWinRateMixedOutcomes(t *testing.T) {
	trades := []models.EnrichedTrade{
		enriched(models.Greed, models.SideBuy, 10, 5),
		enriched(models.Greed, models.SideBuy, 10, -5),
		enriched(models.Greed, models.SideSell, 10, 0), // zero PnL is not a win
		enriched(models.Greed, models.SideSell, 10, 1),
	}

	if got := rowValue(t, WinRate(trades), models.Greed); got != 50 {
		t.Errorf("expected win rate 50, got %f", got)
	}
}

func TestGlobalsEmptySet(t *testing.T) {
	globals := Globals(nil)
	if globals.TradeCount != 0 {
		t.Errorf("expected 0 trades, got %d", globals.TradeCount)
	}
	if globals.TotalVolume != 0 || globals.TotalPnL != 0 {
		t.Error("expected zero sums for empty set")
	}
	if !math.IsNaN(globals.WinRate) {
		t.Errorf("expected NaN win rate, got %f", globals.WinRate)
	}
	if !math.IsNaN(globals.AvgTradeSize) {
		t.Errorf("expected NaN avg size, got %f", globals.AvgTradeSize)
	}
}

func TestGlobalsJSONEncodesNaNAsNull(t *testing.T) {
	data, err := Globals(nil).MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	want := `{"trade_count":0,"total_pnl":0,"total_volume":0,"win_rate":null,"avg_trade_size":null}`
	if string(data) != want {
		t.Errorf("expected %s, got %s", want, data)
	}
}

func TestMeanStartPositionUnavailable(t *testing.T) {
	trades := []models.EnrichedTrade{
		enriched(models.Fear, models.SideBuy, 100, 10),
	}

	_, err := MeanStartPosition(trades, false)
	if !errors.Is(err, errors.ErrFieldMissing) {
		t.Fatalf("expected ErrFieldMissing, got %v", err)
	}
}

func TestMeanStartPositionRestrictedToPresent(t *testing.T) {
	pos := 20.0
	withPos := enriched(models.Fear, models.SideBuy, 100, 10)
	withPos.StartPosition = &pos
	withoutPos := enriched(models.Fear, models.SideSell, 50, -2)
	noValues := enriched(models.Greed, models.SideBuy, 10, 1)

	rows, err := MeanStartPosition([]models.EnrichedTrade{withPos, withoutPos, noValues}, true)
	if err != nil {
		t.Fatalf("MeanStartPosition: %v", err)
	}

	if got := rowValue(t, rows, models.Fear); got != 20 {
		t.Errorf("expected mean over present values 20, got %f", got)
	}
	if got := rowValue(t, rows, models.Greed); !math.IsNaN(got) {
		t.Errorf("expected NaN for group with no values, got %f", got)
	}
}

func TestSideSplitCanonicalOrder(t *testing.T) {
	trades := []models.EnrichedTrade{
		enriched(models.Fear, models.SideSell, 10, 0),
		enriched(models.Fear, models.SideBuy, 10, 0),
		enriched(models.Fear, models.SideSell, 10, 0),
	}

	counts := SideSplit(trades)
	if len(counts) != 2 {
		t.Fatalf("expected 2 sides, got %d", len(counts))
	}
	if counts[0].Side != models.SideBuy || counts[0].Count != 1 {
		t.Errorf("expected BUY first with 1, got %s %d", counts[0].Side, counts[0].Count)
	}
	if counts[1].Side != models.SideSell || counts[1].Count != 2 {
		t.Errorf("expected SELL with 2, got %s %d", counts[1].Side, counts[1].Count)
	}
}

func TestSummaryRowsSortedByDisplayOrder(t *testing.T) {
	trades := []models.EnrichedTrade{
		enriched(models.ClassificationUnknown, models.SideBuy, 1, 0),
		enriched(models.Greed, models.SideBuy, 1, 0),
		enriched(models.ExtremeFear, models.SideBuy, 1, 0),
	}

	rows := TotalVolume(trades)
	want := []models.Classification{models.ExtremeFear, models.Greed, models.ClassificationUnknown}
	for i, label := range want {
		if rows[i].Classification != label {
			t.Errorf("row %d: expected %s, got %s", i, label, rows[i].Classification)
		}
	}
}
