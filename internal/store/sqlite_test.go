package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"sentiment-trader/internal/errors"
	"sentiment-trader/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "snapshots.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testTrades() []models.EnrichedTrade {
	pos := 12.5
	return []models.EnrichedTrade{
		{
			TradeRecord: models.TradeRecord{
				Date:          models.DayFromUnix(1609459200),
				Side:          models.SideBuy,
				SizeUSD:       100,
				ClosedPnL:     10,
				StartPosition: &pos,
			},
			Classification: models.Fear,
		},
		{
			TradeRecord: models.TradeRecord{
				Date:      models.DayFromUnix(1609545600),
				Side:      models.SideSell,
				SizeUSD:   50,
				ClosedPnL: -5,
			},
			Classification: models.ClassificationUnknown,
		},
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	meta := SnapshotMeta{
		Name:             "january",
		CreatedAt:        time.Date(2021, 2, 1, 12, 0, 0, 0, time.UTC),
		SentimentPath:    "csv_files/fear_greed_index.csv",
		TradesPath:       "csv_files/historical_data.csv",
		HasStartPosition: true,
	}
	trades := testTrades()

	if err := store.SaveSnapshot(ctx, meta, trades); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	loadedMeta, loaded, err := store.LoadSnapshot(ctx, "january")
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if loadedMeta.Name != "january" || !loadedMeta.HasStartPosition {
		t.Errorf("unexpected meta: %+v", loadedMeta)
	}
	if loadedMeta.TradeCount != 2 {
		t.Errorf("expected 2 trades in meta, got %d", loadedMeta.TradeCount)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 trades, got %d", len(loaded))
	}

	first := loaded[0]
	if !first.Date.Equal(trades[0].Date) {
		t.Errorf("expected date %v, got %v", trades[0].Date, first.Date)
	}
	if first.Side != models.SideBuy || first.SizeUSD != 100 || first.ClosedPnL != 10 {
		t.Errorf("unexpected first trade: %+v", first)
	}
	if first.Classification != models.Fear {
		t.Errorf("expected Fear, got %s", first.Classification)
	}
	if first.StartPosition == nil || *first.StartPosition != 12.5 {
		t.Errorf("expected start position 12.5, got %v", first.StartPosition)
	}

	second := loaded[1]
	if second.StartPosition != nil {
		t.Errorf("expected nil start position, got %v", *second.StartPosition)
	}
	if second.Classification != models.ClassificationUnknown {
		t.Errorf("expected Unknown, got %s", second.Classification)
	}
}

func TestSaveSnapshotDuplicateName(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	meta := SnapshotMeta{Name: "dup", CreatedAt: time.Now().UTC()}
	if err := store.SaveSnapshot(ctx, meta, testTrades()); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := store.SaveSnapshot(ctx, meta, testTrades()); !errors.Is(err, errors.ErrSnapshotExists) {
		t.Fatalf("expected ErrSnapshotExists, got %v", err)
	}
}

func TestLoadSnapshotUnknownName(t *testing.T) {
	store := newTestStore(t)
	_, _, err := store.LoadSnapshot(context.Background(), "missing")
	if !errors.Is(err, errors.ErrNoSnapshot) {
		t.Fatalf("expected ErrNoSnapshot, got %v", err)
	}
}

func TestListAndDeleteSnapshots(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i, name := range []string{"first", "second"} {
		meta := SnapshotMeta{
			Name:      name,
			CreatedAt: time.Date(2021, 3, 1+i, 0, 0, 0, 0, time.UTC),
		}
		if err := store.SaveSnapshot(ctx, meta, testTrades()); err != nil {
			t.Fatalf("saving %s: %v", name, err)
		}
	}

	metas, err := store.ListSnapshots(ctx)
	if err != nil {
		t.Fatalf("ListSnapshots: %v", err)
	}
	if len(metas) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(metas))
	}
	// Newest first.
	if metas[0].Name != "second" {
		t.Errorf("expected second first, got %s", metas[0].Name)
	}
	if metas[0].TradeCount != 2 {
		t.Errorf("expected 2 trades, got %d", metas[0].TradeCount)
	}

	if err := store.DeleteSnapshot(ctx, "first"); err != nil {
		t.Fatalf("DeleteSnapshot: %v", err)
	}
	metas, err = store.ListSnapshots(ctx)
	if err != nil {
		t.Fatalf("ListSnapshots after delete: %v", err)
	}
	if len(metas) != 1 || metas[0].Name != "second" {
		t.Errorf("expected only second to remain, got %+v", metas)
	}

	if err := store.DeleteSnapshot(ctx, "first"); !errors.Is(err, errors.ErrNoSnapshot) {
		t.Fatalf("expected ErrNoSnapshot deleting twice, got %v", err)
	}
}
