// Package store provides local persistence for enriched-dataset snapshots.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"sentiment-trader/internal/errors"
	"sentiment-trader/internal/models"
)

// dayFormat is the storage form of a calendar date. Day precision is
// all the join key ever carries.
const dayFormat = "2006-01-02"

// SnapshotMeta describes one saved snapshot.
type SnapshotMeta struct {
	Name             string    `json:"name"`
	CreatedAt        time.Time `json:"created_at"`
	SentimentPath    string    `json:"sentiment_path"`
	TradesPath       string    `json:"trades_path"`
	TradeCount       int       `json:"trade_count"`
	HasStartPosition bool      `json:"has_start_position"`
}

// SQLiteStore persists named snapshots of the enriched trade set so a
// view can be re-inspected after the source CSVs are gone.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the snapshot database.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		created_at DATETIME NOT NULL,
		sentiment_path TEXT NOT NULL,
		trades_path TEXT NOT NULL,
		has_start_position INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS snapshot_trades (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		snapshot_id INTEGER NOT NULL,
		seq INTEGER NOT NULL,
		date TEXT NOT NULL,
		side TEXT NOT NULL,
		size_usd REAL NOT NULL,
		closed_pnl REAL NOT NULL,
		start_position REAL,
		classification TEXT NOT NULL,
		FOREIGN KEY (snapshot_id) REFERENCES snapshots(id)
	);

	CREATE INDEX IF NOT EXISTS idx_snapshot_trades_snapshot
		ON snapshot_trades(snapshot_id, seq);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveSnapshot stores the enriched trade set under a unique name.
// Returns errors.ErrSnapshotExists if the name is taken.
func (s *SQLiteStore) SaveSnapshot(ctx context.Context, meta SnapshotMeta, trades []models.EnrichedTrade) error {
	var exists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM snapshots WHERE name = ?", meta.Name).Scan(&exists)
	if err != nil {
		return fmt.Errorf("checking snapshot name: %w", err)
	}
	if exists > 0 {
		return errors.Wrapf(errors.ErrSnapshotExists, "snapshot %q", meta.Name)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO snapshots (name, created_at, sentiment_path, trades_path, has_start_position)
		VALUES (?, ?, ?, ?, ?)`,
		meta.Name, meta.CreatedAt.UTC(), meta.SentimentPath, meta.TradesPath, meta.HasStartPosition)
	if err != nil {
		return fmt.Errorf("inserting snapshot: %w", err)
	}
	snapshotID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading snapshot id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO snapshot_trades (snapshot_id, seq, date, side, size_usd, closed_pnl, start_position, classification)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing trade insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range trades {
		var startPosition interface{}
		if t.StartPosition != nil {
			startPosition = *t.StartPosition
		}
		if _, err := stmt.ExecContext(ctx, snapshotID, i,
			t.Date.Format(dayFormat), string(t.Side), t.SizeUSD, t.ClosedPnL,
			startPosition, string(t.Classification)); err != nil {
			return fmt.Errorf("inserting trade %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// ListSnapshots returns metadata for all saved snapshots, newest first.
func (s *SQLiteStore) ListSnapshots(ctx context.Context) ([]SnapshotMeta, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.name, s.created_at, s.sentiment_path, s.trades_path, s.has_start_position,
		       (SELECT COUNT(1) FROM snapshot_trades t WHERE t.snapshot_id = s.id)
		FROM snapshots s
		ORDER BY s.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	var metas []SnapshotMeta
	for rows.Next() {
		var m SnapshotMeta
		if err := rows.Scan(&m.Name, &m.CreatedAt, &m.SentimentPath, &m.TradesPath,
			&m.HasStartPosition, &m.TradeCount); err != nil {
			return nil, fmt.Errorf("scanning snapshot: %w", err)
		}
		metas = append(metas, m)
	}
	return metas, rows.Err()
}

// LoadSnapshot returns a snapshot's metadata and its trades in their
// original order. Returns errors.ErrNoSnapshot for an unknown name.
func (s *SQLiteStore) LoadSnapshot(ctx context.Context, name string) (SnapshotMeta, []models.EnrichedTrade, error) {
	var (
		id   int64
		meta SnapshotMeta
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, created_at, sentiment_path, trades_path, has_start_position
		FROM snapshots WHERE name = ?`, name).
		Scan(&id, &meta.Name, &meta.CreatedAt, &meta.SentimentPath, &meta.TradesPath, &meta.HasStartPosition)
	if err == sql.ErrNoRows {
		return SnapshotMeta{}, nil, errors.Wrapf(errors.ErrNoSnapshot, "snapshot %q", name)
	}
	if err != nil {
		return SnapshotMeta{}, nil, fmt.Errorf("loading snapshot: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT date, side, size_usd, closed_pnl, start_position, classification
		FROM snapshot_trades WHERE snapshot_id = ? ORDER BY seq`, id)
	if err != nil {
		return SnapshotMeta{}, nil, fmt.Errorf("loading snapshot trades: %w", err)
	}
	defer rows.Close()

	var trades []models.EnrichedTrade
	for rows.Next() {
		var (
			day            string
			side           string
			classification string
			startPosition  sql.NullFloat64
			t              models.EnrichedTrade
		)
		if err := rows.Scan(&day, &side, &t.SizeUSD, &t.ClosedPnL, &startPosition, &classification); err != nil {
			return SnapshotMeta{}, nil, fmt.Errorf("scanning trade: %w", err)
		}
		t.Date, err = time.ParseInLocation(dayFormat, day, time.UTC)
		if err != nil {
			return SnapshotMeta{}, nil, fmt.Errorf("parsing trade date %q: %w", day, err)
		}
		t.Side = models.TradeSide(side)
		t.Classification = models.Classification(classification)
		if startPosition.Valid {
			v := startPosition.Float64
			t.StartPosition = &v
		}
		trades = append(trades, t)
	}
	meta.TradeCount = len(trades)
	return meta, trades, rows.Err()
}

// DeleteSnapshot removes a snapshot and its trades.
func (s *SQLiteStore) DeleteSnapshot(ctx context.Context, name string) error {
	var id int64
	err := s.db.QueryRowContext(ctx, "SELECT id FROM snapshots WHERE name = ?", name).Scan(&id)
	if err == sql.ErrNoRows {
		return errors.Wrapf(errors.ErrNoSnapshot, "snapshot %q", name)
	}
	if err != nil {
		return fmt.Errorf("locating snapshot: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM snapshot_trades WHERE snapshot_id = ?", id); err != nil {
		return fmt.Errorf("deleting snapshot trades: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM snapshots WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting snapshot: %w", err)
	}
	return tx.Commit()
}
