package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog"

	"sentiment-trader/internal/errors"
	"sentiment-trader/internal/logging"
	"sentiment-trader/internal/models"
)

// startPositionColumn is the one analytic column the trade export may
// legitimately lack. Its absence disables the start-position metric
// only; everything else proceeds.
const startPositionColumn = "Start Position"

// tradeRow mirrors the analytic columns of one execution-log row.
// Timestamps are milliseconds since epoch. Identifier columns
// (Account, Transaction Hash, Order ID, Trade ID, Timestamp IST, Fee,
// Coin, Direction) are deliberately not declared: gocsv skips them and
// they never enter memory.
type tradeRow struct {
	Timestamp     int64    `csv:"Timestamp"`
	Side          string   `csv:"Side"`
	SizeUSD       float64  `csv:"Size USD"`
	ClosedPnL     float64  `csv:"Closed PnL"`
	StartPosition *float64 `csv:"Start Position"`
}

// TradeData is the loaded execution log plus schema facts downstream
// consumers need to decide which metrics are available.
type TradeData struct {
	Trades           []models.TradeRecord
	HasStartPosition bool
}

// LoadTrades parses the historical trade export, preserving source
// order. The calendar date of each trade is the UTC day of its
// millisecond timestamp, derived through the same helper the sentiment
// loader uses so the two sides of the join can never round apart.
func LoadTrades(logger zerolog.Logger, path string) (*TradeData, error) {
	start := time.Now()

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewLoadError("trades", path, errors.ErrSourceNotFound)
		}
		return nil, errors.NewLoadError("trades", path, err)
	}
	defer f.Close()

	hasStartPosition, err := headerHasColumn(f, startPositionColumn)
	if err != nil {
		return nil, errors.NewLoadError("trades", path, err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, errors.NewLoadError("trades", path, err)
	}

	var rows []tradeRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, errors.NewLoadError("trades", path, err)
	}

	trades := make([]models.TradeRecord, 0, len(rows))
	for _, row := range rows {
		trades = append(trades, models.TradeRecord{
			Date:          models.DayFromUnixMilli(row.Timestamp),
			Side:          models.TradeSide(row.Side),
			SizeUSD:       row.SizeUSD,
			ClosedPnL:     row.ClosedPnL,
			StartPosition: row.StartPosition,
		})
	}

	if !hasStartPosition {
		logger.Warn().
			Str("source", "trades").
			Str("column", startPositionColumn).
			Msg("Optional column missing, start-position metric unavailable")
	}

	logging.LogLoad(logger, "trades", path, len(trades), time.Since(start))
	return &TradeData{Trades: trades, HasStartPosition: hasStartPosition}, nil
}

// headerHasColumn reports whether the CSV header row names the column.
func headerHasColumn(r io.Reader, column string) (bool, error) {
	header, err := csv.NewReader(r).Read()
	if err == io.EOF {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	for _, name := range header {
		if name == column {
			return true, nil
		}
	}
	return false, nil
}
