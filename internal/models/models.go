// Package models provides domain models for the sentiment analysis pipeline.
package models

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// TradeSide represents the side of an executed trade.
type TradeSide string

const (
	SideBuy  TradeSide = "BUY"
	SideSell TradeSide = "SELL"
)

// AllSides returns the full trade-side domain.
func AllSides() []TradeSide {
	return []TradeSide{SideBuy, SideSell}
}

// Classification is a daily market-mood label from the Fear & Greed index.
// The label set is open: the source may introduce new labels at any time.
type Classification string

// Labels observed in the Fear & Greed export. ClassificationUnknown is
// the sentinel bucket for trades whose date has no sentiment record.
const (
	ExtremeFear           Classification = "Extreme Fear"
	Fear                  Classification = "Fear"
	Neutral               Classification = "Neutral"
	Greed                 Classification = "Greed"
	ExtremeGreed          Classification = "Extreme Greed"
	ClassificationUnknown Classification = "Unknown"
)

// Day truncates a timestamp to its UTC calendar date. Both CSV loaders
// derive join dates through this single helper so a trade and a
// sentiment record from the same real-world day can never land on
// different keys.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DayFromUnix converts whole seconds since epoch to a UTC calendar date.
func DayFromUnix(sec int64) time.Time {
	return Day(time.Unix(sec, 0))
}

// DayFromUnixMilli converts milliseconds since epoch to a UTC calendar date.
func DayFromUnixMilli(ms int64) time.Time {
	return Day(time.UnixMilli(ms))
}

// SentimentRecord is one day of the Fear & Greed index.
type SentimentRecord struct {
	Date           time.Time
	Classification Classification
	Score          float64
}

// TradeRecord is one execution from the historical trade log.
// Identifier and bookkeeping columns (account, hashes, order/trade IDs,
// fees, coin symbol, raw timestamps) carry no analytic value and are
// never loaded into memory.
type TradeRecord struct {
	Date          time.Time
	Side          TradeSide
	SizeUSD       float64
	ClosedPnL     float64
	StartPosition *float64
}

// EnrichedTrade is a TradeRecord joined with the sentiment label of its
// calendar date. Trades with no matching sentiment day carry
// ClassificationUnknown so they are never silently dropped from totals.
type EnrichedTrade struct {
	TradeRecord
	Classification Classification
}

// SummaryRow is one grouped metric value produced by the aggregator.
type SummaryRow struct {
	Classification Classification `json:"classification"`
	Value          float64        `json:"value"`
}

// MarshalJSON encodes NaN and infinite values as null. Undefined
// metrics over empty groups are a defined edge case, not an encoding
// failure.
func (r SummaryRow) MarshalJSON() ([]byte, error) {
	value := "null"
	if !math.IsNaN(r.Value) && !math.IsInf(r.Value, 0) {
		value = strconv.FormatFloat(r.Value, 'f', -1, 64)
	}
	return []byte(fmt.Sprintf(`{"classification":%q,"value":%s}`, string(r.Classification), value)), nil
}

// SideCount holds per-side trade counts for the buy/sell split view.
type SideCount struct {
	Side  TradeSide `json:"side"`
	Count int       `json:"count"`
}
