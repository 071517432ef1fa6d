package dataset

import (
	"sync"

	"github.com/rs/zerolog"

	"sentiment-trader/internal/logging"
	"sentiment-trader/internal/models"
)

// Cache memoizes the loaded and joined dataset keyed by the identity
// of the two source paths. The sources are treated as immutable for
// the process lifetime: there is no expiry and no invalidation, and a
// fresh process run is the only way to pick up changed files. Load
// errors are not cached, so a missing file can be fixed and retried
// within one process.
type Cache struct {
	mu      sync.Mutex
	entries map[cacheKey]*Dataset
}

type cacheKey struct {
	sentimentPath string
	tradesPath    string
}

// NewCache creates an empty dataset cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[cacheKey]*Dataset)}
}

// Load returns the enriched dataset for the given source pair, loading
// and joining on first use and reusing the result thereafter.
func (c *Cache) Load(logger zerolog.Logger, sentimentPath, tradesPath string) (*Dataset, error) {
	key := cacheKey{sentimentPath: sentimentPath, tradesPath: tradesPath}

	c.mu.Lock()
	defer c.mu.Unlock()

	if ds, ok := c.entries[key]; ok {
		logger.Debug().
			Str("sentiment", sentimentPath).
			Str("trades", tradesPath).
			Msg("Dataset cache hit")
		return ds, nil
	}

	sentiments, err := LoadSentiment(logger, sentimentPath)
	if err != nil {
		return nil, err
	}
	tradeData, err := LoadTrades(logger, tradesPath)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{
		Trades:           Join(tradeData.Trades, sentiments),
		HasStartPosition: tradeData.HasStartPosition,
		SentimentPath:    sentimentPath,
		TradesPath:       tradesPath,
	}
	c.entries[key] = ds

	logging.LogJoin(logger, len(ds.Trades), countDistinctDays(sentiments), ds.Unmatched())
	return ds, nil
}

// Len returns the number of memoized source pairs.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func countDistinctDays(sentiments []models.SentimentRecord) int {
	days := make(map[int64]struct{}, len(sentiments))
	for _, s := range sentiments {
		days[s.Date.Unix()] = struct{}{}
	}
	return len(days)
}
