// Package dataset loads the two CSV exports and joins them into the
// enriched trade set the analysis layer operates on.
package dataset

import (
	"os"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog"

	"sentiment-trader/internal/errors"
	"sentiment-trader/internal/logging"
	"sentiment-trader/internal/models"
)

// sentimentRow mirrors one row of the Fear & Greed export. Timestamps
// are whole seconds since epoch. Columns not declared here (the
// export's pre-derived date string) are ignored by gocsv.
type sentimentRow struct {
	Timestamp      int64   `csv:"timestamp"`
	Value          float64 `csv:"value"`
	Classification string  `csv:"classification"`
}

// LoadSentiment parses the Fear & Greed index export into sentiment
// records, one per row, preserving source order. The calendar date is
// the UTC day of the row timestamp.
//
// Returns a LoadError wrapping errors.ErrSourceNotFound when the file
// is absent; callers treat that as non-fatal and render a descriptive
// message instead of running the rest of the pipeline.
func LoadSentiment(logger zerolog.Logger, path string) ([]models.SentimentRecord, error) {
	start := time.Now()

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewLoadError("sentiment", path, errors.ErrSourceNotFound)
		}
		return nil, errors.NewLoadError("sentiment", path, err)
	}
	defer f.Close()

	var rows []sentimentRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, errors.NewLoadError("sentiment", path, err)
	}

	records := make([]models.SentimentRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, models.SentimentRecord{
			Date:           models.DayFromUnix(row.Timestamp),
			Classification: models.Classification(row.Classification),
			Score:          row.Value,
		})
	}

	logging.LogLoad(logger, "sentiment", path, len(records), time.Since(start))
	return records, nil
}
