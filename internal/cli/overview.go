package cli

import (
	"math"
	"sort"

	"github.com/spf13/cobra"

	"sentiment-trader/internal/analysis"
	"sentiment-trader/internal/dataset"
	"sentiment-trader/internal/errors"
	"sentiment-trader/internal/models"
)

// newOverviewCmd is the first dashboard variant: the five classic
// views grouped by sentiment, with an optional date-range filter.
func newOverviewCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "overview",
		Short: "Sentiment dashboard: PnL, volume, win rate and more by market mood",
		Long: `Render the five classic views over the joined dataset, grouped by
Fear & Greed classification:

  1. Average closed PnL
  2. Total trade volume (USD)
  3. Buy vs. sell split
  4. Percentage of profitable trades
  5. Average start position

Trades on days without a sentiment record appear under "Unknown".`,
		Example: `  sentiment-trader overview
  sentiment-trader overview --from 2023-01-01 --to 2023-06-30
  sentiment-trader overview --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			ds, ok := app.loadDataset(cmd, output)
			if !ok {
				return errors.ErrSourceNotFound
			}

			spec, err := dateRangeSpec(cmd, ds)
			if err != nil {
				output.Error("%v", err)
				return err
			}

			filtered := analysis.Filter(ds.Trades, spec)

			meanPnL := analysis.MeanPnL(filtered)
			totalVolume := analysis.TotalVolume(filtered)
			winRate := analysis.WinRate(filtered)
			sideSplits := analysis.SideSplitByClassification(filtered)
			startPosition, startPosErr := analysis.MeanStartPosition(filtered, ds.HasStartPosition)

			if output.IsJSON() {
				payload := map[string]interface{}{
					"from":         FormatDate(spec.From),
					"to":           FormatDate(spec.To),
					"trade_count":  len(filtered),
					"mean_pnl":     meanPnL,
					"total_volume": totalVolume,
					"win_rate":     winRate,
					"side_split":   sideSplits,
				}
				if startPosErr == nil {
					payload["mean_start_position"] = startPosition
				}
				return output.JSON(payload)
			}

			renderDatasetHeader(output, ds, filtered)

			renderSummaryBars(output, app, "1. Average Closed PnL by Sentiment", meanPnL, signedBarFormatter(output))
			renderSummaryBars(output, app, "2. Total Trade Volume (USD) by Sentiment", totalVolume, volumeBarFormatter)
			renderSideSplits(output, app, filtered, sideSplits)
			renderSummaryBars(output, app, "4. Percentage of Profitable Trades by Sentiment", winRate, percentBarFormatter)

			output.Bold("5. Average Start Position by Sentiment")
			if startPosErr != nil {
				output.Warning("  Skipped: %v", startPosErr)
				output.Println()
			} else {
				renderRows(output, app, startPosition, FormatQuantity)
			}

			return nil
		},
	}

	cmd.Flags().String("from", "", "start date (YYYY-MM-DD, inclusive)")
	cmd.Flags().String("to", "", "end date (YYYY-MM-DD, inclusive)")

	return cmd
}

// dateRangeSpec builds the full-domain filter for a dataset and
// narrows its date range from --from/--to flags when given.
func dateRangeSpec(cmd *cobra.Command, ds *dataset.Dataset) (analysis.FilterSpec, error) {
	spec := analysis.NewFilterSpec(ds)

	if v, _ := cmd.Flags().GetString("from"); v != "" {
		from, err := ParseDate(v)
		if err != nil {
			return analysis.FilterSpec{}, err
		}
		spec.From = from
	}
	if v, _ := cmd.Flags().GetString("to"); v != "" {
		to, err := ParseDate(v)
		if err != nil {
			return analysis.FilterSpec{}, err
		}
		spec.To = to
	}
	return spec, nil
}

func renderDatasetHeader(output *Output, ds *dataset.Dataset, filtered []models.EnrichedTrade) {
	output.Bold("Trader Sentiment Analysis")
	min, max, ok := ds.Span()
	if ok {
		output.Printf("  Data span:  %s — %s\n", FormatDate(min), FormatDate(max))
	}
	output.Printf("  Trades:     %s loaded, %s in range\n",
		FormatCount(len(ds.Trades)), FormatCount(len(filtered)))
	if n := ds.Unmatched(); n > 0 {
		output.Dim("  %s trades have no sentiment record (shown as Unknown)", FormatCount(n))
	}
	output.Println()
}

// renderSummaryBars renders one grouped metric as a labeled bar chart
// scaled to the largest absolute value.
func renderSummaryBars(output *Output, app *App, title string, rows []models.SummaryRow, format func(float64) string) {
	output.Bold("%s", title)
	if len(rows) == 0 {
		output.Info("  No sentiment data available for the selected range.")
		output.Println()
		return
	}

	maxAbs := 0.0
	for _, r := range rows {
		if !math.IsNaN(r.Value) && math.Abs(r.Value) > maxAbs {
			maxAbs = math.Abs(r.Value)
		}
	}

	width := app.Config.UI.BarWidth
	for _, r := range rows {
		bar := Bar(math.Abs(r.Value), maxAbs, width)
		if r.Value >= 0 {
			bar = output.Green(bar)
		} else {
			bar = output.Red(bar)
		}
		output.Printf("  %-14s %s %s\n", string(r.Classification), bar, format(r.Value))
	}
	output.Println()
}

// renderRows renders a grouped metric as a plain table.
func renderRows(output *Output, app *App, rows []models.SummaryRow, format func(float64) string) {
	if len(rows) == 0 {
		output.Info("  No sentiment data available for the selected range.")
		output.Println()
		return
	}
	table := NewTable(output, "Sentiment", "Value")
	for _, r := range rows {
		table.AddRow(string(r.Classification), format(r.Value))
	}
	table.Render()
	output.Println()
}

// renderSideSplits renders the buy/sell proportion per classification.
func renderSideSplits(output *Output, app *App, filtered []models.EnrichedTrade, splits map[models.Classification][]models.SideCount) {
	output.Bold("3. Buy vs. Sell Split by Sentiment")
	if len(splits) == 0 {
		output.Info("  No sentiment data available for the selected range.")
		output.Println()
		return
	}

	labels := make([]models.Classification, 0, len(splits))
	for label := range splits {
		labels = append(labels, label)
	}
	sortLabels(labels)

	width := app.Config.UI.BarWidth
	for _, label := range labels {
		buys, sells, total := sideTotals(splits[label])
		if total == 0 {
			output.Printf("  %-14s no data\n", string(label))
			continue
		}
		buyPct := 100 * float64(buys) / float64(total)
		output.Printf("  %-14s %s %s BUY / %s SELL\n",
			string(label),
			SplitBar(buys, sells, width),
			FormatPercent(buyPct),
			FormatPercent(100-buyPct),
		)
	}
	output.Println()
}

func sideTotals(counts []models.SideCount) (buys, sells, total int) {
	for _, c := range counts {
		total += c.Count
		switch c.Side {
		case models.SideBuy:
			buys += c.Count
		case models.SideSell:
			sells += c.Count
		}
	}
	return buys, sells, total
}

func sortLabels(labels []models.Classification) {
	sort.Slice(labels, func(i, j int) bool {
		return dataset.LabelLess(labels[i], labels[j])
	})
}

func signedBarFormatter(output *Output) func(float64) string {
	return func(v float64) string {
		return output.FormatPnL(v)
	}
}

func volumeBarFormatter(v float64) string {
	return FormatVolume(v)
}

func percentBarFormatter(v float64) string {
	return FormatPercent(v)
}
