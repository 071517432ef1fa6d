package cli

import (
	"github.com/spf13/cobra"

	"sentiment-trader/internal/analysis"
	"sentiment-trader/internal/errors"
	"sentiment-trader/internal/models"
)

// newDetailCmd is the second dashboard variant: sentiment-label and
// trade-side filters on top of the date range, a global-metrics
// header, and a focused side-distribution breakdown.
func newDetailCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detail",
		Short: "Filtered drill-down with side and sentiment selection",
		Long: `Drill into the joined dataset with the full filter set: date range,
sentiment labels and trade sides. All three predicates must hold for a
trade to be included.

The side-distribution breakdown covers the whole filtered set, or a
single sentiment via --focus.`,
		Example: `  sentiment-trader detail --sides BUY
  sentiment-trader detail --labels Fear,Greed --from 2023-01-01
  sentiment-trader detail --focus "Extreme Greed"`,
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

			if sides, _ := cmd.Flags().GetStringSlice("sides"); len(sides) > 0 {
				spec.Sides = make(map[models.TradeSide]bool, len(sides))
				for _, s := range sides {
					spec.Sides[models.TradeSide(s)] = true
				}
			}
			if labels, _ := cmd.Flags().GetStringSlice("labels"); len(labels) > 0 {
				spec.Classifications = make(map[models.Classification]bool, len(labels))
				for _, l := range labels {
					spec.Classifications[models.Classification(l)] = true
				}
			}

			filtered := analysis.Filter(ds.Trades, spec)
			globals := analysis.Globals(filtered)

			focus, _ := cmd.Flags().GetString("focus")
			focusSet := filtered
			if focus != "" {
				focusSet = filterByLabel(filtered, models.Classification(focus))
			}
			sideSplit := analysis.SideSplit(focusSet)

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"from":         FormatDate(spec.From),
					"to":           FormatDate(spec.To),
					"globals":      globals,
					"mean_pnl":     analysis.MeanPnL(filtered),
					"total_volume": analysis.TotalVolume(filtered),
					"win_rate":     analysis.WinRate(filtered),
					"focus":        focus,
					"side_split":   sideSplit,
				})
			}

			renderGlobals(output, spec, globals)
			renderGroupTable(output, filtered)
			renderFocusSplit(output, app, focus, sideSplit)

			return nil
		},
	}

	cmd.Flags().String("from", "", "start date (YYYY-MM-DD, inclusive)")
	cmd.Flags().String("to", "", "end date (YYYY-MM-DD, inclusive)")
	cmd.Flags().StringSlice("sides", nil, "trade sides to include (BUY, SELL); default all")
	cmd.Flags().StringSlice("labels", nil, "sentiment labels to include; default all")
	cmd.Flags().String("focus", "", "single sentiment for the side-distribution breakdown")

	return cmd
}

func filterByLabel(trades []models.EnrichedTrade, label models.Classification) []models.EnrichedTrade {
	out := make([]models.EnrichedTrade, 0, len(trades))
	for _, t := range trades {
		if t.Classification == label {
			out = append(out, t)
		}
	}
	return out
}

func renderGlobals(output *Output, spec analysis.FilterSpec, globals analysis.GlobalMetrics) {
	output.Bold("Filtered Summary")
	output.Printf("  Range:        %s — %s\n", FormatDate(spec.From), FormatDate(spec.To))
	output.Printf("  Trades:       %s\n", FormatCount(globals.TradeCount))
	output.Printf("  Total PnL:    %s\n", output.FormatPnL(globals.TotalPnL))
	output.Printf("  Total Volume: %s\n", FormatVolume(globals.TotalVolume))
	output.Printf("  Win Rate:     %s\n", FormatPercent(globals.WinRate))
	output.Printf("  Avg Size:     %s\n", FormatUSD(globals.AvgTradeSize))
	output.Println()
}

// renderGroupTable renders the per-classification metric table.
func renderGroupTable(output *Output, filtered []models.EnrichedTrade) {
	output.Bold("By Sentiment")
	meanPnL := analysis.MeanPnL(filtered)
	if len(meanPnL) == 0 {
		output.Info("  No trades match the current filters.")
		output.Println()
		return
	}

	volumes := rowsByLabel(analysis.TotalVolume(filtered))
	winRates := rowsByLabel(analysis.WinRate(filtered))
	splits := analysis.SideSplitByClassification(filtered)

	table := NewTable(output, "Sentiment", "Trades", "Avg PnL", "Volume", "Win Rate")
	for _, row := range meanPnL {
		_, _, count := sideTotals(splits[row.Classification])
		table.AddRow(
			string(row.Classification),
			FormatCount(count),
			output.FormatPnL(row.Value),
			FormatVolume(volumes[row.Classification]),
			FormatPercent(winRates[row.Classification]),
		)
	}
	table.Render()
	output.Println()
}

func renderFocusSplit(output *Output, app *App, focus string, sideSplit []models.SideCount) {
	if focus != "" {
		output.Bold("Buy vs. Sell — %s", focus)
	} else {
		output.Bold("Buy vs. Sell — all filtered trades")
	}

	buys, sells, total := sideTotals(sideSplit)
	if total == 0 {
		output.Info("  No data.")
		return
	}

	width := app.Config.UI.BarWidth
	buyPct := 100 * float64(buys) / float64(total)
	output.Printf("  %s\n", SplitBar(buys, sells, width))
	output.Printf("  %s %s  /  %s %s\n",
		output.Green("BUY"), FormatPercent(buyPct),
		output.Red("SELL"), FormatPercent(100-buyPct))
	for _, c := range sideSplit {
		output.Printf("  %-5s %s\n", string(c.Side), FormatCount(c.Count))
	}
}

func rowsByLabel(rows []models.SummaryRow) map[models.Classification]float64 {
	out := make(map[models.Classification]float64, len(rows))
	for _, r := range rows {
		out[r.Classification] = r.Value
	}
	return out
}
