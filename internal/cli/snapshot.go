package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"sentiment-trader/internal/analysis"
	"sentiment-trader/internal/errors"
	"sentiment-trader/internal/store"
)

// newSnapshotCmd manages persisted snapshots of the enriched dataset.
func newSnapshotCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Save and inspect enriched-dataset snapshots",
		Long: `Persist the joined dataset to a local SQLite database so it can be
re-inspected later without the source CSV files.`,
	}

	cmd.AddCommand(newSnapshotSaveCmd(app))
	cmd.AddCommand(newSnapshotListCmd(app))
	cmd.AddCommand(newSnapshotShowCmd(app))
	cmd.AddCommand(newSnapshotDeleteCmd(app))

	return cmd
}

func (app *App) requireStore(output *Output) bool {
	if app.Store == nil {
		output.Error("Snapshot store unavailable (database failed to open).")
		return false
	}
	return true
}

func newSnapshotSaveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "save <name>",
		Short: "Save the current enriched dataset under a name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if !app.requireStore(output) {
				return errors.ErrNoSnapshot
			}

			ds, ok := app.loadDataset(cmd, output)
			if !ok {
				return errors.ErrSourceNotFound
			}

			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()

			meta := store.SnapshotMeta{
				Name:             args[0],
				CreatedAt:        time.Now().UTC(),
				SentimentPath:    ds.SentimentPath,
				TradesPath:       ds.TradesPath,
				HasStartPosition: ds.HasStartPosition,
			}
			if err := app.Store.SaveSnapshot(ctx, meta, ds.Trades); err != nil {
				output.Error("Failed to save snapshot: %v", err)
				return err
			}

			app.Logger.Info().
				Str("snapshot", args[0]).
				Int("trades", len(ds.Trades)).
				Msg("Snapshot saved")

			if output.IsJSON() {
				meta.TradeCount = len(ds.Trades)
				return output.JSON(meta)
			}
			output.Success("Snapshot %q saved (%s trades)", args[0], FormatCount(len(ds.Trades)))
			return nil
		},
	}
}

func newSnapshotListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved snapshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if !app.requireStore(output) {
				return errors.ErrNoSnapshot
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			metas, err := app.Store.ListSnapshots(ctx)
			if err != nil {
				output.Error("Failed to list snapshots: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(metas)
			}
			if len(metas) == 0 {
				output.Info("No snapshots saved.")
				return nil
			}

			table := NewTable(output, "Name", "Created", "Trades", "Sources")
			for _, m := range metas {
				table.AddRow(
					m.Name,
					m.CreatedAt.UTC().Format("02-Jan-2006 15:04"),
					FormatCount(m.TradeCount),
					m.TradesPath,
				)
			}
			table.Render()
			return nil
		},
	}
}

func newSnapshotShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show the global metrics of a saved snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if !app.requireStore(output) {
				return errors.ErrNoSnapshot
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			meta, trades, err := app.Store.LoadSnapshot(ctx, args[0])
			if err != nil {
				output.Error("Failed to load snapshot: %v", err)
				return err
			}

			globals := analysis.Globals(trades)

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"meta":     meta,
					"globals":  globals,
					"mean_pnl": analysis.MeanPnL(trades),
					"win_rate": analysis.WinRate(trades),
				})
			}

			output.Bold("Snapshot %q", meta.Name)
			output.Printf("  Created:  %s\n", meta.CreatedAt.UTC().Format("02-Jan-2006 15:04"))
			output.Printf("  Sources:  %s + %s\n", meta.SentimentPath, meta.TradesPath)
			output.Println()
			output.Printf("  Trades:       %s\n", FormatCount(globals.TradeCount))
			output.Printf("  Total PnL:    %s\n", output.FormatPnL(globals.TotalPnL))
			output.Printf("  Total Volume: %s\n", FormatVolume(globals.TotalVolume))
			output.Printf("  Win Rate:     %s\n", FormatPercent(globals.WinRate))
			return nil
		},
	}
}

func newSnapshotDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a saved snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if !app.requireStore(output) {
				return errors.ErrNoSnapshot
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if err := app.Store.DeleteSnapshot(ctx, args[0]); err != nil {
				output.Error("Failed to delete snapshot: %v", err)
				return err
			}
			output.Success("Snapshot %q deleted", args[0])
			return nil
		},
	}
}
