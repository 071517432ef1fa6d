package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"sentiment-trader/internal/config"
	"sentiment-trader/internal/dataset"
	"sentiment-trader/internal/logging"
	"sentiment-trader/internal/store"
)

// Version information
const (
	Version = "0.2.0"
)

// App holds the application dependencies.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	Cache  *dataset.Cache
	Store  *store.SQLiteStore
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
		Cache:  dataset.NewCache(),
	}

	snapshotStore, err := store.NewSQLiteStore(cfg.Data.SnapshotDB)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize snapshot store, snapshot commands unavailable")
	} else {
		app.Store = snapshotStore
		logger.Debug().Str("path", cfg.Data.SnapshotDB).Msg("Snapshot store initialized")
	}

	rootCmd := &cobra.Command{
		Use:   "sentiment-trader",
		Short: "Fear & Greed vs. trade history dashboards",
		Long: `Sentiment Trader merges the daily Fear & Greed index with a trader's
historical execution log and renders descriptive dashboards in the
terminal: average PnL, volume, win rate, buy/sell split and position
size, sliced by market sentiment.

Use 'sentiment-trader overview' for the classic five-chart view and
'sentiment-trader detail' for filtered drill-downs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().String("sentiment", "", "override sentiment CSV path")
	rootCmd.PersistentFlags().String("trades", "", "override trades CSV path")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newOverviewCmd(app))
	rootCmd.AddCommand(newDetailCmd(app))
	rootCmd.AddCommand(newSnapshotCmd(app))

	return rootCmd
}

// sourcePaths resolves the CSV paths for a command invocation,
// preferring flag overrides over config.
func (app *App) sourcePaths(cmd *cobra.Command) (sentimentPath, tradesPath string) {
	sentimentPath = app.Config.Data.SentimentCSV
	tradesPath = app.Config.Data.TradesCSV
	if v, _ := cmd.Flags().GetString("sentiment"); v != "" {
		sentimentPath = v
	}
	if v, _ := cmd.Flags().GetString("trades"); v != "" {
		tradesPath = v
	}
	return sentimentPath, tradesPath
}

// loadDataset loads (or reuses) the enriched dataset for a command,
// rendering the boundary error itself so callers only see success.
func (app *App) loadDataset(cmd *cobra.Command, output *Output) (*dataset.Dataset, bool) {
	sentimentPath, tradesPath := app.sourcePaths(cmd)
	ds, err := app.Cache.Load(app.Logger, sentimentPath, tradesPath)
	if err != nil {
		output.Error("Failed to load data: %v", err)
		output.Dim("Ensure both CSV exports exist, or set paths in config.toml.")
		return nil, false
	}
	return ds, true
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"version": Version})
			} else {
				output.Printf("Sentiment Trader v%s\n", Version)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			output.Bold("Data Sources")
			output.Printf("  Sentiment CSV: %s\n", app.Config.Data.SentimentCSV)
			output.Printf("  Trades CSV:    %s\n", app.Config.Data.TradesCSV)
			output.Printf("  Snapshot DB:   %s\n", app.Config.Data.SnapshotDB)
			output.Println()
			output.Bold("UI")
			output.Printf("  Color:       %v\n", app.Config.UI.ColorEnabled)
			output.Printf("  Date format: %s\n", app.Config.UI.DateFormat)
			output.Printf("  Bar width:   %d\n", app.Config.UI.BarWidth)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]bool{"valid": true})
			}
			output.Success("Configuration is valid")
			return nil
		},
	})

	return cmd
}
