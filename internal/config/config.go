// Package config provides configuration management for the dashboard CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Data    DataConfig    `mapstructure:"data"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// DataConfig holds the locations of the static CSV exports and the
// local snapshot database.
type DataConfig struct {
	SentimentCSV string `mapstructure:"sentiment_csv"`
	TradesCSV    string `mapstructure:"trades_csv"`
	SnapshotDB   string `mapstructure:"snapshot_db"`
}

// UIConfig holds UI-related configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	DateFormat   string `mapstructure:"date_format"`
	BarWidth     int    `mapstructure:"bar_width"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
	File    bool   `mapstructure:"file"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/sentiment-trader"
	}
	return filepath.Join(home, ".config", "sentiment-trader")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	v.SetDefault("data.sentiment_csv", "csv_files/fear_greed_index.csv")
	v.SetDefault("data.trades_csv", "csv_files/historical_data.csv")
	v.SetDefault("data.snapshot_db", filepath.Join(configDir, "snapshots.db"))
	v.SetDefault("ui.color_enabled", true)
	v.SetDefault("ui.date_format", "02-Jan-2006")
	v.SetDefault("ui.bar_width", 30)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", false)
	v.SetDefault("logging.file", true)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("loading config.toml: %w", err)
		}
		if err := createTemplateConfig(configDir); err != nil {
			return nil, fmt.Errorf("creating config template: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SENTIMENT_CSV"); v != "" {
		cfg.Data.SentimentCSV = v
	}
	if v := os.Getenv("TRADES_CSV"); v != "" {
		cfg.Data.TradesCSV = v
	}
	if v := os.Getenv("SNAPSHOT_DB"); v != "" {
		cfg.Data.SnapshotDB = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Data.SentimentCSV == "" {
		return fmt.Errorf("data.sentiment_csv must not be empty")
	}
	if c.Data.TradesCSV == "" {
		return fmt.Errorf("data.trades_csv must not be empty")
	}
	if c.UI.BarWidth < 10 || c.UI.BarWidth > 200 {
		return fmt.Errorf("ui.bar_width must be between 10 and 200")
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging level: %s", c.Logging.Level)
	}
	return nil
}

const configTemplate = `# Sentiment Trader Configuration

[data]
# Fear & Greed index export (columns: timestamp, value, classification)
sentiment_csv = "csv_files/fear_greed_index.csv"
# Historical trade execution export
trades_csv = "csv_files/historical_data.csv"
# Local snapshot database
# snapshot_db = "~/.config/sentiment-trader/snapshots.db"

[ui]
# Enable colored output
color_enabled = true
# Date format
date_format = "02-Jan-2006"
# Width of rendered bar charts in characters
bar_width = 30

[logging]
# Log level: debug, info, warn, error
level = "info"
# Log to console (stderr)
console = false
# Log to rotating file
file = true
`

func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}
	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return os.WriteFile(path, []byte(configTemplate), 0644)
}
