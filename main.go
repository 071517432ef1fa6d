package main

import (
	"fmt"
	"os"

	"sentiment-trader/internal/cli"
	"sentiment-trader/internal/config"
	"sentiment-trader/internal/logging"
)

func main() {
	cfg, err := config.Load(os.Getenv("SENTIMENT_TRADER_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logCfg := logging.DefaultLogConfig()
	logCfg.Level = cfg.Logging.Level
	logCfg.Console = cfg.Logging.Console
	logCfg.File = cfg.Logging.File
	logger := logging.NewLoggerWithConfig(logCfg)

	rootCmd := cli.NewRootCmd(cfg, logger)
	if err := rootCmd.Execute(); err != nil {
		logger.Debug().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
