// domino runs Telefon domino tables in the terminal and over SSH.
//
// Usage:
//
//	domino play              - Play a match against bots
//	domino serve             - Start SSH server for remote play
//	domino simulate          - Run bot-only matches headlessly
//	domino history           - Show finished matches
//	domino moves <code>      - Show the move log of a room
//	domino strategies        - List bot strategies
//	domino config            - Print the effective configuration
//
// Global flags:
//
//	--config <path>     - Path to a domino.yaml
//	--db <path>         - Set database path (default: ~/.domino/domino.db)
//	--seed <value>      - Set RNG seed for reproducible deals
//	--log-level <lvl>   - debug, info, warn or error
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	// Import strategies to register them
	_ "github.com/jh2023at0610/telefondomino/internal/agent"
	"github.com/jh2023at0610/telefondomino/internal/config"
	"github.com/jh2023at0610/telefondomino/internal/storage"
	"github.com/jh2023at0610/telefondomino/internal/table"
)

var (
	// Global flags
	flagConfig   string
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "domino",
	Short: "Telefon domino - play scoring dominoes in your terminal",
	Long: `Telefon is a scoring domino game for two to four players. Tiles are
laid in a line until a double gets locked in the middle, after which the
table grows into a cross with four open ends. A move scores the sum of the
open ends when it is a multiple of five; the first player to 365 wins.

Available commands:
  play        - Play a match against bots
  serve       - Start SSH server for remote play
  simulate    - Run bot-only matches
  history     - View finished matches
  moves       - View the move log of a room
  strategies  - List bot strategies
  config      - Print the effective configuration

Examples:
  domino play --players 3
  domino serve --ssh :2222
  domino simulate --matches 10 --strategy blocker
  domino moves K3X9QA --game 0`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to domino.yaml")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = use config, then time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to the database (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(movesCmd)
	rootCmd.AddCommand(strategiesCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig loads the configuration and applies the global flags.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.Config{}, err
	}
	if flagDBPath != "" {
		cfg.Storage.DBPath = flagDBPath
	}
	if flagSeed != 0 {
		cfg.Table.Seed = flagSeed
	}
	return cfg, nil
}

// mustLoadConfig loads and validates the configuration or exits.
func mustLoadConfig() config.Config {
	cfg, err := loadConfig()
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// newLogger creates the process logger writing to w.
func newLogger(w io.Writer) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "domino",
	})
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// openService opens the database and builds a table service on top of it.
func openService(cfg config.Config, logger *log.Logger) (*table.Service, *storage.Store, error) {
	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		return nil, nil, err
	}
	return table.NewService(store, tableConfig(cfg, logger)), store, nil
}

func tableConfig(cfg config.Config, logger *log.Logger) table.Config {
	return table.Config{
		Rules:    cfg.DomainRules(),
		Seed:     cfg.Table.Seed,
		AutoPass: cfg.Table.AutoPass,
		Logger:   logger,
	}
}
