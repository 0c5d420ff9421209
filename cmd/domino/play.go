package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jh2023at0610/telefondomino/internal/config"
	"github.com/jh2023at0610/telefondomino/internal/platform/tui"
	"github.com/jh2023at0610/telefondomino/internal/registry"
	"github.com/jh2023at0610/telefondomino/internal/storage"
	"github.com/jh2023at0610/telefondomino/internal/table"
)

var (
	flagPlayers    int
	flagStrategy   string
	flagDifficulty string
	flagName       string
	flagMemory     bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a match against bots",
	Long: `Sit down at a new table and play a match against automated players.

Controls:
  Left/Right  - Select a tile
  Tab         - Cycle the side when a tile fits several ends
  Enter       - Play the selected tile
  D           - Draw from the stock
  P           - Pass
  N           - Deal the next game
  Q/Ctrl+C    - Quit

Difficulty options:
  easy   - First Fit bots, slow pacing
  normal - Greedy bots
  hard   - Blocker bots, fast pacing

Examples:
  domino play
  domino play --players 4 --difficulty hard
  domino play --strategy first --memory`,
	Run: runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagPlayers, "players", 0, "Number of seats, 2-4 (default from config)")
	playCmd.Flags().StringVar(&flagStrategy, "strategy", "", "Bot strategy (see 'domino strategies')")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	playCmd.Flags().StringVar(&flagName, "name", "", "Your nickname (default: $USER)")
	playCmd.Flags().BoolVar(&flagMemory, "memory", false, "Do not persist the match")
}

func runPlay(_ *cobra.Command, _ []string) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: play needs an interactive terminal")
		os.Exit(1)
	}

	cfg := mustLoadConfig()
	if flagDifficulty != "" {
		config.ApplyPreset(&cfg, config.DifficultyPreset(flagDifficulty))
	}
	if flagPlayers != 0 {
		cfg.Table.Players = flagPlayers
	}
	if flagStrategy != "" {
		cfg.Table.BotStrategy = flagStrategy
	}
	if !registry.Exists(cfg.Table.BotStrategy) {
		fmt.Fprintf(os.Stderr, "Error: unknown strategy %q\n", cfg.Table.BotStrategy)
		fmt.Fprintln(os.Stderr, "Run 'domino strategies' to see available strategies.")
		os.Exit(1)
	}

	name := flagName
	if name == "" {
		name = os.Getenv("USER")
	}
	if name == "" {
		name = "Player"
	}
	userID := "local-" + name

	// Logging would draw over the alternate screen.
	logger := log.New(io.Discard)

	var repo table.Repository = table.NewMemoryRepository()
	var store *storage.Store
	if !flagMemory {
		var err error
		store, err = storage.Open(cfg.Storage.DBPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
			os.Exit(1)
		}
		repo = store
	}
	svc := table.NewService(repo, tableConfig(cfg, logger))

	ctx := context.Background()
	room, err := tui.NewBotTable(ctx, svc, cfg.Table.Players, userID, name, cfg.Table.BotStrategy)
	if err == nil {
		err = tui.Run(ctx, svc, room.ID, userID, tui.Options{
			BotDelay:  cfg.BotDelay(),
			DriveBots: true,
		})
	}

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running table: %v\n", err)
		os.Exit(1)
	}

	if !flagMemory {
		fmt.Printf("Room %s saved. Replay it with 'domino moves %s'.\n", room.Code, room.Code)
	}
}
