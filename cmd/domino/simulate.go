package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/jh2023at0610/telefondomino/internal/registry"
	"github.com/jh2023at0610/telefondomino/internal/table"
)

// maxGamesPerMatch stops a runaway simulation.
const maxGamesPerMatch = 500

var (
	flagSimPlayers  int
	flagSimStrategy string
	flagSimMatches  int
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run bot-only matches",
	Long: `Seat automated players at new tables and play whole matches without a
terminal UI. Every match is stored like a human one, so 'domino history'
and 'domino moves' work on the results.

Examples:
  domino simulate
  domino simulate --players 4 --matches 20
  domino simulate --strategy blocker --seed 42 --log-level debug`,
	Run: runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagSimPlayers, "players", 0, "Number of seats, 2-4 (default from config)")
	simulateCmd.Flags().StringVar(&flagSimStrategy, "strategy", "", "Bot strategy (default from config)")
	simulateCmd.Flags().IntVar(&flagSimMatches, "matches", 1, "Number of matches to play")
}

func runSimulate(_ *cobra.Command, _ []string) {
	cfg := mustLoadConfig()
	if flagSimPlayers != 0 {
		cfg.Table.Players = flagSimPlayers
	}
	if flagSimStrategy != "" {
		cfg.Table.BotStrategy = flagSimStrategy
	}
	if !registry.Exists(cfg.Table.BotStrategy) {
		fmt.Fprintf(os.Stderr, "Error: unknown strategy %q\n", cfg.Table.BotStrategy)
		os.Exit(1)
	}

	logger := newLogger(os.Stderr)
	svc, store, err := openService(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx := context.Background()
	wins := make([]int, cfg.Table.Players)
	for i := range flagSimMatches {
		res, err := simulateMatch(ctx, svc, cfg.Table.Players, cfg.Table.BotStrategy, logger)
		if err != nil {
			store.Close()
			fmt.Fprintf(os.Stderr, "Error in match %d: %v\n", i+1, err)
			os.Exit(1)
		}
		wins[res.winner]++
		fmt.Printf("Match %d  room %s  games %d  winner seat %d  scores %s\n",
			i+1, res.room.Code, res.games, res.winner+1, joinInts(res.scores))
	}

	fmt.Println()
	fmt.Println("Wins by seat:")
	for seat, n := range wins {
		fmt.Printf("  seat %d  %d\n", seat+1, n)
	}
}

type simResult struct {
	room   table.Room
	games  int
	winner int
	scores []int
}

// simulateMatch plays one bot-only match to completion.
func simulateMatch(ctx context.Context, svc *table.Service, players int, strategy string, logger *log.Logger) (simResult, error) {
	room, err := svc.CreateRoom(ctx, players)
	if err != nil {
		return simResult{}, err
	}
	if _, err := svc.AddBots(ctx, room.ID, strategy); err != nil {
		return simResult{}, err
	}

	for games := 1; games <= maxGamesPerMatch; games++ {
		if _, err := svc.StartGame(ctx, room.ID); err != nil {
			return simResult{}, err
		}
		steps, err := svc.RunBots(ctx, room.ID)
		if err != nil {
			return simResult{}, err
		}

		v, err := svc.View(ctx, room.ID, "")
		if err != nil {
			return simResult{}, err
		}
		g := v.Game
		if !g.Finished {
			return simResult{}, fmt.Errorf("room %s: bots stopped after %d steps with the game open", room.Code, steps)
		}
		logger.Debug("game finished", "room", room.Code, "game", g.GameIndex, "steps", steps, "scores", g.MatchScores)
		if g.MatchFinished {
			return simResult{room: room, games: games, winner: g.MatchWinner, scores: g.MatchScores}, nil
		}
	}
	return simResult{}, fmt.Errorf("room %s: no winner after %d games", room.Code, maxGamesPerMatch)
}

func joinInts(vs []int) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return strings.Join(parts, "/")
}
