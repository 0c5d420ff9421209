package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jh2023at0610/telefondomino/internal/storage"
	"github.com/jh2023at0610/telefondomino/internal/table"
)

var flagMovesGame int

var movesCmd = &cobra.Command{
	Use:   "moves <room-code>",
	Short: "Show the move log of a room",
	Long: `Print every logged action of a room in the order it was applied:
openings, plays with their side and score, draws and passes.

Examples:
  domino moves K3X9QA
  domino moves K3X9QA --game 2`,
	Args: cobra.ExactArgs(1),
	Run:  runMoves,
}

func init() {
	movesCmd.Flags().IntVar(&flagMovesGame, "game", -1, "Only show this game (0-based, -1 = all)")
}

func runMoves(_ *cobra.Command, args []string) {
	cfg := mustLoadConfig()

	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx := context.Background()
	room, err := store.RoomByCode(ctx, args[0])
	if err == nil {
		var moves []table.Move
		if moves, err = store.Moves(ctx, room.ID, flagMovesGame); err == nil {
			printMoves(room, moves)
			return
		}
	}

	store.Close()
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func printMoves(room table.Room, moves []table.Move) {
	fmt.Printf("Room %s  %d players  %s  scores %s\n", room.Code, room.Players, room.Status, joinInts(room.MatchScores))
	fmt.Println()

	if len(moves) == 0 {
		fmt.Println("No moves logged.")
		return
	}

	game := -1
	for _, m := range moves {
		if m.GameIndex != game {
			game = m.GameIndex
			fmt.Printf("Game %d\n", game)
		}
		fmt.Printf("  %-4d seat %d  %-5s %s\n", m.ID, m.Seat+1, m.Kind, moveDetail(m))
	}
}

func moveDetail(m table.Move) string {
	p := m.Payload
	switch m.Kind {
	case table.MoveOpen:
		return fmt.Sprint(p.Tile)
	case table.MovePlay:
		s := fmt.Sprintf("%s %s score %d", p.Tile, p.Side, p.Score)
		if p.Transitioned {
			s += " (cross)"
		}
		if p.Bonus > 0 {
			s += fmt.Sprintf(" bonus %d", p.Bonus)
		}
		return s
	case table.MovePass:
		s := ""
		if p.AutoPass {
			s = "auto"
		}
		if p.Blocked {
			s += fmt.Sprintf(" blocked bonus %d", p.Bonus)
		}
		return s
	}
	return ""
}
