package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jh2023at0610/telefondomino/internal/platform/tui"
	"github.com/jh2023at0610/telefondomino/internal/storage"
)

var (
	flagHistoryLimit int
	flagHistoryPlain bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show finished matches",
	Long: `Display the most recent finished matches with their winner and final
scores. On a terminal the list opens in a scrollable table; use --plain to
print it instead.

Examples:
  domino history
  domino history --limit 50
  domino history --plain`,
	Run: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 20, "Number of matches to show")
	historyCmd.Flags().BoolVar(&flagHistoryPlain, "plain", false, "Print instead of opening the table view")
}

func runHistory(_ *cobra.Command, _ []string) {
	cfg := mustLoadConfig()

	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}

	results, err := store.RecentResults(context.Background(), flagHistoryLimit)
	if err != nil {
		store.Close()
		fmt.Fprintf(os.Stderr, "Error retrieving history: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if !flagHistoryPlain && term.IsTerminal(int(os.Stdout.Fd())) {
		width, height := 80, 24 // Defaults
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width = w
			height = h
		}
		if err := tui.RunHistory(results, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return
	}

	fmt.Println("Match History")
	fmt.Println()

	if len(results) == 0 {
		fmt.Println("No matches finished yet.")
		fmt.Println()
		fmt.Println("Run 'domino play' or 'domino simulate' to finish one.")
		return
	}

	// Print header
	fmt.Printf("  %-16s  %-6s  %-16s  %-5s  %s\n", "Date", "Room", "Winner", "Games", "Scores")
	fmt.Printf("  %-16s  %-6s  %-16s  %-5s  %s\n", "----", "----", "------", "-----", "------")

	for _, r := range results {
		dateStr := r.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-16s  %-6s  %-16s  %-5d  %s\n", dateStr, r.RoomCode, r.WinnerName, r.GamesPlayed, joinInts(r.Scores))
	}
}
