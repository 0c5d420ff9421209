// Package agent contains the built-in seat strategies. Importing it
// registers them with the strategy registry.
package agent

import (
	"github.com/jh2023at0610/telefondomino/internal/domino"
	"github.com/jh2023at0610/telefondomino/internal/registry"
)

func init() {
	registry.Register("first", func() registry.Strategy { return First{} })
	registry.Register("greedy", func() registry.Strategy { return Greedy{} })
	registry.Register("blocker", func() registry.Strategy { return Blocker{} })
}

// First plays the first legal move in hand order.
type First struct{}

func (First) ID() string    { return "first" }
func (First) Title() string { return "First Fit" }

// Choose implements registry.Strategy.
func (First) Choose(view domino.SeatView) domino.Decision {
	if len(view.LegalMoves) == 0 {
		return view.Fallback()
	}
	return domino.Decision{Action: domino.ActionPlay, Move: view.LegalMoves[0]}
}

// outcome is the board and score a move would produce.
type outcome struct {
	move  domino.Move
	board domino.Board
	score int
}

// preview evaluates every legal move in view without touching it.
func preview(view domino.SeatView) []outcome {
	opening := view.Board.Mode() == domino.ModeEmpty
	out := make([]outcome, 0, len(view.LegalMoves))
	for _, m := range view.LegalMoves {
		board, _, err := view.Board.Place(m.Tile, m.Side, 0)
		if err != nil {
			continue
		}
		score := domino.ScoreBoard(board)
		if opening {
			score = domino.OpeningScore(view.Rules, view.GameIndex, m.Tile, view.MatchScores[view.Seat])
		}
		out = append(out, outcome{move: m, board: board, score: score})
	}
	return out
}

// best returns the outcome with the highest value, keeping the earliest on ties.
func best(outcomes []outcome, value func(outcome) int) (outcome, bool) {
	if len(outcomes) == 0 {
		return outcome{}, false
	}
	top, topValue := outcomes[0], value(outcomes[0])
	for _, o := range outcomes[1:] {
		if v := value(o); v > topValue {
			top, topValue = o, v
		}
	}
	return top, true
}
