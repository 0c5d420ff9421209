package agent

import "github.com/jh2023at0610/telefondomino/internal/domino"

// Greedy takes the highest immediate score. Among equal scores it sheds the
// heaviest tile, so fewer pips are left for an opponent's bonus.
type Greedy struct{}

func (Greedy) ID() string    { return "greedy" }
func (Greedy) Title() string { return "Greedy" }

// Choose implements registry.Strategy.
func (Greedy) Choose(view domino.SeatView) domino.Decision {
	o, ok := best(preview(view), func(o outcome) int {
		return o.score*100 + o.move.Tile.Pips()
	})
	if !ok {
		return view.Fallback()
	}
	return domino.Decision{Action: domino.ActionPlay, Move: o.move}
}

// Blocker scores like Greedy but also values keeping its own hand playable:
// it prefers boards whose open ends it can still follow next turn.
type Blocker struct{}

func (Blocker) ID() string    { return "blocker" }
func (Blocker) Title() string { return "Blocker" }

// Choose implements registry.Strategy.
func (Blocker) Choose(view domino.SeatView) domino.Decision {
	o, ok := best(preview(view), func(o outcome) int {
		rest := view.Hand.Without(o.move.Tile)
		follow := 0
		ends := o.board.OpenEnds()
		for _, t := range rest {
			if len(domino.ValidPlacements(t, ends)) > 0 {
				follow++
			}
		}
		return o.score*100 + follow*10 + o.move.Tile.Pips()
	})
	if !ok {
		return view.Fallback()
	}
	return domino.Decision{Action: domino.ActionPlay, Move: o.move}
}
