package domino

import "fmt"

// PlayOutcome reports what a play did.
type PlayOutcome struct {
	Move  Move `json:"move"`
	Score int  `json:"score"`
	// Opening is set when the tile was the first of the game.
	Opening bool `json:"opening"`
	// Transitioned is set when the play locked a double.
	Transitioned bool        `json:"transitioned"`
	Result       *GameResult `json:"result,omitempty"`
}

// DrawOutcome reports the tile taken from the stock.
type DrawOutcome struct {
	Tile Tile `json:"tile"`
}

// PassOutcome reports a pass. Blocked is set when the pass sealed the game
// because nobody could move.
type PassOutcome struct {
	Blocked bool        `json:"blocked"`
	Bonus   int         `json:"bonus"`
	Result  *GameResult `json:"result,omitempty"`
}

// ApplyPlay places tile from seat's hand on side.
//
// The input state is never modified. On success the returned state reflects
// the play; on error it is nil.
func ApplyPlay(state *GameState, seat int, tile Tile, side Side) (*GameState, PlayOutcome, error) {
	if err := state.checkActor(seat); err != nil {
		return nil, PlayOutcome{}, err
	}
	if !tile.Valid() {
		return nil, PlayOutcome{}, fmt.Errorf("%w: %s", ErrInvalidTile, tile)
	}
	hand := state.Hands[seat]
	if !hand.Contains(tile) {
		return nil, PlayOutcome{}, fmt.Errorf("%w: %s", ErrTileNotInHand, tile)
	}

	opening := state.Board.Mode() == ModeEmpty
	board, transitioned, err := state.Board.Place(tile, side, state.Seq+1)
	if err != nil {
		return nil, PlayOutcome{}, err
	}

	next := state.Clone()
	next.Board = board
	next.Seq++
	next.Hands[seat] = hand.Without(tile)

	var score int
	if opening {
		score = OpeningScore(next.Rules, next.GameIndex, tile, next.MatchScores[seat])
		side = SideLeft
	} else {
		score = ScoreBoard(board)
	}
	next.GameScores[seat] += score
	next.MatchScores[seat] += score
	next.LastScore = score

	out := PlayOutcome{
		Move:         Move{Tile: tile, Side: side},
		Score:        score,
		Opening:      opening,
		Transitioned: transitioned,
	}

	if len(next.Hands[seat]) == 0 {
		res := next.seal(seat, EndWentOut)
		out.Result = &res
	} else {
		next.Turn = next.nextSeat(seat)
	}
	return next, out, nil
}

// ApplyDraw moves the head of the stock into seat's hand. Drawing is only
// allowed when seat has no legal play. The turn does not change.
func ApplyDraw(state *GameState, seat int) (*GameState, DrawOutcome, error) {
	if err := state.checkActor(seat); err != nil {
		return nil, DrawOutcome{}, err
	}
	if len(state.Stock) == 0 {
		return nil, DrawOutcome{}, ErrStockEmpty
	}
	if state.CanPlay(seat) {
		return nil, DrawOutcome{}, ErrMustPlayNotDraw
	}

	next := state.Clone()
	drawn := next.Stock[0]
	next.Stock = next.Stock[1:]
	next.Hands[seat] = append(next.Hands[seat], drawn)
	next.LastScore = 0
	return next, DrawOutcome{Tile: drawn}, nil
}

// ApplyPass gives up seat's turn. Passing is only allowed when seat has no
// legal play. When the stock is empty and no seat can play, the game is
// sealed in favour of the seat with the fewest pips.
func ApplyPass(state *GameState, seat int) (*GameState, PassOutcome, error) {
	if err := state.checkActor(seat); err != nil {
		return nil, PassOutcome{}, err
	}
	if state.CanPlay(seat) {
		return nil, PassOutcome{}, ErrMustPlayNotPass
	}

	next := state.Clone()
	next.LastScore = 0
	if next.blocked() {
		res := next.seal(LowestPipSeat(next.Hands), EndBlocked)
		next.LastScore = res.Bonus
		return next, PassOutcome{Blocked: true, Bonus: res.Bonus, Result: &res}, nil
	}
	next.Turn = next.nextSeat(seat)
	return next, PassOutcome{}, nil
}

// blocked reports whether the stock is exhausted and no seat can move.
func (s *GameState) blocked() bool {
	if len(s.Stock) > 0 {
		return false
	}
	for seat := range s.Hands {
		if s.CanPlay(seat) {
			return false
		}
	}
	return true
}
