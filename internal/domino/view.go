package domino

// SeatView is what one seat is allowed to see of a game: its own hand plus
// public information about everybody else.
type SeatView struct {
	Seat        int       `json:"seat"`
	GameIndex   int       `json:"game_index"`
	PlayerCount int       `json:"player_count"`
	Turn        int       `json:"turn"`
	Hand        Hand      `json:"hand"`
	HandCounts  []int     `json:"hand_counts"`
	StockCount  int       `json:"stock_count"`
	Board       Board     `json:"board"`
	OpenEnds    []OpenEnd `json:"open_ends"`
	LegalMoves  []Move    `json:"legal_moves"`

	GameScores  []int `json:"game_scores"`
	MatchScores []int `json:"match_scores"`
	LastScore   int   `json:"last_score"`

	Finished      bool        `json:"finished"`
	Winner        int         `json:"winner"`
	Result        *GameResult `json:"result,omitempty"`
	MatchFinished bool        `json:"match_finished"`
	MatchWinner   int         `json:"match_winner"`
	Rules         Rules       `json:"rules"`
}

// ViewFor builds the sanitized view for seat. Other seats' tiles and the
// stock order are hidden.
func (s *GameState) ViewFor(seat int) SeatView {
	c := s.Clone()
	counts := make([]int, len(c.Hands))
	for i, h := range c.Hands {
		counts[i] = len(h)
	}
	v := SeatView{
		Seat:          seat,
		GameIndex:     c.GameIndex,
		PlayerCount:   c.PlayerCount,
		Turn:          c.Turn,
		HandCounts:    counts,
		StockCount:    len(c.Stock),
		Board:         c.Board,
		OpenEnds:      c.Board.OpenEnds(),
		GameScores:    c.GameScores,
		MatchScores:   c.MatchScores,
		LastScore:     c.LastScore,
		Finished:      c.Finished,
		Winner:        c.Winner,
		Result:        c.Result,
		MatchFinished: c.MatchFinished,
		MatchWinner:   c.MatchWinner,
		Rules:         c.Rules,
	}
	if seat >= 0 && seat < len(c.Hands) {
		v.Hand = c.Hands[seat]
		if !c.Finished && c.Turn == seat {
			v.LegalMoves = c.LegalMoves(seat)
		}
	}
	return v
}

// MyTurn reports whether the viewing seat is to move.
func (v SeatView) MyTurn() bool {
	return !v.Finished && v.Turn == v.Seat
}

// CanDraw reports whether the viewing seat may draw now.
func (v SeatView) CanDraw() bool {
	return v.MyTurn() && len(v.LegalMoves) == 0 && v.StockCount > 0
}

// CanPass reports whether the viewing seat may pass now.
func (v SeatView) CanPass() bool {
	return v.MyTurn() && len(v.LegalMoves) == 0
}

// Action is the kind of a turn decision.
type Action string

const (
	ActionPlay Action = "play"
	ActionDraw Action = "draw"
	ActionPass Action = "pass"
)

// Decision is a seat's chosen action. Move is only meaningful for plays.
type Decision struct {
	Action Action `json:"action"`
	Move   Move   `json:"move,omitempty"`
}

// Fallback returns the forced non-play decision for a seat with no legal
// moves: draw while the stock lasts, otherwise pass.
func (v SeatView) Fallback() Decision {
	if v.StockCount > 0 {
		return Decision{Action: ActionDraw}
	}
	return Decision{Action: ActionPass}
}

// Apply performs d on behalf of seat.
func Apply(state *GameState, seat int, d Decision) (*GameState, error) {
	var (
		next *GameState
		err  error
	)
	switch d.Action {
	case ActionPlay:
		next, _, err = ApplyPlay(state, seat, d.Move.Tile, d.Move.Side)
	case ActionDraw:
		next, _, err = ApplyDraw(state, seat)
	case ActionPass:
		next, _, err = ApplyPass(state, seat)
	default:
		return nil, ErrInvalidAction
	}
	return next, err
}
