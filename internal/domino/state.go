package domino

import "fmt"

// NoSeat marks an unset seat reference such as a missing winner.
const NoSeat = -1

// EndReason explains why a game was sealed.
type EndReason string

const (
	EndWentOut EndReason = "went_out"
	EndBlocked EndReason = "blocked"
)

// GameResult describes a sealed game.
type GameResult struct {
	Winner   int       `json:"winner"`
	Reason   EndReason `json:"reason"`
	RawBonus int       `json:"raw_bonus"`
	Bonus    int       `json:"bonus"`

	GameScores  []int `json:"game_scores"`
	MatchScores []int `json:"match_scores"`

	MatchFinished bool `json:"match_finished"`
	MatchWinner   int  `json:"match_winner"`
}

// GameState is the complete state of one game within a match.
type GameState struct {
	Rules        Rules `json:"rules"`
	GameIndex    int   `json:"game_index"`
	PlayerCount  int   `json:"player_count"`
	StartingSeat int   `json:"starting_seat"`
	Turn         int   `json:"turn"`

	Board Board  `json:"board"`
	Hands []Hand `json:"hands"`
	Stock []Tile `json:"stock"`
	// Seq is the sequence number of the last placed tile.
	Seq int `json:"seq"`

	GameScores  []int `json:"game_scores"`
	MatchScores []int `json:"match_scores"`
	LastScore   int   `json:"last_score"`

	Finished bool        `json:"finished"`
	Winner   int         `json:"winner"`
	Result   *GameResult `json:"result,omitempty"`

	MatchFinished bool `json:"match_finished"`
	MatchWinner   int  `json:"match_winner"`
}

// Clone returns a deep copy of the state.
func (s *GameState) Clone() *GameState {
	out := *s
	out.Board = s.Board.Clone()
	out.Hands = make([]Hand, len(s.Hands))
	for i, h := range s.Hands {
		out.Hands[i] = h.clone()
	}
	out.Stock = cloneTiles(s.Stock)
	out.GameScores = cloneInts(s.GameScores)
	out.MatchScores = cloneInts(s.MatchScores)
	if s.Result != nil {
		r := *s.Result
		r.GameScores = cloneInts(s.Result.GameScores)
		r.MatchScores = cloneInts(s.Result.MatchScores)
		out.Result = &r
	}
	return &out
}

// LegalMoves lists every play available to seat, in hand order.
func (s *GameState) LegalMoves(seat int) []Move {
	if seat < 0 || seat >= len(s.Hands) {
		return nil
	}
	ends := s.Board.OpenEnds()
	var moves []Move
	for _, t := range s.Hands[seat] {
		for _, side := range ValidPlacements(t, ends) {
			moves = append(moves, Move{Tile: t, Side: side})
		}
	}
	return moves
}

// CanPlay reports whether seat holds at least one playable tile.
func (s *GameState) CanPlay(seat int) bool {
	if seat < 0 || seat >= len(s.Hands) {
		return false
	}
	ends := s.Board.OpenEnds()
	for _, t := range s.Hands[seat] {
		if len(ValidPlacements(t, ends)) > 0 {
			return true
		}
	}
	return false
}

// TileCount returns the number of tiles in hands, stock and on the board.
// It is always SetSize for a well-formed state.
func (s *GameState) TileCount() int {
	n := len(s.Stock) + s.Board.TileCount()
	for _, h := range s.Hands {
		n += len(h)
	}
	return n
}

// checkActor validates that seat may act now.
func (s *GameState) checkActor(seat int) error {
	if s.Finished {
		return ErrGameAlreadyFinished
	}
	if seat < 0 || seat >= s.PlayerCount {
		return fmt.Errorf("%w: %d", ErrInvalidSeat, seat)
	}
	if s.Turn != seat {
		return fmt.Errorf("%w: seat %d, turn is seat %d", ErrNotPlayerTurn, seat, s.Turn)
	}
	return nil
}

// nextSeat returns the seat after seat in turn order.
func (s *GameState) nextSeat(seat int) int {
	return (seat + 1) % s.PlayerCount
}

func cloneInts(v []int) []int {
	if v == nil {
		return nil
	}
	out := make([]int, len(v))
	copy(out, v)
	return out
}

func cloneTiles(v []Tile) []Tile {
	if v == nil {
		return nil
	}
	out := make([]Tile, len(v))
	copy(out, v)
	return out
}
