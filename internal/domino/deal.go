package domino

import (
	"fmt"
	"math/rand"
)

// openingPriority is the order in which the first game's opening tile is
// searched for across the hands.
var openingPriority = []Tile{
	{2, 3}, {1, 1}, {2, 2}, {3, 3}, {4, 4}, {5, 5}, {6, 6}, {0, 0},
}

// Setup describes the game to deal.
type Setup struct {
	Players   int
	GameIndex int
	// MatchScores carries cumulative scores into the game. Nil means zeros.
	MatchScores []int
	// StarterSeat opens every game after the first. It is ignored for game 0.
	StarterSeat int
}

// Opening reports the automatic first play of a match, if any.
type Opening struct {
	AutoPlayed bool `json:"auto_played"`
	Seat       int  `json:"seat"`
	Tile       Tile `json:"tile"`
}

// InitializeGame shuffles a fresh set with rng and deals it.
//
// In the first game of a match the holder of the highest-priority opening
// tile plays it automatically for no score and the turn moves to the next
// seat. Later games start on an empty board with StarterSeat to move.
func InitializeGame(rng *rand.Rand, rules Rules, setup Setup) (*GameState, Opening, error) {
	n := setup.Players
	if n < MinPlayers || n > MaxPlayers {
		return nil, Opening{}, fmt.Errorf("%w: %d", ErrInvalidPlayerCount, n)
	}
	size := rules.HandSize(n)
	if size <= 0 || size*n > SetSize {
		return nil, Opening{}, fmt.Errorf("hand size %d cannot be dealt to %d players", size, n)
	}
	if setup.MatchScores != nil && len(setup.MatchScores) != n {
		return nil, Opening{}, fmt.Errorf("%w: %d match scores for %d players", ErrInvalidPlayerCount, len(setup.MatchScores), n)
	}
	if setup.GameIndex > 0 && (setup.StarterSeat < 0 || setup.StarterSeat >= n) {
		return nil, Opening{}, fmt.Errorf("%w: starter %d", ErrInvalidSeat, setup.StarterSeat)
	}

	tiles := FullSet()
	rng.Shuffle(len(tiles), func(i, j int) { tiles[i], tiles[j] = tiles[j], tiles[i] })

	hands := make([]Hand, n)
	for seat := range hands {
		hands[seat] = Hand(cloneTiles(tiles[seat*size : (seat+1)*size]))
	}
	stock := cloneTiles(tiles[n*size:])

	matchScores := make([]int, n)
	copy(matchScores, setup.MatchScores)

	state := &GameState{
		Rules:        rules,
		GameIndex:    setup.GameIndex,
		PlayerCount:  n,
		StartingSeat: setup.StarterSeat,
		Turn:         setup.StarterSeat,
		Hands:        hands,
		Stock:        stock,
		GameScores:   make([]int, n),
		MatchScores:  matchScores,
		Winner:       NoSeat,
		MatchWinner:  NoSeat,
	}
	if setup.GameIndex > 0 {
		return state, Opening{Seat: setup.StarterSeat}, nil
	}

	seat, tile := findOpening(hands)
	state.StartingSeat = seat
	state.Turn = seat
	next, _, err := ApplyPlay(state, seat, tile, SideLeft)
	if err != nil {
		return nil, Opening{}, fmt.Errorf("auto-play opening %s: %w", tile, err)
	}
	return next, Opening{AutoPlayed: true, Seat: seat, Tile: tile}, nil
}

// findOpening picks the first game's opening tile: the first priority tile
// held by any seat, scanning seats in order, else the lowest pip tile dealt.
func findOpening(hands []Hand) (int, Tile) {
	for _, want := range openingPriority {
		for seat, h := range hands {
			if h.Contains(want) {
				return seat, want
			}
		}
	}
	bestSeat, best := NoSeat, Tile{}
	for seat, h := range hands {
		for _, t := range h {
			if bestSeat == NoSeat || t.Pips() < best.Pips() {
				bestSeat, best = seat, t
			}
		}
	}
	return bestSeat, best
}
