package domino

import (
	"fmt"
	"math/rand"
)

// Match tracks cumulative scores across the games of a match.
type Match struct {
	Rules       Rules        `json:"rules"`
	Players     int          `json:"players"`
	Scores      []int        `json:"scores"`
	GamesPlayed int          `json:"games_played"`
	LastWinner  int          `json:"last_winner"`
	Finished    bool         `json:"finished"`
	Winner      int          `json:"winner"`
	History     []GameResult `json:"history,omitempty"`
}

// NewMatch creates a match with zero scores.
func NewMatch(rules Rules, players int) (*Match, error) {
	if players < MinPlayers || players > MaxPlayers {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPlayerCount, players)
	}
	return &Match{
		Rules:      rules,
		Players:    players,
		Scores:     make([]int, players),
		LastWinner: NoSeat,
		Winner:     NoSeat,
	}, nil
}

// NextGame deals the next game of the match.
func (m *Match) NextGame(rng *rand.Rand) (*GameState, Opening, error) {
	if m.Finished {
		return nil, Opening{}, ErrMatchFinished
	}
	starter := m.LastWinner
	if starter == NoSeat {
		starter = 0
	}
	return InitializeGame(rng, m.Rules, Setup{
		Players:     m.Players,
		GameIndex:   m.GamesPlayed,
		MatchScores: m.Scores,
		StarterSeat: starter,
	})
}

// Record folds a sealed game into the match.
func (m *Match) Record(state *GameState) error {
	if !state.Finished || state.Result == nil {
		return ErrGameInProgress
	}
	if state.GameIndex != m.GamesPlayed {
		return fmt.Errorf("game %d recorded out of order, expected %d", state.GameIndex, m.GamesPlayed)
	}
	m.Scores = cloneInts(state.MatchScores)
	m.GamesPlayed++
	m.LastWinner = state.Winner
	m.Finished = state.MatchFinished
	m.Winner = state.MatchWinner
	m.History = append(m.History, *state.Result)
	return nil
}
