package domino

import (
	"errors"
	"math/rand"
	"testing"
)

// playGame drives a game to completion, picking a random legal move each
// turn. It checks tile conservation and topology rules along the way.
func playGame(t *testing.T, rng *rand.Rand, state *GameState) *GameState {
	t.Helper()

	transitions := 0
	lastSeq := state.Seq
	for steps := 0; !state.Finished; steps++ {
		if steps > 500 {
			t.Fatal("game did not terminate")
		}

		seat := state.Turn
		moves := state.LegalMoves(seat)
		wasCross := state.Board.Mode() == ModeCross

		var err error
		switch {
		case len(moves) > 0:
			m := moves[rng.Intn(len(moves))]
			var out PlayOutcome
			state, out, err = ApplyPlay(state, seat, m.Tile, m.Side)
			if err == nil {
				if out.Transitioned {
					transitions++
				}
				if state.Seq != lastSeq+1 {
					t.Fatalf("sequence jumped from %d to %d", lastSeq, state.Seq)
				}
				lastSeq = state.Seq
			}
		case len(state.Stock) > 0:
			state, _, err = ApplyDraw(state, seat)
		default:
			state, _, err = ApplyPass(state, seat)
		}
		if err != nil {
			t.Fatalf("seat %d: %v", seat, err)
		}

		if state.TileCount() != SetSize {
			t.Fatalf("tile count %d after step %d", state.TileCount(), steps)
		}
		if wasCross && state.Board.Mode() != ModeCross {
			t.Fatal("cross layout reverted")
		}
		if state.Board.Linear != nil && state.Board.Cross != nil {
			t.Fatal("both layouts set")
		}
	}
	if transitions > 1 {
		t.Fatalf("%d transitions in one game", transitions)
	}
	return state
}

func TestRandomMatchesPlayOut(t *testing.T) {
	for _, players := range []int{2, 3, 4} {
		for seed := int64(1); seed <= 5; seed++ {
			rng := rand.New(rand.NewSource(seed))
			m, err := NewMatch(DefaultRules(), players)
			if err != nil {
				t.Fatal(err)
			}

			for !m.Finished {
				if m.GamesPlayed > 500 {
					t.Fatalf("players=%d seed=%d: match did not finish", players, seed)
				}
				state, _, err := m.NextGame(rng)
				if err != nil {
					t.Fatal(err)
				}
				if m.GamesPlayed > 0 && state.Turn != m.LastWinner {
					t.Fatalf("game %d should start with last winner %d, got %d", m.GamesPlayed, m.LastWinner, state.Turn)
				}
				final := playGame(t, rng, state)
				if err := m.Record(final); err != nil {
					t.Fatal(err)
				}
			}

			if m.Winner == NoSeat || m.Scores[m.Winner] < m.Rules.MatchTarget {
				t.Errorf("players=%d seed=%d: bad match winner %d scores=%v", players, seed, m.Winner, m.Scores)
			}
			if len(m.History) != m.GamesPlayed {
				t.Errorf("history has %d games, played %d", len(m.History), m.GamesPlayed)
			}
			if _, _, err := m.NextGame(rng); !errors.Is(err, ErrMatchFinished) {
				t.Errorf("expected ErrMatchFinished, got %v", err)
			}
		}
	}
}

func TestMatchRecordRejectsUnfinishedGame(t *testing.T) {
	m, err := NewMatch(DefaultRules(), 2)
	if err != nil {
		t.Fatal(err)
	}
	state, _, err := m.NextGame(rand.New(rand.NewSource(3)))
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Record(state); !errors.Is(err, ErrGameInProgress) {
		t.Errorf("expected ErrGameInProgress, got %v", err)
	}
	if _, err := NewMatch(DefaultRules(), 1); !errors.Is(err, ErrInvalidPlayerCount) {
		t.Errorf("expected ErrInvalidPlayerCount, got %v", err)
	}
}

func TestApplyDecision(t *testing.T) {
	state := newTestState(
		linearBoard(End{Value: 3}, End{Value: 4}),
		[]Tile{{0, 1}},
		Hand{{6, 6}},
		Hand{{3, 3}},
	)

	v := state.ViewFor(0)
	next, err := Apply(state, 0, v.Fallback())
	if err != nil {
		t.Fatal(err)
	}
	if len(next.Hands[0]) != 2 {
		t.Error("fallback with stock left should draw")
	}

	if _, err := Apply(state, 0, Decision{Action: "juggle"}); !errors.Is(err, ErrInvalidAction) {
		t.Errorf("expected ErrInvalidAction, got %v", err)
	}
}
