package domino

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"
)

func TestInitializeGameDeal(t *testing.T) {
	tests := []struct {
		players  int
		handSize int
	}{
		{2, 7},
		{3, 5},
		{4, 5},
	}

	for _, tt := range tests {
		for seed := int64(1); seed <= 25; seed++ {
			state, opening, err := InitializeGame(rand.New(rand.NewSource(seed)), DefaultRules(), Setup{Players: tt.players})
			if err != nil {
				t.Fatalf("players=%d seed=%d: %v", tt.players, seed, err)
			}
			if state.TileCount() != SetSize {
				t.Fatalf("players=%d seed=%d: tile count %d", tt.players, seed, state.TileCount())
			}
			if !opening.AutoPlayed || state.Board.TileCount() != 1 {
				t.Fatalf("first game must auto-play the opening tile")
			}
			for seat, h := range state.Hands {
				want := tt.handSize
				if seat == opening.Seat {
					want--
				}
				if len(h) != want {
					t.Errorf("seat %d holds %d tiles, want %d", seat, len(h), want)
				}
			}
			if state.Turn != (opening.Seat+1)%tt.players {
				t.Errorf("turn should pass to the seat after the opener, got %d", state.Turn)
			}
			if state.LastScore != 0 || state.MatchScores[opening.Seat] != 0 {
				t.Error("first game opening must not score")
			}
		}
	}
}

func TestInitializeGameOpeningPriority(t *testing.T) {
	for seed := int64(1); seed <= 50; seed++ {
		state, opening, err := InitializeGame(rand.New(rand.NewSource(seed)), DefaultRules(), Setup{Players: 2})
		if err != nil {
			t.Fatal(err)
		}
		if !state.Board.Linear.Chain[0].Tile.Equal(opening.Tile) {
			t.Fatalf("board does not hold the opening tile %s", opening.Tile)
		}

		// No seat may hold a tile ranked above the one that opened.
		for _, want := range openingPriority {
			if want.Equal(opening.Tile) {
				break
			}
			for seat, h := range state.Hands {
				if h.Contains(want) {
					t.Errorf("seed %d: seat %d holds %s which outranks %s", seed, seat, want, opening.Tile)
				}
			}
		}
	}
}

func TestFindOpeningFallback(t *testing.T) {
	hands := []Hand{
		{{0, 4}, {5, 6}},
		{{0, 1}, {3, 4}},
	}
	seat, tile := findOpening(hands)
	if seat != 1 || tile != (Tile{0, 1}) {
		t.Errorf("expected seat 1 with [0|1], got seat %d %s", seat, tile)
	}

	hands[1] = append(hands[1], Tile{6, 6})
	hands[0] = append(hands[0], Tile{3, 2})
	seat, tile = findOpening(hands)
	if seat != 0 || !tile.Equal(Tile{2, 3}) {
		t.Errorf("[2|3] outranks every double, got seat %d %s", seat, tile)
	}
}

func TestInitializeGameLaterGame(t *testing.T) {
	state, opening, err := InitializeGame(rand.New(rand.NewSource(7)), DefaultRules(), Setup{
		Players:     3,
		GameIndex:   2,
		MatchScores: []int{40, 85, 10},
		StarterSeat: 2,
	})
	if err != nil {
		t.Fatal(err)
	}
	if opening.AutoPlayed || state.Board.Mode() != ModeEmpty {
		t.Error("later games start on an empty board")
	}
	if state.Turn != 2 || state.StartingSeat != 2 {
		t.Errorf("expected seat 2 to start, got %d", state.Turn)
	}
	if !reflect.DeepEqual(state.MatchScores, []int{40, 85, 10}) {
		t.Errorf("match scores not carried: %v", state.MatchScores)
	}
	if state.TileCount() != SetSize || len(state.Stock) != SetSize-15 {
		t.Errorf("unexpected deal: stock=%d", len(state.Stock))
	}

	// The starter may open with any tile.
	tile := state.Hands[2][0]
	if _, _, err := ApplyPlay(state, 2, tile, SideDown); err != nil {
		t.Errorf("starter should open freely: %v", err)
	}
}

func TestInitializeGameDeterministic(t *testing.T) {
	a, _, err := InitializeGame(rand.New(rand.NewSource(99)), DefaultRules(), Setup{Players: 4})
	if err != nil {
		t.Fatal(err)
	}
	b, _, err := InitializeGame(rand.New(rand.NewSource(99)), DefaultRules(), Setup{Players: 4})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed produced different games")
	}
}

func TestInitializeGameInvalidSetup(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for _, players := range []int{0, 1, 5} {
		if _, _, err := InitializeGame(rng, DefaultRules(), Setup{Players: players}); !errors.Is(err, ErrInvalidPlayerCount) {
			t.Errorf("players=%d: expected ErrInvalidPlayerCount, got %v", players, err)
		}
	}
	if _, _, err := InitializeGame(rng, DefaultRules(), Setup{Players: 2, GameIndex: 1, StarterSeat: 3}); !errors.Is(err, ErrInvalidSeat) {
		t.Errorf("expected ErrInvalidSeat, got %v", err)
	}
}
