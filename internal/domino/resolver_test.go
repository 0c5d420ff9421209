package domino

import (
	"errors"
	"reflect"
	"testing"
)

// newTestState builds a two-seat game in its second game on a board with
// the given ends.
func newTestState(board Board, stock []Tile, hands ...Hand) *GameState {
	n := len(hands)
	return &GameState{
		Rules:       DefaultRules(),
		GameIndex:   1,
		PlayerCount: n,
		Turn:        0,
		Board:       board,
		Hands:       hands,
		Stock:       stock,
		Seq:         board.TileCount(),
		GameScores:  make([]int, n),
		MatchScores: make([]int, n),
		Winner:      NoSeat,
		MatchWinner: NoSeat,
	}
}

func TestApplyPlayScores(t *testing.T) {
	state := newTestState(
		linearBoard(End{Value: 3}, End{Value: 4}),
		[]Tile{{0, 0}},
		Hand{{4, 1}, {4, 6}, {4, 2}},
		Hand{{6, 6}},
	)

	tests := []struct {
		tile  Tile
		right int
		score int
	}{
		{Tile{4, 1}, 1, 0},
		{Tile{4, 6}, 6, 0},
		{Tile{4, 2}, 2, 5},
	}

	for _, tt := range tests {
		t.Run(tt.tile.String(), func(t *testing.T) {
			next, out, err := ApplyPlay(state, 0, tt.tile, SideRight)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if next.Board.Linear.Right.Value != tt.right {
				t.Errorf("expected right end %d, got %d", tt.right, next.Board.Linear.Right.Value)
			}
			if out.Score != tt.score || next.LastScore != tt.score {
				t.Errorf("expected score %d, got %d (last %d)", tt.score, out.Score, next.LastScore)
			}
			if next.GameScores[0] != tt.score || next.MatchScores[0] != tt.score {
				t.Errorf("score not credited: game=%v match=%v", next.GameScores, next.MatchScores)
			}
			if next.Turn != 1 {
				t.Errorf("expected turn to pass to seat 1, got %d", next.Turn)
			}
			if len(next.Hands[0]) != 2 || next.Hands[0].Contains(tt.tile) {
				t.Errorf("tile not removed from hand: %v", next.Hands[0])
			}
		})
	}
}

func TestApplyPlayFirstGameOpeningScoresNothing(t *testing.T) {
	state := newTestState(Board{}, nil, Hand{{2, 3}, {1, 1}}, Hand{{4, 4}})
	state.GameIndex = 0

	next, out, err := ApplyPlay(state, 0, Tile{2, 3}, SideRight)
	if err != nil {
		t.Fatal(err)
	}
	if out.Score != 0 || !out.Opening {
		t.Errorf("expected silent opening, got %+v", out)
	}
	if out.Move.Side != SideLeft || next.Board.Linear.Chain[0].Side != SideLeft {
		t.Error("opening tile should be recorded on the left")
	}
}

func TestApplyPlayOpeningDoubleFive(t *testing.T) {
	state := newTestState(Board{}, nil, Hand{{5, 5}, {1, 1}}, Hand{{4, 4}})
	state.MatchScores = []int{120, 80}

	next, out, err := ApplyPlay(state, 0, Tile{5, 5}, SideLeft)
	if err != nil {
		t.Fatal(err)
	}
	if out.Score != 10 || next.MatchScores[0] != 130 {
		t.Errorf("expected 10 for [5|5] opening, got %d (match %d)", out.Score, next.MatchScores[0])
	}
}

func TestApplyPlayGoingOut(t *testing.T) {
	state := newTestState(
		linearBoard(End{Value: 2}, End{Value: 3}),
		nil,
		Hand{{3, 4}},
		Hand{{6, 6}, {1, 0}},
	)

	next, out, err := ApplyPlay(state, 0, Tile{3, 4}, SideRight)
	if err != nil {
		t.Fatal(err)
	}
	if out.Result == nil || !next.Finished || next.Winner != 0 {
		t.Fatalf("expected seat 0 to win, got %+v", out)
	}
	if out.Result.Reason != EndWentOut || out.Result.RawBonus != 15 || out.Result.Bonus != 15 {
		t.Errorf("unexpected result: %+v", out.Result)
	}
	if next.MatchScores[0] != 15 || next.GameScores[0] != 15 {
		t.Errorf("bonus not credited: %v %v", next.GameScores, next.MatchScores)
	}
	if next.Turn != 0 {
		t.Error("turn must not advance once the game is sealed")
	}
	if next.MatchFinished {
		t.Error("match should continue")
	}

	if _, _, err := ApplyPlay(next, 0, Tile{6, 6}, SideLeft); !errors.Is(err, ErrGameAlreadyFinished) {
		t.Errorf("expected ErrGameAlreadyFinished, got %v", err)
	}
}

func TestApplyPlayEndsMatch(t *testing.T) {
	state := newTestState(
		linearBoard(End{Value: 1}, End{Value: 3}),
		nil,
		Hand{{3, 4}},
		Hand{{6, 6}},
	)
	state.MatchScores = []int{360, 200}

	next, out, err := ApplyPlay(state, 0, Tile{3, 4}, SideRight)
	if err != nil {
		t.Fatal(err)
	}
	if out.Score != 5 {
		t.Fatalf("expected 5 for ends 1+4, got %d", out.Score)
	}
	if out.Result.Bonus != 0 {
		t.Errorf("seat above the cap earns no bonus, got %d", out.Result.Bonus)
	}
	if !next.MatchFinished || next.MatchWinner != 0 || next.MatchScores[0] != 365 {
		t.Errorf("expected seat 0 to win the match at 365, got %+v", next.Result)
	}
}

func TestApplyPlayErrors(t *testing.T) {
	state := newTestState(
		linearBoard(End{Value: 3}, End{Value: 4}),
		[]Tile{{0, 0}},
		Hand{{4, 1}, {6, 6}},
		Hand{{3, 3}},
	)
	finished := state.Clone()
	finished.Finished = true

	tests := []struct {
		name  string
		state *GameState
		seat  int
		tile  Tile
		side  Side
		want  error
	}{
		{"finished", finished, 0, Tile{4, 1}, SideRight, ErrGameAlreadyFinished},
		{"seat out of range", state, 5, Tile{4, 1}, SideRight, ErrInvalidSeat},
		{"not your turn", state, 1, Tile{3, 3}, SideLeft, ErrNotPlayerTurn},
		{"tile not held", state, 0, Tile{3, 3}, SideLeft, ErrTileNotInHand},
		{"pip mismatch", state, 0, Tile{6, 6}, SideLeft, ErrIllegalPlacement},
		{"wrong side", state, 0, Tile{4, 1}, SideLeft, ErrIllegalPlacement},
		{"up on linear", state, 0, Tile{4, 1}, SideUp, ErrIllegalPlacement},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, _, err := ApplyPlay(tt.state, tt.seat, tt.tile, tt.side)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if next != nil {
				t.Error("expected nil state on error")
			}
		})
	}
}

func TestApplyDraw(t *testing.T) {
	state := newTestState(
		linearBoard(End{Value: 3}, End{Value: 4}),
		[]Tile{{0, 1}, {5, 5}},
		Hand{{6, 6}},
		Hand{{3, 3}},
	)

	next, out, err := ApplyDraw(state, 0)
	if err != nil {
		t.Fatal(err)
	}
	if out.Tile != (Tile{0, 1}) {
		t.Errorf("expected to draw the stock head [0|1], got %s", out.Tile)
	}
	if len(next.Stock) != 1 || len(next.Hands[0]) != 2 {
		t.Errorf("unexpected stock/hand sizes: %d/%d", len(next.Stock), len(next.Hands[0]))
	}
	if next.Turn != 0 || next.LastScore != 0 {
		t.Errorf("draw must keep the turn and reset last score, got turn=%d last=%d", next.Turn, next.LastScore)
	}
	if next.TileCount() != state.TileCount() {
		t.Error("draw must conserve tiles")
	}
}

func TestApplyDrawErrors(t *testing.T) {
	canPlay := newTestState(linearBoard(End{Value: 3}, End{Value: 4}), []Tile{{0, 1}}, Hand{{4, 4}}, Hand{{3, 3}})
	noStock := newTestState(linearBoard(End{Value: 3}, End{Value: 4}), nil, Hand{{4, 4}}, Hand{{3, 3}})

	tests := []struct {
		name  string
		state *GameState
		seat  int
		want  error
	}{
		{"must play", canPlay, 0, ErrMustPlayNotDraw},
		{"stock empty", noStock, 0, ErrStockEmpty},
		{"not your turn", canPlay, 1, ErrNotPlayerTurn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := ApplyDraw(tt.state, tt.seat); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestApplyPassAdvancesTurn(t *testing.T) {
	state := newTestState(
		linearBoard(End{Value: 3}, End{Value: 4}),
		[]Tile{{0, 1}},
		Hand{{6, 6}},
		Hand{{3, 3}},
	)

	next, out, err := ApplyPass(state, 0)
	if err != nil {
		t.Fatal(err)
	}
	if out.Blocked || next.Finished || next.Turn != 1 {
		t.Errorf("expected ordinary pass, got %+v turn=%d", out, next.Turn)
	}

	if _, _, err := ApplyPass(next, 1); !errors.Is(err, ErrMustPlayNotPass) {
		t.Errorf("expected ErrMustPlayNotPass, got %v", err)
	}
}

func TestApplyPassBlockedTable(t *testing.T) {
	board := linearBoard(End{Value: 0}, End{Value: 3})

	tests := []struct {
		name        string
		matchScores []int
		bonus       int
	}{
		{"full bonus", []int{0, 0}, 25},
		{"capped bonus", []int{290, 0}, 10},
		{"above cap", []int{310, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := newTestState(board, nil, Hand{{1, 2}}, Hand{{6, 6}, {5, 4}})
			state.MatchScores = tt.matchScores

			next, out, err := ApplyPass(state, 0)
			if err != nil {
				t.Fatal(err)
			}
			if !out.Blocked || !next.Finished || next.Winner != 0 {
				t.Fatalf("expected blocked table won by seat 0, got %+v", out)
			}
			if out.Result.Reason != EndBlocked || out.Result.RawBonus != 25 {
				t.Errorf("unexpected result: %+v", out.Result)
			}
			if out.Bonus != tt.bonus || next.LastScore != tt.bonus {
				t.Errorf("expected bonus %d, got %d (last %d)", tt.bonus, out.Bonus, next.LastScore)
			}
			if next.MatchScores[0] != tt.matchScores[0]+tt.bonus {
				t.Errorf("unexpected match score %d", next.MatchScores[0])
			}
		})
	}
}

func TestResolverDoesNotMutateInput(t *testing.T) {
	state := newTestState(
		linearBoard(End{Value: 3}, End{Value: 4}),
		[]Tile{{0, 1}},
		Hand{{4, 2}, {5, 5}},
		Hand{{6, 6}},
	)
	before := state.Clone()

	if _, _, err := ApplyPlay(state, 0, Tile{4, 2}, SideRight); err != nil {
		t.Fatal(err)
	}
	if _, _, err := ApplyPlay(state, 0, Tile{5, 5}, SideRight); err == nil {
		t.Fatal("expected illegal placement")
	}
	if !reflect.DeepEqual(state, before) {
		t.Error("ApplyPlay modified its input")
	}

	state.Turn = 1
	before = state.Clone()
	if _, _, err := ApplyDraw(state, 1); err != nil {
		t.Fatal(err)
	}
	if _, _, err := ApplyPass(state, 1); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(state, before) {
		t.Error("ApplyDraw/ApplyPass modified their input")
	}
}

func TestViewForHidesOtherHands(t *testing.T) {
	state := newTestState(
		linearBoard(End{Value: 3}, End{Value: 4}),
		[]Tile{{0, 1}, {2, 2}},
		Hand{{4, 2}, {5, 5}},
		Hand{{6, 6}},
	)

	v := state.ViewFor(1)
	if len(v.Hand) != 1 || !v.Hand.Contains(Tile{6, 6}) {
		t.Errorf("expected own hand only, got %v", v.Hand)
	}
	if !reflect.DeepEqual(v.HandCounts, []int{2, 1}) || v.StockCount != 2 {
		t.Errorf("unexpected public counts: %v stock=%d", v.HandCounts, v.StockCount)
	}
	if v.MyTurn() || len(v.LegalMoves) != 0 {
		t.Error("seat 1 is not to move")
	}

	v0 := state.ViewFor(0)
	if !v0.MyTurn() || len(v0.LegalMoves) != 1 || v0.CanDraw() {
		t.Errorf("seat 0 should have exactly one legal move, got %+v", v0.LegalMoves)
	}
}
