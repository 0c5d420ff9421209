package domino

import "testing"

func linearBoard(left, right End) Board {
	return Board{Linear: &LinearLayout{
		Chain: []PlacedTile{{Tile: Tile{left.Value, right.Value}, Side: SideLeft, Seq: 1}},
		Left:  left,
		Right: right,
	}}
}

func TestScoreBoardLinear(t *testing.T) {
	tests := []struct {
		name        string
		left, right End
		expected    int
	}{
		{"3 and 1", End{Value: 3}, End{Value: 1}, 0},
		{"3 and 6", End{Value: 3}, End{Value: 6}, 0},
		{"3 and 2", End{Value: 3}, End{Value: 2}, 5},
		{"double counts twice", End{Value: 5, Double: true}, End{Value: 5}, 15},
		{"both doubles", End{Value: 6, Double: true}, End{Value: 4, Double: true}, 20},
		{"zero sum", End{Value: 0}, End{Value: 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScoreBoard(linearBoard(tt.left, tt.right)); got != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, got)
			}
		})
	}

	if got := ScoreBoard(Board{}); got != 0 {
		t.Errorf("empty board should score 0, got %d", got)
	}
}

func TestScoreBoardCross(t *testing.T) {
	b := Board{Cross: &CrossLayout{
		Anchor: PlacedTile{Tile: Tile{4, 4}, Seq: 2},
		Left:   Arm{Tiles: []PlacedTile{{Tile: Tile{4, 2}}}, End: End{Value: 2}},
		Right:  Arm{Tiles: []PlacedTile{{Tile: Tile{4, 3}}}, End: End{Value: 3}},
		Up:     Arm{End: End{Value: 4}},
		Down:   Arm{End: End{Value: 4}},
	}}
	if got := ScoreBoard(b); got != 5 {
		t.Errorf("empty up/down arms must not count, expected 5 got %d", got)
	}

	b.Cross.Up = Arm{Tiles: []PlacedTile{{Tile: Tile{4, 5}}}, End: End{Value: 5, Double: false}}
	if got := ScoreBoard(b); got != 10 {
		t.Errorf("expected 10 with up arm, got %d", got)
	}

	b.Cross.Down = Arm{Tiles: []PlacedTile{{Tile: Tile{4, 1}}}, End: End{Value: 1}}
	if got := ScoreBoard(b); got != 0 {
		t.Errorf("11 is not a multiple of five, got %d", got)
	}
}

func TestOpeningScore(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		name       string
		gameIndex  int
		tile       Tile
		matchScore int
		expected   int
	}{
		{"first game never scores", 0, Tile{5, 5}, 0, 0},
		{"first game [2|3]", 0, Tile{2, 3}, 0, 0},
		{"later game [5|5]", 2, Tile{5, 5}, 120, 10},
		{"later game [5|5] at cap", 2, Tile{5, 5}, 300, 0},
		{"later game other tile", 1, Tile{2, 3}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OpeningScore(rules, tt.gameIndex, tt.tile, tt.matchScore); got != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}
