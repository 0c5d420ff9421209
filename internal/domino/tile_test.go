package domino

import (
	"errors"
	"testing"
)

func TestFullSet(t *testing.T) {
	set := FullSet()
	if len(set) != SetSize {
		t.Fatalf("expected %d tiles, got %d", SetSize, len(set))
	}

	doubles := 0
	for i, a := range set {
		if a.A > a.B {
			t.Errorf("tile %s not normalized", a)
		}
		if a.IsDouble() {
			doubles++
		}
		for j, b := range set {
			if i != j && a.Equal(b) {
				t.Errorf("duplicate tile %s at %d and %d", a, i, j)
			}
		}
	}
	if doubles != 7 {
		t.Errorf("expected 7 doubles, got %d", doubles)
	}
}

func TestTileEqualIgnoresOrientation(t *testing.T) {
	if !NewTile(2, 5).Equal(NewTile(5, 2)) {
		t.Error("[2|5] should equal [5|2]")
	}
	if NewTile(2, 5).Equal(NewTile(2, 4)) {
		t.Error("[2|5] should not equal [2|4]")
	}
}

func TestParseTile(t *testing.T) {
	tests := []struct {
		in   string
		want Tile
		err  bool
	}{
		{in: "2-5", want: Tile{2, 5}},
		{in: "6|1", want: Tile{6, 1}},
		{in: "[0|0]", want: Tile{0, 0}},
		{in: "7-1", err: true},
		{in: "abc", err: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTile(tt.in)
			if tt.err {
				if !errors.Is(err, ErrInvalidTile) {
					t.Fatalf("expected ErrInvalidTile, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestHandWithout(t *testing.T) {
	h := Hand{{1, 2}, {3, 4}, {5, 6}}
	got := h.Without(Tile{4, 3})

	if len(got) != 2 || got.Contains(Tile{3, 4}) {
		t.Fatalf("expected [3|4] removed, got %v", got)
	}
	if len(h) != 3 {
		t.Error("Without must not modify the receiver")
	}
	if h.Pips() != 21 {
		t.Errorf("expected 21 pips, got %d", h.Pips())
	}
}
