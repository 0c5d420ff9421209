// Package domino implements the rules of Telefon, a multiplayer scoring
// domino game played as a match of successive games.
//
// The package is pure: it performs no I/O, keeps no global state and never
// mutates the values passed to it. Every entry point returns a new GameState.
package domino

import "fmt"

// MaxPip is the highest pip value of a double-six set.
const MaxPip = 6

// SetSize is the number of unique tiles in a double-six set.
const SetSize = 28

// Tile is an unordered pair of pip values. [2|5] and [5|2] are the same tile.
type Tile struct {
	A int `json:"a"`
	B int `json:"b"`
}

// NewTile creates a tile from two pip values.
func NewTile(a, b int) Tile {
	return Tile{A: a, B: b}
}

// Valid reports whether both pips are within [0, MaxPip].
func (t Tile) Valid() bool {
	return t.A >= 0 && t.A <= MaxPip && t.B >= 0 && t.B <= MaxPip
}

// IsDouble reports whether both halves carry the same value.
func (t Tile) IsDouble() bool {
	return t.A == t.B
}

// Pips returns the total pip count of the tile.
func (t Tile) Pips() int {
	return t.A + t.B
}

// Has reports whether either half shows v.
func (t Tile) Has(v int) bool {
	return t.A == v || t.B == v
}

// Equal compares two tiles regardless of orientation.
func (t Tile) Equal(o Tile) bool {
	return (t.A == o.A && t.B == o.B) || (t.A == o.B && t.B == o.A)
}

// Normalize returns the tile with the smaller pip first.
func (t Tile) Normalize() Tile {
	if t.A > t.B {
		return Tile{A: t.B, B: t.A}
	}
	return t
}

// String renders the tile as [a|b].
func (t Tile) String() string {
	return fmt.Sprintf("[%d|%d]", t.A, t.B)
}

// ParseTile parses "a-b", "a|b" or "[a|b]".
func ParseTile(s string) (Tile, error) {
	var a, b int
	for _, format := range []string{"[%d|%d]", "%d|%d", "%d-%d"} {
		if n, err := fmt.Sscanf(s, format, &a, &b); err == nil && n == 2 {
			t := Tile{A: a, B: b}
			if !t.Valid() {
				return Tile{}, fmt.Errorf("%w: %q", ErrInvalidTile, s)
			}
			return t, nil
		}
	}
	return Tile{}, fmt.Errorf("%w: %q", ErrInvalidTile, s)
}

// FullSet returns the 28 tiles of a double-six set with A <= B.
func FullSet() []Tile {
	tiles := make([]Tile, 0, SetSize)
	for a := 0; a <= MaxPip; a++ {
		for b := a; b <= MaxPip; b++ {
			tiles = append(tiles, Tile{A: a, B: b})
		}
	}
	return tiles
}
