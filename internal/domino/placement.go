package domino

import "fmt"

// Side names an open end of the board.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
	SideUp    Side = "up"
	SideDown  Side = "down"
)

// Sides lists every side in display order.
var Sides = []Side{SideLeft, SideRight, SideUp, SideDown}

// Valid reports whether s is one of the four known sides.
func (s Side) Valid() bool {
	switch s {
	case SideLeft, SideRight, SideUp, SideDown:
		return true
	}
	return false
}

// ParseSide converts user input into a Side.
func ParseSide(s string) (Side, error) {
	side := Side(s)
	switch s {
	case "l":
		side = SideLeft
	case "r":
		side = SideRight
	case "u":
		side = SideUp
	case "d":
		side = SideDown
	}
	if !side.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidSide, s)
	}
	return side, nil
}

// End is the exposed value of one open end. Double is set when the tile
// forming the end is a double, which makes the end count twice when scoring.
type End struct {
	Value  int  `json:"value"`
	Double bool `json:"double"`
}

// weight is the end's contribution to the open-end sum.
func (e End) weight() int {
	if e.Double {
		return e.Value * 2
	}
	return e.Value
}

// OpenEnd is an End together with the side it belongs to.
// Scored is false for the empty up/down arms of a cross layout.
type OpenEnd struct {
	Side   Side `json:"side"`
	End    End  `json:"end"`
	Scored bool `json:"scored"`
}

// Move is a single play: a tile and the side it goes to.
type Move struct {
	Tile Tile `json:"tile"`
	Side Side `json:"side"`
}

// ValidPlacements returns the sides among ends where tile can attach.
// With no open ends (an empty board) every tile may open the game, which is
// reported as SideLeft.
func ValidPlacements(tile Tile, ends []OpenEnd) []Side {
	if len(ends) == 0 {
		return []Side{SideLeft}
	}
	var sides []Side
	for _, e := range ends {
		if tile.Has(e.End.Value) {
			sides = append(sides, e.Side)
		}
	}
	return sides
}

// orient decides how tile attaches to an end showing value. The tile is
// flipped when its A half touches the end, leaving B exposed.
func orient(tile Tile, value int) (flipped bool, exposed int) {
	if tile.A == value {
		return true, tile.B
	}
	return false, tile.A
}
