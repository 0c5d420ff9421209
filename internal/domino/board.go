package domino

import "fmt"

// Mode is the board topology.
type Mode int

const (
	ModeEmpty Mode = iota
	ModeLinear
	ModeCross
)

// String returns a human-readable name for the mode.
func (m Mode) String() string {
	switch m {
	case ModeEmpty:
		return "empty"
	case ModeLinear:
		return "linear"
	case ModeCross:
		return "cross"
	default:
		return "unknown"
	}
}

// PlacedTile is a tile on the board.
type PlacedTile struct {
	Tile Tile `json:"tile"`
	Side Side `json:"side"`
	// Seq orders placements within a game. The opening tile has Seq 1.
	Seq int `json:"seq"`
	// Flipped is set when the A half touches the neighbour, exposing B.
	Flipped bool `json:"flipped"`
}

// LinearLayout is a two-ended chain. Chain[0] is the left extremity.
type LinearLayout struct {
	Chain []PlacedTile `json:"chain"`
	Left  End          `json:"left"`
	Right End          `json:"right"`
}

// Arm is one direction of a cross layout, ordered from the anchor outward.
type Arm struct {
	Tiles []PlacedTile `json:"tiles"`
	End   End          `json:"end"`
}

// CrossLayout is the four-armed layout that exists once a double is locked.
type CrossLayout struct {
	Anchor PlacedTile `json:"anchor"`
	Left   Arm        `json:"left"`
	Right  Arm        `json:"right"`
	Up     Arm        `json:"up"`
	Down   Arm        `json:"down"`
}

// arm returns the arm for side, or nil for an unknown side.
func (c *CrossLayout) arm(side Side) *Arm {
	switch side {
	case SideLeft:
		return &c.Left
	case SideRight:
		return &c.Right
	case SideUp:
		return &c.Up
	case SideDown:
		return &c.Down
	}
	return nil
}

// Board is the shared playing surface. At most one layout is set; with
// neither set the board is empty.
type Board struct {
	Linear *LinearLayout `json:"linear,omitempty"`
	Cross  *CrossLayout  `json:"cross,omitempty"`
}

// Mode reports the current topology.
func (b Board) Mode() Mode {
	switch {
	case b.Cross != nil:
		return ModeCross
	case b.Linear != nil:
		return ModeLinear
	default:
		return ModeEmpty
	}
}

// OpenEnds lists the ends a tile may attach to. An empty board has none.
func (b Board) OpenEnds() []OpenEnd {
	switch b.Mode() {
	case ModeLinear:
		return []OpenEnd{
			{Side: SideLeft, End: b.Linear.Left, Scored: true},
			{Side: SideRight, End: b.Linear.Right, Scored: true},
		}
	case ModeCross:
		c := b.Cross
		return []OpenEnd{
			{Side: SideLeft, End: c.Left.End, Scored: true},
			{Side: SideRight, End: c.Right.End, Scored: true},
			{Side: SideUp, End: c.Up.End, Scored: len(c.Up.Tiles) > 0},
			{Side: SideDown, End: c.Down.End, Scored: len(c.Down.Tiles) > 0},
		}
	}
	return nil
}

// Tiles returns every placed tile ordered by placement sequence.
func (b Board) Tiles() []PlacedTile {
	var out []PlacedTile
	switch b.Mode() {
	case ModeLinear:
		out = append(out, b.Linear.Chain...)
	case ModeCross:
		c := b.Cross
		out = append(out, c.Anchor)
		out = append(out, c.Left.Tiles...)
		out = append(out, c.Right.Tiles...)
		out = append(out, c.Up.Tiles...)
		out = append(out, c.Down.Tiles...)
	}
	// Insertion sort; boards hold at most 28 tiles.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Seq < out[j-1].Seq; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// TileCount returns the number of tiles on the board.
func (b Board) TileCount() int {
	switch b.Mode() {
	case ModeLinear:
		return len(b.Linear.Chain)
	case ModeCross:
		c := b.Cross
		return 1 + len(c.Left.Tiles) + len(c.Right.Tiles) + len(c.Up.Tiles) + len(c.Down.Tiles)
	}
	return 0
}

// Clone returns a deep copy of the board.
func (b Board) Clone() Board {
	var out Board
	if b.Linear != nil {
		l := *b.Linear
		l.Chain = clonePlaced(b.Linear.Chain)
		out.Linear = &l
	}
	if b.Cross != nil {
		c := *b.Cross
		c.Left.Tiles = clonePlaced(b.Cross.Left.Tiles)
		c.Right.Tiles = clonePlaced(b.Cross.Right.Tiles)
		c.Up.Tiles = clonePlaced(b.Cross.Up.Tiles)
		c.Down.Tiles = clonePlaced(b.Cross.Down.Tiles)
		out.Cross = &c
	}
	return out
}

func clonePlaced(tiles []PlacedTile) []PlacedTile {
	if tiles == nil {
		return nil
	}
	out := make([]PlacedTile, len(tiles))
	copy(out, tiles)
	return out
}

// Place attaches tile to side and returns the resulting board. The receiver
// is left untouched. transitioned is true when the play locked a double and
// turned the linear chain into a cross.
//
// On an empty board the tile opens the game regardless of side and is
// recorded as SideLeft.
func (b Board) Place(tile Tile, side Side, seq int) (next Board, transitioned bool, err error) {
	if !side.Valid() {
		return Board{}, false, fmt.Errorf("%w: %q", ErrInvalidSide, side)
	}

	next = b.Clone()
	switch next.Mode() {
	case ModeEmpty:
		next.Linear = &LinearLayout{
			Chain: []PlacedTile{{Tile: tile, Side: SideLeft, Seq: seq}},
			Left:  End{Value: tile.A, Double: tile.IsDouble()},
			Right: End{Value: tile.B, Double: tile.IsDouble()},
		}
		return next, false, nil

	case ModeLinear:
		l := next.Linear
		var end *End
		switch side {
		case SideLeft:
			end = &l.Left
		case SideRight:
			end = &l.Right
		default:
			return Board{}, false, fmt.Errorf("%w: %s is not open on a linear board", ErrIllegalPlacement, side)
		}
		if !tile.Has(end.Value) {
			return Board{}, false, fmt.Errorf("%w: %s does not match %s end %d", ErrIllegalPlacement, tile, side, end.Value)
		}
		flipped, exposed := orient(tile, end.Value)
		placed := PlacedTile{Tile: tile, Side: side, Seq: seq, Flipped: flipped}
		if side == SideLeft {
			l.Chain = append([]PlacedTile{placed}, l.Chain...)
		} else {
			l.Chain = append(l.Chain, placed)
		}
		*end = End{Value: exposed, Double: tile.IsDouble()}

		if idx := lockedDouble(l.Chain); idx >= 0 {
			next.Cross = toCross(l, idx)
			next.Linear = nil
			return next, true, nil
		}
		return next, false, nil

	default:
		a := next.Cross.arm(side)
		if !tile.Has(a.End.Value) {
			return Board{}, false, fmt.Errorf("%w: %s does not match %s end %d", ErrIllegalPlacement, tile, side, a.End.Value)
		}
		flipped, exposed := orient(tile, a.End.Value)
		a.Tiles = append(a.Tiles, PlacedTile{Tile: tile, Side: side, Seq: seq, Flipped: flipped})
		a.End = End{Value: exposed, Double: tile.IsDouble()}
		return next, false, nil
	}
}

// lockedDouble returns the index of the first double with at least one tile
// on each side of it, or -1.
func lockedDouble(chain []PlacedTile) int {
	for i := 1; i < len(chain)-1; i++ {
		if chain[i].Tile.IsDouble() {
			return i
		}
	}
	return -1
}

// toCross splits the chain around the double at idx. The left arm is the
// left remainder reversed so that it reads from the anchor outward.
func toCross(l *LinearLayout, idx int) *CrossLayout {
	anchor := l.Chain[idx]
	pip := anchor.Tile.A

	left := make([]PlacedTile, 0, idx)
	for i := idx - 1; i >= 0; i-- {
		left = append(left, l.Chain[i])
	}
	right := clonePlaced(l.Chain[idx+1:])

	return &CrossLayout{
		Anchor: anchor,
		Left:   Arm{Tiles: left, End: outerEnd(left, l.Left, pip)},
		Right:  Arm{Tiles: right, End: outerEnd(right, l.Right, pip)},
		Up:     Arm{End: End{Value: pip}},
		Down:   Arm{End: End{Value: pip}},
	}
}

// outerEnd is the exposed end of an arm: the linear end it inherits when the
// arm has tiles, otherwise the anchor pip.
func outerEnd(tiles []PlacedTile, inherited End, pip int) End {
	if len(tiles) == 0 {
		return End{Value: pip}
	}
	return inherited
}
