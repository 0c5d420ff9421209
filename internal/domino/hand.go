package domino

// Hand is the set of tiles privately held by one seat.
type Hand []Tile

// Index returns the position of t in the hand, or -1.
func (h Hand) Index(t Tile) int {
	for i, held := range h {
		if held.Equal(t) {
			return i
		}
	}
	return -1
}

// Contains reports whether the hand holds t in either orientation.
func (h Hand) Contains(t Tile) bool {
	return h.Index(t) >= 0
}

// Without returns a copy of the hand with one instance of t removed.
func (h Hand) Without(t Tile) Hand {
	idx := h.Index(t)
	out := make(Hand, 0, len(h))
	for i, held := range h {
		if i != idx {
			out = append(out, held)
		}
	}
	return out
}

// Pips returns the pip total of all tiles in the hand.
func (h Hand) Pips() int {
	total := 0
	for _, t := range h {
		total += t.Pips()
	}
	return total
}

func (h Hand) clone() Hand {
	if h == nil {
		return nil
	}
	out := make(Hand, len(h))
	copy(out, h)
	return out
}
