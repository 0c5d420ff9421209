package domino

// EndSum is the weighted sum of the board's open ends. Doubles count twice
// and the up/down arms of a cross only count once they hold a tile.
func EndSum(b Board) int {
	sum := 0
	for _, e := range b.OpenEnds() {
		if e.Scored {
			sum += e.End.weight()
		}
	}
	return sum
}

// ScoreBoard returns the points earned by the move that produced b: the end
// sum when it is a multiple of five, otherwise zero.
func ScoreBoard(b Board) int {
	sum := EndSum(b)
	if sum%5 != 0 {
		return 0
	}
	return sum
}

// OpeningScore returns the points for the first tile of a game. Nothing is
// scored in the first game of a match; afterwards only [5|5] scores, and only
// while the opener is below the bonus cap.
func OpeningScore(rules Rules, gameIndex int, tile Tile, matchScore int) int {
	if gameIndex == 0 {
		return 0
	}
	if tile.A == 5 && tile.B == 5 && matchScore < rules.BonusCap {
		return rules.OpeningDoubleScore
	}
	return 0
}
