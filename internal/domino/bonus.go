package domino

// RoundUpToFive rounds n up to the next multiple of five.
func RoundUpToFive(n int) int {
	if n <= 0 {
		return 0
	}
	return (n + 4) / 5 * 5
}

// RawBonus is the pip total of every hand except the winner's, rounded up to
// a multiple of five.
func RawBonus(hands []Hand, winner int) int {
	total := 0
	for seat, h := range hands {
		if seat != winner {
			total += h.Pips()
		}
	}
	return RoundUpToFive(total)
}

// CapBonus limits raw so that a bonus never lifts a score past limit.
// A score already at or above the limit earns nothing.
func CapBonus(score, raw, limit int) int {
	switch {
	case score >= limit:
		return 0
	case score+raw > limit:
		return limit - score
	default:
		return raw
	}
}

// LowestPipSeat returns the seat with the smallest hand pip total. Ties go
// to the lowest seat number.
func LowestPipSeat(hands []Hand) int {
	best := NoSeat
	bestPips := 0
	for seat, h := range hands {
		if p := h.Pips(); best == NoSeat || p < bestPips {
			best, bestPips = seat, p
		}
	}
	return best
}

// MatchWinner returns the seat that won the match, or NoSeat while no score
// has reached target. With several seats over the target the highest score
// wins, ties going to the lowest seat number.
func MatchWinner(scores []int, target int) int {
	reached := false
	for _, s := range scores {
		if s >= target {
			reached = true
			break
		}
	}
	if !reached {
		return NoSeat
	}
	best := NoSeat
	for seat, s := range scores {
		if best == NoSeat || s > scores[best] {
			best = seat
		}
	}
	return best
}

// seal finishes the game in favour of winner, awarding the capped bonus and
// evaluating the match.
func (s *GameState) seal(winner int, reason EndReason) GameResult {
	raw := RawBonus(s.Hands, winner)
	bonus := CapBonus(s.MatchScores[winner], raw, s.Rules.BonusCap)
	s.GameScores[winner] += bonus
	s.MatchScores[winner] += bonus

	s.Finished = true
	s.Winner = winner
	s.MatchWinner = MatchWinner(s.MatchScores, s.Rules.MatchTarget)
	s.MatchFinished = s.MatchWinner != NoSeat

	res := GameResult{
		Winner:        winner,
		Reason:        reason,
		RawBonus:      raw,
		Bonus:         bonus,
		GameScores:    cloneInts(s.GameScores),
		MatchScores:   cloneInts(s.MatchScores),
		MatchFinished: s.MatchFinished,
		MatchWinner:   s.MatchWinner,
	}
	s.Result = &res
	return res
}
