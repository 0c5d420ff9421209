package domino

// Rules holds the tunable numbers of a match.
type Rules struct {
	// MatchTarget ends the match once any seat reaches it.
	MatchTarget int `json:"match_target" yaml:"match_target"`
	// BonusCap limits how far going-out bonuses can lift a match score.
	BonusCap int `json:"bonus_cap" yaml:"bonus_cap"`
	// OpeningDoubleScore is awarded for opening a later game with [5|5].
	OpeningDoubleScore int `json:"opening_double_score" yaml:"opening_double_score"`
	// HandSizeTwoPlayers and HandSizeMorePlayers are the deal sizes.
	HandSizeTwoPlayers  int `json:"hand_size_two_players" yaml:"hand_size_two_players"`
	HandSizeMorePlayers int `json:"hand_size_more_players" yaml:"hand_size_more_players"`
}

// Player count limits.
const (
	MinPlayers = 2
	MaxPlayers = 4
)

// DefaultRules returns the standard Telefon numbers.
func DefaultRules() Rules {
	return Rules{
		MatchTarget:         365,
		BonusCap:            300,
		OpeningDoubleScore:  10,
		HandSizeTwoPlayers:  7,
		HandSizeMorePlayers: 5,
	}
}

// HandSize returns how many tiles each seat is dealt.
func (r Rules) HandSize(players int) int {
	if players == 2 {
		return r.HandSizeTwoPlayers
	}
	return r.HandSizeMorePlayers
}
