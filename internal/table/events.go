package table

import "github.com/jh2023at0610/telefondomino/internal/domino"

// Event is sent from the service to sessions watching a room.
type Event interface {
	tableEvent()
}

// SeatedEvent is sent when someone takes a seat.
type SeatedEvent struct {
	RoomID string
	Member Member
}

func (SeatedEvent) tableEvent() {}

// GameStartedEvent is sent when a game is dealt.
type GameStartedEvent struct {
	RoomID    string
	GameIndex int
	Opening   domino.Opening
}

func (GameStartedEvent) tableEvent() {}

// MovedEvent is sent after every applied action.
type MovedEvent struct {
	RoomID  string
	Move    Move
	Turn    int
	Version int64
}

func (MovedEvent) tableEvent() {}

// GameEndedEvent is sent when a game is sealed.
type GameEndedEvent struct {
	RoomID    string
	GameIndex int
	Result    domino.GameResult
}

func (GameEndedEvent) tableEvent() {}

// MatchEndedEvent is sent when the match has a winner.
type MatchEndedEvent struct {
	RoomID string
	Winner Member
	Scores []int
}

func (MatchEndedEvent) tableEvent() {}
