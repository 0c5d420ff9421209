// Package table runs domino rooms: seating, game lifecycle, persistence of
// every action and fan-out of table events to connected sessions.
// The rules themselves live in package domino; this package only
// orchestrates them.
package table

import (
	"context"
	"errors"
	"time"

	"github.com/jh2023at0610/telefondomino/internal/domino"
)

// Errors returned by the table service and its repositories.
var (
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("state was modified concurrently")
	ErrNotMember      = errors.New("user is not seated in this room")
	ErrRoomFull       = errors.New("room is full")
	ErrRoomNotFull    = errors.New("room still has empty seats")
	ErrNotStarted     = errors.New("no game has been dealt yet")
	ErrAlreadyStarted = errors.New("room has already started")
	ErrNotBotTurn     = errors.New("seat to move is not automated")
)

// RoomStatus is the lifecycle stage of a room.
type RoomStatus string

const (
	StatusLobby    RoomStatus = "lobby"
	StatusRunning  RoomStatus = "running"
	StatusFinished RoomStatus = "finished"
)

// Room is the persisted metadata of a table.
type Room struct {
	ID      string
	Code    string
	Status  RoomStatus
	Players int
	Rules   domino.Rules

	CurrentGameIndex int
	LastGameWinner   int
	MatchWinner      int
	MatchScores      []int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Member is a seated participant.
type Member struct {
	RoomID   string
	UserID   string
	Nickname string
	Seat     int
	IsBot    bool
	Strategy string // Registry ID for bots
	JoinedAt time.Time
}

// MoveKind classifies move log entries.
type MoveKind string

const (
	MoveOpen MoveKind = "open"
	MovePlay MoveKind = "play"
	MoveDraw MoveKind = "draw"
	MovePass MoveKind = "pass"
)

// MovePayload is the kind-specific detail of a logged move.
type MovePayload struct {
	Tile         *domino.Tile `json:"tile,omitempty"`
	Side         domino.Side  `json:"side,omitempty"`
	Score        int          `json:"score,omitempty"`
	Transitioned bool         `json:"transitioned,omitempty"`
	Blocked      bool         `json:"blocked,omitempty"`
	Bonus        int          `json:"bonus,omitempty"`
	AutoPass     bool         `json:"auto_pass,omitempty"`
}

// Move is an entry of the append-only move log.
type Move struct {
	ID        int64
	RoomID    string
	GameIndex int
	Seat      int
	Kind      MoveKind
	Payload   MovePayload
	CreatedAt time.Time
}

// MatchResult is written once when a match is won.
type MatchResult struct {
	ID          int64
	RoomID      string
	RoomCode    string
	WinnerSeat  int
	WinnerName  string
	Scores      []int
	GamesPlayed int
	CreatedAt   time.Time
}

// RoomUpdate carries room metadata changes made alongside a state write.
type RoomUpdate struct {
	Status           RoomStatus
	CurrentGameIndex int
	LastGameWinner   int
	MatchWinner      int
	MatchScores      []int
}

// Commit is everything one action persists. Repositories apply it
// atomically: either all parts are written or none are.
type Commit struct {
	RoomID string
	// Version is the state version the action was computed from; 0 means no
	// state has been stored yet. A mismatch fails the commit with ErrConflict.
	Version int64
	State   *domino.GameState
	Moves   []Move
	Room    *RoomUpdate
	Result  *MatchResult
}

// Repository persists rooms, game states and the move log.
type Repository interface {
	CreateRoom(ctx context.Context, room Room) error
	RoomByID(ctx context.Context, id string) (Room, error)
	RoomByCode(ctx context.Context, code string) (Room, error)
	AddMember(ctx context.Context, m Member) error
	Members(ctx context.Context, roomID string) ([]Member, error)
	// LoadGame returns the current state and its version. It returns
	// ErrNotFound before the first game is dealt.
	LoadGame(ctx context.Context, roomID string) (*domino.GameState, int64, error)
	// Commit applies c and returns the new state version.
	Commit(ctx context.Context, c Commit) (int64, error)
}
