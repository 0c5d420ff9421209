package table

import (
	"context"
	"fmt"
	"sync"

	"github.com/jh2023at0610/telefondomino/internal/domino"
)

// MemoryRepository is a Repository kept entirely in process memory.
// It backs throwaway local tables and tests.
type MemoryRepository struct {
	mu       sync.Mutex
	rooms    map[string]Room
	members  map[string][]Member
	states   map[string]*domino.GameState
	versions map[string]int64
	moves    map[string][]Move
	results  []MatchResult
	nextID   int64
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		rooms:    make(map[string]Room),
		members:  make(map[string][]Member),
		states:   make(map[string]*domino.GameState),
		versions: make(map[string]int64),
		moves:    make(map[string][]Move),
	}
}

var _ Repository = (*MemoryRepository)(nil)

// CreateRoom stores a new room.
func (r *MemoryRepository) CreateRoom(_ context.Context, room Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rooms[room.ID]; ok {
		return fmt.Errorf("room %s already exists", room.ID)
	}
	room.MatchScores = append([]int(nil), room.MatchScores...)
	r.rooms[room.ID] = room
	return nil
}

// RoomByID returns a room by its ID.
func (r *MemoryRepository) RoomByID(_ context.Context, id string) (Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[id]
	if !ok {
		return Room{}, fmt.Errorf("room %s: %w", id, ErrNotFound)
	}
	room.MatchScores = append([]int(nil), room.MatchScores...)
	return room, nil
}

// RoomByCode returns a room by its join code.
func (r *MemoryRepository) RoomByCode(_ context.Context, code string) (Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, room := range r.rooms {
		if room.Code == code {
			room.MatchScores = append([]int(nil), room.MatchScores...)
			return room, nil
		}
	}
	return Room{}, fmt.Errorf("room code %s: %w", code, ErrNotFound)
}

// AddMember seats a member. Seats and user IDs are unique per room.
func (r *MemoryRepository) AddMember(_ context.Context, m Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rooms[m.RoomID]; !ok {
		return fmt.Errorf("room %s: %w", m.RoomID, ErrNotFound)
	}
	for _, existing := range r.members[m.RoomID] {
		if existing.Seat == m.Seat || existing.UserID == m.UserID {
			return fmt.Errorf("seat %d or user %s already taken", m.Seat, m.UserID)
		}
	}
	r.members[m.RoomID] = append(r.members[m.RoomID], m)
	return nil
}

// Members returns the members of a room ordered by seat.
func (r *MemoryRepository) Members(_ context.Context, roomID string) ([]Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]Member(nil), r.members[roomID]...)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Seat < out[j-1].Seat; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out, nil
}

// LoadGame returns a copy of the stored state and its version.
func (r *MemoryRepository) LoadGame(_ context.Context, roomID string) (*domino.GameState, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	state, ok := r.states[roomID]
	if !ok {
		return nil, 0, fmt.Errorf("game for room %s: %w", roomID, ErrNotFound)
	}
	return state.Clone(), r.versions[roomID], nil
}

// Commit applies c atomically.
func (r *MemoryRepository) Commit(_ context.Context, c Commit) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[c.RoomID]
	if !ok {
		return 0, fmt.Errorf("room %s: %w", c.RoomID, ErrNotFound)
	}
	if r.versions[c.RoomID] != c.Version {
		return 0, fmt.Errorf("room %s at version %d, commit expects %d: %w", c.RoomID, r.versions[c.RoomID], c.Version, ErrConflict)
	}

	version := c.Version + 1
	r.states[c.RoomID] = c.State.Clone()
	r.versions[c.RoomID] = version

	for _, m := range c.Moves {
		r.nextID++
		m.ID = r.nextID
		r.moves[c.RoomID] = append(r.moves[c.RoomID], m)
	}
	if u := c.Room; u != nil {
		room.Status = u.Status
		room.CurrentGameIndex = u.CurrentGameIndex
		room.LastGameWinner = u.LastGameWinner
		room.MatchWinner = u.MatchWinner
		room.MatchScores = append([]int(nil), u.MatchScores...)
		r.rooms[c.RoomID] = room
	}
	if c.Result != nil {
		r.nextID++
		res := *c.Result
		res.ID = r.nextID
		r.results = append(r.results, res)
	}
	return version, nil
}

// Moves returns the logged moves of a room for one game, or every game when
// gameIndex is negative.
func (r *MemoryRepository) Moves(roomID string, gameIndex int) []Move {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Move
	for _, m := range r.moves[roomID] {
		if gameIndex < 0 || m.GameIndex == gameIndex {
			out = append(out, m)
		}
	}
	return out
}

// Results returns the recorded match results.
func (r *MemoryRepository) Results() []MatchResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]MatchResult(nil), r.results...)
}
