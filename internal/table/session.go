package table

import "sync"

// SessionID uniquely identifies a connected viewer (e.g., an SSH connection).
type SessionID string

// SessionHandle is the transport-neutral interface for communicating with a session.
// It allows the service to push events without depending on Wish/Bubble Tea.
type SessionHandle interface {
	// ID returns the unique session identifier.
	ID() SessionID

	// Send sends an event to the session asynchronously.
	// Must be non-blocking; implementations should use buffered channels.
	Send(evt Event)

	// Done returns a channel that closes when the session ends.
	Done() <-chan struct{}
}

// ChannelSession is a SessionHandle implementation using Go channels.
// Used by the TUI layer to bridge Bubble Tea programs with the service.
type ChannelSession struct {
	id       SessionID
	events   chan Event
	done     chan struct{}
	doneOnce sync.Once
}

// NewChannelSession creates a new channel-based session handle.
// eventBufferSize controls how many events can be buffered before dropping.
func NewChannelSession(id SessionID, eventBufferSize int) *ChannelSession {
	if eventBufferSize < 1 {
		eventBufferSize = 64 // Default buffer size
	}
	return &ChannelSession{
		id:     id,
		events: make(chan Event, eventBufferSize),
		done:   make(chan struct{}),
	}
}

// ID returns the session identifier.
func (s *ChannelSession) ID() SessionID {
	return s.id
}

// Send sends an event to the session.
// If the buffer is full, the oldest event is dropped to prevent blocking.
func (s *ChannelSession) Send(evt Event) {
	select {
	case <-s.done:
		return
	default:
	}

	select {
	case s.events <- evt:
	default:
		select {
		case <-s.events:
		default:
		}
		select {
		case s.events <- evt:
		default:
		}
	}
}

// Events returns the channel to receive events from.
func (s *ChannelSession) Events() <-chan Event {
	return s.events
}

// Done returns the done channel.
func (s *ChannelSession) Done() <-chan struct{} {
	return s.done
}

// Close marks the session as done.
// Safe to call multiple times.
func (s *ChannelSession) Close() {
	s.doneOnce.Do(func() {
		close(s.done)
	})
}

// SessionRegistry tracks which sessions watch which rooms.
// Thread-safe for concurrent access.
type SessionRegistry struct {
	mu    sync.RWMutex
	rooms map[string]map[SessionID]SessionHandle
}

// NewSessionRegistry creates a new session registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		rooms: make(map[string]map[SessionID]SessionHandle),
	}
}

// Subscribe adds a session to a room's audience.
func (r *SessionRegistry) Subscribe(roomID string, session SessionHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rooms[roomID] == nil {
		r.rooms[roomID] = make(map[SessionID]SessionHandle)
	}
	r.rooms[roomID][session.ID()] = session
}

// Unsubscribe removes a session from a room's audience.
func (r *SessionRegistry) Unsubscribe(roomID string, id SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rooms[roomID], id)
	if len(r.rooms[roomID]) == 0 {
		delete(r.rooms, roomID)
	}
}

// Broadcast sends evt to every live session watching roomID.
// Sessions whose Done channel is closed are dropped.
func (r *SessionRegistry) Broadcast(roomID string, evt Event) {
	r.mu.RLock()
	targets := make([]SessionHandle, 0, len(r.rooms[roomID]))
	for _, s := range r.rooms[roomID] {
		targets = append(targets, s)
	}
	r.mu.RUnlock()

	for _, s := range targets {
		select {
		case <-s.Done():
			r.Unsubscribe(roomID, s.ID())
		default:
			s.Send(evt)
		}
	}
}

// Count returns the number of sessions watching roomID.
func (r *SessionRegistry) Count(roomID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms[roomID])
}
