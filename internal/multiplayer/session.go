package multiplayer

import (
	"sync"

	"github.com/vovakirdan/tui-pong/internal/core"
)

// SessionHandle is the transport-neutral interface for communicating with a session.
// It allows the coordinator and matches to send events without depending on Wish/Bubble Tea.
type SessionHandle interface {
	// ID returns the unique session identifier.
	ID() SessionID

	// Send sends an event to the session asynchronously.
	// Must be non-blocking; implementations should use buffered channels.
	Send(evt SessionEvent)

	// Done returns a channel that closes when the session ends.
	Done() <-chan struct{}
}

// paddleBuffer is small: a stale paddle position is worthless.
const paddleBuffer = 8

// ChannelSession is a SessionHandle implementation using Go channels.
// Lobby and match events go to Events; opponent paddle positions go to a
// separate per-match channel that keeps only the freshest values.
type ChannelSession struct {
	id       SessionID
	events   chan SessionEvent
	done     chan struct{}
	doneOnce sync.Once

	mu      sync.Mutex
	paddles chan core.PaddleUpdate // nil outside a match
}

// NewChannelSession creates a new channel-based session handle.
// eventBufferSize controls how many events can be buffered before dropping.
func NewChannelSession(id SessionID, eventBufferSize int) *ChannelSession {
	if eventBufferSize < 1 {
		eventBufferSize = 64
	}
	return &ChannelSession{
		id:     id,
		events: make(chan SessionEvent, eventBufferSize),
		done:   make(chan struct{}),
	}
}

// ID returns the session identifier.
func (s *ChannelSession) ID() SessionID {
	return s.id
}

// Send delivers an event to the session.
// If the buffer is full, the oldest event is dropped to prevent blocking.
func (s *ChannelSession) Send(evt SessionEvent) {
	select {
	case <-s.done:
		return
	default:
	}

	switch e := evt.(type) {
	case PaddleEvent:
		s.sendPaddle(core.PaddleUpdate{Player: e.Player, Y: e.Y})
		return
	case MatchStartedEvent:
		s.openPaddles()
	case MatchEndedEvent:
		s.closePaddles()
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

func (s *ChannelSession) sendPaddle(u core.PaddleUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.paddles == nil {
		return
	}
	select {
	case s.paddles <- u:
	default:
		select {
		case <-s.paddles:
		default:
		}
		select {
		case s.paddles <- u:
		default:
		}
	}
}

func (s *ChannelSession) openPaddles() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.paddles != nil {
		close(s.paddles)
	}
	s.paddles = make(chan core.PaddleUpdate, paddleBuffer)
}

func (s *ChannelSession) closePaddles() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.paddles != nil {
		close(s.paddles)
		s.paddles = nil
	}
}

// Events returns the channel to receive events from.
// The TUI layer reads from this channel.
func (s *ChannelSession) Events() <-chan SessionEvent {
	return s.events
}

// Paddles returns the opponent paddle channel of the current match, or nil
// when no match is running. The channel is closed when the match ends.
func (s *ChannelSession) Paddles() <-chan core.PaddleUpdate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paddles
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
		s.closePaddles()
	})
}

// SessionRegistry tracks active sessions.
// Thread-safe for concurrent access.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[SessionID]SessionHandle
}

// NewSessionRegistry creates a new session registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[SessionID]SessionHandle),
	}
}

// Register adds a session to the registry.
func (r *SessionRegistry) Register(session SessionHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID()] = session
}

// Unregister removes a session from the registry.
func (r *SessionRegistry) Unregister(id SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Get retrieves a session by ID.
func (r *SessionRegistry) Get(id SessionID) (SessionHandle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Count returns the number of registered sessions.
func (r *SessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
