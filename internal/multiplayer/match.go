package multiplayer

import (
	"sync"
	"time"
)

// MatchResult contains the outcome of a finished match.
type MatchResult struct {
	MatchID  MatchID
	Reason   MatchEndReason
	Winner   PlayerID
	Score1   int
	Score2   int
	Duration time.Duration
}

type paddleMove struct {
	player PlayerID
	y      float64
}

type report struct {
	session SessionID
	score1  int
	score2  int
	winner  PlayerID
}

// RelayMatch forwards paddle positions between the two players of a match
// and decides when it is over. It never simulates the game itself.
type RelayMatch struct {
	id      MatchID
	code    string
	gameID  string
	seed    int64
	started time.Time

	player1Session SessionHandle
	player2Session SessionHandle

	moves       chan paddleMove
	reports     chan report
	disconnects chan SessionID

	done     chan struct{}
	doneOnce sync.Once
}

// NewRelayMatch creates a match between a host (Player1) and a joiner (Player2).
func NewRelayMatch(id MatchID, code, gameID string, seed int64, p1Session, p2Session SessionHandle) *RelayMatch {
	return &RelayMatch{
		id:             id,
		code:           code,
		gameID:         gameID,
		seed:           seed,
		started:        time.Now(),
		player1Session: p1Session,
		player2Session: p2Session,
		moves:          make(chan paddleMove, 64),
		reports:        make(chan report, 2),
		disconnects:    make(chan SessionID, 2),
		done:           make(chan struct{}),
	}
}

// ID returns the match identifier.
func (m *RelayMatch) ID() MatchID {
	return m.id
}

// Code returns the join code used to create this match.
func (m *RelayMatch) Code() string {
	return m.code
}

// GameID returns the game identifier.
func (m *RelayMatch) GameID() string {
	return m.gameID
}

// Seed returns the shared simulation seed.
func (m *RelayMatch) Seed() int64 {
	return m.seed
}

// Info returns the match description for one side.
func (m *RelayMatch) Info(side PlayerID) MatchInfo {
	return MatchInfo{
		MatchID: m.id,
		GameID:  m.gameID,
		Side:    side,
		Seed:    m.seed,
		Code:    m.code,
	}
}

// Session returns the session playing side.
func (m *RelayMatch) Session(side PlayerID) SessionHandle {
	if side == Player2 {
		return m.player2Session
	}
	return m.player1Session
}

// SideOf returns the side a session plays, or 0 if it is not in the match.
func (m *RelayMatch) SideOf(id SessionID) PlayerID {
	switch id {
	case m.player1Session.ID():
		return Player1
	case m.player2Session.ID():
		return Player2
	default:
		return 0
	}
}

// MovePaddle queues a paddle position for the opponent.
// Non-blocking; positions are dropped when the queue is full.
func (m *RelayMatch) MovePaddle(player PlayerID, y float64) {
	select {
	case m.moves <- paddleMove{player: player, y: y}:
	default:
	}
}

// Report records the final score seen by one side.
func (m *RelayMatch) Report(id SessionID, score1, score2 int, winner PlayerID) {
	select {
	case m.reports <- report{session: id, score1: score1, score2: score2, winner: winner}:
	default:
	}
}

// PlayerDisconnected signals that a player has disconnected.
func (m *RelayMatch) PlayerDisconnected(id SessionID) {
	select {
	case m.disconnects <- id:
	default:
	}
}

// Run relays until the match ends, then calls onComplete once.
func (m *RelayMatch) Run(onComplete func(MatchResult)) {
	defer m.Stop()

	go m.monitorSessions()

	for {
		select {
		case mv := <-m.moves:
			m.forward(mv)

		case r := <-m.reports:
			if m.complete(r, onComplete) {
				return
			}

		case id := <-m.disconnects:
			// a player leaving right after reporting still completes the match
			select {
			case r := <-m.reports:
				if m.complete(r, onComplete) {
					return
				}
			default:
			}
			if m.SideOf(id) == 0 {
				continue
			}
			if onComplete != nil {
				onComplete(m.result(MatchEndReasonDisconnect, m.SideOf(id).Opponent(), 0, 0))
			}
			return

		case <-m.done:
			return
		}
	}
}

func (m *RelayMatch) complete(r report, onComplete func(MatchResult)) bool {
	if m.SideOf(r.session) == 0 {
		return false
	}
	if onComplete != nil {
		onComplete(m.result(MatchEndReasonCompleted, r.winner, r.score1, r.score2))
	}
	return true
}

func (m *RelayMatch) forward(mv paddleMove) {
	if mv.player != Player1 && mv.player != Player2 {
		return
	}
	m.Session(mv.player.Opponent()).Send(PaddleEvent{
		MatchID: m.id,
		Player:  mv.player,
		Y:       mv.y,
	})
}

func (m *RelayMatch) result(reason MatchEndReason, winner PlayerID, score1, score2 int) MatchResult {
	return MatchResult{
		MatchID:  m.id,
		Reason:   reason,
		Winner:   winner,
		Score1:   score1,
		Score2:   score2,
		Duration: time.Since(m.started),
	}
}

func (m *RelayMatch) monitorSessions() {
	select {
	case <-m.player1Session.Done():
		m.PlayerDisconnected(m.player1Session.ID())
	case <-m.player2Session.Done():
		m.PlayerDisconnected(m.player2Session.ID())
	case <-m.done:
	}
}

// Stop ends the relay without a result.
func (m *RelayMatch) Stop() {
	m.doneOnce.Do(func() {
		close(m.done)
	})
}
