// Package multiplayer pairs two players for a networked match and relays
// paddle positions between them. Each side runs its own simulation from a
// shared seed; only paddle moves and the final score cross the wire.
package multiplayer

import (
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-pong/internal/core"
)

// PlayerID is an alias to core.PlayerID for convenience.
// Player1 is the lobby host on the left, Player2 the joiner on the right.
type PlayerID = core.PlayerID

// Re-export player constants for convenience.
const (
	Player1 = core.Player1
	Player2 = core.Player2
)

// SessionID uniquely identifies a player's connection.
type SessionID string

// NewSessionID returns a fresh session ID labelled with the user name.
func NewSessionID(user string) SessionID {
	if user == "" {
		user = "anon"
	}
	return SessionID(user + "-" + uuid.NewString()[:8])
}

// MatchID uniquely identifies a networked match.
type MatchID string

// NewMatchID returns a random match ID.
func NewMatchID() MatchID {
	return MatchID(uuid.NewString())
}

// PaddleLink carries paddle positions between the two ends of a match.
// Send is non-blocking and may drop updates under load; only the latest
// position matters. Updates is closed when the match ends or the peer goes
// away.
type PaddleLink interface {
	Send(y float64)
	Updates() <-chan core.PaddleUpdate
	Close() error
}

// MatchInfo describes a started match to one of its players.
type MatchInfo struct {
	MatchID MatchID
	GameID  string
	Side    PlayerID
	Seed    int64
	Code    string
}

// Reporter is implemented by links that can tell the far end how a match ended.
type Reporter interface {
	Report(score1, score2 int, winner PlayerID)
}
