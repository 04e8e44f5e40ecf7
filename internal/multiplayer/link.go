package multiplayer

import (
	"sync"

	"github.com/vovakirdan/tui-pong/internal/core"
)

// SessionLink connects one side of a coordinator match to the game loop.
type SessionLink struct {
	coord   *Coordinator
	session *ChannelSession
	info    MatchInfo

	closeOnce sync.Once
	reported  bool
}

// NewSessionLink creates a link for a session that has received MatchStartedEvent.
func NewSessionLink(coord *Coordinator, session *ChannelSession, info MatchInfo) *SessionLink {
	return &SessionLink{coord: coord, session: session, info: info}
}

// Info returns the match this link belongs to.
func (l *SessionLink) Info() MatchInfo {
	return l.info
}

// Send relays the local paddle position. Dropped when the coordinator is busy.
func (l *SessionLink) Send(y float64) {
	l.coord.TrySend(PaddleMsg{MatchID: l.info.MatchID, Player: l.info.Side, Y: y})
}

// Updates returns opponent paddle positions.
func (l *SessionLink) Updates() <-chan core.PaddleUpdate {
	if ch := l.session.Paddles(); ch != nil {
		return ch
	}
	closed := make(chan core.PaddleUpdate)
	close(closed)
	return closed
}

// Report sends the final score once.
func (l *SessionLink) Report(score1, score2 int, winner PlayerID) {
	if l.reported {
		return
	}
	l.reported = true
	l.coord.Send(MatchReportMsg{
		SessionID: l.session.ID(),
		MatchID:   l.info.MatchID,
		Score1:    score1,
		Score2:    score2,
		Winner:    winner,
	})
}

// Close leaves the match. A link that already reported stays quiet.
func (l *SessionLink) Close() error {
	l.closeOnce.Do(func() {
		if l.reported {
			return
		}
		l.coord.TrySend(LeaveMatchMsg{SessionID: l.session.ID(), MatchID: l.info.MatchID})
	})
	return nil
}
