package multiplayer

import (
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/tui-pong/internal/core"
)

const waitTimeout = 2 * time.Second

func nextEvent(t *testing.T, s *ChannelSession) SessionEvent {
	t.Helper()
	select {
	case evt := <-s.Events():
		return evt
	case <-time.After(waitTimeout):
		t.Fatalf("session %s: no event within %v", s.ID(), waitTimeout)
		return nil
	}
}

func nextPaddle(t *testing.T, ch <-chan core.PaddleUpdate) (core.PaddleUpdate, bool) {
	t.Helper()
	select {
	case u, ok := <-ch:
		return u, ok
	case <-time.After(waitTimeout):
		t.Fatalf("no paddle update within %v", waitTimeout)
		return core.PaddleUpdate{}, false
	}
}

func newTestCoordinator(t *testing.T) (*Coordinator, *SessionRegistry) {
	t.Helper()
	reg := NewSessionRegistry()
	c := NewCoordinator(DefaultCoordinatorConfig(), reg)
	c.Start()
	t.Cleanup(c.Stop)
	return c, reg
}

func newSession(reg *SessionRegistry, id string) *ChannelSession {
	s := NewChannelSession(SessionID(id), 16)
	reg.Register(s)
	return s
}

// startMatch runs the lobby handshake and returns both sides' match info.
func startMatch(t *testing.T, c *Coordinator, host, joiner *ChannelSession) (MatchInfo, MatchInfo) {
	t.Helper()
	c.Send(CreateLobbyMsg{SessionID: host.ID(), GameID: "pong"})
	created, ok := nextEvent(t, host).(LobbyCreatedEvent)
	if !ok {
		t.Fatalf("host did not get LobbyCreatedEvent")
	}
	if len(created.Code) != 6 {
		t.Errorf("join code = %q, expected 6 characters", created.Code)
	}

	c.Send(JoinLobbyMsg{SessionID: joiner.ID(), Code: " " + strings.ToLower(created.Code)})

	var infos [2]MatchInfo
	for i, s := range []*ChannelSession{host, joiner} {
		if _, ok := nextEvent(t, s).(LobbyJoinedEvent); !ok {
			t.Fatalf("session %s did not get LobbyJoinedEvent", s.ID())
		}
		started, ok := nextEvent(t, s).(MatchStartedEvent)
		if !ok {
			t.Fatalf("session %s did not get MatchStartedEvent", s.ID())
		}
		infos[i] = started.MatchInfo
	}
	return infos[0], infos[1]
}

func TestCoordinatorMatchFlow(t *testing.T) {
	c, reg := newTestCoordinator(t)
	host := newSession(reg, "host")
	joiner := newSession(reg, "joiner")
	hostInfo, joinInfo := startMatch(t, c, host, joiner)

	if hostInfo.Side != Player1 || joinInfo.Side != Player2 {
		t.Errorf("sides = %v/%v, expected P1/P2", hostInfo.Side, joinInfo.Side)
	}
	if hostInfo.Seed != joinInfo.Seed || hostInfo.Seed == 0 {
		t.Errorf("seeds = %d/%d, expected equal and non-zero", hostInfo.Seed, joinInfo.Seed)
	}
	if hostInfo.MatchID != joinInfo.MatchID {
		t.Errorf("match IDs differ: %s vs %s", hostInfo.MatchID, joinInfo.MatchID)
	}
	if c.LobbyCount() != 0 || c.MatchCount() != 1 {
		t.Errorf("lobbies/matches = %d/%d, expected 0/1", c.LobbyCount(), c.MatchCount())
	}

	hostLink := NewSessionLink(c, host, hostInfo)
	joinLink := NewSessionLink(c, joiner, joinInfo)
	joinUpdates := joinLink.Updates()

	hostLink.Send(123)
	u, ok := nextPaddle(t, joinUpdates)
	if !ok || u.Player != Player1 || u.Y != 123 {
		t.Errorf("relayed update = %+v (ok=%v), expected P1 at 123", u, ok)
	}

	joinLink.Report(11, 7, Player1)

	for _, s := range []*ChannelSession{host, joiner} {
		end, ok := nextEvent(t, s).(MatchEndedEvent)
		if !ok {
			t.Fatalf("session %s did not get MatchEndedEvent", s.ID())
		}
		if end.Reason != MatchEndReasonCompleted || end.Winner != Player1 || end.Score1 != 11 || end.Score2 != 7 {
			t.Errorf("MatchEndedEvent = %+v, expected completed 11-7 for P1", end)
		}
	}

	if _, ok := nextPaddle(t, joinUpdates); ok {
		t.Errorf("paddle channel still open after match end")
	}
	if c.MatchCount() != 0 {
		t.Errorf("MatchCount() = %d, expected 0", c.MatchCount())
	}
}

func TestCoordinatorJoinErrors(t *testing.T) {
	c, reg := newTestCoordinator(t)
	host := newSession(reg, "host")
	stranger := newSession(reg, "stranger")

	c.Send(JoinLobbyMsg{SessionID: stranger.ID(), Code: "NOPE42"})
	if e, ok := nextEvent(t, stranger).(LobbyErrorEvent); !ok || e.Message != "Lobby not found" {
		t.Errorf("join unknown code: got %#v", e)
	}

	c.Send(CreateLobbyMsg{SessionID: host.ID(), GameID: "pong"})
	created := nextEvent(t, host).(LobbyCreatedEvent)

	c.Send(JoinLobbyMsg{SessionID: host.ID(), Code: created.Code})
	if e, ok := nextEvent(t, host).(LobbyErrorEvent); !ok || e.Message != "Already in a lobby or match" {
		t.Errorf("host joining own lobby: got %#v", e)
	}

	c.Send(CancelLobbyMsg{SessionID: host.ID(), Code: created.Code})
	c.Send(JoinLobbyMsg{SessionID: stranger.ID(), Code: created.Code})
	if e, ok := nextEvent(t, stranger).(LobbyErrorEvent); !ok || e.Message != "Lobby not found" {
		t.Errorf("join cancelled lobby: got %#v", e)
	}
	if c.LobbyCount() != 0 {
		t.Errorf("LobbyCount() = %d, expected 0", c.LobbyCount())
	}
}

func TestCoordinatorDisconnectForfeits(t *testing.T) {
	c, reg := newTestCoordinator(t)
	host := newSession(reg, "host")
	joiner := newSession(reg, "joiner")
	startMatch(t, c, host, joiner)

	joiner.Close()

	end, ok := nextEvent(t, host).(MatchEndedEvent)
	if !ok {
		t.Fatal("host did not get MatchEndedEvent")
	}
	if end.Reason != MatchEndReasonDisconnect || end.Winner != Player1 {
		t.Errorf("MatchEndedEvent = %+v, expected disconnect won by P1", end)
	}
}

func TestSessionPaddlesKeepNewest(t *testing.T) {
	s := NewChannelSession("s", 4)

	s.Send(PaddleEvent{Player: Player2, Y: 1})
	if s.Paddles() != nil {
		t.Fatal("Paddles() should be nil outside a match")
	}

	s.Send(MatchStartedEvent{})
	for i := range 20 {
		s.Send(PaddleEvent{Player: Player2, Y: float64(i)})
	}
	ch := s.Paddles()
	if len(ch) != paddleBuffer {
		t.Errorf("buffered updates = %d, expected %d", len(ch), paddleBuffer)
	}
	var last core.PaddleUpdate
	for len(ch) > 0 {
		last = <-ch
	}
	if last.Y != 19 {
		t.Errorf("newest update Y = %v, expected 19", last.Y)
	}

	s.Send(MatchEndedEvent{})
	if _, ok := <-ch; ok {
		t.Error("paddle channel should be closed after MatchEndedEvent")
	}
}

func TestSessionDropsOldestEvent(t *testing.T) {
	s := NewChannelSession("s", 2)
	for _, msg := range []string{"a", "b", "c"} {
		s.Send(LobbyErrorEvent{Message: msg})
	}
	var got []string
	for len(s.Events()) > 0 {
		got = append(got, (<-s.Events()).(LobbyErrorEvent).Message)
	}
	if strings.Join(got, "") != "bc" {
		t.Errorf("events = %v, expected [b c]", got)
	}

	s.Close()
	s.Close()
	s.Send(LobbyErrorEvent{Message: "late"})
	if len(s.Events()) != 0 {
		t.Error("closed session accepted an event")
	}
}

func TestRelayMatchIgnoresStrangers(t *testing.T) {
	p1 := NewChannelSession("p1", 8)
	p2 := NewChannelSession("p2", 8)
	m := NewRelayMatch("m1", "ABCDEF", "pong", 7, p1, p2)
	p1.Send(MatchStartedEvent{MatchInfo: m.Info(Player1)})

	results := make(chan MatchResult, 1)
	go m.Run(func(r MatchResult) { results <- r })

	m.Report("intruder", 11, 0, Player1)
	m.PlayerDisconnected("intruder")
	m.MovePaddle(Player2, 77)

	u, ok := nextPaddle(t, p1.Paddles())
	if !ok || u.Player != Player2 || u.Y != 77 {
		t.Errorf("forwarded update = %+v, expected P2 at 77", u)
	}

	m.Report("p2", 3, 11, Player2)
	select {
	case r := <-results:
		if r.Reason != MatchEndReasonCompleted || r.Winner != Player2 || r.Score2 != 11 {
			t.Errorf("result = %+v, expected completed for P2", r)
		}
	case <-time.After(waitTimeout):
		t.Fatal("match did not complete")
	}

	if got := m.SideOf("p2"); got != Player2 {
		t.Errorf("SideOf(p2) = %v, expected P2", got)
	}
	if got := m.SideOf("intruder"); got != 0 {
		t.Errorf("SideOf(intruder) = %v, expected 0", got)
	}
}

func TestGenerateJoinCode(t *testing.T) {
	seen := make(map[string]bool)
	for range 50 {
		code := generateJoinCode()
		if len(code) != 6 || strings.ToUpper(code) != code {
			t.Errorf("generateJoinCode() = %q, expected 6 uppercase characters", code)
		}
		seen[code] = true
	}
	if len(seen) < 45 {
		t.Errorf("only %d distinct codes out of 50", len(seen))
	}
}

func TestNewSessionID(t *testing.T) {
	id := NewSessionID("alice")
	if !strings.HasPrefix(string(id), "alice-") || len(id) != len("alice-")+8 {
		t.Errorf("NewSessionID(alice) = %q", id)
	}
	if !strings.HasPrefix(string(NewSessionID("")), "anon-") {
		t.Error("empty user should become anon")
	}
}
