package relay

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/tui-pong/internal/core"
	"github.com/vovakirdan/tui-pong/internal/multiplayer"
)

var (
	_ multiplayer.PaddleLink = (*Client)(nil)
	_ multiplayer.Reporter   = (*Client)(nil)
)

const waitTimeout = 2 * time.Second

func newTestRelay(t *testing.T) (*Server, string) {
	t.Helper()
	srv := NewServer(nil)
	hs := httptest.NewServer(srv)
	t.Cleanup(hs.Close)
	return srv, "ws" + strings.TrimPrefix(hs.URL, "http")
}

type dialResult struct {
	c   *Client
	err error
}

func dialAsync(addr, room string) <-chan dialResult {
	out := make(chan dialResult, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), waitTimeout)
		defer cancel()
		c, err := Dial(ctx, addr, room, nil)
		out <- dialResult{c, err}
	}()
	return out
}

func pair(t *testing.T, addr, room string) (*Client, *Client) {
	t.Helper()
	first := dialAsync(addr, room)
	// let the first client take seat one
	time.Sleep(50 * time.Millisecond)
	second := dialAsync(addr, room)

	r1, r2 := <-first, <-second
	if r1.err != nil || r2.err != nil {
		t.Fatalf("Dial() errors: %v, %v", r1.err, r2.err)
	}
	t.Cleanup(func() {
		r1.c.Close()
		r2.c.Close()
	})
	return r1.c, r2.c
}

func nextUpdate(t *testing.T, ch <-chan core.PaddleUpdate) (core.PaddleUpdate, bool) {
	t.Helper()
	select {
	case u, ok := <-ch:
		return u, ok
	case <-time.After(waitTimeout):
		t.Fatal("no paddle update in time")
		return core.PaddleUpdate{}, false
	}
}

func TestRelayPairsAndForwards(t *testing.T) {
	_, addr := newTestRelay(t)
	c1, c2 := pair(t, addr, "abc123")

	s1, s2 := c1.Start(), c2.Start()
	if s1.Side != core.Player1 || s2.Side != core.Player2 {
		t.Errorf("sides = %v/%v, expected P1/P2", s1.Side, s2.Side)
	}
	if s1.Seed != s2.Seed || s1.Seed == 0 {
		t.Errorf("seeds = %d/%d, expected equal and non-zero", s1.Seed, s2.Seed)
	}
	if s1.Room != "ABC123" {
		t.Errorf("room = %q, expected ABC123", s1.Room)
	}

	c1.Send(150)
	u, ok := nextUpdate(t, c2.Updates())
	if !ok || u.Player != core.Player1 || u.Y != 150 {
		t.Errorf("c2 got %+v (ok=%v), expected P1 at 150", u, ok)
	}

	c2.Send(42.5)
	u, ok = nextUpdate(t, c1.Updates())
	if !ok || u.Player != core.Player2 || u.Y != 42.5 {
		t.Errorf("c1 got %+v (ok=%v), expected P2 at 42.5", u, ok)
	}
}

func TestRelayOpponentLeaving(t *testing.T) {
	srv, addr := newTestRelay(t)
	c1, c2 := pair(t, addr, "leave")

	c1.Report(11, 4, core.Player1)
	c1.Close()
	if err := c1.Err(); err != ErrClosed {
		t.Errorf("Err() = %v, expected ErrClosed", err)
	}

	for {
		if _, ok := nextUpdate(t, c2.Updates()); !ok {
			break
		}
	}

	deadline := time.Now().Add(waitTimeout)
	for srv.RoomCount() != 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if srv.RoomCount() != 0 {
		t.Errorf("RoomCount() = %d, expected 0", srv.RoomCount())
	}
}

func TestRelayRoomFull(t *testing.T) {
	_, addr := newTestRelay(t)
	pair(t, addr, "full")

	r := <-dialAsync(addr, "full")
	if r.err == nil {
		r.c.Close()
		t.Fatal("third Dial() succeeded, expected room full")
	}
	if !strings.Contains(r.err.Error(), "room full") {
		t.Errorf("Dial() error = %v, expected room full", r.err)
	}
}

func TestRelayRequiresRoom(t *testing.T) {
	_, addr := newTestRelay(t)
	resp, err := http.Get("http" + strings.TrimPrefix(addr, "ws"))
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, expected 400", resp.StatusCode)
	}
}

func TestDialGivesUpWithoutOpponent(t *testing.T) {
	_, addr := newTestRelay(t)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if _, err := Dial(ctx, addr, "lonely", nil); err == nil {
		t.Fatal("Dial() succeeded without an opponent")
	}
}
