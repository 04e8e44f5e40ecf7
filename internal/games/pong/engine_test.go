package pong

import (
	"math"
	"math/rand"
	"testing"

	"github.com/vovakirdan/tui-pong/internal/config"
	"github.com/vovakirdan/tui-pong/internal/core"
)

// fixedRand always returns the same values: serves fly straight and landing
// depths are not spread.
type fixedRand struct {
	f float64
	n int
}

func (r fixedRand) Float64() float64 { return r.f }
func (r fixedRand) Intn(n int) int   { return r.n % n }

func newTestEngine(v core.Variant) *Engine {
	return NewEngine(DefaultParams(v), fixedRand{f: 0.5})
}

// rallyState returns a match with the ball in play at the given position.
func rallyState(p Params, x, y, dx, dy float64) MatchState {
	s := NewMatch(p)
	s.Rally.InPlay = true
	s.Rally.Serving = false
	s.Ball.X, s.Ball.Y = x, y
	s.Ball.setVelocity(dx, dy)
	return s
}

func findEvent(events []Event, kind EventKind) (Event, bool) {
	for _, e := range events {
		if e.Kind == kind {
			return e, true
		}
	}
	return Event{}, false
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestPaddleCollisionReversesBall(t *testing.T) {
	e := newTestEngine(core.VariantClassic)
	s := rallyState(e.Params, 5, 200, -5, 3)
	s.Ball.LastHitBy = core.Player2
	s.SetPaddleY(e.Params, core.Player1, 150)

	next, events := e.Tick(s, Input{})

	if next.Ball.DX <= 0 {
		t.Errorf("Ball.DX = %v, expected positive after paddle contact", next.Ball.DX)
	}
	ev, ok := findEvent(events, EventReturn)
	if !ok {
		t.Fatalf("expected a return event, got %v", events)
	}
	if ev.Side != core.Player1 {
		t.Errorf("return side = %v, expected P1", ev.Side)
	}
	if next.Ball.LastHitBy != core.Player1 {
		t.Errorf("LastHitBy = %v, expected P1", next.Ball.LastHitBy)
	}
	if next.Score(core.Player2) != 0 {
		t.Error("no point should be scored on a return")
	}
}

func TestMissedChopAwardsOpponent(t *testing.T) {
	e := newTestEngine(core.VariantClassic)
	s := rallyState(e.Params, 12, 180, -5, 0)
	s.Ball.Chopped = true
	s.Ball.LastHitBy = core.Player2

	// Holding smash does not answer a chop.
	in := Input{P1: SideInput{Held: CtrlSmash}}
	next, events := e.Tick(s, in)

	ev, ok := findEvent(events, EventPointScored)
	if !ok {
		t.Fatalf("expected a point, got %v", events)
	}
	if ev.Side != core.Player2 || ev.Reason != ReasonMissedChop {
		t.Errorf("point = %v/%v, expected P2/missed chop", ev.Side, ev.Reason)
	}
	if next.Score(core.Player2) != 1 {
		t.Errorf("Score(P2) = %d, expected 1", next.Score(core.Player2))
	}
	if _, hit := findEvent(events, EventSmash); hit {
		t.Error("a missed chop must not bounce back")
	}
}

func TestShotClasses(t *testing.T) {
	p := DefaultParams(core.VariantClassic)
	tests := []struct {
		name    string
		held    Control
		chopped bool
		kind    EventKind
		speed   float64
	}{
		{"neutral", 0, false, EventReturn, p.BaseSpeed},
		{"smash", CtrlSmash, false, EventSmash, p.BaseSpeed * p.SmashMultiplier},
		{"chop", CtrlChop, false, EventChop, p.BaseSpeed * p.ChopMultiplier},
		{"chop answers chop", CtrlChop, true, EventChop, p.BaseSpeed * p.ChopMultiplier},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine(p, fixedRand{f: 0.5})
			s := rallyState(p, 12, 190, -5, 1)
			s.Ball.Chopped = tt.chopped
			s.Ball.LastHitBy = core.Player2

			next, events := e.Tick(s, Input{P1: SideInput{Held: tt.held}})

			if _, ok := findEvent(events, tt.kind); !ok {
				t.Fatalf("expected %v event, got %v", tt.kind, events)
			}
			if !approx(next.Ball.Speed, tt.speed) {
				t.Errorf("Ball.Speed = %v, expected %v", next.Ball.Speed, tt.speed)
			}
			if !approx(next.Ball.Speed, math.Hypot(next.Ball.DX, next.Ball.DY)) {
				t.Errorf("Ball.Speed = %v does not match velocity", next.Ball.Speed)
			}
			if next.Ball.Chopped != (tt.kind == EventChop) {
				t.Errorf("Ball.Chopped = %v, expected %v", next.Ball.Chopped, tt.kind == EventChop)
			}
			if next.Ball.DY <= 0 {
				t.Errorf("Ball.DY = %v, expected the vertical direction kept", next.Ball.DY)
			}
		})
	}
}

func TestClassicExitScores(t *testing.T) {
	tests := []struct {
		name   string
		x, dx  float64
		scorer core.PlayerID
	}{
		{"past left paddle", 2, -5, core.Player2},
		{"past right paddle", 798, 5, core.Player1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(core.VariantClassic)
			// Paddles sit at 170..230, well away from the ball.
			s := rallyState(e.Params, tt.x, 330, tt.dx, 0)

			next, events := e.Tick(s, Input{})

			ev, ok := findEvent(events, EventPointScored)
			if !ok {
				t.Fatalf("expected a point, got %v", events)
			}
			if ev.Side != tt.scorer || ev.Reason != ReasonMissedReturn {
				t.Errorf("point = %v/%v, expected %v/missed return", ev.Side, ev.Reason, tt.scorer)
			}
			if next.Rally.InPlay {
				t.Error("ball should wait for the next serve")
			}
			if !next.Rally.Serving {
				t.Error("a side should be serving after a point")
			}
		})
	}
}

func TestGameWonAtWinScore(t *testing.T) {
	e := newTestEngine(core.VariantClassic)
	s := rallyState(e.Params, 798, 330, 5, 0)
	s.Scores = [2]int{10, 5}

	next, events := e.Tick(s, Input{})

	ev, ok := findEvent(events, EventGameWon)
	if !ok {
		t.Fatalf("expected game won, got %v", events)
	}
	if ev.Side != core.Player1 {
		t.Errorf("GameWon side = %v, expected P1", ev.Side)
	}
	if !next.GameOver || next.Winner != core.Player1 {
		t.Errorf("GameOver/Winner = %v/%v, expected true/P1", next.GameOver, next.Winner)
	}
	if _, point := findEvent(events, EventPointScored); point {
		t.Error("the winning point should be reported as GameWon only")
	}

	// A finished match does not advance.
	after, events := e.Tick(next, Input{P1: SideInput{Held: CtrlUp}})
	if len(events) != 0 {
		t.Errorf("Tick after game over emitted %v", events)
	}
	if after != next {
		t.Error("Tick after game over changed the state")
	}
}

func TestWinByTwo(t *testing.T) {
	tests := []struct {
		scores [2]int
		over   bool
	}{
		{[2]int{10, 10}, false},
		{[2]int{11, 10}, true},
		{[2]int{14, 14}, false},
		{[2]int{10, 3}, true},
	}

	for _, tt := range tests {
		e := newTestEngine(core.VariantClassic)
		s := rallyState(e.Params, 798, 330, 5, 0)
		s.Scores = tt.scores

		next, _ := e.Tick(s, Input{})
		if next.GameOver != tt.over {
			t.Errorf("P1 scoring at %v: GameOver = %v, expected %v", tt.scores, next.GameOver, tt.over)
		}
	}
}

func TestServePolicy(t *testing.T) {
	tests := []struct {
		policy config.ServePolicy
		server core.PlayerID
		next   core.PlayerID
	}{
		// P1 wins the point in every case.
		{config.ServeAlternate, core.Player1, core.Player2},
		{config.ServeAlternate, core.Player2, core.Player1},
		{config.ServeWinner, core.Player2, core.Player1},
		{config.ServeLoser, core.Player1, core.Player2},
	}

	for _, tt := range tests {
		p := DefaultParams(core.VariantClassic)
		p.ServePolicy = tt.policy
		e := NewEngine(p, fixedRand{f: 0.5})
		s := rallyState(p, 798, 330, 5, 0)
		s.Rally.Server = tt.server

		next, _ := e.Tick(s, Input{})
		if next.Rally.Server != tt.next {
			t.Errorf("%s policy, server %v: next server = %v, expected %v",
				tt.policy, tt.server, next.Rally.Server, tt.next)
		}
	}
}

func TestPaddleClamping(t *testing.T) {
	e := newTestEngine(core.VariantClassic)
	s := NewMatch(e.Params)
	s.Rally.ServeTicks = -1000 // keep auto-serve away

	up := Input{P1: SideInput{Held: CtrlUp}, P2: SideInput{Held: CtrlDown}}
	for range 200 {
		s, _ = e.Tick(s, up)
	}
	if s.Paddle(core.Player1).Y != 0 {
		t.Errorf("P1 paddle Y = %v, expected 0", s.Paddle(core.Player1).Y)
	}
	if s.Paddle(core.Player2).Y != e.Params.MaxPaddleY() {
		t.Errorf("P2 paddle Y = %v, expected %v", s.Paddle(core.Player2).Y, e.Params.MaxPaddleY())
	}

	// At the limit there is no movement and no event.
	_, events := e.Tick(s, up)
	if _, moved := findEvent(events, EventPaddleMoved); moved {
		t.Error("a clamped paddle should not report movement")
	}
}

func TestWallBounceKeepsBallInArena(t *testing.T) {
	e := newTestEngine(core.VariantClassic)
	r := e.Params.BallRadius()
	s := rallyState(e.Params, 400, r+1, 3, -5)

	next, events := e.Tick(s, Input{})

	if _, ok := findEvent(events, EventWallBounce); !ok {
		t.Fatalf("expected a wall bounce, got %v", events)
	}
	if next.Ball.DY <= 0 {
		t.Errorf("Ball.DY = %v, expected positive after the top wall", next.Ball.DY)
	}
	if next.Ball.Y < r {
		t.Errorf("Ball.Y = %v, expected at least %v", next.Ball.Y, r)
	}
}

func TestResetBallIdempotent(t *testing.T) {
	for _, v := range []core.Variant{core.VariantClassic, core.VariantTable} {
		p := DefaultParams(v)
		s := rallyState(p, 123, 45, 5, 5)
		s.Rally.ServeBounces = 1
		s.Rally.RallyBounces = 1
		s.Scores = [2]int{3, 4}

		once := ResetBall(p, s, core.Player2)
		twice := ResetBall(p, once, core.Player2)
		if once != twice {
			t.Errorf("%s: ResetBall twice differs from once", v)
		}
		if once.Rally.Server != core.Player2 || !once.Rally.Serving || once.Rally.InPlay {
			t.Errorf("%s: rally = %+v, expected P2 serving and waiting", v, once.Rally)
		}
		if once.Rally.ServeBounces != 0 || once.Rally.RallyBounces != 0 {
			t.Errorf("%s: bounce counters not reset: %+v", v, once.Rally)
		}
		if once.Scores != s.Scores {
			t.Errorf("%s: Scores = %v, expected %v", v, once.Scores, s.Scores)
		}
	}
}

func TestServeOnPressOnly(t *testing.T) {
	e := newTestEngine(core.VariantClassic)
	s := NewMatch(e.Params)

	held := Input{P1: SideInput{Held: CtrlUp}}
	s, events := e.Tick(s, held)
	if s.Rally.InPlay {
		t.Fatal("holding a control should not serve")
	}
	if _, ok := findEvent(events, EventServe); ok {
		t.Fatal("unexpected serve event")
	}

	press := Input{P1: SideInput{Held: CtrlUp, Pressed: CtrlUp}}
	s, events = e.Tick(s, press)
	ev, ok := findEvent(events, EventServe)
	if !ok {
		t.Fatalf("expected a serve, got %v", events)
	}
	if ev.Side != core.Player1 || ev.Serve != ServeNormal {
		t.Errorf("serve = %v/%v, expected P1/normal", ev.Side, ev.Serve)
	}
	if !s.Rally.InPlay || s.Rally.Serving {
		t.Errorf("rally = %+v, expected in play and no longer serving", s.Rally)
	}
	if s.Ball.DX <= 0 {
		t.Errorf("Ball.DX = %v, expected toward P2", s.Ball.DX)
	}
}

func TestReceiverCannotServe(t *testing.T) {
	e := newTestEngine(core.VariantClassic)
	s := NewMatch(e.Params)

	s, _ = e.Tick(s, Input{P2: SideInput{Held: CtrlSmash, Pressed: CtrlSmash}})
	if s.Rally.InPlay {
		t.Error("the receiver should not be able to serve")
	}
}

func TestServeTypes(t *testing.T) {
	p := DefaultParams(core.VariantClassic)
	tests := []struct {
		pressed Control
		serve   ServeType
		speed   float64
		chopped bool
	}{
		{CtrlUp, ServeNormal, p.BaseSpeed, false},
		{CtrlDown, ServeNormal, p.BaseSpeed, false},
		{CtrlSmash, ServeFast, p.BaseSpeed * p.FastServeMultiplier, false},
		{CtrlChop, ServeSlow, p.BaseSpeed * p.SlowServeMultiplier, true},
	}

	for _, tt := range tests {
		t.Run(tt.serve.String(), func(t *testing.T) {
			e := NewEngine(p, fixedRand{f: 0.5})
			s := NewMatch(p)
			s, _ = e.Tick(s, Input{P1: SideInput{Held: tt.pressed, Pressed: tt.pressed}})

			if s.Ball.Serve != tt.serve {
				t.Errorf("Ball.Serve = %v, expected %v", s.Ball.Serve, tt.serve)
			}
			if !approx(s.Ball.Speed, tt.speed) {
				t.Errorf("Ball.Speed = %v, expected %v", s.Ball.Speed, tt.speed)
			}
			if s.Ball.Chopped != tt.chopped {
				t.Errorf("Ball.Chopped = %v, expected %v", s.Ball.Chopped, tt.chopped)
			}
			if s.Ball.LastHitBy != core.Player1 {
				t.Errorf("LastHitBy = %v, expected P1", s.Ball.LastHitBy)
			}
		})
	}
}

func TestFastServeKick(t *testing.T) {
	p := DefaultParams(core.VariantClassic)
	e := NewEngine(p, fixedRand{f: 0.5, n: 1})
	s, _ := e.Tick(NewMatch(p), Input{P1: SideInput{Pressed: CtrlSmash}})

	angle := math.Atan2(math.Abs(s.Ball.DY), s.Ball.DX)
	if !approx(angle, p.FastServeAngle) {
		t.Errorf("fast serve angle = %v, expected %v", angle, p.FastServeAngle)
	}
}

func TestAutoServe(t *testing.T) {
	e := newTestEngine(core.VariantClassic)
	s := NewMatch(e.Params)

	for range e.Params.AutoServeTicks - 1 {
		s, _ = e.Tick(s, Input{})
	}
	if s.Rally.InPlay {
		t.Fatalf("served after %d ticks, expected to wait %d", s.Rally.ServeTicks, e.Params.AutoServeTicks)
	}
	s, events := e.Tick(s, Input{})
	if !s.Rally.InPlay {
		t.Fatal("expected the auto-serve to strike")
	}
	if ev, _ := findEvent(events, EventServe); ev.Serve != ServeNormal {
		t.Errorf("auto-serve = %v, expected normal", ev.Serve)
	}
}

// tableState returns a table-variant rally with the ball about to land.
func tableState(p Params, x, dx float64, lastHit core.PlayerID) MatchState {
	s := rallyState(p, x, 200, dx, 0)
	s.Ball.Altitude = 0.1
	s.Ball.VerticalSpeed = 0
	s.Ball.LastHitBy = lastHit
	return s
}

func TestTableServeFirstBounceWrongHalf(t *testing.T) {
	e := newTestEngine(core.VariantTable)
	s := tableState(e.Params, 450, 5, core.Player1)
	s.Rally.Serving = true
	s.Rally.Server = core.Player1

	next, events := e.Tick(s, Input{})

	ev, ok := findEvent(events, EventPointScored)
	if !ok {
		t.Fatalf("expected a point, got %v", events)
	}
	if ev.Side != core.Player2 || ev.Reason != ReasonServeFault {
		t.Errorf("point = %v/%v, expected P2/serve fault", ev.Side, ev.Reason)
	}
	if next.Rally.ServeBounces != 0 {
		t.Errorf("ServeBounces = %d, expected 0", next.Rally.ServeBounces)
	}
}

func TestTableBounceRules(t *testing.T) {
	tests := []struct {
		name         string
		x            float64
		serving      bool
		serveBounces int
		rallyBounces int
		scorer       core.PlayerID
		reason       PointReason
	}{
		{"serve second bounce on server half", 300, true, 1, 0, core.Player1, ReasonServeFault},
		{"rally bounce on hitter half", 300, false, 0, 0, core.Player2, ReasonWrongSide},
		{"second rally bounce", 600, false, 0, 1, core.Player1, ReasonDoubleBounce},
		{"long shot off the table", 760, false, 0, 0, core.Player2, ReasonOutOfBounds},
		{"bounced ball not returned", 760, false, 0, 1, core.Player1, ReasonMissedReturn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(core.VariantTable)
			s := tableState(e.Params, tt.x, 5, core.Player1)
			s.Rally.Server = core.Player1
			s.Rally.Serving = tt.serving
			s.Rally.ServeBounces = tt.serveBounces
			s.Rally.RallyBounces = tt.rallyBounces

			next, events := e.Tick(s, Input{})

			ev, ok := findEvent(events, EventPointScored)
			if !ok {
				t.Fatalf("expected a point, got %v", events)
			}
			if ev.Side != tt.scorer || ev.Reason != tt.reason {
				t.Errorf("point = %v/%v, expected %v/%v", ev.Side, ev.Reason, tt.scorer, tt.reason)
			}
			if next.LastReason != tt.reason {
				t.Errorf("LastReason = %v, expected %v", next.LastReason, tt.reason)
			}
		})
	}
}

func TestTableLegalBounces(t *testing.T) {
	e := newTestEngine(core.VariantTable)

	// Second serve bounce on the receiver's half completes the serve.
	s := tableState(e.Params, 600, 5, core.Player1)
	s.Rally.Serving = true
	s.Rally.ServeBounces = 1
	next, events := e.Tick(s, Input{})
	if _, ok := findEvent(events, EventPointScored); ok {
		t.Fatalf("unexpected point: %v", events)
	}
	if next.Rally.Serving || next.Rally.ServeBounces != 2 || next.Rally.RallyBounces != 1 {
		t.Errorf("rally = %+v, expected serve complete with one rally bounce", next.Rally)
	}

	// A rally bounce on the receiver's half is counted and the ball rises again.
	s = tableState(e.Params, 600, 5, core.Player1)
	next, events = e.Tick(s, Input{})
	ev, ok := findEvent(events, EventBounce)
	if !ok || ev.Side != core.Player2 {
		t.Fatalf("expected a bounce on P2's half, got %v", events)
	}
	if next.Rally.RallyBounces != 1 {
		t.Errorf("RallyBounces = %d, expected 1", next.Rally.RallyBounces)
	}
	if next.Ball.VerticalSpeed <= 0 || next.Ball.Altitude != 0 {
		t.Errorf("altitude %v, vertical speed %v: expected lossy rebound from 0",
			next.Ball.Altitude, next.Ball.VerticalSpeed)
	}
}

func TestTableReturnBeforeBounceIsLong(t *testing.T) {
	e := newTestEngine(core.VariantTable)
	s := rallyState(e.Params, 782, 200, 5, 0)
	s.Ball.Altitude = 20
	s.Ball.LastHitBy = core.Player1

	_, events := e.Tick(s, Input{})

	ev, ok := findEvent(events, EventPointScored)
	if !ok {
		t.Fatalf("expected a point, got %v", events)
	}
	if ev.Side != core.Player2 || ev.Reason != ReasonOutOfBounds {
		t.Errorf("point = %v/%v, expected P2/out", ev.Side, ev.Reason)
	}
}

func TestTableServeFlight(t *testing.T) {
	e := newTestEngine(core.VariantTable)
	s := NewMatch(e.Params)

	s, events := e.Tick(s, Input{P1: SideInput{Pressed: CtrlUp}})
	if _, ok := findEvent(events, EventServe); !ok {
		t.Fatalf("expected a serve, got %v", events)
	}

	var seen []Event
	for range 300 {
		s, events = e.Tick(s, Input{})
		for _, ev := range events {
			if ev.Kind == EventBounce || ev.IsHit() || ev.EndsRally() {
				seen = append(seen, ev)
			}
		}
		if len(seen) > 0 && (seen[len(seen)-1].IsHit() || seen[len(seen)-1].EndsRally()) {
			break
		}
	}

	expected := []Event{
		{Kind: EventBounce, Side: core.Player1},
		{Kind: EventBounce, Side: core.Player2},
		{Kind: EventReturn, Side: core.Player2},
	}
	if len(seen) != len(expected) {
		t.Fatalf("events = %v, expected %v", seen, expected)
	}
	for i := range expected {
		if seen[i].Kind != expected[i].Kind || seen[i].Side != expected[i].Side {
			t.Errorf("event %d = %v/%v, expected %v/%v",
				i, seen[i].Kind, seen[i].Side, expected[i].Kind, expected[i].Side)
		}
	}
	if s.Ball.DX >= 0 {
		t.Errorf("Ball.DX = %v, expected the return to head toward P1", s.Ball.DX)
	}
}

func TestMatchInvariants(t *testing.T) {
	for _, v := range []core.Variant{core.VariantClassic, core.VariantTable} {
		t.Run(v.String(), func(t *testing.T) {
			rng := rand.New(rand.NewSource(42))
			p := DefaultParams(v)
			e := NewEngine(p, rng)
			ai := config.DefaultPongConfig().AI
			left := NewPolicy(core.Player1, p, ai, core.DifficultyHard, rng)
			right := NewPolicy(core.Player2, p, ai, core.DifficultyEasy, rng)

			s := NewMatch(p)
			r := p.BallRadius()
			for i := range 20000 {
				prev := s
				in := Input{P1: left.Decide(s), P2: right.Decide(s)}
				var events []Event
				s, events = e.Tick(s, in)
				left.Observe(events)
				right.Observe(events)

				if s.Ball.Y < r || s.Ball.Y > p.ArenaH-r {
					t.Fatalf("tick %d: ball y = %v outside [%v, %v]", i, s.Ball.Y, r, p.ArenaH-r)
				}
				for _, pad := range s.Paddles {
					if pad.Y < 0 || pad.Y > p.MaxPaddleY() {
						t.Fatalf("tick %d: paddle y = %v outside the arena", i, pad.Y)
					}
				}
				if s.Scores[0] < prev.Scores[0] || s.Scores[1] < prev.Scores[1] {
					t.Fatalf("tick %d: score went down %v -> %v", i, prev.Scores, s.Scores)
				}
				if s.Rally.Server != core.Player1 && s.Rally.Server != core.Player2 {
					t.Fatalf("tick %d: no server", i)
				}
				if s.GameOver {
					w := s.Score(s.Winner)
					l := s.Score(s.Winner.Opponent())
					if w < p.WinScore || w-l < p.WinBy {
						t.Fatalf("game over at %v", s.Scores)
					}
					break
				}
			}
		})
	}
}

func TestDeterministicReplay(t *testing.T) {
	run := func() MatchState {
		rng := rand.New(rand.NewSource(7))
		p := DefaultParams(core.VariantTable)
		e := NewEngine(p, rng)
		ai := config.DefaultPongConfig().AI
		left := NewPolicy(core.Player1, p, ai, core.DifficultyMedium, rng)
		right := NewPolicy(core.Player2, p, ai, core.DifficultyMedium, rng)
		s := NewMatch(p)
		for range 3000 {
			var events []Event
			s, events = e.Tick(s, Input{P1: left.Decide(s), P2: right.Decide(s)})
			left.Observe(events)
			right.Observe(events)
		}
		return s
	}

	a, b := run(), run()
	if a != b {
		t.Errorf("replay diverged: %+v vs %+v", a.Ball, b.Ball)
	}
}
