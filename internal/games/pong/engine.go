package pong

import (
	"math/rand"

	"github.com/vovakirdan/tui-pong/internal/config"
	"github.com/vovakirdan/tui-pong/internal/core"
)

// Rand is the random source used by the engine and the opponent policy.
// *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// Engine advances a MatchState one tick at a time.
// It holds no match state itself; only the parameters and the random source.
type Engine struct {
	Params Params
	rng    Rand
}

// NewEngine creates an engine. A nil rng uses a fixed seed.
func NewEngine(p Params, rng Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Engine{Params: p, rng: rng}
}

// step carries the working state of a single tick.
type step struct {
	p      Params
	rng    Rand
	s      MatchState
	in     Input
	events []Event
	ended  bool // the rally ended this tick
}

func (t *step) emit(e Event) {
	t.events = append(t.events, e)
}

// Tick advances the match by one tick and returns the new state with the
// events that happened, in order. A finished match is returned unchanged.
func (e *Engine) Tick(s MatchState, in Input) (MatchState, []Event) {
	if s.GameOver {
		return s, nil
	}

	t := &step{p: e.Params, rng: e.rng, s: s, in: in}
	t.s.Tick++
	t.movePaddles()

	if !t.s.Rally.InPlay {
		t.waitServe()
		return t.s, t.events
	}

	t.moveBall()
	if side := t.s.Ball.Heading(); t.touchesPaddle(side) {
		t.hit(side)
		// A paddle contact never counts as a table bounce on the same tick.
		return t.s, t.events
	}
	if t.p.Variant == core.VariantTable {
		t.checkLanding()
	}
	if !t.ended {
		t.checkExit()
	}
	return t.s, t.events
}

// movePaddles applies each side's up/down or steering intent.
func (t *step) movePaddles() {
	for _, side := range []core.PlayerID{core.Player1, core.Player2} {
		si := t.in.For(side)
		pad := t.s.Paddle(side)
		y := pad.Y
		if si.Steering {
			y += si.Steer
		} else {
			if si.Held.Has(CtrlUp) {
				y -= pad.Speed
			}
			if si.Held.Has(CtrlDown) {
				y += pad.Speed
			}
		}
		t.s.SetPaddleY(t.p, side, y)
		if moved := t.s.Paddle(side).Y; moved != pad.Y {
			t.emit(Event{Kind: EventPaddleMoved, Side: side, Y: moved})
		}
	}
}

// waitServe keeps the ball at its serve position and strikes it when the
// server asks, or automatically once the wait runs out.
func (t *step) waitServe() {
	r := &t.s.Rally
	r.ServeTicks++
	placeServeBall(t.p, &t.s)

	serve := t.in.For(r.Server).serveRequest()
	if serve == ServeNone && t.p.AutoServeTicks > 0 && r.ServeTicks >= t.p.AutoServeTicks {
		serve = ServeNormal
	}
	if serve != ServeNone {
		t.strikeServe(serve)
	}
}

// award gives a point to side and resets the ball, or ends the match.
func (t *step) award(side core.PlayerID, reason PointReason) {
	s := &t.s
	s.Scores[idx(side)]++
	s.LastReason = reason
	t.ended = true

	next := t.nextServer(side)
	lead := s.Score(side) - s.Score(side.Opponent())
	if s.Score(side) >= t.p.WinScore && lead >= t.p.WinBy {
		s.GameOver = true
		s.Winner = side
		t.emit(Event{Kind: EventGameWon, Side: side, Reason: reason})
	} else {
		t.emit(Event{Kind: EventPointScored, Side: side, Reason: reason})
	}
	t.s = ResetBall(t.p, t.s, next)
}

func (t *step) nextServer(scorer core.PlayerID) core.PlayerID {
	switch t.p.ServePolicy {
	case config.ServeWinner:
		return scorer
	case config.ServeLoser:
		return scorer.Opponent()
	default:
		return t.s.Rally.Server.Opponent()
	}
}
