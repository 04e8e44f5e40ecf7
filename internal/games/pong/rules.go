package pong

import "github.com/vovakirdan/tui-pong/internal/core"

// landedForReceiver reports whether the ball has legally bounced on the
// receiver's half since it was last hit.
func (t *step) landedForReceiver() bool {
	return !t.s.Rally.Serving && t.s.Rally.RallyBounces >= 1
}

// checkLanding handles the ball coming down: a table bounce inside the
// table, the end of the rally anywhere else.
func (t *step) checkLanding() {
	b := &t.s.Ball
	if b.Altitude > 0 {
		return
	}
	if !t.p.Table.Contains(b.X, b.Y) {
		t.ballLost()
		return
	}

	half := t.p.HalfOf(b.X)
	b.Altitude = 0
	b.VerticalSpeed = -b.VerticalSpeed * t.p.BounceRetain
	t.emit(Event{Kind: EventBounce, Side: half})

	r := &t.s.Rally
	if r.Serving {
		t.serveBounce(half)
		return
	}

	if half == b.LastHitBy {
		t.award(b.LastHitBy.Opponent(), ReasonWrongSide)
		return
	}
	r.RallyBounces++
	if r.RallyBounces >= 2 {
		t.award(b.LastHitBy, ReasonDoubleBounce)
	}
}

// serveBounce enforces serve legality: first bounce on the server's half,
// second on the receiver's.
func (t *step) serveBounce(half core.PlayerID) {
	r := &t.s.Rally
	switch r.ServeBounces {
	case 0:
		if half != r.Server {
			t.award(r.Receiver(), ReasonServeFault)
			return
		}
		r.ServeBounces = 1
	default:
		if half != r.Receiver() {
			t.award(r.Server, ReasonServeFault)
			return
		}
		r.ServeBounces = 2
		r.Serving = false
		r.RallyBounces = 1
	}
}

// checkExit ends the rally when the ball leaves the arena past a paddle.
func (t *step) checkExit() {
	b := t.s.Ball
	if b.X > 0 && b.X < t.p.ArenaW {
		return
	}
	if t.p.Variant == core.VariantTable {
		t.ballLost()
		return
	}
	if b.X <= 0 {
		t.award(core.Player2, ReasonMissedReturn)
	} else {
		t.award(core.Player1, ReasonMissedReturn)
	}
}

// ballLost ends a table rally on a floor contact or an exit. Before a legal
// bounce on the receiver's half the hitter missed the table; after it the
// receiver failed to return.
func (t *step) ballLost() {
	hitter := t.s.Ball.LastHitBy
	if hitter == core.NoPlayer {
		hitter = t.p.HalfOf(t.s.Ball.X)
	}
	if t.landedForReceiver() {
		t.award(hitter, ReasonMissedReturn)
		return
	}
	t.award(hitter.Opponent(), ReasonOutOfBounds)
}
