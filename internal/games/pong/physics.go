package pong

import (
	"math"

	"github.com/vovakirdan/tui-pong/internal/core"
)

// moveBall advances the ball one tick and reflects it off the top and
// bottom arena edges. In the table variant gravity acts on its altitude.
func (t *step) moveBall() {
	b := &t.s.Ball
	r := t.p.BallRadius()

	b.X += b.DX
	b.Y += b.DY

	switch {
	case b.Y-r <= 0 && b.DY < 0:
		b.DY = -b.DY
		t.emit(Event{Kind: EventWallBounce})
	case b.Y+r >= t.p.ArenaH && b.DY > 0:
		b.DY = -b.DY
		t.emit(Event{Kind: EventWallBounce})
	}
	b.Y = core.ClampF(b.Y, r, t.p.ArenaH-r)

	if t.p.Variant == core.VariantTable {
		b.VerticalSpeed -= t.p.Gravity
		b.Altitude += b.VerticalSpeed
	}
}

// touchesPaddle reports whether the ball's leading edge has reached side's
// paddle face while its vertical span overlaps the paddle.
func (t *step) touchesPaddle(side core.PlayerID) bool {
	if side == core.NoPlayer {
		return false
	}
	b := t.s.Ball
	pad := t.s.Paddle(side)
	r := t.p.BallRadius()
	face := t.p.FaceX(side)

	if side == core.Player1 {
		if b.X-r > face || b.X < pad.X {
			return false
		}
	} else {
		if b.X+r < face || b.X > pad.X+pad.W {
			return false
		}
	}
	return core.SpanOverlaps(b.Y-r, b.Y+r, pad.Y, pad.H)
}

// hit resolves a paddle contact: the missed-chop check first, then a smash,
// chop or neutral return.
func (t *step) hit(side core.PlayerID) {
	b := &t.s.Ball

	if t.p.Variant == core.VariantTable && !t.landedForReceiver() {
		// The shot never touched the receiver's half: it went long.
		t.award(side, ReasonOutOfBounds)
		return
	}

	si := t.in.For(side)
	chop := si.Held.Has(CtrlChop)
	smash := si.Held.Has(CtrlSmash)

	if b.Chopped && !b.ChopReturned && b.LastHitBy == side.Opponent() {
		if !chop {
			t.award(side.Opponent(), ReasonMissedChop)
			return
		}
		b.ChopReturned = true
	}

	kind, mult, depth := EventReturn, 1.0, t.p.ReturnDepth
	switch {
	case smash:
		kind, mult, depth = EventSmash, t.p.SmashMultiplier, t.p.SmashDepth
	case chop:
		kind, mult, depth = EventChop, t.p.ChopMultiplier, t.p.ChopDepth
	}

	pad := t.s.Paddle(side)
	offset := core.ClampF((b.Y-pad.Center())/(pad.H/2), -1, 1)
	vsign := core.Sign(b.DY)
	if vsign == 0 {
		vsign = core.Sign(offset)
	}
	k := (t.p.SpinBase + t.p.SpinRange*math.Abs(offset)) * t.angleScale()
	dirX, dirY := Away(side), vsign*k
	n := math.Hypot(dirX, dirY)
	speed := t.p.BaseSpeed * mult
	b.setVelocity(dirX/n*speed, dirY/n*speed)

	b.X = t.p.FaceX(side) + Away(side)*t.p.BallRadius()
	b.Chopped = kind == EventChop
	b.ChopReturned = false
	b.LastHitBy = side
	b.Serve = ServeNone
	t.s.Rally.RallyBounces = 0

	if t.p.Variant == core.VariantTable {
		target := t.returnTarget(side, t.jitter(depth, mult))
		t.launch(target)
	}
	t.emit(Event{Kind: kind, Side: side})
}

// strikeServe launches the waiting ball toward the receiver.
func (t *step) strikeServe(serve ServeType) {
	b := &t.s.Ball
	r := &t.s.Rally
	server := r.Server

	speed, mult := t.p.BaseSpeed, 1.0
	angle := (t.rng.Float64()*2 - 1) * t.p.ServeAngle
	switch serve {
	case ServeFast:
		mult = t.p.FastServeMultiplier
		angle = t.p.FastServeAngle
		if t.rng.Intn(2) == 0 {
			angle = -angle
		}
	case ServeSlow:
		mult = t.p.SlowServeMultiplier
	}
	speed *= mult
	angle *= t.angleScale()

	b.setVelocity(Away(server)*speed*math.Cos(angle), speed*math.Sin(angle))
	b.Serve = serve
	b.LastHitBy = server
	b.Chopped = serve == ServeSlow
	b.ChopReturned = false
	r.InPlay = true

	if t.p.Variant == core.VariantTable {
		t.launch(t.serveTarget(server, t.jitter(t.p.ServeDepth, mult)))
	} else {
		r.Serving = false
	}
	t.emit(Event{Kind: EventServe, Side: server, Serve: serve})
}

// launch sets the vertical speed so that the ball, leaving the table at
// altitude zero, comes down at targetX.
func (t *step) launch(targetX float64) {
	b := &t.s.Ball
	b.Altitude = 0
	b.VerticalSpeed = 0
	if b.DX == 0 {
		return
	}
	ticks := math.Abs(targetX-b.X) / math.Abs(b.DX)
	// Altitude after n ticks is n*v - g*n*(n+1)/2; zero at n = ticks.
	b.VerticalSpeed = t.p.Gravity * (ticks + 1) / 2
}

// serveTarget is the first-bounce x of a serve, depth measured from the
// server's own table end toward the net.
func (t *step) serveTarget(server core.PlayerID, depth float64) float64 {
	tb := t.p.Table
	if server == core.Player2 {
		return tb.Right() - (tb.Right()-t.p.NetX)*depth
	}
	return tb.X + (t.p.NetX-tb.X)*depth
}

// returnTarget is the landing x of a return, depth measured from the net
// into the opponent's half.
func (t *step) returnTarget(hitter core.PlayerID, depth float64) float64 {
	tb := t.p.Table
	if hitter == core.Player2 {
		return t.p.NetX - (t.p.NetX-tb.X)*depth
	}
	return t.p.NetX + (tb.Right()-t.p.NetX)*depth
}

// jitter spreads a landing depth; faster shots are less precise.
func (t *step) jitter(depth, mult float64) float64 {
	if t.p.DepthSpread == 0 {
		return depth
	}
	return depth + (t.rng.Float64()*2-1)*t.p.DepthSpread*mult
}

func (t *step) angleScale() float64 {
	if t.p.Variant == core.VariantTable && t.p.AngleScale > 0 {
		return t.p.AngleScale
	}
	return 1
}
