package pong

import (
	"math"

	"github.com/vovakirdan/tui-pong/internal/config"
	"github.com/vovakirdan/tui-pong/internal/core"
)

// Prediction is where the ball will cross a paddle face and how soon.
type Prediction struct {
	Y     float64
	Ticks float64 // +Inf when the ball is not coming
}

// Finite reports whether the ball is actually on its way.
func (p Prediction) Finite() bool {
	return !math.IsInf(p.Ticks, 1)
}

// Predict projects the ball in a straight line to side's paddle face and
// folds the result back between the top and bottom edges, resolving any
// number of wall bounces at once. A ball that is not heading toward side
// predicts its current y.
func Predict(p Params, s MatchState, side core.PlayerID) Prediction {
	b := s.Ball
	if !s.Rally.InPlay || b.Heading() != side {
		return Prediction{Y: b.Y, Ticks: math.Inf(1)}
	}

	r := p.BallRadius()
	var dist float64
	if side == core.Player2 {
		dist = p.FaceX(side) - r - b.X
	} else {
		dist = b.X - r - p.FaceX(side)
	}
	ticks := math.Max(dist, 0) / math.Abs(b.DX)
	y := b.Y + b.DY*ticks
	return Prediction{
		Y:     r + core.MirrorFold(y-r, p.ArenaH-2*r),
		Ticks: ticks,
	}
}

type intentState int

const (
	intentIdle intentState = iota
	intentArmed
	intentFired
)

// specialMove is a delayed chop or smash: armed with a countdown, fired
// when it runs out, and held until the next paddle contact consumes it.
type specialMove struct {
	state     intentState
	remaining int
	control   Control
}

func (m *specialMove) arm(c Control, ticks int) {
	m.control = c
	if ticks <= 0 {
		m.state = intentFired
		return
	}
	m.state = intentArmed
	m.remaining = ticks
}

func (m *specialMove) advance() {
	if m.state != intentArmed {
		return
	}
	m.remaining--
	if m.remaining <= 0 {
		m.state = intentFired
	}
}

func (m *specialMove) held() Control {
	if m.state == intentFired {
		return m.control
	}
	return 0
}

func (m *specialMove) reset() {
	*m = specialMove{}
}

// Policy is the scripted opponent for one side.
type Policy struct {
	side       core.PlayerID
	params     Params
	profile    config.ProfileConfig
	horizon    float64
	lead       int
	serveDelay int
	rng        Rand

	onLeg   bool // the ball is on its way to us
	planned bool // the special move for this leg has been decided
	noise   float64
	special specialMove
}

// NewPolicy creates an opponent for side with the difficulty's profile.
func NewPolicy(side core.PlayerID, p Params, ai config.AIConfig, d core.Difficulty, rng Rand) *Policy {
	return &Policy{
		side:       side,
		params:     p,
		profile:    ai.Profile(d),
		horizon:    float64(ai.HorizonTicks),
		lead:       ai.LeadTicks,
		serveDelay: ai.ServeDelay,
		rng:        rng,
	}
}

// Side returns the side the policy plays.
func (a *Policy) Side() core.PlayerID {
	return a.side
}

// Reset forgets any leg in progress.
func (a *Policy) Reset() {
	a.onLeg = false
	a.planned = false
	a.noise = 0
	a.special.reset()
}

// Decide returns the policy's input for the next tick.
func (a *Policy) Decide(s MatchState) SideInput {
	si := SideInput{Steering: true}
	pad := s.Paddle(a.side)
	b := s.Ball

	if !s.Rally.InPlay && s.Rally.Server == a.side && s.Rally.ServeTicks >= a.serveDelay {
		si.Serve = ServeType(int(ServeFast) + a.rng.Intn(3))
	}

	incoming := s.Rally.InPlay && b.Heading() == a.side
	switch {
	case !incoming:
		a.onLeg = false
		a.noise = 0
	case !a.onLeg:
		a.onLeg = true
		a.planned = false
		a.noise = (a.rng.Float64()*2 - 1) * a.profile.Noise
	}

	pred := Predict(a.params, s, a.side)
	if incoming && !a.planned && pred.Ticks < a.horizon {
		a.planned = true
		a.plan(s, pred)
	}
	a.special.advance()
	si.Held |= a.special.held()

	target := pred.Y + a.noise - pad.H/2
	diff := target - pad.Y
	if math.Abs(diff) <= pad.H/4 {
		return si
	}
	step := math.Min(a.profile.Step(), math.Abs(diff))
	dir := core.Sign(diff)
	if a.profile.WrongDirection > 0 && a.rng.Float64() < a.profile.WrongDirection {
		dir = -dir
	}
	si.Steer = dir * step
	return si
}

// plan decides once per leg whether to chop or smash the incoming ball.
func (a *Policy) plan(s MatchState, pred Prediction) {
	b := s.Ball
	fireIn := int(pred.Ticks) - a.lead

	if b.Chopped && b.LastHitBy == a.side.Opponent() {
		if a.rng.Float64() < a.profile.ChopReturn {
			a.special.arm(CtrlChop, fireIn)
		}
		return
	}
	if a.rng.Float64() >= a.profile.SpecialChance {
		return
	}

	smashChance := 0.35
	if b.Speed < b.BaseSpeed || s.Score(a.side) < s.Score(a.side.Opponent()) {
		smashChance = 0.75
	}
	if a.rng.Float64() < smashChance {
		a.special.arm(CtrlSmash, fireIn)
	} else {
		a.special.arm(CtrlChop, fireIn)
	}
}

// Observe clears a fired move once the engine has used it: on our own
// paddle contact or when the rally ends.
func (a *Policy) Observe(events []Event) {
	for _, e := range events {
		if (e.IsHit() && e.Side == a.side) || e.EndsRally() {
			a.special.reset()
		}
	}
}
