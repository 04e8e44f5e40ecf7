package pong

import (
	"math"

	"github.com/vovakirdan/tui-pong/internal/core"
)

// ServeType tags how the current leg was served.
type ServeType int

const (
	ServeNone ServeType = iota
	ServeFast
	ServeNormal
	ServeSlow
)

func (s ServeType) String() string {
	switch s {
	case ServeFast:
		return "fast"
	case ServeNormal:
		return "normal"
	case ServeSlow:
		return "slow"
	default:
		return "none"
	}
}

// Paddle is one side's paddle. Y is the top edge.
type Paddle struct {
	X, Y  float64
	W, H  float64
	Speed float64
}

// Center returns the paddle's vertical centre.
func (p Paddle) Center() float64 { return p.Y + p.H/2 }

// Ball is the ball's kinematic and rule state. X and Y are its centre.
type Ball struct {
	X, Y   float64
	DX, DY float64

	// Speed is |(DX, DY)|, recomputed after every velocity change.
	Speed     float64
	BaseSpeed float64

	Chopped      bool
	ChopReturned bool
	LastHitBy    core.PlayerID

	// Altitude above the table and its rate of change (table variant only).
	Altitude      float64
	VerticalSpeed float64

	Serve ServeType
}

// setVelocity assigns the velocity and re-derives Speed.
func (b *Ball) setVelocity(dx, dy float64) {
	b.DX, b.DY = dx, dy
	b.Speed = math.Hypot(dx, dy)
}

// Heading returns the side the ball travels toward, or NoPlayer if it is still.
func (b Ball) Heading() core.PlayerID {
	switch {
	case b.DX < 0:
		return core.Player1
	case b.DX > 0:
		return core.Player2
	default:
		return core.NoPlayer
	}
}

// Rally tracks serving and bounce counting.
type Rally struct {
	Server core.PlayerID
	// Serving is true from the end of a point until the serve is complete:
	// the strike in the classic variant, two legal bounces in the table variant.
	Serving bool
	// InPlay is false while the ball waits for the serve strike.
	InPlay bool
	// ServeBounces counts legal serve bounces (0, 1, 2 = complete).
	ServeBounces int
	// RallyBounces counts table bounces since the last paddle hit.
	RallyBounces int
	// ServeTicks counts ticks spent waiting for the serve strike.
	ServeTicks int
}

// Receiver returns the side receiving the serve.
func (r Rally) Receiver() core.PlayerID {
	return r.Server.Opponent()
}

// MatchState is the complete simulation state of one match.
type MatchState struct {
	Paddles [2]Paddle // indexed by side-1
	Ball    Ball
	Scores  [2]int // indexed by side-1
	Rally   Rally

	GameOver   bool
	Winner     core.PlayerID
	LastReason PointReason
	Tick       int
}

func idx(side core.PlayerID) int {
	if side == core.Player2 {
		return 1
	}
	return 0
}

// Paddle returns a side's paddle.
func (s MatchState) Paddle(side core.PlayerID) Paddle {
	return s.Paddles[idx(side)]
}

// Score returns a side's score.
func (s MatchState) Score(side core.PlayerID) int {
	return s.Scores[idx(side)]
}

// SetPaddleY moves a side's paddle, clamped to the arena.
func (s *MatchState) SetPaddleY(p Params, side core.PlayerID, y float64) {
	s.Paddles[idx(side)].Y = core.ClampF(y, 0, p.MaxPaddleY())
}

// NewMatch builds a fresh match: centred paddles, zero scores, Player1 to serve.
func NewMatch(p Params) MatchState {
	var s MatchState
	for _, side := range []core.PlayerID{core.Player1, core.Player2} {
		s.Paddles[idx(side)] = Paddle{
			X:     p.PaddleX(side),
			Y:     (p.ArenaH - p.PaddleH) / 2,
			W:     p.PaddleW,
			H:     p.PaddleH,
			Speed: p.PaddleSpeed,
		}
	}
	return ResetBall(p, s, core.Player1)
}

// ResetBall puts the ball in its serve-ready position for server and resets
// the rally. Scores and paddles are untouched. Calling it repeatedly yields
// the same state.
func ResetBall(p Params, s MatchState, server core.PlayerID) MatchState {
	if server != core.Player2 {
		server = core.Player1
	}
	s.Ball = Ball{BaseSpeed: p.BaseSpeed}
	s.Rally = Rally{Server: server, Serving: true}
	placeServeBall(p, &s)
	return s
}

// placeServeBall positions a waiting ball: arena centre in the classic
// variant, in front of the server's paddle face in the table variant.
func placeServeBall(p Params, s *MatchState) {
	if p.Variant != core.VariantTable {
		s.Ball.X, s.Ball.Y = p.ArenaW/2, p.ArenaH/2
		return
	}
	server := s.Rally.Server
	s.Ball.X = p.FaceX(server) + Away(server)*p.BallRadius()
	s.Ball.Y = s.Paddle(server).Center()
}
