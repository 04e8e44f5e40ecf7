package pong

import "github.com/vovakirdan/tui-pong/internal/core"

// Snapshot is the read-only view of a match handed to render adapters.
type Snapshot struct {
	Variant core.Variant
	Mode    core.Mode

	ArenaW, ArenaH float64
	Table          core.Box
	NetX           float64

	PaddleW, PaddleH float64
	PaddleY          [2]float64
	Held             [2]Control // controls held on the last tick

	BallX, BallY float64
	BallSize     float64
	Altitude     float64
	Chopped      bool

	Scores     [2]int
	Server     core.PlayerID
	Serving    bool
	InPlay     bool
	ServeTicks int

	LastEvent  Event
	LastReason PointReason
	GameOver   bool
	Winner     core.PlayerID
	Paused     bool
}

// Snapshot returns the current view of the match.
func (g *Game) Snapshot() Snapshot {
	p := g.engine.Params
	s := g.state
	r := p.BallRadius()
	return Snapshot{
		Variant: p.Variant,
		Mode:    g.runtime.Mode,

		ArenaW: p.ArenaW,
		ArenaH: p.ArenaH,
		Table:  p.Table,
		NetX:   p.NetX,

		PaddleW: p.PaddleW,
		PaddleH: p.PaddleH,
		PaddleY: [2]float64{s.Paddles[0].Y, s.Paddles[1].Y},
		Held:    g.held,

		BallX:    core.ClampF(s.Ball.X, 0, p.ArenaW),
		BallY:    core.ClampF(s.Ball.Y, r, p.ArenaH-r),
		BallSize: p.BallSize,
		Altitude: s.Ball.Altitude,
		Chopped:  s.Ball.Chopped,

		Scores:     s.Scores,
		Server:     s.Rally.Server,
		Serving:    s.Rally.Serving,
		InPlay:     s.Rally.InPlay,
		ServeTicks: s.Rally.ServeTicks,

		LastEvent:  g.lastEvent,
		LastReason: s.LastReason,
		GameOver:   s.GameOver,
		Winner:     s.Winner,
		Paused:     g.paused,
	}
}
