package pong

import (
	"math"

	"github.com/vovakirdan/tui-pong/internal/config"
	"github.com/vovakirdan/tui-pong/internal/core"
)

// Params is the immutable configuration of an Engine.
type Params struct {
	Variant core.Variant

	ArenaW, ArenaH float64

	PaddleW, PaddleH float64
	PaddleSpeed      float64

	BallSize  float64
	BaseSpeed float64
	SpinBase  float64
	SpinRange float64

	ChopMultiplier      float64
	SmashMultiplier     float64
	FastServeMultiplier float64
	SlowServeMultiplier float64
	ServeAngle          float64 // radians
	FastServeAngle      float64 // radians

	Table        core.Box
	NetX         float64
	Gravity      float64
	BounceRetain float64
	ServeDepth   float64
	ReturnDepth  float64
	SmashDepth   float64
	ChopDepth    float64
	DepthSpread  float64
	AngleScale   float64

	WinScore       int
	WinBy          int
	ServePolicy    config.ServePolicy
	AutoServeTicks int
}

// ParamsFromConfig derives engine parameters for a variant.
func ParamsFromConfig(cfg config.PongConfig, v core.Variant) Params {
	w, h := cfg.Arena.Width, cfg.Arena.Height
	return Params{
		Variant: v,
		ArenaW:  w,
		ArenaH:  h,

		PaddleW:     cfg.Paddle.Width,
		PaddleH:     cfg.Paddle.Height,
		PaddleSpeed: cfg.Paddle.Speed,

		BallSize:  cfg.Ball.Size,
		BaseSpeed: cfg.Ball.BaseSpeed,
		SpinBase:  cfg.Ball.SpinBase,
		SpinRange: cfg.Ball.SpinRange,

		ChopMultiplier:      cfg.Shots.ChopMultiplier,
		SmashMultiplier:     cfg.Shots.SmashMultiplier,
		FastServeMultiplier: cfg.Shots.FastServeMultiplier,
		SlowServeMultiplier: cfg.Shots.SlowServeMultiplier,
		ServeAngle:          cfg.Shots.ServeAngle * math.Pi / 180,
		FastServeAngle:      cfg.Shots.FastServeAngle * math.Pi / 180,

		Table: core.Box{
			X: cfg.Table.MarginX,
			Y: cfg.Table.MarginY,
			W: w - 2*cfg.Table.MarginX,
			H: h - 2*cfg.Table.MarginY,
		},
		NetX:         w / 2,
		Gravity:      cfg.Table.Gravity,
		BounceRetain: cfg.Table.BounceRetain,
		ServeDepth:   cfg.Table.ServeDepth,
		ReturnDepth:  cfg.Table.ReturnDepth,
		SmashDepth:   cfg.Table.SmashDepth,
		ChopDepth:    cfg.Table.ChopDepth,
		DepthSpread:  cfg.Table.DepthSpread,
		AngleScale:   cfg.Table.AngleScale,

		WinScore:       cfg.Rules.WinScore,
		WinBy:          cfg.Rules.WinBy,
		ServePolicy:    cfg.Rules.ServePolicy,
		AutoServeTicks: cfg.Rules.AutoServeTicks,
	}
}

// DefaultParams returns the built-in parameters for a variant.
func DefaultParams(v core.Variant) Params {
	return ParamsFromConfig(config.DefaultPongConfig(), v)
}

// BallRadius returns half the ball size.
func (p Params) BallRadius() float64 {
	return p.BallSize / 2
}

// MaxPaddleY is the lowest legal paddle top edge.
func (p Params) MaxPaddleY() float64 {
	return p.ArenaH - p.PaddleH
}

// PaddleX returns the left edge of a side's paddle.
// Paddles sit flush against the left and right arena edges.
func (p Params) PaddleX(side core.PlayerID) float64 {
	if side == core.Player2 {
		return p.ArenaW - p.PaddleW
	}
	return 0
}

// FaceX returns the x coordinate of the paddle face that meets the ball.
func (p Params) FaceX(side core.PlayerID) float64 {
	if side == core.Player2 {
		return p.PaddleX(side)
	}
	return p.PaddleX(side) + p.PaddleW
}

// Away returns the horizontal direction a side hits toward.
func Away(side core.PlayerID) float64 {
	if side == core.Player2 {
		return -1
	}
	return 1
}

// HalfOf returns the side owning the table half at x.
func (p Params) HalfOf(x float64) core.PlayerID {
	if x < p.NetX {
		return core.Player1
	}
	return core.Player2
}
