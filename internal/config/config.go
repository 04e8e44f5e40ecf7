// Package config provides YAML-based game configuration loading and
// difficulty profiles for the pong simulation.
package config

import (
	"errors"
	"fmt"
)

// PongConfig contains all tunables of the simulation.
// Distances are arena units, speeds are units per tick.
type PongConfig struct {
	Arena    ArenaConfig    `yaml:"arena"`
	Paddle   PaddleConfig   `yaml:"paddle"`
	Ball     BallConfig     `yaml:"ball"`
	Shots    ShotsConfig    `yaml:"shots"`
	Table    TableConfig    `yaml:"table"`
	Rules    RulesConfig    `yaml:"rules"`
	AI       AIConfig       `yaml:"ai"`
	Controls ControlsConfig `yaml:"controls"`
	Audio    AudioConfig    `yaml:"audio"`
}

// ArenaConfig defines the playing field.
type ArenaConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// PaddleConfig defines paddle geometry and human paddle speed.
type PaddleConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Speed  float64 `yaml:"speed"`
}

// BallConfig defines the ball and how paddle contact angles it.
type BallConfig struct {
	Size      float64 `yaml:"size"`
	BaseSpeed float64 `yaml:"base_speed"`
	SpinBase  float64 `yaml:"spin_base"`  // vertical share of a centre hit
	SpinRange float64 `yaml:"spin_range"` // extra vertical share at the paddle tip
}

// ShotsConfig defines speed multipliers and serve angles.
type ShotsConfig struct {
	ChopMultiplier      float64 `yaml:"chop_multiplier"`
	SmashMultiplier     float64 `yaml:"smash_multiplier"`
	FastServeMultiplier float64 `yaml:"fast_serve_multiplier"`
	SlowServeMultiplier float64 `yaml:"slow_serve_multiplier"`
	ServeAngle          float64 `yaml:"serve_angle"`      // degrees, max deviation of normal/slow serves
	FastServeAngle      float64 `yaml:"fast_serve_angle"` // degrees, fixed kick of fast serves
}

// TableConfig defines the table variant: table inset, gravity and landing depths.
// Depths are fractions of a half-table measured from the net (returns) or from
// the server's table end (serves).
type TableConfig struct {
	MarginX      float64 `yaml:"margin_x"`
	MarginY      float64 `yaml:"margin_y"`
	Gravity      float64 `yaml:"gravity"`
	BounceRetain float64 `yaml:"bounce_retain"`
	ServeDepth   float64 `yaml:"serve_depth"`
	ReturnDepth  float64 `yaml:"return_depth"`
	SmashDepth   float64 `yaml:"smash_depth"`
	ChopDepth    float64 `yaml:"chop_depth"`
	DepthSpread  float64 `yaml:"depth_spread"`
	AngleScale   float64 `yaml:"angle_scale"` // shrinks serve and return angles so the ball stays over the table
}

// ServePolicy decides who serves after a point.
type ServePolicy string

const (
	ServeAlternate ServePolicy = "alternate" // serve changes every point
	ServeWinner    ServePolicy = "winner"    // the point winner serves
	ServeLoser     ServePolicy = "loser"     // the point loser serves
)

// RulesConfig defines scoring and serving rules.
type RulesConfig struct {
	WinScore       int         `yaml:"win_score"`
	WinBy          int         `yaml:"win_by"`
	ServePolicy    ServePolicy `yaml:"serve_policy"`
	AutoServeTicks int         `yaml:"auto_serve_ticks"` // 0 disables auto-serve
}

// AIConfig defines the opponent policy.
type AIConfig struct {
	ServeDelay   int                      `yaml:"serve_delay"`
	HorizonTicks int                      `yaml:"horizon_ticks"`
	LeadTicks    int                      `yaml:"lead_ticks"`
	Profiles     map[string]ProfileConfig `yaml:"profiles"`
}

// ProfileConfig is one difficulty tier of the opponent.
type ProfileConfig struct {
	PaddleSpeed     float64 `yaml:"paddle_speed"`
	SpeedMultiplier float64 `yaml:"speed_multiplier"`
	Reaction        float64 `yaml:"reaction"`
	SpecialChance   float64 `yaml:"special_chance"`
	Noise           float64 `yaml:"noise"`
	WrongDirection  float64 `yaml:"wrong_direction"`
	ChopReturn      float64 `yaml:"chop_return"`
}

// ControlsConfig defines input latching.
type ControlsConfig struct {
	// HoldTicks is how long a key press counts as held on terminals
	// that never report key releases.
	HoldTicks int `yaml:"hold_ticks"`
}

// AudioConfig defines the feedback cues.
type AudioConfig struct {
	Enabled bool    `yaml:"enabled"`
	Volume  float64 `yaml:"volume"` // halvings of full scale: 0 full, -1 half
}

// Validate reports every nonsensical value in the configuration.
func (c PongConfig) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Arena.Width > 0 && c.Arena.Height > 0, "arena must have positive size")
	check(c.Paddle.Width > 0 && c.Paddle.Height > 0, "paddle must have positive size")
	check(c.Paddle.Height < c.Arena.Height, "paddle height %v must be below arena height %v", c.Paddle.Height, c.Arena.Height)
	check(c.Paddle.Speed > 0, "paddle speed must be positive")
	check(c.Ball.Size > 0 && c.Ball.Size < c.Arena.Height, "ball size %v out of range", c.Ball.Size)
	check(c.Ball.BaseSpeed > 0, "ball base speed must be positive")
	check(c.Ball.BaseSpeed*c.Shots.SmashMultiplier < c.Paddle.Width+c.Ball.Size,
		"smashed ball would tunnel through the paddle")
	check(c.Ball.SpinBase >= 0 && c.Ball.SpinRange >= 0, "spin must not be negative")

	check(c.Shots.ChopMultiplier > 0, "chop multiplier must be positive")
	check(c.Shots.SmashMultiplier > 0, "smash multiplier must be positive")
	check(c.Shots.FastServeMultiplier > 0 && c.Shots.SlowServeMultiplier > 0, "serve multipliers must be positive")
	check(c.Shots.ServeAngle >= 0 && c.Shots.ServeAngle < 90, "serve angle must be in [0, 90)")
	check(c.Shots.FastServeAngle >= 0 && c.Shots.FastServeAngle < 90, "fast serve angle must be in [0, 90)")

	check(c.Table.MarginX >= 0 && 2*c.Table.MarginX < c.Arena.Width, "table margin_x out of range")
	check(c.Table.MarginY >= 0 && 2*c.Table.MarginY < c.Arena.Height, "table margin_y out of range")
	check(c.Table.Gravity > 0, "table gravity must be positive")
	check(c.Table.BounceRetain > 0 && c.Table.BounceRetain <= 1, "bounce retain must be in (0, 1]")
	for name, d := range map[string]float64{
		"serve_depth":  c.Table.ServeDepth,
		"return_depth": c.Table.ReturnDepth,
		"smash_depth":  c.Table.SmashDepth,
		"chop_depth":   c.Table.ChopDepth,
	} {
		check(d > 0 && d <= 1, "table %s must be in (0, 1]", name)
	}
	check(c.Table.DepthSpread >= 0 && c.Table.DepthSpread < 1, "depth spread must be in [0, 1)")
	check(c.Table.AngleScale > 0 && c.Table.AngleScale <= 1, "angle scale must be in (0, 1]")

	check(c.Rules.WinScore > 0, "win score must be positive")
	check(c.Rules.WinBy >= 1, "win_by must be at least 1")
	check(c.Rules.AutoServeTicks >= 0, "auto serve ticks must not be negative")
	switch c.Rules.ServePolicy {
	case ServeAlternate, ServeWinner, ServeLoser:
	default:
		errs = append(errs, fmt.Errorf("unknown serve policy %q", c.Rules.ServePolicy))
	}

	check(c.AI.ServeDelay >= 0, "ai serve delay must not be negative")
	check(c.AI.HorizonTicks > 0, "ai horizon must be positive")
	check(c.AI.LeadTicks >= 0, "ai lead ticks must not be negative")
	for _, name := range profileNames {
		p, ok := c.AI.Profiles[name]
		if !ok {
			errs = append(errs, fmt.Errorf("missing ai profile %q", name))
			continue
		}
		if err := p.validate(); err != nil {
			errs = append(errs, fmt.Errorf("ai profile %q: %w", name, err))
		}
	}

	check(c.Controls.HoldTicks >= 1, "hold ticks must be at least 1")
	check(c.Audio.Volume <= 0 && c.Audio.Volume >= -10, "audio volume must be in [-10, 0]")

	if len(errs) > 0 {
		return fmt.Errorf("invalid pong config: %w", errors.Join(errs...))
	}
	return nil
}

func (p ProfileConfig) validate() error {
	switch {
	case p.PaddleSpeed <= 0:
		return errors.New("paddle speed must be positive")
	case p.SpeedMultiplier <= 0:
		return errors.New("speed multiplier must be positive")
	case p.Reaction <= 0 || p.Reaction > 1:
		return errors.New("reaction must be in (0, 1]")
	case !isProbability(p.SpecialChance), !isProbability(p.WrongDirection), !isProbability(p.ChopReturn):
		return errors.New("probabilities must be in [0, 1]")
	case p.Noise < 0:
		return errors.New("noise must not be negative")
	}
	return nil
}

func isProbability(v float64) bool {
	return v >= 0 && v <= 1
}
