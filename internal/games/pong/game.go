// Package pong implements the table-tennis simulation: a pure physics and
// rules engine, a scripted opponent, and the registry game that wires them
// to the platform. Player 1 plays the left paddle, Player 2 the right one.
package pong

import (
	"math/rand"

	"github.com/vovakirdan/tui-pong/internal/config"
	"github.com/vovakirdan/tui-pong/internal/core"
	"github.com/vovakirdan/tui-pong/internal/registry"
)

// Game adapts the engine to the registry's Game interface.
type Game struct {
	variant core.Variant
	cfg     config.PongConfig
	runtime core.RuntimeConfig

	engine *Engine
	state  MatchState
	policy *Policy // nil unless the second paddle is the CPU

	paused    bool
	held      [2]Control
	lastEvent Event
}

// New creates a game of the given variant with a configuration.
func New(variant core.Variant, cfg config.PongConfig) *Game {
	g := &Game{variant: variant, cfg: cfg}
	g.Reset(core.DefaultConfig())
	return g
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return g.variant.GameID()
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	if g.variant == core.VariantTable {
		return "Table Tennis"
	}
	return "Pong"
}

// Reset starts a fresh match: scores, paddles, ball, opponent.
func (g *Game) Reset(rc core.RuntimeConfig) {
	rc.Variant = g.variant
	if rc.LocalPlayer == core.NoPlayer {
		rc.LocalPlayer = core.Player1
	}
	g.runtime = rc

	params := ParamsFromConfig(g.cfg, g.variant)
	rng := rand.New(rand.NewSource(rc.Seed))
	g.engine = NewEngine(params, rng)
	g.state = NewMatch(params)

	g.policy = nil
	if rc.Mode == core.ModeAI {
		g.policy = NewPolicy(core.Player2, params, g.cfg.AI, rc.Difficulty, rng)
	}

	g.paused = false
	g.held = [2]Control{}
	g.lastEvent = Event{}
}

// Configure applies a new runtime configuration. A change of mode,
// difficulty or side restarts the match with zeroed scores; a screen
// resize does not.
func (g *Game) Configure(rc core.RuntimeConfig) {
	rc.Variant = g.variant
	if rc.LocalPlayer == core.NoPlayer {
		rc.LocalPlayer = core.Player1
	}
	if !g.runtime.SameMatch(rc) || g.runtime.Seed != rc.Seed {
		g.Reset(rc)
		return
	}
	g.runtime.ScreenW = rc.ScreenW
	g.runtime.ScreenH = rc.ScreenH
	g.runtime.TickRate = rc.TickRate
}

// Step advances the game by one tick.
func (g *Game) Step(in core.MultiInputFrame) core.StepResult {
	if g.state.GameOver {
		if in.AnyPressed(core.ActionRestart) {
			g.Reset(g.runtime)
		}
		return core.StepResult{State: g.State()}
	}

	// Pausing one end of a networked match would only desync it.
	if in.AnyPressed(core.ActionPause) && g.runtime.Mode != core.ModeOnline {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	input := g.input(in)
	g.held = [2]Control{input.P1.Held, input.P2.Held}

	var events []Event
	g.state, events = g.engine.Tick(g.state, input)
	if g.policy != nil {
		g.policy.Observe(events)
	}

	res := core.StepResult{}
	for _, e := range events {
		if c := e.Cue(); c != core.CueNone {
			res.Cues = append(res.Cues, c)
		}
		if e.Kind == EventPaddleMoved {
			if g.runtime.Mode == core.ModeOnline && e.Side == g.runtime.LocalPlayer {
				res.Outbound = append(res.Outbound, core.PaddleUpdate{Player: e.Side, Y: e.Y})
			}
			continue
		}
		g.lastEvent = e
	}
	res.State = g.State()
	return res
}

// input builds the engine input for the current mode.
func (g *Game) input(in core.MultiInputFrame) Input {
	var input Input
	switch g.runtime.Mode {
	case core.ModeLocal:
		input.P1 = FromFrame(in.Player(core.Player1))
		input.P2 = FromFrame(in.Player(core.Player2))
	case core.ModeOnline:
		local := g.runtime.LocalPlayer
		input.Set(local, FromFrame(in.Player(local)))
	default:
		input.P1 = FromFrame(in.Player(core.Player1))
		if g.policy != nil {
			input.P2 = g.policy.Decide(g.state)
		}
	}
	return input
}

// ApplyRemotePaddle overwrites the remote side's paddle position.
// Updates for the locally controlled side are ignored.
func (g *Game) ApplyRemotePaddle(side core.PlayerID, y float64) {
	if side != core.Player1 && side != core.Player2 {
		return
	}
	if g.runtime.Mode == core.ModeOnline && side == g.runtime.LocalPlayer {
		return
	}
	g.state.SetPaddleY(g.engine.Params, side, y)
}

// Match returns the current engine state.
func (g *Game) Match() MatchState {
	return g.state
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score1:   g.state.Score(core.Player1),
		Score2:   g.state.Score(core.Player2),
		Serving:  g.state.Rally.Serving,
		Server:   g.state.Rally.Server,
		GameOver: g.state.GameOver,
		Winner:   g.state.Winner,
		Paused:   g.paused,
	}
}

// Register both variants with the registry.
func init() {
	for _, v := range []core.Variant{core.VariantClassic, core.VariantTable} {
		registry.Register(v.GameID(), func(cfg config.PongConfig) registry.Game {
			return New(v, cfg)
		})
	}
}
