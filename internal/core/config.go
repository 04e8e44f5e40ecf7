package core

import (
	"fmt"
	"strings"
)

// Variant selects the rule set of a match.
type Variant int

const (
	// VariantClassic is wall-bounce Pong: the ball flies flat and a point
	// ends when it leaves the arena past a paddle.
	VariantClassic Variant = iota
	// VariantTable adds a table with a net, ball altitude and gravity,
	// and enforces serve and rally bounce rules.
	VariantTable
)

func (v Variant) String() string {
	switch v {
	case VariantClassic:
		return "classic"
	case VariantTable:
		return "table"
	default:
		return fmt.Sprintf("variant(%d)", int(v))
	}
}

// GameID returns the registry ID of the game playing this variant.
func (v Variant) GameID() string {
	if v == VariantTable {
		return "tabletennis"
	}
	return "pong"
}

// ParseVariant converts a name to a Variant.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "classic", "pong":
		return VariantClassic, nil
	case "table", "tabletennis", "table-tennis":
		return VariantTable, nil
	default:
		return VariantClassic, fmt.Errorf("core: unknown variant %q", s)
	}
}

// Mode selects who controls the second paddle.
type Mode int

const (
	ModeAI     Mode = iota // CPU opponent
	ModeLocal              // second human on the same keyboard
	ModeOnline             // second human over the network
)

func (m Mode) String() string {
	switch m {
	case ModeAI:
		return "ai"
	case ModeLocal:
		return "local"
	case ModeOnline:
		return "online"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Multiplayer reports whether both paddles are human-controlled.
func (m Mode) Multiplayer() bool {
	return m == ModeLocal || m == ModeOnline
}

// ParseMode converts a name to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ai", "cpu", "single":
		return ModeAI, nil
	case "local", "hotseat", "multiplayer":
		return ModeLocal, nil
	case "online", "remote":
		return ModeOnline, nil
	default:
		return ModeAI, fmt.Errorf("core: unknown mode %q", s)
	}
}

// Difficulty selects the opponent's profile.
type Difficulty int

const (
	DifficultyEasy Difficulty = iota
	DifficultyMedium
	DifficultyHard
)

func (d Difficulty) String() string {
	switch d {
	case DifficultyEasy:
		return "easy"
	case DifficultyMedium:
		return "medium"
	case DifficultyHard:
		return "hard"
	default:
		return fmt.Sprintf("difficulty(%d)", int(d))
	}
}

// ParseDifficulty converts a name to a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return DifficultyEasy, nil
	case "medium", "normal":
		return DifficultyMedium, nil
	case "hard":
		return DifficultyHard, nil
	default:
		return DifficultyMedium, fmt.Errorf("core: unknown difficulty %q", s)
	}
}

// RuntimeConfig contains configuration passed to games at initialization.
// Games use this to adapt to screen size and for deterministic simulation.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // RNG seed for deterministic gameplay

	Variant    Variant
	Mode       Mode
	Difficulty Difficulty

	// LocalPlayer is the side controlled by this process in online mode.
	// Ignored for AI and hot-seat matches.
	LocalPlayer PlayerID
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:     80,
		ScreenH:     24,
		TickRate:    60,
		Seed:        0, // 0 means use current time in platform layer
		Variant:     VariantClassic,
		Mode:        ModeAI,
		Difficulty:  DifficultyMedium,
		LocalPlayer: Player1,
	}
}

// SameMatch reports whether two configs describe the same kind of match.
// Screen size alone does not.
func (c RuntimeConfig) SameMatch(o RuntimeConfig) bool {
	return c.Variant == o.Variant && c.Mode == o.Mode &&
		c.Difficulty == o.Difficulty && c.LocalPlayer == o.LocalPlayer
}

// GameState is the summary a game reports to the platform after each tick.
type GameState struct {
	Score1   int
	Score2   int
	Serving  bool
	Server   PlayerID
	GameOver bool
	Winner   PlayerID
	Paused   bool
}

// PaddleUpdate is a local paddle position to be sent to the remote peer.
type PaddleUpdate struct {
	Player PlayerID
	Y      float64
}

// StepResult is returned by Game.Step() after each simulation tick.
type StepResult struct {
	State GameState
	// Cues are feedback sounds to play for this tick, in order.
	Cues []Cue
	// Outbound holds local paddle moves for the network adapter.
	Outbound []PaddleUpdate
}
