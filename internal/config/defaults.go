package config

import (
	_ "embed"
)

//go:embed defaults/pong.yaml
var defaultPongYAML []byte

// DefaultPongConfig returns the default configuration.
// It mirrors defaults/pong.yaml and is used when the embedded file cannot be parsed.
func DefaultPongConfig() PongConfig {
	return PongConfig{
		Arena: ArenaConfig{
			Width:  800,
			Height: 400,
		},
		Paddle: PaddleConfig{
			Width:  10,
			Height: 60,
			Speed:  6,
		},
		Ball: BallConfig{
			Size:      8,
			BaseSpeed: 5,
			SpinBase:  0.3,
			SpinRange: 0.7,
		},
		Shots: ShotsConfig{
			ChopMultiplier:      0.6,
			SmashMultiplier:     1.5,
			FastServeMultiplier: 1.5,
			SlowServeMultiplier: 0.7,
			ServeAngle:          22.5,
			FastServeAngle:      40,
		},
		Table: TableConfig{
			MarginX:      60,
			MarginY:      20,
			Gravity:      0.15,
			BounceRetain: 0.8,
			ServeDepth:   0.85,
			ReturnDepth:  0.55,
			SmashDepth:   0.9,
			ChopDepth:    0.4,
			DepthSpread:  0.08,
			AngleScale:   0.5,
		},
		Rules: RulesConfig{
			WinScore:       11,
			WinBy:          2,
			ServePolicy:    ServeAlternate,
			AutoServeTicks: 180, // 3 seconds at 60fps
		},
		AI: AIConfig{
			ServeDelay:   45,
			HorizonTicks: 60,
			LeadTicks:    3,
			Profiles:     DefaultProfiles(),
		},
		Controls: ControlsConfig{
			HoldTicks: 8,
		},
		Audio: AudioConfig{
			Enabled: true,
			Volume:  -1,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultPongYAML
}
