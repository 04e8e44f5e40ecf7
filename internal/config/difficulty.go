package config

import "github.com/vovakirdan/tui-pong/internal/core"

var profileNames = []string{
	core.DifficultyEasy.String(),
	core.DifficultyMedium.String(),
	core.DifficultyHard.String(),
}

// DefaultProfiles returns the built-in opponent tiers.
func DefaultProfiles() map[string]ProfileConfig {
	return map[string]ProfileConfig{
		"easy": {
			PaddleSpeed:     5,
			SpeedMultiplier: 0.5,
			Reaction:        0.3,
			SpecialChance:   0.1,
			Noise:           30,
			WrongDirection:  0.2,
			ChopReturn:      0.5,
		},
		"medium": {
			PaddleSpeed:     8,
			SpeedMultiplier: 0.7,
			Reaction:        0.6,
			SpecialChance:   0.25,
			Noise:           15,
			ChopReturn:      1,
		},
		"hard": {
			PaddleSpeed:     12,
			SpeedMultiplier: 0.9,
			Reaction:        0.9,
			SpecialChance:   0.4,
			Noise:           5,
			ChopReturn:      1,
		},
	}
}

// Profile returns the tier for a difficulty, falling back to the built-in
// tier when the configuration does not define it.
func (a AIConfig) Profile(d core.Difficulty) ProfileConfig {
	if p, ok := a.Profiles[d.String()]; ok {
		return p
	}
	if p, ok := DefaultProfiles()[d.String()]; ok {
		return p
	}
	return DefaultProfiles()[core.DifficultyMedium.String()]
}

// Step returns how far the tier's paddle moves per tick.
func (p ProfileConfig) Step() float64 {
	return p.PaddleSpeed * p.SpeedMultiplier * p.Reaction
}
