package config

import (
	_ "embed"
)

//go:embed defaults/blockblast.yaml
var defaultYAML []byte

// Default returns the hardcoded rules, used when no YAML can be read.
func Default() Config {
	return Config{
		Candidates: 3,
		Combo: ComboConfig{
			WindowMS:      3000,
			MaxMultiplier: 8,
		},
		Rarity: RarityConfig{
			Min: 1,
			Max: 6,
		},
		Rotation:      false,
		SpecialBlocks: true,
		Special: SpecialConfig{
			FrozenLayers: 2,
			BombRadius:   3,
		},
		Difficulties: map[string]Difficulty{
			DifficultyEasy: {
				Name:                 DifficultyEasy,
				StartingLevel:        1,
				ScoreMultiplier:      0.7,
				BlockComplexityBonus: -1,
				TimeMultiplier:       1.5,
			},
			DifficultyNormal: {
				Name:                 DifficultyNormal,
				StartingLevel:        1,
				ScoreMultiplier:      1.0,
				BlockComplexityBonus: 0,
				TimeMultiplier:       1.0,
			},
			DifficultyHard: {
				Name:                 DifficultyHard,
				StartingLevel:        10,
				ScoreMultiplier:      1.3,
				BlockComplexityBonus: 2,
				TimeMultiplier:       0.8,
			},
			DifficultyExpert: {
				Name:                 DifficultyExpert,
				StartingLevel:        30,
				ScoreMultiplier:      1.8,
				BlockComplexityBonus: 3,
				TimeMultiplier:       0.6,
			},
			DifficultyNightmare: {
				Name:                 DifficultyNightmare,
				StartingLevel:        60,
				ScoreMultiplier:      2.5,
				BlockComplexityBonus: 4,
				TimeMultiplier:       0.4,
			},
		},
		Timed: map[string]TimedPreset{
			"quick":    {TimeLimit: 180, ScoreMultiplier: 1.5, TimeBonus: 10, WarningTime: 30},
			"standard": {TimeLimit: 300, ScoreMultiplier: 1.2, TimeBonus: 8, WarningTime: 60},
			"extended": {TimeLimit: 600, ScoreMultiplier: 1.0, TimeBonus: 5, WarningTime: 120},
		},
		Daily: DailyConfig{
			MoveLimit: 40,
		},
	}
}

// DefaultYAML returns the embedded default rules file.
func DefaultYAML() []byte {
	return defaultYAML
}
