package config

import (
	"math"
	"slices"
)

// Difficulty preset names.
const (
	DifficultyEasy      = "easy"
	DifficultyNormal    = "normal"
	DifficultyHard      = "hard"
	DifficultyExpert    = "expert"
	DifficultyNightmare = "nightmare"
)

// DifficultyNames lists the built-in presets from easiest to hardest.
var DifficultyNames = []string{
	DifficultyEasy,
	DifficultyNormal,
	DifficultyHard,
	DifficultyExpert,
	DifficultyNightmare,
}

// IsDifficulty reports whether name is a built-in preset.
func IsDifficulty(name string) bool {
	return slices.Contains(DifficultyNames, name)
}

// Difficulty scales a session: where level mode starts, how targets and
// time limits stretch, and how much rarer the offered pieces get.
type Difficulty struct {
	Name                 string  `yaml:"-"`
	StartingLevel        int     `yaml:"starting_level"`
	ScoreMultiplier      float64 `yaml:"score_multiplier"`
	BlockComplexityBonus int     `yaml:"block_complexity_bonus"`
	TimeMultiplier       float64 `yaml:"time_multiplier"`
}

// AdjustTarget returns floor(target * ScoreMultiplier).
func (d Difficulty) AdjustTarget(target int) int {
	if d.ScoreMultiplier <= 0 {
		return target
	}
	return int(math.Floor(float64(target) * d.ScoreMultiplier))
}

// AdjustRarity adds the complexity bonus to a level's rarity cap and
// clamps the result to [lo, hi].
func (d Difficulty) AdjustRarity(rarity, lo, hi int) int {
	return clamp(rarity+d.BlockComplexityBonus, lo, hi)
}

// ScaleTime returns floor(seconds * TimeMultiplier).
func (d Difficulty) ScaleTime(seconds int) int {
	if d.TimeMultiplier <= 0 {
		return seconds
	}
	return int(math.Floor(float64(seconds) * d.TimeMultiplier))
}

// clamp restricts v to [lo, hi].
func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
