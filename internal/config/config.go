// Package config provides YAML-based rules loading and difficulty presets
// for the block puzzle.
package config

// Config contains every tunable rule of the game.
type Config struct {
	Candidates    int                    `yaml:"candidates"`
	Combo         ComboConfig            `yaml:"combo"`
	Rarity        RarityConfig           `yaml:"rarity"`
	Rotation      bool                   `yaml:"rotation"`
	SpecialBlocks bool                   `yaml:"special_blocks"`
	Special       SpecialConfig          `yaml:"special"`
	Difficulties  map[string]Difficulty  `yaml:"difficulties"`
	Timed         map[string]TimedPreset `yaml:"timed"`
	Daily         DailyConfig            `yaml:"daily"`
}

// ComboConfig defines the combo window and multiplier cap.
type ComboConfig struct {
	WindowMS      int `yaml:"window_ms"`
	MaxMultiplier int `yaml:"max_multiplier"`
}

// RarityConfig bounds the effective block rarity.
type RarityConfig struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// SpecialConfig sets defaults for generated special cells.
type SpecialConfig struct {
	FrozenLayers int `yaml:"frozen_layers"`
	BombRadius   int `yaml:"bomb_radius"`
}

// TimedPreset defines one timed session length.
type TimedPreset struct {
	TimeLimit       int     `yaml:"time_limit"`       // seconds
	ScoreMultiplier float64 `yaml:"score_multiplier"` // applied to clears
	TimeBonus       int     `yaml:"time_bonus"`       // points per second left
	WarningTime     int     `yaml:"warning_time"`     // seconds
}

// DailyConfig holds daily challenge tuning.
type DailyConfig struct {
	MoveLimit int `yaml:"move_limit"` // placements allowed in limitedMoves challenges
}

// Normalize fills zero values from Default so partial YAML files work.
func (c *Config) Normalize() {
	d := Default()
	if c.Candidates <= 0 {
		c.Candidates = d.Candidates
	}
	if c.Combo.WindowMS <= 0 {
		c.Combo.WindowMS = d.Combo.WindowMS
	}
	if c.Combo.MaxMultiplier <= 0 {
		c.Combo.MaxMultiplier = d.Combo.MaxMultiplier
	}
	if c.Rarity.Min <= 0 {
		c.Rarity.Min = d.Rarity.Min
	}
	if c.Rarity.Max < c.Rarity.Min {
		c.Rarity.Max = max(d.Rarity.Max, c.Rarity.Min)
	}
	if c.Special.FrozenLayers <= 0 {
		c.Special.FrozenLayers = d.Special.FrozenLayers
	}
	if c.Special.BombRadius <= 0 {
		c.Special.BombRadius = d.Special.BombRadius
	}
	if c.Daily.MoveLimit <= 0 {
		c.Daily.MoveLimit = d.Daily.MoveLimit
	}
	if c.Difficulties == nil {
		c.Difficulties = make(map[string]Difficulty)
	}
	for name, diff := range d.Difficulties {
		if _, ok := c.Difficulties[name]; !ok {
			c.Difficulties[name] = diff
		}
	}
	for name, diff := range c.Difficulties {
		diff.Name = name
		c.Difficulties[name] = diff
	}
	if c.Timed == nil {
		c.Timed = make(map[string]TimedPreset)
	}
	for name, p := range d.Timed {
		if _, ok := c.Timed[name]; !ok {
			c.Timed[name] = p
		}
	}
}

// Difficulty returns the named preset, falling back to normal.
func (c Config) Difficulty(name string) Difficulty {
	if d, ok := c.Difficulties[name]; ok {
		return d
	}
	if d, ok := c.Difficulties[DifficultyNormal]; ok {
		return d
	}
	return Default().Difficulties[DifficultyNormal]
}
