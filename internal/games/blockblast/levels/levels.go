// Package levels defines the 100-level campaign table and tracks per-level
// progress, stars and unlocks.
package levels

import (
	"fmt"
	"slices"
)

// Count is the number of campaign levels.
const Count = 100

// Tier boundaries of the campaign.
const (
	TutorialEnd     = 10
	BasicEnd        = 30
	IntermediateEnd = 60
)

// Mechanic tags attached to level configs.
const (
	MechanicTutorial     = "tutorial"
	MechanicPreview      = "preview3blocks"
	MechanicTimeLimit    = "timeLimit"
	MechanicObstacles    = "obstacles"
	MechanicFrozenBlocks = "frozenBlocks"
)

// Config describes one level. MinScore equals TargetScore.
type Config struct {
	Level            int
	TargetScore      int
	MinScore         int // 1 star
	MediumScore      int // 2 stars
	MaxScore         int // 3 stars
	MaxBlockRarity   int
	HasTimeLimit     bool
	TimeLimitSeconds int
	Mechanics        []string
	Description      string
}

// HasMechanic reports whether the level carries the given tag.
func (c Config) HasMechanic(tag string) bool {
	return slices.Contains(c.Mechanics, tag)
}

// Stars returns the number of stars earned by score on this level.
func (c Config) Stars(score int) int {
	stars := 0
	if score >= c.MinScore {
		stars = 1
	}
	if score >= c.MediumScore {
		stars = 2
	}
	if score >= c.MaxScore {
		stars = 3
	}
	return stars
}

func (c Config) clone() Config {
	c.Mechanics = slices.Clone(c.Mechanics)
	return c
}

func newConfig(level, base, rarity int, mechanics []string, desc string) Config {
	return Config{
		Level:          level,
		TargetScore:    base,
		MinScore:       base,
		MediumScore:    base * 3 / 2,
		MaxScore:       base * 2,
		MaxBlockRarity: rarity,
		Mechanics:      mechanics,
		Description:    desc,
	}
}

// buildTable generates the level table. Targets, rarity and time pressure
// never decrease as the level number grows.
func buildTable() []Config {
	table := make([]Config, 0, Count)

	for i := 1; i <= TutorialEnd; i++ {
		base := 25 + (i-4)*15
		var mech []string
		if i <= 3 {
			base = 10 + (i-1)*5
			mech = []string{MechanicTutorial}
		}
		table = append(table, newConfig(i, base, 1, mech,
			fmt.Sprintf("Tutorial %d - learn to clear lines", i)))
	}

	for i := TutorialEnd + 1; i <= BasicEnd; i++ {
		base := 200 + (i-11)*80
		table = append(table, newConfig(i, base, 2, []string{MechanicPreview},
			fmt.Sprintf("Basic %d - classic pieces arrive", i)))
	}

	for i := BasicEnd + 1; i <= IntermediateEnd; i++ {
		base := 1800 + (i-31)*100
		desc := fmt.Sprintf("Intermediate %d - strategy", i)
		c := newConfig(i, base, 3, []string{MechanicPreview, MechanicTimeLimit}, desc)
		if i > 40 {
			c.HasTimeLimit = true
			c.TimeLimitSeconds = 240
			c.Description = fmt.Sprintf("Intermediate %d - against the clock", i)
		}
		table = append(table, c)
	}

	for i := IntermediateEnd + 1; i <= Count; i++ {
		base := 5000 + (i-61)*150
		rarity := 4
		desc := fmt.Sprintf("Expert %d - obstacles and ice", i)
		if i >= 80 {
			rarity = 5
			desc = fmt.Sprintf("Expert %d - large pieces", i)
		}
		if i >= 95 {
			rarity = 6
			desc = fmt.Sprintf("Expert %d - giant pieces", i)
		}
		c := newConfig(i, base, rarity,
			[]string{MechanicObstacles, MechanicFrozenBlocks, MechanicTimeLimit}, desc)
		c.HasTimeLimit = true
		c.TimeLimitSeconds = max(180, 300-(i-61)*3)
		table = append(table, c)
	}

	return table
}
