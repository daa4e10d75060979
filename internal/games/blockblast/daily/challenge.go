// Package daily derives a reproducible challenge from the calendar date
// and tracks the player's daily results and streak.
package daily

import (
	"fmt"
	"slices"
	"time"
)

// DateLayout is the challenge date format.
const DateLayout = "2006-01-02"

// Kind is the challenge category.
type Kind string

const (
	KindHighScore     Kind = "highScore"
	KindTimeAttack    Kind = "timeAttack"
	KindSpecialBlocks Kind = "specialBlocks"
	KindLimitedMoves  Kind = "limitedMoves"
)

// Rule tags carried by a challenge.
const (
	RuleHighScore     = "highScore"
	RuleTimeAttack    = "timeAttack"
	RuleSpecialBlocks = "specialBlocks"
	RuleObstacles     = "obstacles"
	RuleLimitedMoves  = "limitedMoves"
)

var kindWeights = []struct {
	kind   Kind
	weight int
}{
	{KindHighScore, 3},
	{KindTimeAttack, 2},
	{KindSpecialBlocks, 2},
	{KindLimitedMoves, 1},
}

// Challenge is fully determined by its date.
type Challenge struct {
	Date        string
	Seed        int64
	Kind        Kind
	TargetScore int
	TimeLimit   int // seconds, 0 when untimed
	Rules       []string
	Description string
}

// HasRule reports whether the challenge carries the rule tag.
func (c Challenge) HasRule(rule string) bool {
	return slices.Contains(c.Rules, rule)
}

func (c Challenge) clone() Challenge {
	c.Rules = slices.Clone(c.Rules)
	return c
}

// DateToSeed hashes a date string with the 31-multiplier polynomial
// in 32-bit two's complement and returns its absolute value.
func DateToSeed(date string) int64 {
	var h int32
	for _, c := range []byte(date) {
		h = h<<5 - h + int32(c)
	}
	s := int64(h)
	if s < 0 {
		s = -s
	}
	return s
}

// SeededRandom returns a Numerical Recipes LCG producing floats in [0, 1).
func SeededRandom(seed int64) func() float64 {
	cur := uint32(seed)
	return func() float64 {
		cur = cur*1664525 + 1013904223
		return float64(cur) / 4294967296
	}
}

// Generate builds the challenge for a YYYY-MM-DD date.
func Generate(date string) (Challenge, error) {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return Challenge{}, fmt.Errorf("daily: invalid date %q: %w", date, err)
	}

	seed := DateToSeed(date)
	random := SeededRandom(seed)

	total := 0
	for _, kw := range kindWeights {
		total += kw.weight
	}
	r := random() * float64(total)
	kind := kindWeights[0].kind
	for _, kw := range kindWeights {
		r -= float64(kw.weight)
		if r <= 0 {
			kind = kw.kind
			break
		}
	}

	c := Challenge{Date: date, Seed: seed, Kind: kind}
	switch kind {
	case KindHighScore:
		c.TargetScore = 2000 + int(random()*3000)
		c.Rules = []string{RuleHighScore}
		c.Description = "High score - reach the target score"
	case KindTimeAttack:
		c.TargetScore = 1500 + int(random()*2000)
		c.TimeLimit = 300 + int(random()*300)
		c.Rules = []string{RuleTimeAttack}
		c.Description = "Time attack - reach the target before time runs out"
	case KindSpecialBlocks:
		c.TargetScore = 1800 + int(random()*2200)
		c.Rules = []string{RuleSpecialBlocks, RuleObstacles}
		c.Description = "Special blocks - the board starts with obstacles and ice"
	case KindLimitedMoves:
		c.TargetScore = 1200 + int(random()*1800)
		c.Rules = []string{RuleLimitedMoves}
		c.Description = "Limited moves - reach the target with a fixed number of pieces"
	}
	return c, nil
}
