// Package shapes holds the static piece catalog and the weighted
// shape selection used by the block generator.
package shapes

import (
	"fmt"
	"math/rand"
)

// Shape is an immutable catalog entry. Pattern must not be modified by callers.
type Shape struct {
	ID        string
	Name      string
	Pattern   Pattern
	Color     string // display hex, e.g. "#ff8000"
	Rotatable bool
	Rarity    int // 1 (common, small) .. 7 (rarest)
}

// MaxRarity is the highest rarity among regular catalog shapes.
const MaxRarity = 6

var catalog = []*Shape{
	// 1-2 cells
	{ID: "single", Name: "Single", Pattern: Pattern{{1}}, Color: "#ffff00", Rarity: 1},
	{ID: "line2h", Name: "Line 2 (H)", Pattern: Pattern{{1, 1}}, Color: "#00ff00", Rotatable: true, Rarity: 1},
	{ID: "line2v", Name: "Line 2 (V)", Pattern: Pattern{{1}, {1}}, Color: "#00ff00", Rotatable: true, Rarity: 1},

	// 3 cells
	{ID: "line3h", Name: "Line 3 (H)", Pattern: Pattern{{1, 1, 1}}, Color: "#00ffff", Rotatable: true, Rarity: 2},
	{ID: "line3v", Name: "Line 3 (V)", Pattern: Pattern{{1}, {1}, {1}}, Color: "#00ffff", Rotatable: true, Rarity: 2},
	{ID: "l3_1", Name: "Corner 3-1", Pattern: Pattern{{1, 1}, {1, 0}}, Color: "#ff8000", Rotatable: true, Rarity: 2},
	{ID: "l3_2", Name: "Corner 3-2", Pattern: Pattern{{1, 0}, {1, 1}}, Color: "#ff8000", Rotatable: true, Rarity: 2},

	// tetrominoes
	{ID: "i_piece", Name: "I", Pattern: Pattern{{1, 1, 1, 1}}, Color: "#00ffff", Rotatable: true, Rarity: 3},
	{ID: "o_piece", Name: "O", Pattern: Pattern{{1, 1}, {1, 1}}, Color: "#ffff00", Rarity: 3},
	{ID: "t_piece", Name: "T", Pattern: Pattern{{0, 1, 0}, {1, 1, 1}}, Color: "#800080", Rotatable: true, Rarity: 3},
	{ID: "l_piece", Name: "L", Pattern: Pattern{{1, 0, 0}, {1, 1, 1}}, Color: "#ff8000", Rotatable: true, Rarity: 3},
	{ID: "j_piece", Name: "J", Pattern: Pattern{{0, 0, 1}, {1, 1, 1}}, Color: "#0000ff", Rotatable: true, Rarity: 3},
	{ID: "s_piece", Name: "S", Pattern: Pattern{{0, 1, 1}, {1, 1, 0}}, Color: "#00ff00", Rotatable: true, Rarity: 3},
	{ID: "z_piece", Name: "Z", Pattern: Pattern{{1, 1, 0}, {0, 1, 1}}, Color: "#ff0000", Rotatable: true, Rarity: 3},

	// pentominoes
	{ID: "p_piece", Name: "P", Pattern: Pattern{{1, 1}, {1, 1}, {1, 0}}, Color: "#ff69b4", Rotatable: true, Rarity: 4},
	{ID: "u_piece", Name: "U", Pattern: Pattern{{1, 0, 1}, {1, 1, 1}}, Color: "#ffa500", Rotatable: true, Rarity: 4},
	{ID: "w_piece", Name: "W", Pattern: Pattern{{1, 0, 0}, {1, 1, 0}, {0, 1, 1}}, Color: "#8a2be2", Rotatable: true, Rarity: 4},
	{ID: "y_piece", Name: "Y", Pattern: Pattern{{0, 1}, {1, 1}, {0, 1}, {0, 1}}, Color: "#20b2aa", Rotatable: true, Rarity: 4},
	{ID: "x_piece", Name: "X", Pattern: Pattern{{0, 1, 0}, {1, 1, 1}, {0, 1, 0}}, Color: "#dc143c", Rotatable: true, Rarity: 4},
	{ID: "n_piece", Name: "N", Pattern: Pattern{{0, 1, 1, 1}, {1, 1, 0, 0}}, Color: "#9acd32", Rotatable: true, Rarity: 4},
	{ID: "f_piece", Name: "F", Pattern: Pattern{{0, 1, 1}, {1, 1, 0}, {0, 1, 0}}, Color: "#4169e1", Rotatable: true, Rarity: 4},

	// large
	{ID: "plus_big", Name: "Big Plus", Pattern: Pattern{{0, 1, 0}, {1, 1, 1}, {0, 1, 0}}, Color: "#ff6347", Rarity: 4},
	{ID: "corner_6", Name: "Corner 6", Pattern: Pattern{{1, 1, 1}, {1, 0, 0}, {1, 0, 0}, {1, 0, 0}}, Color: "#dda0dd", Rotatable: true, Rarity: 5},
	{ID: "stairs_6", Name: "Stairs 6", Pattern: Pattern{{1, 0, 0}, {1, 1, 0}, {0, 1, 1}, {0, 0, 1}}, Color: "#b22222", Rotatable: true, Rarity: 5},
	{ID: "big_l", Name: "Big L", Pattern: Pattern{{1, 0, 0, 0}, {1, 0, 0, 0}, {1, 0, 0, 0}, {1, 1, 1, 1}}, Color: "#800000", Rotatable: true, Rarity: 5},
	{ID: "mega_cross", Name: "Mega Cross", Pattern: Pattern{
		{0, 0, 1, 0, 0},
		{0, 0, 1, 0, 0},
		{1, 1, 1, 1, 1},
		{0, 0, 1, 0, 0},
		{0, 0, 1, 0, 0},
	}, Color: "#2f4f4f", Rarity: 6},

	// irregular
	{ID: "diamond_5", Name: "Diamond", Pattern: Pattern{{0, 1, 0}, {1, 1, 1}, {1, 0, 1}}, Color: "#00ced1", Rotatable: true, Rarity: 4},
	{ID: "claw_5", Name: "Claw", Pattern: Pattern{{1, 0, 1}, {1, 1, 1}, {0, 1, 0}}, Color: "#ff1493", Rotatable: true, Rarity: 4},
	{ID: "hook_5", Name: "Hook", Pattern: Pattern{{1, 1, 1, 1}, {0, 0, 0, 1}, {0, 0, 1, 0}}, Color: "#32cd32", Rotatable: true, Rarity: 4},

	// long lines and blocks
	{ID: "line5", Name: "Line 5", Pattern: Pattern{{1, 1, 1, 1, 1}}, Color: "#ff4500", Rotatable: true, Rarity: 4},
	{ID: "line6", Name: "Line 6", Pattern: Pattern{{1, 1, 1, 1, 1, 1}}, Color: "#8b0000", Rotatable: true, Rarity: 5},
	{ID: "square3", Name: "Square 3x3", Pattern: Pattern{{1, 1, 1}, {1, 1, 1}, {1, 1, 1}}, Color: "#483d8b", Rarity: 5},
	{ID: "spiral_5", Name: "Spiral", Pattern: Pattern{{1, 1, 1}, {0, 0, 1}, {1, 1, 1}}, Color: "#ba55d3", Rotatable: true, Rarity: 4},
	{ID: "zigzag_6", Name: "Zigzag", Pattern: Pattern{{1, 0, 1, 0}, {1, 1, 1, 1}, {0, 1, 0, 1}}, Color: "#cd853f", Rotatable: true, Rarity: 5},
}

var byID = make(map[string]*Shape, len(catalog))

func init() {
	for _, s := range catalog {
		if !s.Pattern.Valid() {
			panic(fmt.Sprintf("shapes: invalid pattern for %q", s.ID))
		}
		if _, dup := byID[s.ID]; dup {
			panic(fmt.Sprintf("shapes: duplicate id %q", s.ID))
		}
		byID[s.ID] = s
	}
}

// All returns every catalog shape in catalog order.
// The returned slice is a fresh copy; the shapes themselves are shared.
func All() []*Shape {
	return append([]*Shape(nil), catalog...)
}

// Count returns the number of catalog shapes.
func Count() int {
	return len(catalog)
}

// ByID looks up a shape by its identifier.
func ByID(id string) (*Shape, bool) {
	s, ok := byID[id]
	return s, ok
}

// ByDifficulty returns the shapes available at the given difficulty tier.
// Tier 0 and below yields only the single cell; tiers 1..5 cap rarity at
// the tier; anything higher yields the whole catalog.
func ByDifficulty(level int) []*Shape {
	if level > 5 {
		return All()
	}
	out := make([]*Shape, 0, len(catalog))
	for _, s := range catalog {
		if level <= 0 {
			if s.Rarity == 1 && s.Pattern.Height() == 1 && s.Pattern.Width() == 1 {
				out = append(out, s)
			}
			continue
		}
		if s.Rarity <= level {
			out = append(out, s)
		}
	}
	return out
}

// Weight returns the selection weight of a shape at the given difficulty tier.
// Higher tiers shift weight toward rarer, larger shapes.
func Weight(s *Shape, level int) int {
	base := 8 - s.Rarity

	bonus := 0
	if level >= 3 {
		bonus = min(4, (level-2)*3/2)
		if s.Rarity >= 4 {
			bonus += min(3, level-3)
		}
		if s.Rarity >= 5 {
			bonus += min(2, level-4)
		}
		if s.Rarity >= 6 {
			bonus += min(2, level-5)
		}
	}
	if level >= 6 && s.Rarity >= 5 {
		bonus += 3
	}

	return max(1, base+bonus)
}

// Random draws one shape for the given tier using cumulative-weight roulette.
// The draw is reproducible for a seeded rng.
func Random(level int, rng *rand.Rand) *Shape {
	available := ByDifficulty(level)
	weights := make([]int, len(available))
	total := 0
	for i, s := range available {
		weights[i] = Weight(s, level)
		total += weights[i]
	}

	r := rng.Float64() * float64(total)
	for i, s := range available {
		r -= float64(weights[i])
		if r <= 0 {
			return s
		}
	}
	return available[len(available)-1]
}
