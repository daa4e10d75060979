// Package generator produces candidate blocks from the shape catalog.
package generator

import (
	"math/rand"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/vovakirdan/tui-blockblast/internal/games/blockblast/shapes"
)

// DefaultCandidates is the number of blocks offered per refill.
const DefaultCandidates = 3

// ids is shared by every generator so block ids stay unique per process.
var ids atomic.Uint64

// Block is one offered piece. X, Y and Rotation are informational only;
// placement coordinates are passed to the engine separately.
type Block struct {
	ID       string
	Shape    *shapes.Shape
	X, Y     int
	Rotation int
}

// Options configures a Generator.
type Options struct {
	Level int   // rarity tier, 1..6
	Seed  int64 // 0 means seed from the current time
	Rand  *rand.Rand
}

// Generator draws shapes at a configured rarity tier.
type Generator struct {
	level int
	rng   *rand.Rand
}

// New creates a generator. An explicit Rand wins over Seed.
func New(opts Options) *Generator {
	rng := opts.Rand
	if rng == nil {
		seed := opts.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng = rand.New(rand.NewSource(seed))
	}
	level := opts.Level
	if level == 0 {
		level = 1
	}
	return &Generator{level: level, rng: rng}
}

// SetLevel changes the rarity tier. Callers clamp to [1, 6].
func (g *Generator) SetLevel(level int) {
	g.level = level
}

// Level returns the current rarity tier.
func (g *Generator) Level() int {
	return g.level
}

// Generate draws a single block.
func (g *Generator) Generate() Block {
	return Block{
		ID:    "block_" + strconv.FormatUint(ids.Add(1), 10),
		Shape: shapes.Random(g.level, g.rng),
	}
}

// Candidates draws count independent blocks. Shapes may repeat.
func (g *Generator) Candidates(count int) []Block {
	if count <= 0 {
		count = DefaultCandidates
	}
	out := make([]Block, count)
	for i := range out {
		out[i] = g.Generate()
	}
	return out
}
