// Package special tracks board cells with non-standard clear behavior:
// obstacles, frozen cells, bombs and rainbow cells.
package special

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/vovakirdan/tui-blockblast/internal/games/blockblast/shapes"
)

// Type is the kind of special cell.
type Type string

const (
	Obstacle Type = "obstacle"
	Frozen   Type = "frozen"
	Bomb     Type = "bomb"
	Rainbow  Type = "rainbow"
)

// Defaults for new cells.
const (
	DefaultFreezeLevel = 2
	DefaultBombRadius  = 3
)

// Level thresholds for generated special cells.
const (
	ObstacleMinLevel = 61
	RainbowMinLevel  = 80
)

// Cell is one special cell. FreezeLevel is the remaining ice layers of a
// frozen cell; BombRadius is the side of a bomb's blast square.
type Cell struct {
	Type        Type
	FreezeLevel int
	BombRadius  int
}

// Coord is a board position.
type Coord struct {
	X, Y int
}

func key(x, y int) string {
	return fmt.Sprintf("%d,%d", x, y)
}

// Shapes are single-cell pseudo-shapes used to draw special cells.
var Shapes = map[Type]*shapes.Shape{
	Obstacle: {ID: "obstacle_block", Name: "Obstacle", Pattern: shapes.Pattern{{1}}, Color: "#333333", Rarity: 5},
	Frozen:   {ID: "frozen_block", Name: "Frozen", Pattern: shapes.Pattern{{1}}, Color: "#87CEEB", Rarity: 4},
	Bomb:     {ID: "bomb_block", Name: "Bomb", Pattern: shapes.Pattern{{1}}, Color: "#FF4500", Rarity: 6},
	Rainbow:  {ID: "rainbow_block", Name: "Rainbow", Pattern: shapes.Pattern{{1}}, Color: "#FF00FF", Rarity: 7},
}

// Options holds the defaults applied by Set.
type Options struct {
	FreezeLevel int
	BombRadius  int
}

// Manager is a coordinate-keyed overlay of special cells.
// It is not safe for concurrent use.
type Manager struct {
	cells       map[string]*Entry
	freezeLevel int
	bombRadius  int
}

// New returns an empty overlay. Zero options fall back to the defaults.
func New(opts Options) *Manager {
	m := &Manager{
		cells:       make(map[string]*Entry),
		freezeLevel: opts.FreezeLevel,
		bombRadius:  opts.BombRadius,
	}
	if m.freezeLevel <= 0 {
		m.freezeLevel = DefaultFreezeLevel
	}
	if m.bombRadius <= 0 {
		m.bombRadius = DefaultBombRadius
	}
	return m
}

// Set marks (x, y) as a special cell, replacing any previous one.
func (m *Manager) Set(x, y int, typ Type) Cell {
	c := Cell{Type: typ}
	switch typ {
	case Frozen:
		c.FreezeLevel = m.freezeLevel
	case Bomb:
		c.BombRadius = m.bombRadius
	}
	m.cells[key(x, y)] = &Entry{Coord: Coord{x, y}, Cell: c}
	return c
}

// Get returns the special cell at (x, y).
func (m *Manager) Get(x, y int) (Cell, bool) {
	e, ok := m.cells[key(x, y)]
	if !ok {
		return Cell{}, false
	}
	return e.Cell, true
}

// Remove drops the special cell at (x, y), if any.
func (m *Manager) Remove(x, y int) {
	delete(m.cells, key(x, y))
}

// IsSpecial reports whether (x, y) holds a special cell.
func (m *Manager) IsSpecial(x, y int) bool {
	_, ok := m.cells[key(x, y)]
	return ok
}

// IsObstacle reports whether (x, y) holds an obstacle.
func (m *Manager) IsObstacle(x, y int) bool {
	return m.is(x, y, Obstacle)
}

// IsRainbow reports whether (x, y) holds a rainbow cell.
func (m *Manager) IsRainbow(x, y int) bool {
	return m.is(x, y, Rainbow)
}

func (m *Manager) is(x, y int, typ Type) bool {
	e, ok := m.cells[key(x, y)]
	return ok && e.Type == typ
}

// ProcessFrozen removes one ice layer from the frozen cell at (x, y). It
// reports true once the cell has thawed, at which point it is removed.
// Cells that are not frozen report false.
func (m *Manager) ProcessFrozen(x, y int) bool {
	e, ok := m.cells[key(x, y)]
	if !ok || e.Type != Frozen {
		return false
	}
	e.FreezeLevel--
	if e.FreezeLevel <= 0 {
		m.Remove(x, y)
		return true
	}
	return false
}

// ProcessBomb detonates the bomb at (x, y) and returns the cells in its
// blast square, clipped to a width x height board. The bomb marker is
// removed. A missing bomb yields nil.
func (m *Manager) ProcessBomb(x, y, width, height int) []Coord {
	e, ok := m.cells[key(x, y)]
	if !ok || e.Type != Bomb {
		return nil
	}
	r := e.BombRadius / 2
	var out []Coord
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			nx, ny := x+dx, y+dy
			if nx >= 0 && nx < width && ny >= 0 && ny < height {
				out = append(out, Coord{nx, ny})
			}
		}
	}
	m.Remove(x, y)
	return out
}

// Entry pairs a special cell with its position.
type Entry struct {
	Coord
	Cell
}

// All returns every special cell ordered by row, then column.
func (m *Manager) All() []Entry {
	out := make([]Entry, 0, len(m.cells))
	for _, e := range m.cells {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

// Len returns the number of special cells.
func (m *Manager) Len() int {
	return len(m.cells)
}

// ClearAll removes every special cell.
func (m *Manager) ClearAll() {
	m.cells = make(map[string]*Entry)
}

// GenerateForLevel replaces the overlay with the special cells of a level
// on a width x height board. Levels from 61 get level/20+1 obstacles and
// level/15+1 frozen cells; from level 80 there is a 10% chance of one
// rainbow cell. Positions that are already taken are skipped, so fewer
// cells than requested may be placed.
func (m *Manager) GenerateForLevel(level, width, height int, rng *rand.Rand) []Entry {
	m.ClearAll()
	if level < ObstacleMinLevel || width <= 0 || height <= 0 {
		return nil
	}

	place := func(n int, typ Type) {
		for i := 0; i < n; i++ {
			x, y := rng.Intn(width), rng.Intn(height)
			if m.IsSpecial(x, y) {
				continue
			}
			m.Set(x, y, typ)
		}
	}
	place(level/20+1, Obstacle)
	place(level/15+1, Frozen)
	if level >= RainbowMinLevel && rng.Float64() < 0.1 {
		place(1, Rainbow)
	}
	return m.All()
}
