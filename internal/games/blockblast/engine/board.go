package engine

import (
	"slices"

	"github.com/vovakirdan/tui-blockblast/internal/games/blockblast/shapes"
)

// Board dimensions.
const (
	BoardWidth  = 10
	BoardHeight = 10
)

// CellState is the content of one board cell. Every state other than
// CellEmpty counts as occupied.
type CellState uint8

const (
	CellEmpty CellState = iota
	CellFilled
	CellPreview
	CellHighlighted
	CellFrozen
	CellBomb
)

func (c CellState) String() string {
	switch c {
	case CellEmpty:
		return "empty"
	case CellFilled:
		return "filled"
	case CellPreview:
		return "preview"
	case CellHighlighted:
		return "highlighted"
	case CellFrozen:
		return "frozen"
	case CellBomb:
		return "bomb"
	default:
		return "unknown"
	}
}

// Board is the playing field. Grid is indexed [y][x]. Colors holds the
// display color of each occupied cell and carries no rules meaning.
type Board struct {
	Width  int
	Height int
	Grid   [][]CellState
	Colors [][]string
	Score  int
	Level  int
}

func newBoard(width, height, level int) Board {
	b := Board{Width: width, Height: height, Level: level}
	b.Grid = make([][]CellState, height)
	b.Colors = make([][]string, height)
	for y := range b.Grid {
		b.Grid[y] = make([]CellState, width)
		b.Colors[y] = make([]string, width)
	}
	return b
}

func (b Board) clone() Board {
	out := b
	out.Grid = make([][]CellState, len(b.Grid))
	out.Colors = make([][]string, len(b.Colors))
	for y := range b.Grid {
		out.Grid[y] = slices.Clone(b.Grid[y])
		out.Colors[y] = slices.Clone(b.Colors[y])
	}
	return out
}

// Cell returns the state at (x, y), or CellEmpty when out of bounds.
func (b Board) Cell(x, y int) CellState {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return CellEmpty
	}
	return b.Grid[y][x]
}

func (b Board) set(x, y int, c CellState, color string) {
	b.Grid[y][x] = c
	b.Colors[y][x] = color
}

// canPlace reports whether every filled cell of p lands on an empty,
// in-bounds cell when p's top-left corner is at (x, y).
func (b Board) canPlace(p shapes.Pattern, x, y int) bool {
	w, h := p.Width(), p.Height()
	if w == 0 || h == 0 {
		return false
	}
	if x < 0 || y < 0 || x+w > b.Width || y+h > b.Height {
		return false
	}
	for py := 0; py < h; py++ {
		for px := 0; px < w; px++ {
			if p.Filled(px, py) && b.Grid[y+py][x+px] != CellEmpty {
				return false
			}
		}
	}
	return true
}

// anyPlacement scans every position exhaustively.
func (b Board) anyPlacement(p shapes.Pattern) bool {
	w, h := p.Width(), p.Height()
	for y := 0; y <= b.Height-h; y++ {
		for x := 0; x <= b.Width-w; x++ {
			if b.canPlace(p, x, y) {
				return true
			}
		}
	}
	return false
}

// fullLines returns the indexes of rows and columns with no empty cell.
func (b Board) fullLines() (rows, cols []int) {
	for y := 0; y < b.Height; y++ {
		if !slices.Contains(b.Grid[y], CellEmpty) {
			rows = append(rows, y)
		}
	}
	for x := 0; x < b.Width; x++ {
		full := true
		for y := 0; y < b.Height; y++ {
			if b.Grid[y][x] == CellEmpty {
				full = false
				break
			}
		}
		if full {
			cols = append(cols, x)
		}
	}
	return rows, cols
}

// Occupied counts the non-empty cells.
func (b Board) Occupied() int {
	n := 0
	for _, row := range b.Grid {
		for _, c := range row {
			if c != CellEmpty {
				n++
			}
		}
	}
	return n
}
