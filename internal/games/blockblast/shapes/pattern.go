package shapes

// Pattern is a rectangular occupancy matrix indexed [row][col].
// A cell value of 1 marks an occupied square.
type Pattern [][]uint8

// Width returns the number of columns.
func (p Pattern) Width() int {
	if len(p) == 0 {
		return 0
	}
	return len(p[0])
}

// Height returns the number of rows.
func (p Pattern) Height() int {
	return len(p)
}

// Filled reports whether the cell at (x, y) is occupied.
// Out-of-range coordinates are empty.
func (p Pattern) Filled(x, y int) bool {
	if y < 0 || y >= len(p) || x < 0 || x >= len(p[y]) {
		return false
	}
	return p[y][x] == 1
}

// Count returns the number of occupied cells.
func (p Pattern) Count() int {
	n := 0
	for _, row := range p {
		for _, v := range row {
			if v == 1 {
				n++
			}
		}
	}
	return n
}

// Clone returns a deep copy of the pattern.
func (p Pattern) Clone() Pattern {
	out := make(Pattern, len(p))
	for y, row := range p {
		out[y] = append([]uint8(nil), row...)
	}
	return out
}

// Equal reports whether two patterns have identical dimensions and cells.
func (p Pattern) Equal(o Pattern) bool {
	if len(p) != len(o) {
		return false
	}
	for y := range p {
		if len(p[y]) != len(o[y]) {
			return false
		}
		for x := range p[y] {
			if p[y][x] != o[y][x] {
				return false
			}
		}
	}
	return true
}

// Valid reports whether the pattern is rectangular and has at least one cell.
func (p Pattern) Valid() bool {
	if len(p) == 0 || len(p[0]) == 0 {
		return false
	}
	w := len(p[0])
	for _, row := range p {
		if len(row) != w {
			return false
		}
		for _, v := range row {
			if v > 1 {
				return false
			}
		}
	}
	return p.Count() > 0
}

// Rotate returns the pattern turned 90 degrees clockwise.
// The input is not modified.
func Rotate(p Pattern) Pattern {
	rows := p.Height()
	cols := p.Width()
	out := make(Pattern, cols)
	for j := 0; j < cols; j++ {
		out[j] = make([]uint8, rows)
		for i := rows - 1; i >= 0; i-- {
			out[j][rows-1-i] = p[i][j]
		}
	}
	return out
}

// Rotations returns the distinct clockwise rotations of p, starting with p itself.
func Rotations(p Pattern) []Pattern {
	out := []Pattern{p}
	cur := p
	for i := 0; i < 3; i++ {
		cur = Rotate(cur)
		dup := false
		for _, seen := range out {
			if seen.Equal(cur) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, cur)
		}
	}
	return out
}

// Bounds returns the width and height of a pattern.
func Bounds(p Pattern) (width, height int) {
	return p.Width(), p.Height()
}
