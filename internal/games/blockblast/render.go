package blockblast

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/tui-blockblast/internal/core"
	"github.com/vovakirdan/tui-blockblast/internal/games/blockblast/engine"
	"github.com/vovakirdan/tui-blockblast/internal/games/blockblast/shapes"
	"github.com/vovakirdan/tui-blockblast/internal/games/blockblast/special"
)

const (
	cellWidth = 2 // each board cell is two columns wide

	boardW = engine.BoardWidth*cellWidth + 2 // including borders
	boardH = engine.BoardHeight + 2

	previewSize = 5 // largest candidate side
	previewW    = previewSize*cellWidth + 2

	minWidth  = 40
	minHeight = 23
)

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}
	if g.eng == nil {
		return
	}

	boardX := (g.screenW - boardW) / 2
	boardY := 3

	g.renderHUD(dst, boardX)
	g.renderBoard(dst, boardX, boardY)
	g.renderCandidates(dst, boardY+boardH+1)

	if g.messageTicks > 0 {
		dst.DrawTextCentered(boardY+boardH, g.message, core.ColorBrightYellow)
	}
	if g.screenH > minHeight {
		dst.DrawTextCentered(g.screenH-1, g.Controls(), core.ColorGray)
	}

	g.renderOverlays(dst, boardX+boardW/2, boardY+boardH/2)
}

// renderTooSmall shows a "window too small" message.
func (g *Game) renderTooSmall(dst *core.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small", core.ColorDefault)
	dst.DrawTextCentered(y+1, fmt.Sprintf("Need at least %dx%d", minWidth, minHeight), core.ColorGray)
}

// renderHUD draws the title, score and mode specific counters.
func (g *Game) renderHUD(dst *core.Screen, boardX int) {
	s := g.eng.State()
	dst.DrawTextCentered(0, strings.ToUpper(g.Title()), core.ColorBrightCyan)

	dst.DrawTextColor(boardX, 1, fmt.Sprintf("Score %d", g.eng.FinalScore()), core.ColorBrightWhite)

	var right string
	color := core.ColorDefault
	switch g.mode {
	case engine.ModeLevel:
		right = fmt.Sprintf("Lv %d  Target %d", s.Board.Level, g.eng.Target())
		if g.eng.LevelCompleted() {
			color = core.ColorBrightGreen
		}
	case engine.ModeDaily:
		right = fmt.Sprintf("Target %d", g.eng.Target())
		if left, ok := g.eng.MovesLeft(); ok {
			right = fmt.Sprintf("Moves %d  %s", left, right)
		}
	}
	if left, ok := g.eng.TimeLeft(); ok {
		right = strings.TrimSpace(left + "  " + right)
		if g.eng.TimeWarning() {
			color = core.ColorBrightRed
		}
	}
	dst.DrawTextColor(boardX+boardW-len(right), 1, right, color)

	info := g.eng.Difficulty().Name
	if c, ok := g.eng.Challenge(); ok {
		info = c.Date + "  " + string(c.Kind)
	}
	if s.Combo > 1 {
		info += fmt.Sprintf("  combo x%d", s.Combo)
	}
	dst.DrawTextCentered(2, info, core.ColorGray)
}

// cellGlyph returns the two-column glyph and color of a board cell.
func cellGlyph(state engine.CellState, hex string, sp special.Type) (string, core.Color) {
	switch {
	case sp == special.Obstacle:
		return "▒▒", core.ColorGray
	case sp == special.Rainbow:
		return "██", core.ColorBrightMagenta
	case state == engine.CellFrozen:
		return "▓▓", core.ColorIce
	case state == engine.CellBomb:
		return "<>", core.ColorBrightRed
	case state == engine.CellEmpty:
		return "· ", core.ColorGray
	default:
		return "██", core.ColorFromHex(hex)
	}
}

// renderBoard draws the grid, its special cells and the placement preview.
func (g *Game) renderBoard(dst *core.Screen, boardX, boardY int) {
	dst.DrawBox(core.NewRect(boardX, boardY, boardW, boardH), core.ColorGray)

	s := g.eng.State()
	specials := make(map[special.Coord]special.Type)
	for _, e := range g.eng.Specials() {
		specials[e.Coord] = e.Type
	}

	for y := 0; y < s.Board.Height; y++ {
		for x := 0; x < s.Board.Width; x++ {
			glyph, color := cellGlyph(s.Board.Grid[y][x], s.Board.Colors[y][x], specials[special.Coord{X: x, Y: y}])
			dst.DrawTextColor(boardX+1+x*cellWidth, boardY+1+y, glyph, color)
		}
	}

	if s.GameOver {
		return
	}
	_, p, ok := g.current()
	if !ok {
		return
	}
	color := core.ColorBrightGreen
	if !g.eng.CanPlace(p, g.cursorX, g.cursorY) {
		color = core.ColorBrightRed
	}
	for py := 0; py < p.Height(); py++ {
		for px := 0; px < p.Width(); px++ {
			if p.Filled(px, py) {
				dst.DrawTextColor(boardX+1+(g.cursorX+px)*cellWidth, boardY+1+g.cursorY+py, "░░", color)
			}
		}
	}
}

// renderCandidates draws the offered pieces side by side.
func (g *Game) renderCandidates(dst *core.Screen, y int) {
	cands := g.eng.State().Candidates
	if len(cands) == 0 {
		return
	}
	total := len(cands)*previewW + (len(cands)-1)*2
	x0 := (g.screenW - total) / 2

	for i, c := range cands {
		x := x0 + i*(previewW+2)
		label := fmt.Sprintf(" %d ", i+1)
		labelColor := core.ColorGray
		p := c.Shape.Pattern
		if i == g.selected {
			label = fmt.Sprintf("[%d]", i+1)
			labelColor = core.ColorBrightYellow
			if g.rotation > 0 {
				rots := shapes.Rotations(p)
				p = rots[g.rotation%len(rots)]
			}
		}
		dst.DrawTextColor(x+previewW/2-1, y, label, labelColor)

		color := core.ColorFromHex(c.Shape.Color)
		for py := 0; py < p.Height() && py < previewSize; py++ {
			for px := 0; px < p.Width() && px < previewSize; px++ {
				if p.Filled(px, py) {
					dst.DrawTextColor(x+1+px*cellWidth, y+1+py, "██", color)
				}
			}
		}
	}
}

// stars renders a 0-3 star rating.
func stars(n int) string {
	return strings.Repeat("★", n) + strings.Repeat("☆", 3-n)
}

// renderOverlays draws game state overlays.
func (g *Game) renderOverlays(dst *core.Screen, centerX, centerY int) {
	if g.paused {
		g.drawOverlay(dst, centerX, centerY, "PAUSED", "Press P to resume")
		return
	}

	if o := g.over; o != nil {
		lines := []string{"GAME OVER", o.Reason, fmt.Sprintf("Score: %d", o.Score)}
		if g.mode == engine.ModeDaily {
			d := g.eng.Daily()
			if r, ok := d.TodayResult(); ok {
				lines = append(lines, fmt.Sprintf("Best today: %d", r.Score))
				lines = append(lines, fmt.Sprintf("Rank #%d  Streak %d", d.SimulatedRank(r.Score), d.Streak()))
			}
		}
		lines = append(lines, "R: restart  B: menu")
		g.drawOverlay(dst, centerX, centerY, lines...)
		return
	}

	if c := g.completed; c != nil && g.messageTicks == 0 {
		lines := []string{
			fmt.Sprintf("LEVEL %d COMPLETE", c.Level),
			stars(c.Stars),
		}
		if c.IsNewRecord {
			lines = append(lines, "New record!")
		}
		if c.UnlockedNext {
			lines = append(lines, fmt.Sprintf("N: level %d", c.NextLevel))
		}
		g.drawOverlay(dst, centerX, centerY, lines...)
	}
}

// drawOverlay draws a centered text overlay.
func (g *Game) drawOverlay(dst *core.Screen, centerX, centerY int, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, len([]rune(line)))
	}

	boxW := maxLen + 4
	boxH := len(lines) + 2
	boxX := centerX - boxW/2
	boxY := centerY - boxH/2

	// Clear area behind overlay
	for y := boxY; y < boxY+boxH; y++ {
		for x := boxX; x < boxX+boxW; x++ {
			dst.Set(x, y, ' ')
		}
	}

	dst.DrawBox(core.NewRect(boxX, boxY, boxW, boxH), core.ColorBrightWhite)

	for i, line := range lines {
		x := centerX - len([]rune(line))/2
		dst.DrawText(x, boxY+1+i, line)
	}
}
