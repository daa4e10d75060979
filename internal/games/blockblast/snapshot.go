package blockblast

import "github.com/vovakirdan/tui-blockblast/internal/games/blockblast/engine"

// GameStateType represents the current game state.
type GameStateType string

const (
	StatePlaying       GameStateType = "playing"
	StatePaused        GameStateType = "paused"
	StateLevelComplete GameStateType = "level_complete"
	StateGameOver      GameStateType = "game_over"
	StatePausedSmall   GameStateType = "paused_small_window"
)

// Snapshot captures the complete game state for determinism testing and replay.
type Snapshot struct {
	Tick       uint64
	Mode       string
	Level      int
	Score      int
	Combo      int
	MovesUsed  int
	Grid       [engine.BoardHeight][engine.BoardWidth]engine.CellState
	Candidates []string // shape ids, in offer order
	CursorX    int
	CursorY    int
	Selected   int
	Rotation   int
	State      GameStateType
}

// Snapshot returns the current game snapshot for determinism verification.
func (g *Game) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:     g.tick,
		Mode:     string(g.mode),
		CursorX:  g.cursorX,
		CursorY:  g.cursorY,
		Selected: g.selected,
		Rotation: g.rotation,
		State:    StatePlaying,
	}
	if g.eng == nil {
		return snap
	}

	s := g.eng.State()
	snap.Level = s.Board.Level
	snap.Score = g.eng.FinalScore()
	snap.Combo = s.Combo
	snap.MovesUsed = s.MovesUsed
	for y := range snap.Grid {
		copy(snap.Grid[y][:], s.Board.Grid[y])
	}
	for _, c := range s.Candidates {
		snap.Candidates = append(snap.Candidates, c.Shape.ID)
	}

	switch {
	case g.tooSmall:
		snap.State = StatePausedSmall
	case s.GameOver:
		snap.State = StateGameOver
	case g.paused:
		snap.State = StatePaused
	case g.completed != nil:
		snap.State = StateLevelComplete
	}
	return snap
}
