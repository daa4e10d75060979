// Package blockblast adapts the block puzzle engine to the platform's
// registry.Game contract: one registered game per mode, driven by
// abstract input actions and rendered into a core.Screen.
package blockblast

import (
	"io"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-blockblast/internal/config"
	"github.com/vovakirdan/tui-blockblast/internal/core"
	"github.com/vovakirdan/tui-blockblast/internal/games/blockblast/daily"
	"github.com/vovakirdan/tui-blockblast/internal/games/blockblast/engine"
	"github.com/vovakirdan/tui-blockblast/internal/games/blockblast/generator"
	"github.com/vovakirdan/tui-blockblast/internal/games/blockblast/levels"
	"github.com/vovakirdan/tui-blockblast/internal/games/blockblast/shapes"
	"github.com/vovakirdan/tui-blockblast/internal/registry"
)

// Settings keys understood by Configure.
const (
	SettingDifficulty = "difficulty"
	SettingTimeLimit  = "time_limit"
	SettingLevel      = "level"
)

// DefaultTimeLimit is used by timed mode when no limit is configured.
const DefaultTimeLimit = 300

// messageTicks is how long a status message stays on screen.
const messageTicks = 40

var (
	rulesMu sync.RWMutex
	rules   = config.Default()
)

// SetRules replaces the rules used by games created afterwards.
func SetRules(cfg config.Config) {
	rulesMu.Lock()
	rules = cfg
	rulesMu.Unlock()
}

// Rules returns the current rules.
func Rules() config.Config {
	rulesMu.RLock()
	defer rulesMu.RUnlock()
	return rules
}

var modeTitles = map[engine.Mode]string{
	engine.ModeClassic: "Block Blast",
	engine.ModeLevel:   "Block Blast: Levels",
	engine.ModeTimed:   "Block Blast: Timed",
	engine.ModeDaily:   "Block Blast: Daily",
}

var modeDescriptions = map[engine.Mode]string{
	engine.ModeClassic: "Endless play until no piece fits",
	engine.ModeLevel:   "100 levels with targets and stars",
	engine.ModeTimed:   "Score as much as you can against the clock",
	engine.ModeDaily:   "One seeded challenge per day",
}

func init() {
	for _, m := range engine.Modes {
		m := m
		registry.Register(string(m), func() registry.Game { return New(m) })
	}
}

// Game is one block puzzle mode.
type Game struct {
	mode engine.Mode
	env  registry.Env
	log  *log.Logger
	eng  *engine.Engine

	difficulty config.Difficulty
	timeLimit  int
	startLevel int

	tick     uint64
	cursorX  int
	cursorY  int
	selected int
	rotation int

	screenW  int
	screenH  int
	tooSmall bool
	paused   bool

	message      string
	messageTicks int
	completed    *engine.LevelComplete
	over         *engine.GameOver
}

// New creates a game for mode.
func New(mode engine.Mode) *Game {
	return &Game{
		mode:       mode,
		difficulty: Rules().Difficulty(config.DifficultyNormal),
		log:        log.New(io.Discard),
	}
}

// ID returns the game identifier, which is also the mode name.
func (g *Game) ID() string {
	return string(g.mode)
}

// Title returns the display name.
func (g *Game) Title() string {
	return modeTitles[g.mode]
}

// Description returns the menu description.
func (g *Game) Description() string {
	return modeDescriptions[g.mode]
}

// Configure applies per-player services and settings. Unknown settings
// are ignored.
func (g *Game) Configure(env registry.Env) {
	g.env = env
	if env.Logger != nil {
		g.log = env.Logger
	}

	cfg := Rules()
	if name, ok := env.Settings[SettingDifficulty]; ok {
		if _, known := cfg.Difficulties[name]; known {
			g.difficulty = cfg.Difficulty(name)
		} else {
			g.log.Warn("unknown difficulty, using normal", "difficulty", name)
		}
	}
	if v, ok := env.Settings[SettingTimeLimit]; ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			g.timeLimit = n
		}
	}
	if v, ok := env.Settings[SettingLevel]; ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			g.startLevel = n
		}
	}
}

// Reset starts a new session.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	g.tick = 0
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.paused = false
	g.completed = nil
	g.over = nil
	g.message = ""
	g.messageTicks = 0
	g.resetCursor()

	// A nil Store stays nil through the interface conversions below.
	g.eng = engine.New(
		engine.WithRules(Rules()),
		engine.WithRand(rand.New(rand.NewSource(seed))),
		engine.WithLogger(g.log),
		engine.WithLevels(levels.NewManager(levels.WithStore(g.env.Store), levels.WithLogger(g.log))),
		engine.WithDaily(daily.NewManager(daily.WithStore(g.env.Store), daily.WithLogger(g.log))),
		engine.WithListener(g),
	)

	timeLimit := 0
	if g.mode == engine.ModeTimed {
		timeLimit = g.timeLimit
		if timeLimit == 0 {
			timeLimit = DefaultTimeLimit
		}
	}
	diff := g.difficulty
	g.eng.SwitchMode(g.mode, engine.ModeOptions{TimeLimit: timeLimit, Difficulty: &diff})

	if g.mode == engine.ModeLevel && g.startLevel > 0 {
		if !g.eng.SelectLevel(g.startLevel) {
			g.flash("Level " + strconv.Itoa(g.startLevel) + " is locked")
		}
	}

	g.checkScreenSize()
}

// HandleEvent receives engine events.
func (g *Game) HandleEvent(ev engine.Event) {
	switch e := ev.(type) {
	case engine.LinesCleared:
		msg := "+" + strconv.Itoa(e.Delta)
		if e.Combo > 1 {
			msg += "  combo x" + strconv.Itoa(e.Combo)
		}
		g.flash(msg)
	case engine.LevelComplete:
		g.completed = &e
	case engine.GameOver:
		g.over = &e
	}
}

func (g *Game) flash(msg string) {
	g.message = msg
	g.messageTicks = messageTicks
}

// Resize follows a terminal resize and keeps the session.
func (g *Game) Resize(width, height int) {
	g.screenW, g.screenH = width, height
	g.checkScreenSize()
}

// Abandon ends a running session on the player's request.
func (g *Game) Abandon() {
	if g.eng != nil && !g.eng.State().GameOver {
		g.eng.Abandon()
	}
}

// checkScreenSize checks if the screen is large enough.
func (g *Game) checkScreenSize() {
	g.tooSmall = g.screenW < minWidth || g.screenH < minHeight
}

func (g *Game) resetCursor() {
	g.cursorX, g.cursorY = engine.BoardWidth/2-1, engine.BoardHeight/2-1
	g.selected = 0
	g.rotation = 0
}

// Engine exposes the underlying engine.
func (g *Game) Engine() *engine.Engine {
	return g.eng
}

// current returns the selected candidate and its pattern after rotation.
func (g *Game) current() (generator.Block, shapes.Pattern, bool) {
	cands := g.eng.State().Candidates
	if len(cands) == 0 {
		return generator.Block{}, nil, false
	}
	g.selected = core.Clamp(g.selected, 0, len(cands)-1)
	b := cands[g.selected]
	p := b.Shape.Pattern
	if g.rotation > 0 {
		rots := shapes.Rotations(p)
		p = rots[g.rotation%len(rots)]
	}
	return b, p, true
}

func (g *Game) clampCursor() {
	_, p, ok := g.current()
	w, h := 1, 1
	if ok {
		w, h = p.Width(), p.Height()
	}
	g.cursorX = core.Clamp(g.cursorX, 0, engine.BoardWidth-w)
	g.cursorY = core.Clamp(g.cursorY, 0, engine.BoardHeight-h)
}

func (g *Game) selectCandidate(i int) {
	if n := len(g.eng.State().Candidates); i >= 0 && i < n {
		g.selected = i
		g.rotation = 0
		g.clampCursor()
	}
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++
	if g.messageTicks > 0 {
		g.messageTicks--
	}

	if g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) && !g.eng.State().GameOver {
		g.paused = !g.paused
		g.eng.SetPaused(g.paused)
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	g.eng.Tick()

	if g.eng.State().GameOver {
		// Restart after game over is handled by the platform through Reset.
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionRestart) {
		g.eng.RestartLevel()
		g.completed = nil
		g.resetCursor()
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionNextLevel) && g.completed != nil {
		if g.eng.NextLevel() {
			g.completed = nil
			g.resetCursor()
		} else {
			g.flash("No further level unlocked")
		}
		return core.StepResult{State: g.State()}
	}

	switch {
	case in.Has(core.ActionSelect1):
		g.selectCandidate(0)
	case in.Has(core.ActionSelect2):
		g.selectCandidate(1)
	case in.Has(core.ActionSelect3):
		g.selectCandidate(2)
	case in.Has(core.ActionNextBlock):
		if n := len(g.eng.State().Candidates); n > 0 {
			g.selectCandidate(core.Wrap(g.selected+1, n))
		}
	}

	if in.Has(core.ActionRotate) {
		g.rotate()
	}

	switch {
	case in.Has(core.ActionUp):
		g.cursorY--
	case in.Has(core.ActionDown):
		g.cursorY++
	case in.Has(core.ActionLeft):
		g.cursorX--
	case in.Has(core.ActionRight):
		g.cursorX++
	}
	g.clampCursor()

	if in.Has(core.ActionConfirm) {
		g.place()
	}

	return core.StepResult{State: g.State()}
}

func (g *Game) rotate() {
	b, _, ok := g.current()
	if !ok {
		return
	}
	if !g.eng.Rules().Rotation || !b.Shape.Rotatable {
		g.flash("This piece cannot rotate")
		return
	}
	g.rotation = core.Wrap(g.rotation+1, len(shapes.Rotations(b.Shape.Pattern)))
	g.clampCursor()
}

func (g *Game) place() {
	b, p, ok := g.current()
	if !ok {
		return
	}
	if !g.eng.Place(p, g.cursorX, g.cursorY, b.ID) {
		g.flash("Does not fit there")
		return
	}
	g.rotation = 0
	g.selected = 0
	g.clampCursor()
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.eng == nil {
		return core.GameState{}
	}
	s := g.eng.State()
	return core.GameState{
		Score:      g.eng.FinalScore(),
		Level:      s.Board.Level,
		Difficulty: g.eng.Difficulty().Name,
		GameOver:   s.GameOver,
		Paused:     g.paused || g.tooSmall,
	}
}

// Controls returns the control hints for the game.
func (g *Game) Controls() string {
	return "Arrows/WASD: Move | 1-3/Tab: Pick | X: Rotate | Enter: Place | P: Pause | R: Restart | Q: Quit"
}
