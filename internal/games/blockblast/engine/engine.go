// Package engine owns the board and runs the placement, line clear,
// scoring and session rules of the block puzzle across its four modes.
package engine

import (
	"io"
	"math/rand"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-blockblast/internal/config"
	"github.com/vovakirdan/tui-blockblast/internal/games/blockblast/daily"
	"github.com/vovakirdan/tui-blockblast/internal/games/blockblast/generator"
	"github.com/vovakirdan/tui-blockblast/internal/games/blockblast/levels"
	"github.com/vovakirdan/tui-blockblast/internal/games/blockblast/shapes"
	"github.com/vovakirdan/tui-blockblast/internal/games/blockblast/special"
	"github.com/vovakirdan/tui-blockblast/internal/games/blockblast/timed"
)

// Mode selects the session rules.
type Mode string

const (
	ModeClassic Mode = "classic"
	ModeLevel   Mode = "level"
	ModeTimed   Mode = "timed"
	ModeDaily   Mode = "daily"
)

// Modes lists every mode in menu order.
var Modes = []Mode{ModeClassic, ModeLevel, ModeTimed, ModeDaily}

// ParseMode converts a mode name.
func ParseMode(s string) (Mode, bool) {
	m := Mode(s)
	return m, slices.Contains(Modes, m)
}

// GameState is the observable state of a session. State returns a deep
// copy, so callers may keep or modify it freely.
type GameState struct {
	Board      Board
	Candidates []generator.Block
	Selected   string // id of the selected candidate, empty when none
	Mode       Mode
	GameOver   bool
	Paused     bool
	Combo      int
	LastClear  time.Time // zero until the first clear
	MovesUsed  int
}

func (s GameState) clone() GameState {
	s.Board = s.Board.clone()
	s.Candidates = slices.Clone(s.Candidates)
	return s
}

// ModeOptions parameterizes SwitchMode. A nil Difficulty keeps the
// current one; TimeLimit picks the timed preset.
type ModeOptions struct {
	TimeLimit  int
	Difficulty *config.Difficulty
}

// Option configures an Engine.
type Option func(*Engine)

// WithRules sets the game rules.
func WithRules(cfg config.Config) Option {
	return func(e *Engine) { e.rules = cfg }
}

// WithDifficulty sets the initial difficulty without moving the level.
func WithDifficulty(d config.Difficulty) Option {
	return func(e *Engine) { e.difficulty = &d }
}

// WithLevels uses m for level progress.
func WithLevels(m *levels.Manager) Option {
	return func(e *Engine) { e.levels = m }
}

// WithDaily uses m for daily challenges.
func WithDaily(m *daily.Manager) Option {
	return func(e *Engine) { e.daily = m }
}

// WithClock overrides the wall clock used for combos and timers.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithRand sets the random source for piece and special cell generation.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithListener receives engine events.
func WithListener(l Listener) Option {
	return func(e *Engine) { e.listener = l }
}

// Engine runs one session at a time. It is not safe for concurrent use;
// timers are driven synchronously through Tick.
type Engine struct {
	rules      config.Config
	difficulty *config.Difficulty
	levels     *levels.Manager
	daily      *daily.Manager
	specials   *special.Manager
	gen        *generator.Generator
	rng        *rand.Rand // stream of the running session
	baseRng    *rand.Rand // injected stream, used outside daily sessions
	now        func() time.Time
	logger     *log.Logger
	listener   Listener

	mode        Mode
	state       GameState
	ready       bool
	timedPreset *timed.Config
	timer       *timed.Manager
	timeUp      bool
	challenge   *daily.Challenge
	moveLimit   int
	levelDone   bool
	startedAt   time.Time
}

// New builds an engine. Call Init or SwitchMode to start a session.
func New(opts ...Option) *Engine {
	e := &Engine{mode: ModeClassic}
	for _, opt := range opts {
		opt(e)
	}
	if e.rules.Candidates == 0 {
		e.rules = config.Default()
	}
	if e.difficulty == nil {
		d := e.rules.Difficulty(config.DifficultyNormal)
		e.difficulty = &d
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard)
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if e.listener == nil {
		e.listener = nopListener{}
	}
	if e.levels == nil {
		e.levels = levels.NewManager(levels.WithLogger(e.logger))
	}
	if e.daily == nil {
		e.daily = daily.NewManager(daily.WithLogger(e.logger), daily.WithClock(e.now))
	}
	e.specials = special.New(special.Options{
		FreezeLevel: e.rules.Special.FrozenLayers,
		BombRadius:  e.rules.Special.BombRadius,
	})
	e.baseRng = e.rng
	e.gen = generator.New(generator.Options{Rand: e.rng})
	return e
}

// Init starts a session in the current mode.
func (e *Engine) Init() {
	e.ready = true
	e.newSession()
}

func (e *Engine) emit(ev Event) {
	e.listener.HandleEvent(ev)
}

// rarityFor resolves the block rarity of a level under the current difficulty.
func (e *Engine) rarityFor(level int) int {
	return e.difficulty.AdjustRarity(e.levels.BlockRarity(level), e.rules.Rarity.Min, e.rules.Rarity.Max)
}

func (e *Engine) newSession() {
	e.teardownTimer()
	e.challenge = nil
	e.moveLimit = 0
	e.levelDone = false
	e.specials.ClearAll()

	rng := e.baseRng
	if e.mode == ModeDaily {
		if c, ok := e.daily.CurrentChallenge(); ok {
			e.challenge = &c
			rng = rand.New(rand.NewSource(c.Seed))
			if c.HasRule(daily.RuleLimitedMoves) {
				e.moveLimit = e.rules.Daily.MoveLimit
			}
		}
	}
	if rng != e.rng {
		e.rng = rng
		e.gen = generator.New(generator.Options{Rand: rng})
	}

	level := e.levels.CurrentLevel()
	rarity := e.rarityFor(level)
	e.gen.SetLevel(rarity)

	e.state = GameState{
		Board: newBoard(BoardWidth, BoardHeight, level),
		Mode:  e.mode,
	}
	e.seedSpecials(level)
	e.state.Candidates = e.gen.Candidates(e.rules.Candidates)
	e.startedAt = e.now()
	e.startTimer(level)

	e.logger.Info("session started", "mode", e.mode, "level", level, "rarity", rarity,
		"difficulty", e.difficulty.Name, "target", e.Target())

	e.checkGameOver()
}

func cellFor(t special.Type) CellState {
	switch t {
	case special.Frozen:
		return CellFrozen
	case special.Bomb:
		return CellBomb
	default:
		return CellFilled
	}
}

func (e *Engine) seedSpecials(level int) {
	if !e.rules.SpecialBlocks {
		return
	}
	b := &e.state.Board
	switch {
	case e.mode == ModeLevel && level >= special.ObstacleMinLevel:
		e.specials.GenerateForLevel(level, b.Width, b.Height, e.rng)
	case e.challenge != nil && e.challenge.HasRule(daily.RuleSpecialBlocks):
		e.specials.GenerateForLevel(special.ObstacleMinLevel, b.Width, b.Height, e.rng)
		if x, y := e.rng.Intn(b.Width), e.rng.Intn(b.Height); !e.specials.IsSpecial(x, y) {
			e.specials.Set(x, y, special.Bomb)
		}
	default:
		return
	}
	for _, s := range e.specials.All() {
		b.set(s.X, s.Y, cellFor(s.Type), special.Shapes[s.Type].Color)
	}
	e.logger.Debug("special cells placed", "count", e.specials.Len())
}

func (e *Engine) startTimer(level int) {
	var cfg *timed.Config
	switch e.mode {
	case ModeTimed:
		if e.timedPreset != nil {
			c := *e.timedPreset
			cfg = &c
		}
	case ModeLevel:
		if lc, ok := e.levels.Config(level); ok && lc.HasTimeLimit {
			cfg = &timed.Config{
				TimeLimit:       e.difficulty.ScaleTime(lc.TimeLimitSeconds),
				ScoreMultiplier: 1,
				WarningTime:     30,
			}
		}
	case ModeDaily:
		if e.challenge != nil && e.challenge.TimeLimit > 0 {
			cfg = &timed.Config{
				TimeLimit:       e.challenge.TimeLimit,
				ScoreMultiplier: 1,
				WarningTime:     60,
			}
		}
	}
	if cfg == nil {
		return
	}

	e.timeUp = false
	e.timer = timed.New(*cfg, timed.WithClock(e.now), timed.WithLogger(e.logger))
	e.timer.OnWarning(func(rem float64) { e.emit(TimeWarning{Remaining: rem}) })
	e.timer.OnTimeUp(func(timed.State) { e.timeUp = true })
	e.timer.Start()
}

func (e *Engine) teardownTimer() {
	if e.timer != nil {
		e.timer.Destroy()
		e.timer = nil
	}
	e.timeUp = false
}

// SwitchMode starts a fresh session in mode. Changing the difficulty also
// moves the level manager to the difficulty's starting level when that
// level is unlocked.
func (e *Engine) SwitchMode(mode Mode, opts ModeOptions) {
	e.mode = mode
	if d := opts.Difficulty; d != nil && *d != *e.difficulty {
		dd := *d
		e.difficulty = &dd
		if !e.levels.SetCurrentLevel(dd.StartingLevel) {
			e.logger.Debug("starting level unavailable", "difficulty", dd.Name, "level", dd.StartingLevel)
		}
	}

	e.teardownTimer()
	e.timedPreset = nil
	switch mode {
	case ModeTimed:
		if opts.TimeLimit > 0 {
			name := timed.PresetName(opts.TimeLimit)
			cfg := e.timedConfig(name)
			cfg = timed.Scale(cfg, e.difficulty.TimeMultiplier)
			e.timedPreset = &cfg
		}
	case ModeDaily:
		if c, ok := e.daily.CurrentChallenge(); ok {
			e.logger.Info("daily challenge", "date", c.Date, "kind", c.Kind, "desc", c.Description)
		}
	}

	e.ready = true
	e.newSession()
	e.logger.Info("mode switched", "mode", mode)
}

func (e *Engine) timedConfig(name string) timed.Config {
	if p, ok := e.rules.Timed[name]; ok {
		return timed.Config{
			TimeLimit:       p.TimeLimit,
			ScoreMultiplier: p.ScoreMultiplier,
			TimeBonus:       p.TimeBonus,
			WarningTime:     p.WarningTime,
		}
	}
	return timed.Presets[name]
}

// NextLevel advances to the next level and starts a session. It returns
// false, changing nothing, when that level is missing or locked.
func (e *Engine) NextLevel() bool {
	next := e.levels.CurrentLevel() + 1
	if !e.levels.SetCurrentLevel(next) {
		return false
	}
	e.newSession()
	return true
}

// SelectLevel makes level current and restarts the session.
func (e *Engine) SelectLevel(level int) bool {
	if !e.levels.SetCurrentLevel(level) {
		return false
	}
	e.newSession()
	return true
}

// RestartLevel discards the session and starts a new one with the same
// mode, level and difficulty.
func (e *Engine) RestartLevel() {
	e.newSession()
}

// CanPlace reports whether p fits with its top-left cell at (x, y).
func (e *Engine) CanPlace(p shapes.Pattern, x, y int) bool {
	if !e.ready {
		return false
	}
	return e.state.Board.canPlace(p, x, y)
}

// Place puts p on the board at (x, y) and consumes candidate blockID.
// It returns false without side effects when the placement is invalid.
// An unknown blockID still places the pattern.
func (e *Engine) Place(p shapes.Pattern, x, y int, blockID string) bool {
	if !e.CanPlace(p, x, y) {
		return false
	}

	color := ""
	if i := slices.IndexFunc(e.state.Candidates, func(b generator.Block) bool { return b.ID == blockID }); i >= 0 {
		color = e.state.Candidates[i].Shape.Color
	}

	b := &e.state.Board
	cells := 0
	for py := 0; py < p.Height(); py++ {
		for px := 0; px < p.Width(); px++ {
			if p.Filled(px, py) {
				b.set(x+px, y+py, CellFilled, color)
				cells++
			}
		}
	}

	e.state.Candidates = slices.DeleteFunc(e.state.Candidates, func(b generator.Block) bool { return b.ID == blockID })
	if e.state.Selected == blockID {
		e.state.Selected = ""
	}
	e.state.MovesUsed++
	e.emit(BlockPlaced{BlockID: blockID, X: x, Y: y, Cells: cells, Color: color})

	e.clearLines()

	if len(e.state.Candidates) == 0 {
		rarity := e.rarityFor(b.Level)
		e.gen.SetLevel(rarity)
		e.state.Candidates = e.gen.Candidates(e.rules.Candidates)
		e.logger.Debug("candidates refilled", "rarity", rarity)
	}

	e.checkLevelCompletion()
	e.checkGameOver()
	return true
}

func (e *Engine) clearLines() {
	b := &e.state.Board
	rows, cols := b.fullLines()
	if len(rows) == 0 && len(cols) == 0 {
		e.state.Combo = 0
		return
	}

	now := e.now()
	window := time.Duration(e.rules.Combo.WindowMS) * time.Millisecond
	e.state.Combo = nextCombo(e.state.Combo, e.state.LastClear, now, window)
	e.state.LastClear = now

	e.clearCells(rows, cols)

	base := ClearScore(len(rows), len(cols))
	delta := base * min(e.state.Combo, e.rules.Combo.MaxMultiplier)
	b.Score += delta
	if e.mode == ModeTimed && e.timer != nil {
		e.timer.AddScore(delta)
	}

	e.logger.Debug("lines cleared", "rows", len(rows), "cols", len(cols), "combo", e.state.Combo, "delta", delta)
	e.emit(LinesCleared{Rows: rows, Cols: cols, Base: base, Delta: delta, Combo: e.state.Combo})
}

// clearCells empties the given lines. A cell on both a row and a column
// is processed once. Obstacles survive, frozen cells lose a layer and
// bombs empty their blast square, chaining into other bombs.
func (e *Engine) clearCells(rows, cols []int) {
	b := &e.state.Board
	seen := make(map[special.Coord]bool)
	var cells []special.Coord
	add := func(x, y int) {
		c := special.Coord{X: x, Y: y}
		if !seen[c] {
			seen[c] = true
			cells = append(cells, c)
		}
	}
	for _, y := range rows {
		for x := 0; x < b.Width; x++ {
			add(x, y)
		}
	}
	for _, x := range cols {
		for y := 0; y < b.Height; y++ {
			add(x, y)
		}
	}

	var bombs []special.Coord
	for _, c := range cells {
		cell, ok := e.specials.Get(c.X, c.Y)
		switch {
		case ok && cell.Type == special.Obstacle:
		case ok && cell.Type == special.Frozen:
			if e.specials.ProcessFrozen(c.X, c.Y) {
				b.set(c.X, c.Y, CellEmpty, "")
			}
		case ok && cell.Type == special.Bomb:
			bombs = append(bombs, c)
		default:
			e.specials.Remove(c.X, c.Y)
			b.set(c.X, c.Y, CellEmpty, "")
		}
	}

	for len(bombs) > 0 {
		c := bombs[0]
		bombs = bombs[1:]
		blast := e.specials.ProcessBomb(c.X, c.Y, b.Width, b.Height)
		b.set(c.X, c.Y, CellEmpty, "")
		for _, n := range blast {
			cell, ok := e.specials.Get(n.X, n.Y)
			if ok && cell.Type == special.Obstacle {
				continue
			}
			if ok && cell.Type == special.Bomb {
				bombs = append(bombs, n)
				continue
			}
			e.specials.Remove(n.X, n.Y)
			b.set(n.X, n.Y, CellEmpty, "")
		}
	}
}

func (e *Engine) checkLevelCompletion() {
	if e.mode != ModeLevel || e.levelDone || e.state.GameOver {
		return
	}
	level := e.state.Board.Level
	lc, ok := e.levels.Config(level)
	if !ok {
		return
	}
	target := e.difficulty.AdjustTarget(lc.TargetScore)
	score := e.state.Board.Score
	if score < target {
		return
	}

	e.levelDone = true
	res := e.levels.Complete(level, score)
	ev := LevelComplete{
		Level:        level,
		Score:        score,
		TargetScore:  target,
		Stars:        res.Stars,
		IsNewRecord:  res.IsNewRecord,
		UnlockedNext: res.UnlockedNext,
	}
	if res.UnlockedNext {
		ev.NextLevel = level + 1
	}
	e.emit(ev)
}

// placeable reports whether a candidate fits anywhere, trying its
// rotations when rotation is enabled.
func (e *Engine) placeable(blk generator.Block) bool {
	patterns := []shapes.Pattern{blk.Shape.Pattern}
	if e.rules.Rotation && blk.Shape.Rotatable {
		patterns = shapes.Rotations(blk.Shape.Pattern)
	}
	for _, p := range patterns {
		if e.state.Board.anyPlacement(p) {
			return true
		}
	}
	return false
}

func (e *Engine) checkGameOver() {
	if e.state.GameOver {
		return
	}
	if e.moveLimit > 0 && e.state.MovesUsed >= e.moveLimit {
		e.endSession(ReasonMoveLimit)
		return
	}
	for _, blk := range e.state.Candidates {
		if e.placeable(blk) {
			return
		}
	}
	e.endSession(ReasonNoMoves)
}

func (e *Engine) endSession(reason string) {
	if e.state.GameOver {
		return
	}
	e.state.GameOver = true
	if e.timer != nil {
		e.timer.Stop()
	}
	score := e.FinalScore()

	if e.mode == ModeDaily && e.challenge != nil {
		used := int(e.now().Sub(e.startedAt).Seconds())
		if _, err := e.daily.SubmitResult(score, used); err != nil {
			e.logger.Warn("daily result not recorded", "err", err)
		}
	}

	e.logger.Info("game over", "mode", e.mode, "score", score, "level", e.state.Board.Level, "reason", reason)
	e.emit(GameOver{
		Score:  score,
		Level:  e.state.Board.Level,
		Mode:   e.mode,
		Combo:  e.state.Combo,
		Reason: reason,
	})
}

// Tick drives the session timer, ending the session when time runs out.
func (e *Engine) Tick() {
	if !e.ready || e.state.GameOver || e.timer == nil {
		return
	}
	e.timer.Poll()
	if e.timeUp {
		e.endSession(ReasonTimeUp)
	}
}

// Abandon ends a session that has seen at least one placement, recording
// its result as if the game were over.
func (e *Engine) Abandon() {
	if !e.ready || e.state.GameOver || e.state.MovesUsed == 0 {
		return
	}
	e.endSession(ReasonQuit)
}

// SetPaused pauses or resumes the session timer. Placement is not gated.
func (e *Engine) SetPaused(paused bool) {
	e.state.Paused = paused
	if e.timer == nil {
		return
	}
	if paused {
		e.timer.Pause()
	} else {
		e.timer.Resume()
	}
}

// Select marks a candidate as selected. Unknown ids are rejected.
func (e *Engine) Select(blockID string) bool {
	if !slices.ContainsFunc(e.state.Candidates, func(b generator.Block) bool { return b.ID == blockID }) {
		return false
	}
	e.state.Selected = blockID
	return true
}

// PlaceSpecial turns an empty cell into a special cell.
func (e *Engine) PlaceSpecial(x, y int, t special.Type) bool {
	if !e.ready || e.state.Board.Cell(x, y) != CellEmpty || x < 0 || y < 0 ||
		x >= e.state.Board.Width || y >= e.state.Board.Height {
		return false
	}
	e.specials.Set(x, y, t)
	e.state.Board.set(x, y, cellFor(t), special.Shapes[t].Color)
	return true
}

// State returns a deep copy of the session state.
func (e *Engine) State() GameState {
	return e.state.clone()
}

// Mode returns the current mode.
func (e *Engine) Mode() Mode {
	return e.mode
}

// Difficulty returns the current difficulty.
func (e *Engine) Difficulty() config.Difficulty {
	return *e.difficulty
}

// Rules returns the rules the engine was built with.
func (e *Engine) Rules() config.Config {
	return e.rules
}

// Levels exposes the level manager.
func (e *Engine) Levels() *levels.Manager {
	return e.levels
}

// Daily exposes the daily challenge manager.
func (e *Engine) Daily() *daily.Manager {
	return e.daily
}

// Specials returns the special cells on the board.
func (e *Engine) Specials() []special.Entry {
	return e.specials.All()
}

// Challenge returns the daily challenge of the current session.
func (e *Engine) Challenge() (daily.Challenge, bool) {
	if e.challenge == nil {
		return daily.Challenge{}, false
	}
	return *e.challenge, true
}

// Target returns the score that completes the session: the adjusted
// level target in level mode, the challenge target in daily mode, or 0.
func (e *Engine) Target() int {
	switch e.mode {
	case ModeLevel:
		if lc, ok := e.levels.Config(e.state.Board.Level); ok {
			return e.difficulty.AdjustTarget(lc.TargetScore)
		}
	case ModeDaily:
		if e.challenge != nil {
			return e.challenge.TargetScore
		}
	}
	return 0
}

// LevelCompleted reports whether the level target was reached this session.
func (e *Engine) LevelCompleted() bool {
	return e.levelDone
}

// MovesLeft returns the remaining placements under a move limit.
func (e *Engine) MovesLeft() (int, bool) {
	if e.moveLimit <= 0 {
		return 0, false
	}
	return max(0, e.moveLimit-e.state.MovesUsed), true
}

// TimeLeft returns the remaining session time as MM:SS.
func (e *Engine) TimeLeft() (string, bool) {
	if e.timer == nil {
		return "", false
	}
	return e.timer.FormattedTime(), true
}

// TimeWarning reports whether the session timer is in its warning band.
func (e *Engine) TimeWarning() bool {
	return e.timer != nil && e.timer.IsWarningTime()
}

// TimerState returns a copy of the session timer state.
func (e *Engine) TimerState() (timed.State, bool) {
	if e.timer == nil {
		return timed.State{}, false
	}
	return e.timer.State(), true
}

// FinalScore is the score recorded for the session: the timer's score in
// timed mode, the board score otherwise.
func (e *Engine) FinalScore() int {
	if e.mode == ModeTimed && e.timer != nil {
		return e.timer.FinalScore()
	}
	return e.state.Board.Score
}
