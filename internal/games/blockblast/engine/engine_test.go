package engine

import (
	"math/rand"
	"testing"
	"time"

	"github.com/vovakirdan/tui-blockblast/internal/config"
	"github.com/vovakirdan/tui-blockblast/internal/games/blockblast/daily"
	"github.com/vovakirdan/tui-blockblast/internal/games/blockblast/generator"
	"github.com/vovakirdan/tui-blockblast/internal/games/blockblast/shapes"
	"github.com/vovakirdan/tui-blockblast/internal/games/blockblast/special"
)

var single = shapes.Pattern{{1}}

type testClock struct {
	t time.Time
}

func (c *testClock) now() time.Time { return c.t }

func (c *testClock) advance(d time.Duration) { c.t = c.t.Add(d) }

type recorder struct {
	events []Event
}

func (r *recorder) HandleEvent(ev Event) { r.events = append(r.events, ev) }

func eventsOf[T Event](r *recorder) []T {
	var out []T
	for _, ev := range r.events {
		if e, ok := ev.(T); ok {
			out = append(out, e)
		}
	}
	return out
}

func newTestEngine(t *testing.T, date string, opts ...Option) (*Engine, *testClock, *recorder) {
	t.Helper()
	start, err := time.Parse(daily.DateLayout, date)
	if err != nil {
		t.Fatal(err)
	}
	clk := &testClock{t: start.Add(12 * time.Hour)}
	rec := &recorder{}
	base := []Option{
		WithClock(clk.now),
		WithRand(rand.New(rand.NewSource(7))),
		WithListener(rec),
		WithDaily(daily.NewManager(daily.WithClock(clk.now))),
	}
	e := New(append(base, opts...)...)
	return e, clk, rec
}

// fillRow occupies row y except the listed columns.
func fillRow(e *Engine, y int, skip ...int) {
	for x := 0; x < e.state.Board.Width; x++ {
		if !containsInt(skip, x) {
			e.state.Board.set(x, y, CellFilled, "")
		}
	}
}

func fillCol(e *Engine, x int, skip ...int) {
	for y := 0; y < e.state.Board.Height; y++ {
		if !containsInt(skip, y) {
			e.state.Board.set(x, y, CellFilled, "")
		}
	}
}

func containsInt(s []int, v int) bool {
	for _, n := range s {
		if n == v {
			return true
		}
	}
	return false
}

func block(t *testing.T, id, shapeID string) generator.Block {
	t.Helper()
	s, ok := shapes.ByID(shapeID)
	if !ok {
		t.Fatalf("unknown shape %q", shapeID)
	}
	return generator.Block{ID: id, Shape: s}
}

func TestClearScore(t *testing.T) {
	tests := []struct {
		rows, cols int
		want       int
	}{
		{0, 0, 0},
		{1, 0, 200},
		{0, 1, 200},
		{2, 0, 800},
		{3, 0, 1800},
		{1, 1, 1000},
		{2, 1, 2000},
	}
	for _, tt := range tests {
		if got := ClearScore(tt.rows, tt.cols); got != tt.want {
			t.Errorf("ClearScore(%d, %d) = %d, expected %d", tt.rows, tt.cols, got, tt.want)
		}
	}
}

func TestNextCombo(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		combo int
		last  time.Time
		now   time.Time
		want  int
	}{
		{"first clear", 0, time.Time{}, t0, 1},
		{"inside window", 1, t0, t0.Add(2999 * time.Millisecond), 2},
		{"window edge", 3, t0, t0.Add(3 * time.Second), 1},
		{"after gap", 4, t0, t0.Add(10 * time.Second), 1},
	}
	for _, tt := range tests {
		if got := nextCombo(tt.combo, tt.last, tt.now, DefaultWindow); got != tt.want {
			t.Errorf("%s: got %d, expected %d", tt.name, got, tt.want)
		}
	}
}

func TestUninitializedEngineRejectsPlacement(t *testing.T) {
	e, _, _ := newTestEngine(t, "2024-01-01")
	if e.CanPlace(single, 0, 0) || e.Place(single, 0, 0, "x") {
		t.Error("placement before Init should fail")
	}
}

func TestPlaceValidation(t *testing.T) {
	e, _, rec := newTestEngine(t, "2024-01-01")
	e.Init()

	line3 := shapes.Pattern{{1, 1, 1}}
	checks := []struct {
		p    shapes.Pattern
		x, y int
		want bool
	}{
		{single, 0, 0, true},
		{single, 9, 9, true},
		{single, -1, 0, false},
		{single, 0, 10, false},
		{line3, 8, 0, false},
		{line3, 7, 0, true},
		{shapes.Pattern{}, 0, 0, false},
	}
	for _, c := range checks {
		if got := e.CanPlace(c.p, c.x, c.y); got != c.want {
			t.Errorf("CanPlace(%v, %d, %d) = %v, expected %v", c.p, c.x, c.y, got, c.want)
		}
	}

	cand := e.State().Candidates[0]
	if !e.Place(cand.Shape.Pattern, 0, 0, cand.ID) {
		t.Fatal("first placement should succeed")
	}
	before := e.State()
	if e.Place(cand.Shape.Pattern, 0, 0, cand.ID) {
		t.Fatal("placing over occupied cells should fail")
	}
	after := e.State()
	if after.Board.Occupied() != before.Board.Occupied() || after.MovesUsed != before.MovesUsed {
		t.Error("failed placement mutated the board")
	}
	for _, c := range after.Candidates {
		if c.ID == cand.ID {
			t.Error("placed candidate should be consumed")
		}
	}

	placed := eventsOf[BlockPlaced](rec)
	if len(placed) != 1 || placed[0].Cells != cand.Shape.Pattern.Count() || placed[0].Color != cand.Shape.Color {
		t.Errorf("BlockPlaced events = %+v", placed)
	}
}

func TestSingleRowClear(t *testing.T) {
	e, _, rec := newTestEngine(t, "2024-01-01")
	e.Init()
	fillRow(e, 0, 9)

	if !e.Place(single, 9, 0, "x") {
		t.Fatal("placement failed")
	}
	s := e.State()
	if s.Board.Score != 200 || s.Combo != 1 {
		t.Errorf("score %d combo %d, expected 200 and 1", s.Board.Score, s.Combo)
	}
	if s.Board.Occupied() != 0 {
		t.Errorf("row 0 should be empty, %d cells left", s.Board.Occupied())
	}
	cleared := eventsOf[LinesCleared](rec)
	if len(cleared) != 1 || cleared[0].Delta != 200 || len(cleared[0].Rows) != 1 {
		t.Errorf("LinesCleared = %+v", cleared)
	}
}

func TestRowAndColumnClear(t *testing.T) {
	e, _, _ := newTestEngine(t, "2024-01-01")
	e.Init()
	fillRow(e, 0, 0)
	fillCol(e, 0, 0)

	e.Place(single, 0, 0, "x")
	s := e.State()
	if s.Board.Score != 1000 {
		t.Errorf("score = %d, expected 1000", s.Board.Score)
	}
	if s.Board.Occupied() != 0 {
		t.Error("crossing cell should be cleared once, leaving an empty board")
	}
}

func TestComboWindow(t *testing.T) {
	e, clk, _ := newTestEngine(t, "2024-01-01")
	e.Init()

	fillRow(e, 0, 9)
	e.Place(single, 9, 0, "x")

	clk.advance(2 * time.Second)
	fillRow(e, 1, 9)
	e.Place(single, 9, 1, "x")
	if s := e.State(); s.Combo != 2 || s.Board.Score != 600 {
		t.Fatalf("combo %d score %d, expected 2 and 600", s.Combo, s.Board.Score)
	}

	clk.advance(5 * time.Second)
	fillRow(e, 2, 9)
	e.Place(single, 9, 2, "x")
	if s := e.State(); s.Combo != 1 || s.Board.Score != 800 {
		t.Fatalf("combo %d score %d, expected 1 and 800", s.Combo, s.Board.Score)
	}

	e.Place(single, 5, 5, "x")
	if s := e.State(); s.Combo != 0 || s.Board.Score != 800 {
		t.Errorf("a placement without clears should reset combo, got %d", s.Combo)
	}
}

func TestComboCap(t *testing.T) {
	e, _, _ := newTestEngine(t, "2024-01-01")
	e.Init()
	e.state.Combo = 20
	e.state.LastClear = e.now()
	fillRow(e, 0, 9)
	e.Place(single, 9, 0, "x")
	if got := e.State().Board.Score; got != 200*DefaultComboCap {
		t.Errorf("score = %d, expected %d", got, 200*DefaultComboCap)
	}
}

func TestScoreNeverDecreases(t *testing.T) {
	e, _, _ := newTestEngine(t, "2024-01-01")
	e.Init()
	last := 0
	for i := 0; i < 200 && !e.State().GameOver; i++ {
		s := e.State()
		placed := false
		for _, c := range s.Candidates {
			for y := 0; y < BoardHeight && !placed; y++ {
				for x := 0; x < BoardWidth && !placed; x++ {
					placed = e.Place(c.Shape.Pattern, x, y, c.ID)
				}
			}
			if placed {
				break
			}
		}
		if !placed {
			break
		}
		score := e.State().Board.Score
		if score < last {
			t.Fatalf("score dropped from %d to %d", last, score)
		}
		last = score
	}
}

func TestCandidatesRefill(t *testing.T) {
	e, _, _ := newTestEngine(t, "2024-01-01")
	e.Init()
	e.state.Candidates = []generator.Block{block(t, "only", "single")}

	e.Place(single, 4, 4, "only")
	s := e.State()
	if len(s.Candidates) != 3 {
		t.Fatalf("expected 3 candidates after refill, got %d", len(s.Candidates))
	}
	seen := map[string]bool{}
	for _, c := range s.Candidates {
		if seen[c.ID] {
			t.Errorf("duplicate candidate id %s", c.ID)
		}
		seen[c.ID] = true
	}
}

func TestGameOverWithLargeSquares(t *testing.T) {
	e, _, rec := newTestEngine(t, "2024-01-01")
	e.Init()
	for y := 1; y < BoardHeight; y += 2 {
		for x := 1; x < BoardWidth; x += 2 {
			e.state.Board.set(x, y, CellFilled, "")
		}
	}
	e.state.Candidates = []generator.Block{
		block(t, "a", "square3"), block(t, "b", "square3"), block(t, "c", "square3"),
	}

	e.Place(single, 0, 0, "x")
	if !e.State().GameOver {
		t.Fatal("expected game over when no 3x3 region is empty")
	}
	over := eventsOf[GameOver](rec)
	if len(over) != 1 || over[0].Reason != ReasonNoMoves || over[0].Mode != ModeClassic {
		t.Errorf("GameOver events = %+v", over)
	}

	e.RestartLevel()
	if e.State().GameOver || e.State().Board.Occupied() != 0 {
		t.Error("restart should start a fresh session")
	}
}

func TestGameOverConsidersRotation(t *testing.T) {
	for _, rotation := range []bool{false, true} {
		rules := config.Default()
		rules.Rotation = rotation
		e, _, _ := newTestEngine(t, "2024-01-01", WithRules(rules))
		e.Init()
		for y := 0; y < BoardHeight; y++ {
			fillRow(e, y)
		}
		for x := 0; x < 3; x++ {
			e.state.Board.set(x, 0, CellEmpty, "")
		}
		e.state.Candidates = []generator.Block{block(t, "v", "line3v")}

		e.checkGameOver()
		if got := e.State().GameOver; got == rotation {
			t.Errorf("rotation=%v: game over = %v", rotation, got)
		}
	}
}

func TestDifficultyRarityAppliedToFirstCandidates(t *testing.T) {
	rules := config.Default()
	e, _, _ := newTestEngine(t, "2024-01-01", WithDifficulty(rules.Difficulty(config.DifficultyHard)))
	e.Init()
	if got := e.gen.Level(); got != 3 {
		t.Errorf("generator rarity = %d, expected 3", got)
	}

	easy := rules.Difficulty(config.DifficultyEasy)
	e.SwitchMode(ModeClassic, ModeOptions{Difficulty: &easy})
	if got := e.gen.Level(); got != 1 {
		t.Errorf("rarity should clamp to 1, got %d", got)
	}
}

func TestStateIsCopy(t *testing.T) {
	e, _, _ := newTestEngine(t, "2024-01-01")
	e.Init()
	s := e.State()
	s.Board.Grid[0][0] = CellFilled
	s.Candidates[0].ID = "mutated"

	if e.State().Board.Cell(0, 0) != CellEmpty || e.State().Candidates[0].ID == "mutated" {
		t.Error("State should return a deep copy")
	}
}

func TestLevelCompletesOncePerSession(t *testing.T) {
	e, _, rec := newTestEngine(t, "2024-01-01")
	e.SwitchMode(ModeLevel, ModeOptions{})
	if e.Target() != 10 {
		t.Fatalf("level 1 target = %d, expected 10", e.Target())
	}

	fillRow(e, 0, 9)
	e.Place(single, 9, 0, "x")
	fillRow(e, 1, 9)
	e.Place(single, 9, 1, "x")

	done := eventsOf[LevelComplete](rec)
	if len(done) != 1 {
		t.Fatalf("expected one LevelComplete, got %d", len(done))
	}
	want := LevelComplete{Level: 1, Score: 200, TargetScore: 10, Stars: 3, IsNewRecord: true, UnlockedNext: true, NextLevel: 2}
	if done[0] != want {
		t.Errorf("LevelComplete = %+v, expected %+v", done[0], want)
	}
	if !e.LevelCompleted() {
		t.Error("LevelCompleted should report true")
	}

	if !e.NextLevel() {
		t.Fatal("level 2 should be unlocked")
	}
	if s := e.State(); s.Board.Level != 2 || s.Board.Score != 0 {
		t.Errorf("next level state = level %d score %d", s.Board.Level, s.Board.Score)
	}
	if e.NextLevel() {
		t.Error("level 3 should still be locked")
	}
}

func TestClassicModeNeverCompletesLevels(t *testing.T) {
	e, _, rec := newTestEngine(t, "2024-01-01")
	e.Init()
	fillRow(e, 0, 9)
	e.Place(single, 9, 0, "x")
	if n := len(eventsOf[LevelComplete](rec)); n != 0 {
		t.Errorf("classic mode emitted %d LevelComplete events", n)
	}
}

func TestDifficultyMovesStartingLevel(t *testing.T) {
	e, _, _ := newTestEngine(t, "2024-01-01")
	for l := 1; l < 10; l++ {
		e.Levels().Complete(l, 10000)
	}
	hard := config.Default().Difficulty(config.DifficultyHard)
	e.SwitchMode(ModeLevel, ModeOptions{Difficulty: &hard})

	if got := e.State().Board.Level; got != 10 {
		t.Fatalf("level = %d, expected 10", got)
	}
	lc, _ := e.Levels().Config(10)
	if e.Target() != hard.AdjustTarget(lc.TargetScore) {
		t.Errorf("target = %d, expected %d", e.Target(), hard.AdjustTarget(lc.TargetScore))
	}
}

func TestTimedMode(t *testing.T) {
	e, clk, rec := newTestEngine(t, "2024-01-01")
	e.SwitchMode(ModeTimed, ModeOptions{TimeLimit: 180})

	if left, ok := e.TimeLeft(); !ok || left != "03:00" {
		t.Fatalf("TimeLeft = %q, %v", left, ok)
	}

	fillRow(e, 0, 9)
	e.Place(single, 9, 0, "x")
	if got := e.FinalScore(); got != 300 {
		t.Errorf("timed score = %d, expected 300", got)
	}

	clk.advance(160 * time.Second)
	e.Tick()
	if len(eventsOf[TimeWarning](rec)) == 0 || !e.TimeWarning() {
		t.Error("expected a time warning inside the last 30 seconds")
	}

	clk.advance(25 * time.Second)
	e.Tick()
	over := eventsOf[GameOver](rec)
	if len(over) != 1 || over[0].Reason != ReasonTimeUp || over[0].Score != 300 {
		t.Fatalf("GameOver events = %+v", over)
	}
	if !e.State().GameOver {
		t.Error("session should be over")
	}
}

func TestTimedModeScalesWithDifficulty(t *testing.T) {
	e, _, _ := newTestEngine(t, "2024-01-01")
	easy := config.Default().Difficulty(config.DifficultyEasy)
	e.SwitchMode(ModeTimed, ModeOptions{TimeLimit: 300, Difficulty: &easy})
	if left, _ := e.TimeLeft(); left != "07:30" {
		t.Errorf("TimeLeft = %q, expected 07:30", left)
	}

	e.SwitchMode(ModeTimed, ModeOptions{})
	if _, ok := e.TimeLeft(); ok {
		t.Error("timed mode without a limit runs untimed")
	}
}

func TestPauseFreezesTimer(t *testing.T) {
	e, clk, _ := newTestEngine(t, "2024-01-01")
	e.SwitchMode(ModeTimed, ModeOptions{TimeLimit: 180})

	e.SetPaused(true)
	clk.advance(time.Minute)
	e.SetPaused(false)
	e.Tick()
	if left, _ := e.TimeLeft(); left != "03:00" {
		t.Errorf("TimeLeft after pause = %q", left)
	}
	if e.State().Paused {
		t.Error("state should be resumed")
	}
}

func TestDailyLimitedMoves(t *testing.T) {
	e, _, rec := newTestEngine(t, "2024-07-03")
	e.SwitchMode(ModeDaily, ModeOptions{})

	c, ok := e.Challenge()
	if !ok || c.Kind != daily.KindLimitedMoves {
		t.Fatalf("challenge = %+v", c)
	}
	if e.Target() != 2128 {
		t.Errorf("target = %d", e.Target())
	}
	limit := config.Default().Daily.MoveLimit
	if left, ok := e.MovesLeft(); !ok || left != limit {
		t.Fatalf("MovesLeft = %d, %v", left, ok)
	}

	for i := 0; i < limit; i++ {
		if !e.Place(single, i%8, i/8, "x") {
			t.Fatalf("placement %d failed", i)
		}
	}
	over := eventsOf[GameOver](rec)
	if len(over) != 1 || over[0].Reason != ReasonMoveLimit {
		t.Fatalf("GameOver events = %+v", over)
	}
	r, ok := e.Daily().TodayResult()
	if !ok || r.Attempts != 1 {
		t.Errorf("daily result = %+v, %v", r, ok)
	}
}

func TestDailyIsDeterministic(t *testing.T) {
	ids := func() []string {
		e, _, _ := newTestEngine(t, "2024-01-01", WithRand(rand.New(rand.NewSource(time.Now().UnixNano()))))
		e.SwitchMode(ModeDaily, ModeOptions{})
		var out []string
		for _, c := range e.State().Candidates {
			out = append(out, c.Shape.ID)
		}
		return out
	}
	a, b := ids(), ids()
	if len(a) != 3 {
		t.Fatalf("candidates = %v", a)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("daily candidates differ: %v vs %v", a, b)
		}
	}
}

func TestDailyTimeAttack(t *testing.T) {
	e, clk, _ := newTestEngine(t, "2024-04-13")
	e.SwitchMode(ModeDaily, ModeOptions{})
	if left, ok := e.TimeLeft(); !ok || left != "09:57" {
		t.Fatalf("TimeLeft = %q, %v", left, ok)
	}

	fillRow(e, 0, 9)
	e.Place(single, 9, 0, "x")
	clk.advance(100 * time.Second)
	e.Abandon()

	r, ok := e.Daily().TodayResult()
	if !ok || r.Score != 200 || r.BestTime != 100 || r.Completed {
		t.Errorf("daily result = %+v, %v", r, ok)
	}
}

func TestDailySpecialBlocks(t *testing.T) {
	e, _, _ := newTestEngine(t, "2024-02-01")
	e.SwitchMode(ModeDaily, ModeOptions{})

	specials := e.Specials()
	if len(specials) == 0 {
		t.Fatal("special challenge should seed special cells")
	}
	if got := e.State().Board.Occupied(); got != len(specials) {
		t.Errorf("occupied %d, expected %d special cells", got, len(specials))
	}
}

func TestDailyDoesNotLeakSeedIntoNextSession(t *testing.T) {
	shapeIDs := func(e *Engine) []string {
		var out []string
		for _, c := range e.State().Candidates {
			out = append(out, c.Shape.ID)
		}
		return out
	}

	after, _, _ := newTestEngine(t, "2024-01-01")
	after.SwitchMode(ModeDaily, ModeOptions{})
	after.SwitchMode(ModeClassic, ModeOptions{})

	fresh, _, _ := newTestEngine(t, "2024-01-01")
	fresh.SwitchMode(ModeClassic, ModeOptions{})

	a, b := shapeIDs(after), shapeIDs(fresh)
	if len(a) != len(b) {
		t.Fatalf("candidates = %v, want %v", a, b)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("classic after daily drew %v, want the injected stream %v", a, b)
		}
	}
}

func TestSpecialCellsOnClear(t *testing.T) {
	e, _, _ := newTestEngine(t, "2024-01-01")
	e.Init()

	// obstacle survives its row
	e.PlaceSpecial(0, 0, special.Obstacle)
	fillRow(e, 0, 0, 9)
	e.Place(single, 9, 0, "x")
	if e.State().Board.Cell(0, 0) != CellFilled || len(e.Specials()) != 1 {
		t.Error("obstacle should survive a clear")
	}

	// frozen cell thaws over two clears
	e.PlaceSpecial(0, 1, special.Frozen)
	fillRow(e, 1, 0, 9)
	e.Place(single, 9, 1, "x")
	if e.State().Board.Cell(0, 1) != CellFrozen {
		t.Fatal("frozen cell should keep one layer")
	}
	fillRow(e, 1, 0, 9)
	e.Place(single, 9, 1, "x")
	if e.State().Board.Cell(0, 1) != CellEmpty {
		t.Error("frozen cell should thaw on the second clear")
	}
}

func TestBombClearsBlastSquare(t *testing.T) {
	e, _, _ := newTestEngine(t, "2024-01-01")
	e.Init()

	e.PlaceSpecial(5, 5, special.Bomb)
	e.PlaceSpecial(4, 6, special.Obstacle)
	e.state.Board.set(4, 4, CellFilled, "")
	e.state.Board.set(6, 6, CellFilled, "")
	e.state.Board.set(8, 8, CellFilled, "")
	fillRow(e, 5, 5, 9)

	e.Place(single, 9, 5, "x")
	b := e.State().Board
	for _, c := range []special.Coord{{X: 4, Y: 4}, {X: 6, Y: 6}, {X: 5, Y: 5}} {
		if b.Cell(c.X, c.Y) != CellEmpty {
			t.Errorf("(%d, %d) should be cleared by the blast", c.X, c.Y)
		}
	}
	if b.Cell(4, 6) != CellFilled {
		t.Error("obstacle should survive the blast")
	}
	if b.Cell(8, 8) != CellFilled {
		t.Error("cell outside the blast should stay")
	}
}

func TestPlaceSpecialRejectsOccupied(t *testing.T) {
	e, _, _ := newTestEngine(t, "2024-01-01")
	e.Init()
	if !e.PlaceSpecial(2, 2, special.Rainbow) {
		t.Fatal("PlaceSpecial on empty cell failed")
	}
	if e.PlaceSpecial(2, 2, special.Bomb) || e.PlaceSpecial(-1, 0, special.Bomb) {
		t.Error("PlaceSpecial should reject occupied and out of bounds cells")
	}
}

func TestParseMode(t *testing.T) {
	for _, m := range Modes {
		if got, ok := ParseMode(string(m)); !ok || got != m {
			t.Errorf("ParseMode(%q) = %q, %v", m, got, ok)
		}
	}
	if _, ok := ParseMode("arcade"); ok {
		t.Error("unknown mode should not parse")
	}
}
