package tui

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-blockblast/internal/games/blockblast/daily"
	"github.com/vovakirdan/tui-blockblast/internal/games/blockblast/engine"
	"github.com/vovakirdan/tui-blockblast/internal/games/blockblast/levels"
	"github.com/vovakirdan/tui-blockblast/internal/storage"
)

// onTab moves the scoreboard to mode's tab.
func onTab(t *testing.T, m ScoreboardModel, mode engine.Mode) ScoreboardModel {
	t.Helper()
	for range m.modes {
		if m.mode() == mode {
			return m
		}
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
		m = next.(ScoreboardModel)
	}
	t.Fatalf("mode %q has no tab", mode)
	return m
}

func TestScoreboardLevelProgress(t *testing.T) {
	kv := storage.NewMemoryKV()
	data, err := json.Marshal(map[int]levels.Progress{
		1: {Level: 1, Completed: true, Stars: 3, BestScore: 500, Attempts: 2},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := kv.Put(levels.ProgressKey, data); err != nil {
		t.Fatal(err)
	}

	m := onTab(t, newScoreboard(nil, kv, "alice", 120, 30), engine.ModeLevel)
	panel := strings.Join(m.progressLines(), "\n")

	for _, want := range []string{
		fmt.Sprintf("Stars 3 / %d", m.levels.MaxStars()),
		fmt.Sprintf("Unlocked 2 / %d", m.levels.LevelCount()),
		"Lv 1   *** 500",
		"Lv 2   ...",
	} {
		if !strings.Contains(panel, want) {
			t.Errorf("level panel should contain %q:\n%s", want, panel)
		}
	}
}

func TestScoreboardDailyProgress(t *testing.T) {
	kv := storage.NewMemoryKV()
	dm := daily.NewManager(daily.WithStore(kv))
	if _, err := dm.SubmitResult(1_000_000, 0); err != nil {
		t.Fatal(err)
	}

	m := onTab(t, newScoreboard(nil, kv, "alice", 120, 30), engine.ModeDaily)
	panel := strings.Join(m.progressLines(), "\n")

	for _, want := range []string{"Today 1000000 (1 tries)", "Streak 1", "Completed 1", "Week "} {
		if !strings.Contains(panel, want) {
			t.Errorf("daily panel should contain %q:\n%s", want, panel)
		}
	}
}

func TestScoreboardLevelColumnOnlyOnLevelTab(t *testing.T) {
	m := newScoreboard(nil, nil, "alice", 80, 24)

	for range m.modes {
		hasLevel := false
		for _, c := range m.columns() {
			if c.Title == "Lv" {
				hasLevel = true
			}
		}
		if want := m.mode() == engine.ModeLevel; hasLevel != want {
			t.Errorf("mode %q: level column = %v, want %v", m.mode(), hasLevel, want)
		}
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
		m = next.(ScoreboardModel)
	}
	if m.cursor != 0 {
		t.Errorf("tabbing through every mode should wrap to 0, got %d", m.cursor)
	}
}

func TestScoreboardPersonalBest(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	for _, e := range []storage.ScoreEntry{
		{Player: "alice", Mode: "classic", Score: 300},
		{Player: "alice", Mode: "classic", Score: 120},
		{Player: "bob", Mode: "classic", Score: 500},
		{Player: "alice", Mode: "timed", Score: 900},
	} {
		if _, err := store.SaveScore(e); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}

	m := onTab(t, NewScoreboardModel(store, "alice", 120, 30), engine.ModeClassic)
	if len(m.scores) != 3 {
		t.Fatalf("classic scores = %d, want 3", len(m.scores))
	}
	panel := strings.Join(m.progressLines(), "\n")
	for _, want := range []string{"Best 300", "Games 2", "Rank #2"} {
		if !strings.Contains(panel, want) {
			t.Errorf("classic panel should contain %q:\n%s", want, panel)
		}
	}
}

func TestScoreboardBackAndQuit(t *testing.T) {
	m := newScoreboard(nil, nil, "alice", 80, 24)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if sb := next.(ScoreboardModel); !sb.IsGoingBack() || sb.IsQuitting() {
		t.Error("esc should go back")
	}
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if sb := next.(ScoreboardModel); !sb.IsQuitting() {
		t.Error("q should quit")
	}
}
