package tui

import (
	"encoding/json"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-blockblast/internal/games/blockblast"
	"github.com/vovakirdan/tui-blockblast/internal/games/blockblast/engine"
	"github.com/vovakirdan/tui-blockblast/internal/games/blockblast/levels"
	"github.com/vovakirdan/tui-blockblast/internal/storage"
)

func press(m OptionsModel, msgs ...tea.KeyMsg) OptionsModel {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(OptionsModel)
	}
	return m
}

func TestOptionsDifficulty(t *testing.T) {
	m := NewOptionsModel(engine.ModeClassic, nil, "normal", 80, 24)

	if got := m.Settings()[blockblast.SettingDifficulty]; got != "normal" {
		t.Fatalf("initial difficulty = %q, want normal", got)
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyRight})
	if got := m.Settings()[blockblast.SettingDifficulty]; got != "hard" {
		t.Errorf("after right = %q, want hard", got)
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyLeft}, tea.KeyMsg{Type: tea.KeyLeft}, tea.KeyMsg{Type: tea.KeyLeft})
	if got := m.Settings()[blockblast.SettingDifficulty]; got != "nightmare" {
		t.Errorf("left from easy should wrap to nightmare, got %q", got)
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.IsDone() {
		t.Error("enter should confirm")
	}
}

func TestOptionsTimeLimit(t *testing.T) {
	m := NewOptionsModel(engine.ModeTimed, nil, "normal", 80, 24)

	if got := m.Settings()[blockblast.SettingTimeLimit]; got != "300" {
		t.Fatalf("default time limit = %q, want 300", got)
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyLeft})
	if got := m.Settings()[blockblast.SettingTimeLimit]; got != "180" {
		t.Errorf("time limit = %q, want 180", got)
	}
}

func TestOptionsUnlockedLevels(t *testing.T) {
	kv := storage.NewMemoryKV()
	progress := map[int]levels.Progress{
		1: {Level: 1, Completed: true, Stars: 3, BestScore: 500, Attempts: 1},
		2: {Level: 2},
	}
	data, err := json.Marshal(progress)
	if err != nil {
		t.Fatal(err)
	}
	if err := kv.Put(levels.ProgressKey, data); err != nil {
		t.Fatal(err)
	}

	m := NewOptionsModel(engine.ModeLevel, kv, "normal", 80, 24)
	row := m.rows[1]
	if len(row.values) != 2 {
		t.Fatalf("unlocked levels = %v, want [1 2]", row.values)
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyRight})
	if got := m.Settings()[blockblast.SettingLevel]; got != "2" {
		t.Errorf("level = %q, want 2", got)
	}
}

func TestOptionsBack(t *testing.T) {
	m := press(NewOptionsModel(engine.ModeDaily, nil, "normal", 80, 24), tea.KeyMsg{Type: tea.KeyEsc})
	if !m.WantsBack() || m.IsDone() {
		t.Error("esc should go back without confirming")
	}
}
