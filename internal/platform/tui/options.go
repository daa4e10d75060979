package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-blockblast/internal/config"
	"github.com/vovakirdan/tui-blockblast/internal/core"
	"github.com/vovakirdan/tui-blockblast/internal/games/blockblast"
	"github.com/vovakirdan/tui-blockblast/internal/games/blockblast/daily"
	"github.com/vovakirdan/tui-blockblast/internal/games/blockblast/engine"
	"github.com/vovakirdan/tui-blockblast/internal/games/blockblast/levels"
	"github.com/vovakirdan/tui-blockblast/internal/registry"
)

// optionRow is one adjustable setting of the options screen.
type optionRow struct {
	label   string
	key     string // settings key
	values  []string
	display []string
	index   int
}

func (r optionRow) value() string   { return r.values[r.index] }
func (r optionRow) current() string { return r.display[r.index] }

// timeLimits are the timed mode presets offered, in seconds.
var timeLimits = []int{180, 300, 600}

// OptionsModel lets the player choose difficulty and mode specific
// settings before a game starts.
type OptionsModel struct {
	mode      engine.Mode
	rows      []optionRow
	info      []string
	cursor    int // len(rows) is the Start entry
	width     int
	height    int
	keyMapper *KeyMapper
	done      bool
	quitting  bool
	back      bool
}

// NewOptionsModel creates the options screen for mode. kv is the player's
// progress store and may be nil.
func NewOptionsModel(mode engine.Mode, kv registry.KV, difficulty string, width, height int) OptionsModel {
	m := OptionsModel{
		mode:      mode,
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
	}

	rules := blockblast.Rules()
	diff := optionRow{label: "Difficulty", key: blockblast.SettingDifficulty}
	for _, name := range config.DifficultyNames {
		d, ok := rules.Difficulties[name]
		if !ok {
			continue
		}
		if name == difficulty {
			diff.index = len(diff.values)
		}
		diff.values = append(diff.values, name)
		diff.display = append(diff.display, d.Name)
	}
	m.rows = append(m.rows, diff)

	switch mode {
	case engine.ModeTimed:
		row := optionRow{label: "Time limit", key: blockblast.SettingTimeLimit}
		for i, secs := range timeLimits {
			if secs == blockblast.DefaultTimeLimit {
				row.index = i
			}
			row.values = append(row.values, strconv.Itoa(secs))
			row.display = append(row.display, fmt.Sprintf("%d min", secs/60))
		}
		m.rows = append(m.rows, row)

	case engine.ModeLevel:
		lm := levels.NewManager(levels.WithStore(kv))
		row := optionRow{label: "Level", key: blockblast.SettingLevel}
		for _, lvl := range lm.UnlockedLevels() {
			label := strconv.Itoa(lvl)
			if p, ok := lm.Progress(lvl); ok && p.Stars > 0 {
				label += " " + strings.Repeat("*", p.Stars)
			}
			if lvl == lm.CurrentLevel() {
				row.index = len(row.values)
			}
			row.values = append(row.values, strconv.Itoa(lvl))
			row.display = append(row.display, label)
		}
		m.rows = append(m.rows, row)
		m.info = append(m.info, fmt.Sprintf("Stars: %d / %d", lm.TotalStars(), lm.MaxStars()))

	case engine.ModeDaily:
		dm := daily.NewManager(daily.WithStore(kv))
		if c, ok := dm.CurrentChallenge(); ok {
			m.info = append(m.info,
				fmt.Sprintf("%s: %s", c.Date, c.Description),
				fmt.Sprintf("Target %d", c.TargetScore),
			)
		}
		if r, ok := dm.TodayResult(); ok {
			m.info = append(m.info, fmt.Sprintf("Today's best: %d", r.Score))
		}
		m.info = append(m.info, fmt.Sprintf("Streak: %d", dm.Streak()))
	}

	return m
}

// Init initializes the model.
func (m OptionsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m OptionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m OptionsModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case MenuActionDown:
		if m.cursor < len(m.rows) {
			m.cursor++
		}
	case MenuActionLeft:
		m.shift(-1)
	case MenuActionRight:
		m.shift(1)
	case MenuActionSelect:
		m.done = true
		return m, tea.Quit
	case MenuActionBack:
		m.back = true
		return m, tea.Quit
	}
	return m, nil
}

// shift cycles the value of the row under the cursor.
func (m *OptionsModel) shift(delta int) {
	if m.cursor >= len(m.rows) {
		return
	}
	r := &m.rows[m.cursor]
	if len(r.values) > 0 {
		r.index = core.Wrap(r.index+delta, len(r.values))
	}
}

// View renders the options screen.
func (m OptionsModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(strings.ToUpper(string(m.mode))+" OPTIONS", m.width))
	b.WriteString("\n\n")

	for _, line := range m.info {
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}
	if len(m.info) > 0 {
		b.WriteString("\n")
	}

	for i, r := range m.rows {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		value := "-"
		if len(r.values) > 0 {
			value = r.current()
		}
		b.WriteString(centerText(fmt.Sprintf("%s%-12s < %s >", cursor, r.label, value), m.width))
		b.WriteString("\n")
	}

	start := "  Start"
	if m.cursor == len(m.rows) {
		start = "> Start"
	}
	b.WriteString("\n")
	b.WriteString(centerText(start, m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Left/Right: Change  |  Enter: Start  |  Esc: Back  |  Q: Quit", m.width))

	return b.String()
}

// Settings returns the chosen values keyed by setting name.
func (m OptionsModel) Settings() map[string]string {
	out := make(map[string]string, len(m.rows))
	for _, r := range m.rows {
		if len(r.values) > 0 {
			out[r.key] = r.value()
		}
	}
	return out
}

// IsDone returns true once the player confirmed the options.
func (m OptionsModel) IsDone() bool {
	return m.done
}

// IsQuitting returns true if user wants to quit.
func (m OptionsModel) IsQuitting() bool {
	return m.quitting
}

// WantsBack returns true if user pressed back.
func (m OptionsModel) WantsBack() bool {
	return m.back
}

// RunOptions runs the options screen and returns the chosen settings, or
// nil when the player backed out or quit.
func RunOptions(mode engine.Mode, kv registry.KV, difficulty string, cfg core.RuntimeConfig) (map[string]string, error) {
	model := NewOptionsModel(mode, kv, difficulty, cfg.ScreenW, cfg.ScreenH)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	m, ok := finalModel.(OptionsModel)
	if !ok || !m.IsDone() {
		return nil, nil
	}
	return m.Settings(), nil
}
