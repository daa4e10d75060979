package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-blockblast/internal/games/blockblast/daily"
	"github.com/vovakirdan/tui-blockblast/internal/games/blockblast/engine"
	"github.com/vovakirdan/tui-blockblast/internal/games/blockblast/levels"
	"github.com/vovakirdan/tui-blockblast/internal/registry"
	"github.com/vovakirdan/tui-blockblast/internal/storage"
)

const (
	maxScores     = 100
	panelWidth    = 28
	sideBySideMin = 100 // narrower terminals stack the progress panel below the table
	recentLevels  = 8   // level rows shown in the progress panel
)

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	activeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")).Padding(0, 1)
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Next key.Binding
	Prev key.Binding
	Back key.Binding
	Quit key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Next, k.Prev, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Next, k.Prev}, {k.Back, k.Quit}}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("up/k", "scroll up")),
		Down: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("down/j", "scroll down")),
		Next: key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab", "next mode")),
		Prev: key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("S-tab", "prev mode")),
		Back: key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc/b", "back")),
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ScoreboardModel shows the top scores of each mode next to the player's
// own progress: stars per level on the level tab, streak and the week on
// the daily tab, personal bests elsewhere.
type ScoreboardModel struct {
	modes     []registry.GameInfo
	cursor    int
	store     *storage.Store
	player    string
	levels    *levels.Manager
	daily     *daily.Manager
	scores    []storage.ScoreEntry
	table     table.Model
	help      help.Model
	keys      ScoreboardKeyMap
	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewScoreboardModel creates the scoreboard for player. store may be nil.
func NewScoreboardModel(store *storage.Store, player string, width, height int) ScoreboardModel {
	return newScoreboard(store, PlayerEnv(store, player, nil, nil).Store, player, width, height)
}

func newScoreboard(store *storage.Store, kv registry.KV, player string, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		modes:  registry.List(),
		store:  store,
		player: player,
		levels: levels.NewManager(levels.WithStore(kv)),
		daily:  daily.NewManager(daily.WithStore(kv)),
		help:   help.New(),
		keys:   DefaultScoreboardKeyMap(),
		width:  width,
		height: height,
	}
	m.load()
	return m
}

func (m *ScoreboardModel) mode() engine.Mode {
	if len(m.modes) == 0 {
		return engine.ModeClassic
	}
	return engine.Mode(m.modes[m.cursor].ID)
}

// columns drops the level column where every run is level 1.
func (m *ScoreboardModel) columns() []table.Column {
	cols := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Player", Width: 12},
		{Title: "Score", Width: 8},
	}
	if m.mode() == engine.ModeLevel {
		cols = append(cols, table.Column{Title: "Lv", Width: 4})
	}
	return append(cols,
		table.Column{Title: "Diff", Width: 9},
		table.Column{Title: "Date", Width: 12},
	)
}

// load reads the current mode's scores and rebuilds the table.
func (m *ScoreboardModel) load() {
	m.scores = nil
	if m.store != nil {
		if scores, err := m.store.TopScores(string(m.mode()), maxScores); err == nil {
			m.scores = scores
		}
	}

	withLevel := m.mode() == engine.ModeLevel
	rows := make([]table.Row, 0, len(m.scores))
	for i, s := range m.scores {
		row := table.Row{strconv.Itoa(i + 1), s.Player, strconv.Itoa(s.Score)}
		if withLevel {
			row = append(row, strconv.Itoa(s.Level))
		}
		rows = append(rows, append(row, s.Difficulty, s.CreatedAt.Format("Jan 02 15:04")))
	}

	t := table.New(
		table.WithColumns(m.columns()),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(max(3, m.height-9)),
	)
	st := table.DefaultStyles()
	st.Header = st.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	st.Selected = st.Selected.Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	t.SetStyles(st)
	m.table = t
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			m.shift(1)
			return m, nil
		case key.Matches(msg, m.keys.Prev):
			m.shift(-1)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.load()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *ScoreboardModel) shift(delta int) {
	if len(m.modes) == 0 {
		return
	}
	m.cursor = (m.cursor + delta + len(m.modes)) % len(m.modes)
	m.load()
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("HIGH SCORES"), m.width))
	b.WriteString("\n")
	b.WriteString(centerText(m.tabs(), m.width))
	b.WriteString("\n\n")

	scores := m.table.View()
	if len(m.scores) == 0 {
		scores = dimStyle.Italic(true).Padding(1, 2).Render("No scores yet.\nPlay this mode to set one!")
	}
	left := boxStyle.Render(scores)
	right := boxStyle.Width(panelWidth).Render(strings.Join(m.progressLines(), "\n"))

	if m.width >= sideBySideMin {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right))
	} else {
		b.WriteString(lipgloss.JoinVertical(lipgloss.Left, left, right))
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m ScoreboardModel) tabs() string {
	tabs := make([]string, len(m.modes))
	for i, g := range m.modes {
		if i == m.cursor {
			tabs[i] = activeStyle.Render(g.ID)
		} else {
			tabs[i] = dimStyle.Render(" " + g.ID + " ")
		}
	}
	return strings.Join(tabs, " ")
}

// progressLines describes the player's own standing in the current mode.
func (m ScoreboardModel) progressLines() []string {
	lines := []string{titleStyle.Render(m.player)}

	switch m.mode() {
	case engine.ModeLevel:
		lines = append(lines, fmt.Sprintf("Stars %d / %d", m.levels.TotalStars(), m.levels.MaxStars()))
		unlocked := m.levels.UnlockedLevels()
		lines = append(lines, fmt.Sprintf("Unlocked %d / %d", len(unlocked), m.levels.LevelCount()), "")
		from := max(0, len(unlocked)-recentLevels)
		for _, lvl := range unlocked[from:] {
			p, _ := m.levels.Progress(lvl)
			line := fmt.Sprintf("Lv %-3d %s", lvl, stars(p.Stars))
			if p.BestScore > 0 {
				line += fmt.Sprintf(" %d", p.BestScore)
			}
			lines = append(lines, line)
		}

	case engine.ModeDaily:
		if c, ok := m.daily.CurrentChallenge(); ok {
			lines = append(lines, c.Description, fmt.Sprintf("Target %d", c.TargetScore))
		}
		if r, ok := m.daily.TodayResult(); ok {
			lines = append(lines, fmt.Sprintf("Today %d (%d tries)", r.Score, r.Attempts))
		}
		lines = append(lines,
			fmt.Sprintf("Streak %d", m.daily.Streak()),
			fmt.Sprintf("Completed %d", m.daily.TotalCompleted()),
			"",
			weekStrip(m.daily.WeeklyResults()),
		)

	default:
		best, games := m.personalBest()
		if games == 0 {
			lines = append(lines, dimStyle.Render("No games yet"))
			break
		}
		lines = append(lines, fmt.Sprintf("Best %d", best), fmt.Sprintf("Games %d", games))
		if best > 0 && len(m.scores) > 0 {
			lines = append(lines, fmt.Sprintf("Rank #%d", rankOf(m.scores, best)))
		}
	}
	return lines
}

// personalBest scans the player's recent runs of the current mode.
func (m ScoreboardModel) personalBest() (best, games int) {
	if m.store == nil {
		return 0, 0
	}
	runs, err := m.store.PlayerScores(m.player, maxScores)
	if err != nil {
		return 0, 0
	}
	for _, r := range runs {
		if r.Mode != string(m.mode()) {
			continue
		}
		games++
		best = max(best, r.Score)
	}
	return best, games
}

// rankOf is the 1-based position score would take among top.
func rankOf(top []storage.ScoreEntry, score int) int {
	rank := 1
	for _, e := range top {
		if e.Score > score {
			rank++
		}
	}
	return rank
}

// weekStrip marks the last seven days, oldest first.
func weekStrip(week []daily.Result) string {
	marks := make([]string, len(week))
	for i, r := range week {
		switch {
		case r.Completed:
			marks[i] = doneStyle.Render("■")
		case r.Attempts > 0:
			marks[i] = "□"
		default:
			marks[i] = dimStyle.Render("·")
		}
	}
	return "Week " + strings.Join(marks, " ")
}

func stars(n int) string {
	return strings.Repeat("*", n) + strings.Repeat(".", 3-n)
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard screen for player.
// Returns true if user wants to go back to menu, false if quitting.
func RunScoreboard(store *storage.Store, player string, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(NewScoreboardModel(store, player, width, height), tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := finalModel.(ScoreboardModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
