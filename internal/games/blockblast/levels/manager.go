package levels

import (
	"encoding/json"
	"io"
	"sort"
	"strconv"

	"github.com/charmbracelet/log"
)

// ProgressKey is the store key holding all level progress.
const ProgressKey = "blockPuzzle_levelProgress"

// Store is the key/value persistence the manager writes through.
type Store interface {
	Get(key string) ([]byte, bool, error)
	Put(key string, value []byte) error
	Delete(key string) error
}

// Progress is the recorded history of one level.
type Progress struct {
	Level     int  `json:"level"`
	Completed bool `json:"completed"`
	Stars     int  `json:"stars"`
	BestScore int  `json:"bestScore"`
	Attempts  int  `json:"attempts"`
}

// Result is returned by Complete.
type Result struct {
	Stars        int
	IsNewRecord  bool
	UnlockedNext bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithStore persists progress through s.
func WithStore(s Store) Option {
	return func(m *Manager) { m.store = s }
}

// WithLogger sets the logger used for persistence warnings.
func WithLogger(l *log.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// Manager owns the level table and the player's progress.
// It is not safe for concurrent use.
type Manager struct {
	current  int
	configs  []Config
	progress map[int]*Progress
	store    Store
	logger   *log.Logger
}

// NewManager builds the level table and loads saved progress.
// Missing or corrupt saved state yields fresh progress.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		current:  1,
		configs:  buildTable(),
		progress: make(map[int]*Progress),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = log.New(io.Discard)
	}
	m.load()
	return m
}

func (m *Manager) load() {
	if m.store != nil {
		data, ok, err := m.store.Get(ProgressKey)
		switch {
		case err != nil:
			m.logger.Warn("cannot load level progress", "err", err)
		case ok:
			var saved map[string]Progress
			if err := json.Unmarshal(data, &saved); err != nil {
				m.logger.Warn("discarding corrupt level progress", "err", err)
				break
			}
			for k, p := range saved {
				p := p
				level, convErr := strconv.Atoi(k)
				if convErr != nil || m.config(level) == nil {
					continue
				}
				p.Level = level
				m.progress[level] = &p
			}
		}
	}

	if _, ok := m.progress[1]; !ok {
		m.progress[1] = &Progress{Level: 1}
	}
}

func (m *Manager) save() {
	if m.store == nil {
		return
	}
	out := make(map[string]Progress, len(m.progress))
	for level, p := range m.progress {
		out[strconv.Itoa(level)] = *p
	}
	data, err := json.Marshal(out)
	if err != nil {
		m.logger.Warn("cannot encode level progress", "err", err)
		return
	}
	if err := m.store.Put(ProgressKey, data); err != nil {
		m.logger.Warn("cannot save level progress", "err", err)
	}
}

func (m *Manager) config(level int) *Config {
	if level < 1 || level > len(m.configs) {
		return nil
	}
	return &m.configs[level-1]
}

// LevelCount returns the number of configured levels.
func (m *Manager) LevelCount() int {
	return len(m.configs)
}

// CurrentLevel returns the selected level.
func (m *Manager) CurrentLevel() int {
	return m.current
}

// SetCurrentLevel selects a level. It returns false, changing nothing,
// when the level does not exist or is still locked.
func (m *Manager) SetCurrentLevel(level int) bool {
	if m.config(level) == nil {
		return false
	}
	if level > 1 && !m.IsUnlocked(level) {
		m.logger.Debug("level locked", "level", level)
		return false
	}
	m.current = level
	return true
}

// Config returns a copy of the level's configuration.
func (m *Manager) Config(level int) (Config, bool) {
	c := m.config(level)
	if c == nil {
		return Config{}, false
	}
	return c.clone(), true
}

// CurrentConfig returns the configuration of the selected level.
func (m *Manager) CurrentConfig() (Config, bool) {
	return m.Config(m.current)
}

// IsUnlocked reports whether a level can be played. Level 1 is always
// open; level N needs at least one star on level N-1.
func (m *Manager) IsUnlocked(level int) bool {
	if level == 1 {
		return true
	}
	prev, ok := m.progress[level-1]
	return ok && prev.Stars >= 1
}

// Complete records a finished attempt and reports stars, record and unlock.
// Stars never regress and the best score only moves up.
func (m *Manager) Complete(level, score int) Result {
	c := m.config(level)
	if c == nil {
		return Result{}
	}

	stars := c.Stars(score)

	p, ok := m.progress[level]
	if !ok {
		p = &Progress{Level: level}
		m.progress[level] = p
	}

	isNewRecord := score > p.BestScore
	p.Completed = true
	p.Attempts++
	if isNewRecord {
		p.BestScore = score
	}
	p.Stars = max(p.Stars, stars)

	next := level + 1
	unlockedNext := m.config(next) != nil && stars >= 1
	if unlockedNext {
		if _, exists := m.progress[next]; !exists {
			m.progress[next] = &Progress{Level: next}
		}
	}

	m.save()

	m.logger.Info("level complete", "level", level, "score", score, "stars", stars, "record", isNewRecord)
	return Result{Stars: stars, IsNewRecord: isNewRecord, UnlockedNext: unlockedNext}
}

// Progress returns a copy of the recorded progress for a level.
func (m *Manager) Progress(level int) (Progress, bool) {
	p, ok := m.progress[level]
	if !ok {
		return Progress{}, false
	}
	return *p, true
}

// UnlockedLevels returns every playable level in ascending order.
func (m *Manager) UnlockedLevels() []int {
	var out []int
	for _, c := range m.configs {
		if m.IsUnlocked(c.Level) {
			out = append(out, c.Level)
		}
	}
	sort.Ints(out)
	return out
}

// TotalStars sums stars across all levels.
func (m *Manager) TotalStars() int {
	total := 0
	for _, p := range m.progress {
		total += p.Stars
	}
	return total
}

// MaxStars is the number of stars available in the campaign.
func (m *Manager) MaxStars() int {
	return len(m.configs) * 3
}

// BlockRarity returns the rarity cap of a level, or 1 for unknown levels.
func (m *Manager) BlockRarity(level int) int {
	if c := m.config(level); c != nil {
		return c.MaxBlockRarity
	}
	return 1
}

// Reset wipes all progress and returns to level 1.
func (m *Manager) Reset() {
	m.progress = map[int]*Progress{1: {Level: 1}}
	m.current = 1
	if m.store != nil {
		if err := m.store.Delete(ProgressKey); err != nil {
			m.logger.Warn("cannot delete level progress", "err", err)
		}
	}
}
