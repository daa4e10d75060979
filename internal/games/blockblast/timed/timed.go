// Package timed implements the countdown used by timed sessions: pause and
// resume, a warning band, a score multiplier and a bonus for time left.
package timed

import (
	"context"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// PollInterval is how often Run refreshes the countdown.
const PollInterval = 100 * time.Millisecond

// Preset names.
const (
	PresetQuick    = "quick"
	PresetStandard = "standard"
	PresetExtended = "extended"
)

// Config parameterizes one timed session.
type Config struct {
	TimeLimit       int     // seconds
	ScoreMultiplier float64 // applied by AddScore
	TimeBonus       int     // points per second left on Stop
	WarningTime     int     // seconds
}

// Presets are the built-in session lengths.
var Presets = map[string]Config{
	PresetQuick:    {TimeLimit: 180, ScoreMultiplier: 1.5, TimeBonus: 10, WarningTime: 30},
	PresetStandard: {TimeLimit: 300, ScoreMultiplier: 1.2, TimeBonus: 8, WarningTime: 60},
	PresetExtended: {TimeLimit: 600, ScoreMultiplier: 1.0, TimeBonus: 5, WarningTime: 120},
}

// PresetName maps a requested time limit to a preset: 180 is quick,
// 300 is standard and anything else is extended.
func PresetName(timeLimit int) string {
	switch timeLimit {
	case 180:
		return PresetQuick
	case 300:
		return PresetStandard
	default:
		return PresetExtended
	}
}

// Scale returns cfg with its time limit multiplied by mult and floored.
func Scale(cfg Config, mult float64) Config {
	if mult > 0 {
		cfg.TimeLimit = int(math.Floor(float64(cfg.TimeLimit) * mult))
	}
	return cfg
}

// State is a snapshot of the countdown.
type State struct {
	Active        bool
	Paused        bool
	TimeRemaining float64 // seconds
	TotalTime     int     // seconds
	FinalScore    int
	TimeBonus     int
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// Manager is a countdown. Stopped is both the initial and the terminal
// state: once stopped it cannot be started again. Callbacks run without
// the internal lock held, so they may call back into the Manager.
type Manager struct {
	mu       sync.Mutex
	cfg      Config
	state    State
	started  bool
	anchor   time.Time
	pausedAt time.Time
	done     chan struct{}
	once     sync.Once

	onUpdate  func(State)
	onWarning func(remaining float64)
	onTimeUp  func(State)

	now    func() time.Time
	logger *log.Logger
}

// New returns a stopped countdown for cfg.
func New(cfg Config, opts ...Option) *Manager {
	m := &Manager{
		cfg:  cfg,
		done: make(chan struct{}),
		state: State{
			TimeRemaining: float64(cfg.TimeLimit),
			TotalTime:     cfg.TimeLimit,
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.logger == nil {
		m.logger = log.New(io.Discard)
	}
	return m
}

// OnUpdate registers a callback fired on every poll.
func (m *Manager) OnUpdate(fn func(State)) {
	m.mu.Lock()
	m.onUpdate = fn
	m.mu.Unlock()
}

// OnWarning registers a callback fired on every poll inside the warning
// band. It is not debounced.
func (m *Manager) OnWarning(fn func(remaining float64)) {
	m.mu.Lock()
	m.onWarning = fn
	m.mu.Unlock()
}

// OnTimeUp registers a callback fired once when the countdown reaches zero.
func (m *Manager) OnTimeUp(fn func(State)) {
	m.mu.Lock()
	m.onTimeUp = fn
	m.mu.Unlock()
}

// Start begins the countdown. It is a no-op when already active or
// after the countdown has stopped.
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.Active || m.started {
		return
	}
	m.started = true
	m.state.Active = true
	m.state.Paused = false
	m.anchor = m.now()
	m.logger.Debug("timer started", "limit", m.cfg.TimeLimit)
}

// Pause freezes the countdown.
func (m *Manager) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.state.Active || m.state.Paused {
		return
	}
	m.refreshLocked()
	m.state.Paused = true
	m.pausedAt = m.now()
}

// Resume continues a paused countdown, shifting the start anchor by the
// time spent paused.
func (m *Manager) Resume() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.state.Active || !m.state.Paused {
		return
	}
	m.anchor = m.anchor.Add(m.now().Sub(m.pausedAt))
	m.state.Paused = false
}

// Stop ends the countdown and credits floor(remaining * TimeBonus) to the
// final score. Further calls do nothing.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopLocked()
}

func (m *Manager) stopLocked() {
	if !m.state.Active {
		return
	}
	if !m.state.Paused {
		m.refreshLocked()
	}
	m.state.Active = false
	m.state.Paused = false
	m.state.TimeBonus = int(math.Floor(m.state.TimeRemaining * float64(m.cfg.TimeBonus)))
	m.state.FinalScore += m.state.TimeBonus
	m.logger.Debug("timer stopped", "remaining", m.state.TimeRemaining, "bonus", m.state.TimeBonus)
}

func (m *Manager) refreshLocked() {
	elapsed := m.now().Sub(m.anchor).Seconds()
	m.state.TimeRemaining = math.Max(0, float64(m.cfg.TimeLimit)-elapsed)
}

// Poll refreshes the countdown once, firing callbacks as needed. It
// reports whether the countdown is still running.
func (m *Manager) Poll() bool {
	m.mu.Lock()
	if !m.state.Active {
		m.mu.Unlock()
		return false
	}
	if m.state.Paused {
		m.mu.Unlock()
		return true
	}

	m.refreshLocked()
	remaining := m.state.TimeRemaining
	warn := remaining > 0 && remaining <= float64(m.cfg.WarningTime)
	expired := remaining <= 0
	if expired {
		m.stopLocked()
	}
	snap := m.state
	onUpdate, onWarning, onTimeUp := m.onUpdate, m.onWarning, m.onTimeUp
	m.mu.Unlock()

	if onUpdate != nil {
		onUpdate(snap)
	}
	if warn && onWarning != nil {
		onWarning(remaining)
	}
	if expired {
		m.logger.Info("time up", "score", snap.FinalScore)
		if onTimeUp != nil {
			onTimeUp(snap)
		}
	}
	return !expired
}

// Run polls every PollInterval until the countdown stops, the manager is
// destroyed or ctx is cancelled. It is for callers without their own tick
// loop; the engine calls Poll from Tick instead.
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-m.done:
			return
		case <-ticker.C:
			if !m.Poll() {
				return
			}
		}
	}
}

// AddScore credits floor(base * ScoreMultiplier) to the final score and
// returns the credited amount.
func (m *Manager) AddScore(base int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	pts := int(math.Floor(float64(base) * m.cfg.ScoreMultiplier))
	m.state.FinalScore += pts
	return pts
}

// AddBonusTime extends the session by seconds.
func (m *Manager) AddBonusTime(seconds int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg.TimeLimit += seconds
	m.state.TimeRemaining += float64(seconds)
	m.state.TotalTime += seconds
}

// FormattedTime renders the remaining time as MM:SS.
func (m *Manager) FormattedTime() string {
	m.mu.Lock()
	rem := m.state.TimeRemaining
	m.mu.Unlock()
	total := int(math.Floor(rem))
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// Progress returns the elapsed fraction of the session in [0, 1].
func (m *Manager) Progress() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cfg.TimeLimit <= 0 {
		return 0
	}
	limit := float64(m.cfg.TimeLimit)
	return (limit - m.state.TimeRemaining) / limit
}

// IsWarningTime reports whether the remaining time is inside the warning band.
func (m *Manager) IsWarningTime() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.TimeRemaining > 0 && m.state.TimeRemaining <= float64(m.cfg.WarningTime)
}

// State returns a copy of the countdown state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Config returns a copy of the session configuration.
func (m *Manager) Config() Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cfg
}

// Active reports whether the countdown is running or paused.
func (m *Manager) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Active
}

// Paused reports whether the countdown is paused.
func (m *Manager) Paused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Paused
}

// Remaining returns the seconds left as of the last refresh.
func (m *Manager) Remaining() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.TimeRemaining
}

// FinalScore returns the accumulated timed score.
func (m *Manager) FinalScore() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.FinalScore
}

// Destroy halts the countdown without crediting a bonus, drops the
// callbacks and stops any Run loop.
func (m *Manager) Destroy() {
	m.mu.Lock()
	m.started = true
	m.state.Active = false
	m.state.Paused = false
	m.onUpdate, m.onWarning, m.onTimeUp = nil, nil, nil
	m.mu.Unlock()
	m.once.Do(func() { close(m.done) })
}
