package daily

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
)

// ResultsKey is the store key holding all daily results.
const ResultsKey = "blockPuzzle_dailyChallengeResults"

// ErrNoChallenge is returned when a result is submitted without an active challenge.
var ErrNoChallenge = errors.New("daily: no challenge available for today")

// Store is the key/value persistence the manager writes through.
type Store interface {
	Get(key string) ([]byte, bool, error)
	Put(key string, value []byte) error
	Delete(key string) error
}

// Result is the player's record for one date.
type Result struct {
	Date      string `json:"date"`
	Score     int    `json:"score"`
	Completed bool   `json:"completed"`
	Attempts  int    `json:"attempts"`
	BestTime  int    `json:"bestTime,omitempty"` // seconds
}

// Option configures a Manager.
type Option func(*Manager)

// WithStore persists results through s.
func WithStore(s Store) Option {
	return func(m *Manager) { m.store = s }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithClock overrides the wall clock. Dates are taken in UTC.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithRand sets the source used for the simulated ranking jitter.
func WithRand(r *rand.Rand) Option {
	return func(m *Manager) { m.rng = r }
}

// Manager serves today's challenge and records results.
// It is not safe for concurrent use.
type Manager struct {
	current *Challenge
	results map[string]*Result
	store   Store
	logger  *log.Logger
	now     func() time.Time
	rng     *rand.Rand
}

// NewManager loads saved results and generates today's challenge.
func NewManager(opts ...Option) *Manager {
	m := &Manager{results: make(map[string]*Result)}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = log.New(io.Discard)
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	m.load()
	m.generateToday()
	return m
}

func (m *Manager) load() {
	if m.store == nil {
		return
	}
	data, ok, err := m.store.Get(ResultsKey)
	if err != nil {
		m.logger.Warn("cannot load daily results", "err", err)
		return
	}
	if !ok {
		return
	}
	var saved map[string]Result
	if err := json.Unmarshal(data, &saved); err != nil {
		m.logger.Warn("discarding corrupt daily results", "err", err)
		return
	}
	for date, r := range saved {
		r := r
		r.Date = date
		m.results[date] = &r
	}
}

func (m *Manager) save() {
	if m.store == nil {
		return
	}
	out := make(map[string]Result, len(m.results))
	for date, r := range m.results {
		out[date] = *r
	}
	data, err := json.Marshal(out)
	if err != nil {
		m.logger.Warn("cannot encode daily results", "err", err)
		return
	}
	if err := m.store.Put(ResultsKey, data); err != nil {
		m.logger.Warn("cannot save daily results", "err", err)
	}
}

func (m *Manager) dateAt(daysAgo int) string {
	return m.now().UTC().AddDate(0, 0, -daysAgo).Format(DateLayout)
}

// Today returns the current UTC date string.
func (m *Manager) Today() string {
	return m.dateAt(0)
}

func (m *Manager) generateToday() {
	today := m.Today()
	c, err := Generate(today)
	if err != nil {
		m.logger.Warn("cannot generate daily challenge", "date", today, "err", err)
		m.current = nil
		return
	}
	m.current = &c
	m.logger.Info("daily challenge ready", "date", c.Date, "kind", c.Kind, "target", c.TargetScore)
}

// CurrentChallenge returns today's challenge, regenerating it when the
// date has rolled over since the last call.
func (m *Manager) CurrentChallenge() (Challenge, bool) {
	if m.current == nil || m.current.Date != m.Today() {
		m.generateToday()
	}
	if m.current == nil {
		return Challenge{}, false
	}
	return m.current.clone(), true
}

// HasCompletedToday reports whether today's target has been reached.
func (m *Manager) HasCompletedToday() bool {
	r, ok := m.results[m.Today()]
	return ok && r.Completed
}

// TodayResult returns today's record.
func (m *Manager) TodayResult() (Result, bool) {
	r, ok := m.results[m.Today()]
	if !ok {
		return Result{}, false
	}
	return *r, true
}

// SubmitResult records an attempt at today's challenge. The stored score
// only moves up; timeUsed is in seconds and 0 means not measured.
func (m *Manager) SubmitResult(score, timeUsed int) (Result, error) {
	challenge, ok := m.CurrentChallenge()
	if !ok {
		return Result{}, ErrNoChallenge
	}

	today := challenge.Date
	r, exists := m.results[today]
	if !exists {
		r = &Result{Date: today}
		m.results[today] = r
	}

	r.Attempts++
	if score > r.Score {
		r.Score = score
		r.Completed = score >= challenge.TargetScore
		if timeUsed > 0 {
			r.BestTime = timeUsed
		}
	}

	m.save()
	m.logger.Info("daily result submitted", "date", today, "score", score, "completed", r.Completed)
	return *r, nil
}

// WeeklyResults returns the last seven days, oldest first. Days without
// a record are zero-filled.
func (m *Manager) WeeklyResults() []Result {
	out := make([]Result, 0, 7)
	for i := 6; i >= 0; i-- {
		date := m.dateAt(i)
		if r, ok := m.results[date]; ok {
			out = append(out, *r)
		} else {
			out = append(out, Result{Date: date})
		}
	}
	return out
}

// Streak counts consecutive completed days ending today, looking back
// at most 30 days.
func (m *Manager) Streak() int {
	streak := 0
	for i := 0; i < 30; i++ {
		r, ok := m.results[m.dateAt(i)]
		if !ok || !r.Completed {
			break
		}
		streak++
	}
	return streak
}

// TotalCompleted counts every completed day on record.
func (m *Manager) TotalCompleted() int {
	n := 0
	for _, r := range m.results {
		if r.Completed {
			n++
		}
	}
	return n
}

// SimulatedRank returns a local, jittered rank for a score.
// There is no networked leaderboard.
func (m *Manager) SimulatedRank(score int) int {
	base := max(1, (10000-score)/100)
	return max(1, base+m.rng.Intn(20)-10)
}

// Reset clears all results and regenerates today's challenge.
func (m *Manager) Reset() {
	m.results = make(map[string]*Result)
	if m.store != nil {
		if err := m.store.Delete(ResultsKey); err != nil {
			m.logger.Warn("cannot delete daily results", "err", err)
		}
	}
	m.generateToday()
}

// Watch calls onRollover with the new challenge at the next UTC midnight
// and then every 24 hours, until ctx is cancelled. onRollover runs on the
// watcher goroutine.
func (m *Manager) Watch(ctx context.Context, onRollover func(Challenge)) {
	now := m.now().UTC()
	next := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, time.UTC)
	m.logger.Debug("daily rollover scheduled", "in", next.Sub(now))

	timer := time.NewTimer(next.Sub(now))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for {
		if c, err := Generate(m.Today()); err == nil {
			onRollover(c)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
