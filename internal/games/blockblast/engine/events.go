package engine

// Event is delivered to the Listener when the engine changes state.
type Event interface {
	event()
}

// BlockPlaced follows every successful placement.
type BlockPlaced struct {
	BlockID string
	X, Y    int
	Cells   int
	Color   string
}

// LinesCleared follows a placement that completed rows or columns.
type LinesCleared struct {
	Rows  []int
	Cols  []int
	Base  int
	Delta int
	Combo int
}

// LevelComplete fires once per level session when the target is reached.
type LevelComplete struct {
	Level        int
	Score        int
	TargetScore  int
	Stars        int
	IsNewRecord  bool
	UnlockedNext bool
	NextLevel    int // 0 when nothing was unlocked
}

// TimeWarning fires on every timer poll inside the warning band.
type TimeWarning struct {
	Remaining float64
}

// GameOver reasons.
const (
	ReasonNoMoves   = "no valid placement"
	ReasonTimeUp    = "time up"
	ReasonMoveLimit = "move limit reached"
	ReasonQuit      = "abandoned"
)

// GameOver fires once when a session ends.
type GameOver struct {
	Score  int
	Level  int
	Mode   Mode
	Combo  int
	Reason string
}

func (BlockPlaced) event()   {}
func (LinesCleared) event()  {}
func (LevelComplete) event() {}
func (TimeWarning) event()   {}
func (GameOver) event()      {}

// Listener receives engine events synchronously, on the caller's goroutine.
type Listener interface {
	HandleEvent(Event)
}

// ListenerFunc adapts a function to a Listener.
type ListenerFunc func(Event)

// HandleEvent calls f(ev).
func (f ListenerFunc) HandleEvent(ev Event) { f(ev) }

type nopListener struct{}

func (nopListener) HandleEvent(Event) {}
