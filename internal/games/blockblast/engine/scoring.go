package engine

import "time"

// Scoring constants.
const (
	LinePoints      = 100 + 10*10 // flat line bonus plus ten cells at 10
	CrossBonus      = 200         // rows and columns cleared together
	DefaultComboCap = 8
	DefaultWindow   = 3 * time.Second
)

// ClearScore returns the base points for clearing rows and cols in one pass.
// Clearing more than one line multiplies by the number of lines, and a
// row crossing a column counts as two; clearing rows and columns together
// also adds CrossBonus.
func ClearScore(rows, cols int) int {
	score := rows*LinePoints + cols*LinePoints
	// total lines, not rows>1 || cols>1: one row plus one column scores 1000
	if rows+cols > 1 {
		score *= rows + cols
	}
	if rows > 0 && cols > 0 {
		score += CrossBonus
	}
	return score
}

// nextCombo returns the combo after a clear at now. A zero last means no
// previous clear.
func nextCombo(combo int, last, now time.Time, window time.Duration) int {
	if !last.IsZero() && now.Sub(last) < window {
		return combo + 1
	}
	return 1
}
