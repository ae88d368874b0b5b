package engine

import (
	"time"

	"github.com/hailam/chesscore/internal/board"
)

// ClockLimits are the clock parameters of a UCI "go" command.
type ClockLimits struct {
	Time      [2]time.Duration // remaining time per colour
	Inc       [2]time.Duration // increment per colour
	MovesToGo int              // 0 = sudden death
	MoveTime  time.Duration    // fixed time per move, overrides the clock
	Depth     int
	Infinite  bool
}

const (
	minMoveTime  = 10 * time.Millisecond
	moveOverhead = 20 * time.Millisecond
)

// Limits converts clock parameters into search limits for the side us at
// game ply ply. Infinite searches and depth-only searches get no deadline.
func (c ClockLimits) Limits(us board.Color, ply int) Limits {
	l := Limits{Depth: c.Depth}
	switch {
	case c.MoveTime > 0:
		l.MoveTime = c.MoveTime
	case c.Infinite, c.Time[us] == 0:
		if l.Depth == 0 {
			l.Depth = MaxDepth
		}
	default:
		l.MoveTime = allocate(c.Time[us], c.Inc[us], c.MovesToGo, ply)
	}
	return l
}

// allocate splits the remaining time over the expected number of moves and
// adds most of the increment.
func allocate(left, inc time.Duration, movesToGo, ply int) time.Duration {
	mtg := movesToGo
	if mtg == 0 {
		// Sudden death: expect fewer moves as the game goes on.
		mtg = min(max(50-ply/4, 10), 50)
	}

	t := left/time.Duration(mtg) + inc*9/10
	if ply < 8 {
		t = t * 85 / 100
	}

	// Never plan to use more than 80% of what is left.
	t = min(t, left*8/10)
	t -= moveOverhead
	return max(t, minMoveTime)
}
