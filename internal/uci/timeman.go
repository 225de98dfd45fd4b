package uci

import (
	"time"

	"github.com/kestrelchess/kestrel/internal/board"
)

// TimeManager allocates a per-move time budget from UCI time controls.
// Grounded on hailam-chessplay/internal/uci/uci.go's calculateTimeForMove,
// trimmed to the optimum/maximum split alone — the teacher's later
// stability-based extension (AdjustForStability/AdjustForInstability)
// isn't carried; this manager commits to optimumTime up front and never
// revisits it mid-search (see DESIGN.md).
type TimeManager struct {
	optimum time.Duration
	maximum time.Duration
}

// NewTimeManager builds an unconfigured manager; call Init before use.
func NewTimeManager() *TimeManager {
	return &TimeManager{}
}

// Init computes optimum/maximum time for the side to move, us, from the
// parsed "go" options.
func (tm *TimeManager) Init(opts goOptions, us board.Color) {
	if opts.moveTime > 0 {
		tm.optimum = opts.moveTime
		tm.maximum = opts.moveTime
		return
	}

	ourTime, ourInc := opts.wtime, opts.winc
	if us == board.Black {
		ourTime, ourInc = opts.btime, opts.binc
	}

	if ourTime == 0 {
		// No time control at all (pure "go depth N" or "go infinite"):
		// let depth/ctx cancellation be the only limits.
		tm.optimum = time.Hour
		tm.maximum = time.Hour
		return
	}

	movesToGo := opts.movesToGo
	if movesToGo <= 0 {
		movesToGo = 30
	}

	base := ourTime / time.Duration(movesToGo)
	optimum := base + ourInc*9/10

	maxAllowed := ourTime * 9 / 10
	if optimum > maxAllowed {
		optimum = maxAllowed
	}
	if optimum < 10*time.Millisecond {
		optimum = 10 * time.Millisecond
	}

	tm.optimum = optimum
	tm.maximum = optimum * 4
	if tm.maximum > maxAllowed {
		tm.maximum = maxAllowed
	}
}

// OptimumTime is the time this manager targets spending on the move.
func (tm *TimeManager) OptimumTime() time.Duration { return tm.optimum }

// MaximumTime is the hard ceiling this manager will never exceed.
func (tm *TimeManager) MaximumTime() time.Duration { return tm.maximum }
