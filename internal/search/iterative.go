package search

import (
	"time"

	"go.uber.org/atomic"

	"github.com/kestrelchess/kestrel/internal/board"
	"github.com/kestrelchess/kestrel/internal/eval"
	"github.com/kestrelchess/kestrel/internal/position"
)

// aspirationRadius is the half-width of the aspiration window opened
// around the previous iteration's score, per spec.md §4.9.
var aspirationRadius = eval.Centipawn(75)

// aspirationStartDepth is the first depth at which an aspiration window
// narrower than the full (-MAX, +MAX) range is attempted.
const aspirationStartDepth = 4

// IterativeDeepen runs depth 1..maxDepth, widening/aspirating the search
// window around the previous iteration's score from aspirationStartDepth
// on, re-searching on a fail-high or fail-low before
// moving to the next depth. onIteration is invoked after every completed
// (non-aborted) depth; the final Result is also returned so a caller that
// isn't streaming info lines can just use the return value.
func (w *Worker) IterativeDeepen(root *position.Position, maxDepth int, onIteration func(Result)) Result {
	var last Result
	prevScore := eval.ZERO

	for depth := 1; depth <= maxDepth; depth++ {
		start := time.Now()

		window := eval.NewWindow()
		if depth >= aspirationStartDepth {
			window = eval.Around(prevScore, aspirationRadius)
		}

		widen := aspirationRadius
		var score eval.Eval
		var aborted bool
		for {
			score, aborted = w.negamax(root, depth, 0, window, NodeRoot, board.NoMove, board.NoPieceType)
			if aborted {
				break
			}
			if score <= window.Alpha {
				window.Alpha = window.Alpha.SaturatingSub(widen)
				widen = widen.SaturatingAdd(widen)
				continue
			}
			if score >= window.Beta {
				window.Beta = window.Beta.SaturatingAdd(widen)
				widen = widen.SaturatingAdd(widen)
				continue
			}
			break
		}

		if aborted {
			return last
		}

		prevScore = score
		pv := w.extractPV(root, depth)

		result := Result{
			Depth:    depth,
			SelDepth: w.seldepth,
			Score:    score,
			PV:       pv,
			Nodes:    w.nodes,
			Elapsed:  time.Since(start),
		}
		last = result
		if onIteration != nil {
			onIteration(result)
		}

		if w.stop.Load() {
			break
		}
	}

	return last
}

// extractPV walks the transposition table from root rather than keeping a
// triangular PV table (spec.md §4.9 step 3), stopping at maxLen plies, a
// TT miss, an illegal/stale move, or a repeated position (guarding
// against a cycle of Exact entries).
func (w *Worker) extractPV(root *position.Position, maxLen int) []board.Move {
	pv := make([]board.Move, 0, maxLen)
	seen := make(map[uint64]bool, maxLen)
	pos := root
	for i := 0; i < maxLen; i++ {
		if seen[pos.Board.Hash] {
			break
		}
		seen[pos.Board.Hash] = true

		entry, hit := w.tt.Get(pos.Board.Hash, i)
		if !hit || entry.Move == board.NoMove {
			break
		}
		if !pos.Board.IsLegal(entry.Move) {
			break
		}
		pv = append(pv, entry.Move)
		pos = pos.MakeMove(entry.Move, w.net)
	}
	return pv
}

// NewStopFlag builds a fresh, unset stop flag for a search.
func NewStopFlag() *atomic.Bool {
	return atomic.NewBool(false)
}
