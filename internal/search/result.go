package search

import (
	"time"

	"github.com/kestrelchess/kestrel/internal/board"
	"github.com/kestrelchess/kestrel/internal/eval"
)

// Result reports one completed (or aborted) iteration of the iterative
// deepening loop, shaped for a UCI front end to format directly as an
// "info" line.
type Result struct {
	Depth    int
	SelDepth int
	Score    eval.Eval
	PV       []board.Move
	Nodes    uint64
	Elapsed  time.Duration
}

// BestMove returns the move the engine should play, or board.NoMove if
// the PV is empty.
func (r Result) BestMove() board.Move {
	if len(r.PV) == 0 {
		return board.NoMove
	}
	return r.PV[0]
}
