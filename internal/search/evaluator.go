package search

import (
	"github.com/kestrelchess/kestrel/internal/eval"
	"github.com/kestrelchess/kestrel/internal/handeval"
	"github.com/kestrelchess/kestrel/internal/nnue"
	"github.com/kestrelchess/kestrel/internal/position"
)

// Evaluator is the static-evaluation collaborator the search driver
// consumes. Two implementations exist (spec.md §4.6 names the
// hand-crafted evaluator as "an alternative, used by some builds"): a
// tapered hand-crafted evaluator and the incrementally-maintained NNUE
// network.
type Evaluator interface {
	Evaluate(pos *position.Position) eval.Eval
}

// HandCraftedEvaluator wraps internal/handeval.
type HandCraftedEvaluator struct{}

// Evaluate runs the tapered midgame/endgame hand-crafted evaluator.
func (HandCraftedEvaluator) Evaluate(pos *position.Position) eval.Eval {
	return eval.Centipawn(handeval.Evaluate(pos.Board))
}

// NNUEEvaluator wraps a loaded NNUE network.
type NNUEEvaluator struct {
	Net *nnue.Network
}

// Evaluate runs the NNUE forward pass against pos's incrementally
// maintained accumulator.
func (e NNUEEvaluator) Evaluate(pos *position.Position) eval.Eval {
	return eval.Centipawn(e.Net.Forward(&pos.Acc, pos.Board.SideToMove))
}
