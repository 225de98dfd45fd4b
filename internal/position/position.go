// Package position wraps a board.Position together with its NNUE
// accumulator: applying a move produces an updated child without
// rebuilding the accumulator from scratch.
//
// Lifecycle follows spec.md §3 directly: each recursive search call owns
// its Position by value, the parent keeps its own untouched copy, and a
// null-move child shares the accumulator unchanged. This is the
// "clone-then-mutate" strategy spec.md §9 allows as an alternative to a
// single ply-indexed accumulator stack with undo — chosen here because it
// keeps the search driver's recursion simple value semantics instead of
// threading make/unmake pairs through every call.
package position

import (
	"github.com/kestrelchess/kestrel/internal/board"
	"github.com/kestrelchess/kestrel/internal/nnue"
)

// Position is Board + NNUE accumulator.
type Position struct {
	Board *board.Position
	Acc   nnue.Accumulator
}

// New builds a Position from a board state, computing its accumulator
// from scratch (the initial ComputeFull every search root needs once).
func New(b *board.Position, net *nnue.Network) *Position {
	p := &Position{Board: b}
	p.Acc.ComputeFull(b, net)
	return p
}

// MakeMove returns a new child Position with m applied: the board is
// copied and advanced, and the accumulator is updated incrementally
// (add/remove feature deltas) rather than rebuilt.
func (p *Position) MakeMove(m board.Move, net *nnue.Network) *Position {
	captured := p.Board.PieceAt(m.To())
	if m.IsEnPassant() {
		captured = board.NewPiece(board.Pawn, p.Board.SideToMove.Other())
	}
	deltas := nnue.ChangedFeatures(p.Board, m, captured)

	childBoard := p.Board.Copy()
	childBoard.MakeMove(m)

	child := &Position{Board: childBoard, Acc: p.Acc}
	child.Acc.ApplyAll(net, deltas)
	return child
}

// MakeNullMove returns a child Position with the side to move flipped and
// the accumulator shared unchanged (no piece moved, no feature changes).
func (p *Position) MakeNullMove() *Position {
	childBoard := p.Board.Copy()
	childBoard.MakeNullMove()
	return &Position{Board: childBoard, Acc: p.Acc}
}
