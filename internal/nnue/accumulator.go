package nnue

import "github.com/kestrelchess/kestrel/internal/board"

// Accumulator holds the two per-color feature-transformer outputs. The
// invariant (spec.md §3): each vector equals the bias plus the sum of
// weight rows for every (perspective, color, piece, square) currently on
// the board.
type Accumulator struct {
	White [H]int16
	Black [H]int16
}

// ComputeFull rebuilds both perspectives from scratch.
func (acc *Accumulator) ComputeFull(pos *board.Position, net *Network) {
	acc.White = net.B1
	acc.Black = net.B1

	for c := board.White; c <= board.Black; c++ {
		for pt := board.Pawn; pt <= board.King; pt++ {
			for _, sq := range pos.Pieces[c][pt].Squares() {
				addFeature(&acc.White, net, FeatureIndex(board.White, c, pt, sq))
				addFeature(&acc.Black, net, FeatureIndex(board.Black, c, pt, sq))
			}
		}
	}
}

func addFeature(v *[H]int16, net *Network, featureIdx int) {
	row := &net.W1[featureIdx]
	for i := 0; i < H; i++ {
		v[i] += row[i]
	}
}

func subFeature(v *[H]int16, net *Network, featureIdx int) {
	row := &net.W1[featureIdx]
	for i := 0; i < H; i++ {
		v[i] -= row[i]
	}
}

// FeatureDelta is one (color, piece, square) change to apply to both
// perspectives: +1 for an appearing piece, -1 for a vanishing one.
type FeatureDelta struct {
	Color board.Color
	Piece board.PieceType
	Sq    board.Square
	Add   bool
}

// Apply updates acc in place for a single delta, touching both
// perspectives' feature-transformer outputs.
func (acc *Accumulator) Apply(net *Network, d FeatureDelta) {
	wIdx := FeatureIndex(board.White, d.Color, d.Piece, d.Sq)
	bIdx := FeatureIndex(board.Black, d.Color, d.Piece, d.Sq)
	if d.Add {
		addFeature(&acc.White, net, wIdx)
		addFeature(&acc.Black, net, bIdx)
	} else {
		subFeature(&acc.White, net, wIdx)
		subFeature(&acc.Black, net, bIdx)
	}
}

// ApplyAll applies a batch of deltas, matching spec.md §4.5's incremental
// update: subtract features for pieces that vanished (moved source,
// captured victim, promoted pawn, en-passant victim), add features for
// pieces that appeared (moved destination, promoted piece, castling rook's
// new square). Null moves apply zero deltas (the accumulator is untouched).
func (acc *Accumulator) ApplyAll(net *Network, deltas []FeatureDelta) {
	for _, d := range deltas {
		acc.Apply(net, d)
	}
}

// Stack is a ply-indexed stack of accumulators supporting push/pop, one of
// the two observationally-equivalent strategies spec.md §9 allows for
// managing per-ply accumulator lifetime (the other being clone-into-child).
// The search driver uses clone-into-child via internal/position; Stack is
// the standalone push/pop alternative and is not used by the search.
// maxStackPly bounds the accumulator stack depth; it matches the search
// driver's MaxPly (internal/search), kept as a local constant here to
// avoid an import cycle between nnue and search.
const maxStackPly = 128

type Stack struct {
	frames [maxStackPly]Accumulator
	top    int
}

// Current returns the accumulator for the current ply.
func (s *Stack) Current() *Accumulator {
	return &s.frames[s.top]
}

// Push duplicates the current frame onto a new top-of-stack slot, ready
// for ApplyAll to mutate in place for the move about to be made.
func (s *Stack) Push() {
	if s.top+1 >= len(s.frames) {
		return
	}
	s.frames[s.top+1] = s.frames[s.top]
	s.top++
}

// Pop discards the current frame, returning to the parent's.
func (s *Stack) Pop() {
	if s.top > 0 {
		s.top--
	}
}
