// Package nnue implements the "Efficiently Updatable Neural Network"
// evaluator: a 768->H feature transformer with incrementally maintained
// per-color accumulators, clipped-ReLU quantization, and a single int8
// linear output layer.
//
// Grounded on hailam-chessplay/internal/nnue's AccumulatorStack push/pop
// and GetChangedFeatures diffing idiom, but with the single-hidden-layer
// shape spec.md §4.5 specifies rather than the teacher's deeper two-layer
// network (see DESIGN.md).
package nnue

import "github.com/kestrelchess/kestrel/internal/board"

const (
	// NumSquares, NumPieceTypes, NumColors combine to the feature count F.
	NumSquares    = 64
	NumPieceTypes = 6
	NumColors     = 2

	// FeatureCount is F ~= 768 from spec.md §4.5: colors * pieces * squares.
	FeatureCount = NumColors * NumPieceTypes * NumSquares

	// H, the feature-transformer width. The spec leaves H unspecified,
	// to be matched against an embedded weight file; this repository
	// fixes H = 256 (see DESIGN.md Open Question 2).
	H = 256

	// ActivationRange, WeightScale, OutputScale are the quantization
	// constants spec.md §4.5 names.
	ActivationRange = 127
	WeightScale     = 64
	OutputScale     = 112
)

// FeatureIndex computes the feature-transformer index for
// (perspective, pieceColor, pt, sq). Black perspective flips both the
// square's rank and the piece's color, so the same weight rows represent
// "my piece" / "their piece" regardless of which side is to move.
func FeatureIndex(perspective board.Color, pieceColor board.Color, pt board.PieceType, sq board.Square) int {
	featureColor := pieceColor
	featureSquare := sq
	if perspective == board.Black {
		featureColor = pieceColor.Other()
		featureSquare = sq.Mirror()
	}
	return int(featureColor)*NumPieceTypes*NumSquares + int(pt)*NumSquares + int(featureSquare)
}

// Network holds the quantized weights: a feature-transformer (W1, B1)
// producing the H-wide per-perspective accumulator, and a single linear
// output layer (W2, B2) over the concatenated [stm, opponent] activations.
type Network struct {
	W1 [FeatureCount][H]int16
	B1 [H]int16
	W2 [2 * H]int8
	B2 int32
}

// InitRandom fills n with small deterministic pseudo-random weights, for
// tests and for exercising the forward/incremental-update machinery
// without a real trained weight file (spec.md §6 treats the weight blob
// as an externally supplied build artifact).
func InitRandom(seed uint64) *Network {
	n := &Network{}
	state := seed | 1
	next := func() int32 {
		// xorshift64*, matching the fixed-seed idiom internal/board/zobrist.go
		// uses for its own reproducible pseudo-randomness.
		state ^= state >> 12
		state ^= state << 25
		state ^= state >> 27
		return int32((state * 0x2545F4914F6CDD1D) >> 48 & 0xFF)
	}
	for f := 0; f < FeatureCount; f++ {
		for h := 0; h < H; h++ {
			n.W1[f][h] = int16(next()%41 - 20)
		}
	}
	for h := 0; h < H; h++ {
		n.B1[h] = int16(next()%21 - 10)
	}
	for i := range n.W2 {
		n.W2[i] = int8(next()%41 - 20)
	}
	return n
}

func clippedReLU(v int32) int8 {
	if v < 0 {
		return 0
	}
	if v > ActivationRange {
		return ActivationRange
	}
	return int8(v)
}

// Forward evaluates the network for the given accumulator from stm's
// perspective: concatenate [stm, opponent] clipped-ReLU activations, run
// the int8 linear layer with int32 accumulation, then rescale to
// centipawns.
func (n *Network) Forward(acc *Accumulator, stm board.Color) int {
	var own, opp *[H]int16
	if stm == board.White {
		own, opp = &acc.White, &acc.Black
	} else {
		own, opp = &acc.Black, &acc.White
	}

	var sum int32
	for i := 0; i < H; i++ {
		a := clippedReLU(int32(own[i]))
		sum += int32(a) * int32(n.W2[i])
	}
	for i := 0; i < H; i++ {
		a := clippedReLU(int32(opp[i]))
		sum += int32(a) * int32(n.W2[H+i])
	}
	sum += n.B2

	return int(sum * OutputScale / WeightScale / ActivationRange)
}
