// Package oracle implements a minimal known-draw detector: a handful of
// hand-curated material configurations that are a draw regardless of
// search depth (KvK, KNvK, KBvK, opposite-colored-bishop KBvKB endgames).
package oracle

import "github.com/kestrelchess/kestrel/internal/board"

// IsKnownDraw reports whether pos's material configuration is a known,
// unconditional draw, grounded on the same insufficient-material reasoning
// as internal/board's IsInsufficientMaterial but extended to the
// opposite-colored-bishops case, which is drawn with near-certainty in
// practice but is not technically insufficient material (checkmate is
// still reachable with cooperation), so it is handled here rather than in
// the move generator's strict legality rules.
func IsKnownDraw(pos *board.Position) bool {
	if pos.IsInsufficientMaterial() {
		return true
	}
	return isOppositeColoredBishopsOnly(pos)
}

func isOppositeColoredBishopsOnly(pos *board.Position) bool {
	for _, c := range [2]board.Color{board.White, board.Black} {
		if pos.Pieces[c][board.Pawn] != 0 ||
			pos.Pieces[c][board.Knight] != 0 ||
			pos.Pieces[c][board.Rook] != 0 ||
			pos.Pieces[c][board.Queen] != 0 {
			return false
		}
		if pos.Pieces[c][board.Bishop].PopCount() != 1 {
			return false
		}
	}

	whiteBishopSq := pos.Pieces[board.White][board.Bishop].LSB()
	blackBishopSq := pos.Pieces[board.Black][board.Bishop].LSB()
	return squareColor(whiteBishopSq) != squareColor(blackBishopSq)
}

// squareColor returns 0 for a dark square, 1 for a light square.
func squareColor(sq board.Square) int {
	return (sq.File() + sq.Rank()) & 1
}
