// Package gamerecord implements the two wire formats spec.md §6 names for
// the data pipeline that consumes engine output but isn't itself part of
// the search core: the analyzed-game binary format and the 32-byte
// marlinformat position record. Neither format is produced or consumed
// anywhere in internal/search; this package exists so the shapes spec.md
// §6 specifies have a concrete, testable Go home (see SPEC_FULL.md §6).
package gamerecord

import "github.com/kestrelchess/kestrel/internal/board"

// encodeMove packs a move into the wire layout `from(6) to(6) promo(4)`,
// independent of board.Move's own 16-bit in-memory encoding: promo is 0
// for "no promotion" and Knight..Queen+1 otherwise, fitting the spec's
// 4-bit promotion field with room for a sentinel.
func encodeMove(m board.Move) uint16 {
	var promo uint16
	if m.IsPromotion() {
		promo = uint16(m.Promotion()) + 1
	}
	return uint16(m.From()) | uint16(m.To())<<6 | promo<<12
}

// decodeMove reverses encodeMove. Castling and en passant are not
// distinguishable from a normal move in this wire format (the spec's
// table has no flag bits for them); a consumer that needs to replay the
// game must re-derive those flags from the position itself, e.g. via
// board.ParseMove-style detection.
func decodeMove(v uint16) board.Move {
	from := board.Square(v & 0x3F)
	to := board.Square((v >> 6) & 0x3F)
	promo := (v >> 12) & 0xF
	if promo == 0 {
		return board.NewMove(from, to)
	}
	return board.NewPromotion(from, to, board.PieceType(promo-1))
}
