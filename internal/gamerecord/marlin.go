package gamerecord

import (
	"encoding/binary"
	"fmt"

	"github.com/kestrelchess/kestrel/internal/board"
	"github.com/kestrelchess/kestrel/internal/eval"
)

// MarlinRecordSize is the fixed 32-byte size of one position record.
const MarlinRecordSize = 32

// MarlinRecord is the decoded form of a 32-byte marlinformat position
// record: board.Position plus a scored eval and a game-outcome label, the
// shape spec.md §6 uses for NNUE training-data interchange.
type MarlinRecord struct {
	Occupied      board.Bitboard
	SideToMove    board.Color
	EnPassant     board.Square // board.NoSquare if none
	HalfMoveClock uint8
	FullMoveNumber uint16
	Score         eval.Eval
	WDL           uint8

	// Pieces holds, in ascending-square order over Occupied's set bits,
	// the (color, type) of each occupying piece. len(Pieces) ==
	// Occupied.PopCount().
	//
	// The upstream marlinformat distinguishes an unmoved rook from a
	// moved one (an extra nibble code) to let Chess960 castling rights
	// round-trip through the record; this encoder does not carry that
	// distinction (see DESIGN.md's Open Question (c) decision — this
	// repository does not implement Chess960 castling at all), so a rook
	// always encodes as plain PieceType Rook.
	Pieces []board.Piece
}

// EncodeMarlin packs pos, score and wdl into the 32-byte marlinformat
// layout: occupied(LE8) nibbles(16) stm<<7|ep(1) halfmove(1)
// fullmove(LE2) cp(LE2) wdl(1) padding(1).
func EncodeMarlin(pos *board.Position, score eval.Eval, wdl uint8) ([MarlinRecordSize]byte, error) {
	var buf [MarlinRecordSize]byte

	squares := pos.AllOccupied.Squares()
	if len(squares) > 32 {
		return buf, fmt.Errorf("gamerecord: %d occupied squares exceeds marlinformat's 32-piece limit", len(squares))
	}

	binary.LittleEndian.PutUint64(buf[0:8], uint64(pos.AllOccupied))

	for i, sq := range squares {
		piece := pos.PieceAt(sq)
		nibble := byte(piece.Color())<<3 | byte(piece.Type())
		if i%2 == 0 {
			buf[8+i/2] |= nibble
		} else {
			buf[8+i/2] |= nibble << 4
		}
	}

	epByte := byte(board.NoSquare)
	if pos.EnPassant != board.NoSquare {
		epByte = byte(pos.EnPassant)
	}
	if pos.SideToMove == board.Black {
		epByte |= 0x80
	}
	buf[24] = epByte
	buf[25] = byte(pos.HalfMoveClock)
	binary.LittleEndian.PutUint16(buf[26:28], uint16(pos.FullMoveNumber))
	binary.LittleEndian.PutUint16(buf[28:30], uint16(score))
	buf[30] = wdl
	// buf[31] is padding, left zero.

	return buf, nil
}

// DecodeMarlin reverses EncodeMarlin, reconstructing piece placement from
// the occupied bitboard and nibble array. It does not reconstruct a full
// board.Position (castling rights and move-generation caches aren't
// present in the record); callers that need one must seed it separately.
func DecodeMarlin(buf [MarlinRecordSize]byte) MarlinRecord {
	occupied := board.Bitboard(binary.LittleEndian.Uint64(buf[0:8]))
	squares := occupied.Squares()

	pieces := make([]board.Piece, len(squares))
	for i := range squares {
		var nibble byte
		if i%2 == 0 {
			nibble = buf[8+i/2] & 0x0F
		} else {
			nibble = buf[8+i/2] >> 4
		}
		color := board.Color(nibble >> 3)
		pt := board.PieceType(nibble & 0x7)
		pieces[i] = board.NewPiece(pt, color)
	}

	epByte := buf[24]
	rec := MarlinRecord{
		Occupied:       occupied,
		Pieces:         pieces,
		SideToMove:     board.White,
		EnPassant:      board.Square(epByte & 0x7F),
		HalfMoveClock:  buf[25],
		FullMoveNumber: binary.LittleEndian.Uint16(buf[26:28]),
		Score:          eval.FromBytes([2]byte{buf[28], buf[29]}),
		WDL:            buf[30],
	}
	if epByte&0x80 != 0 {
		rec.SideToMove = board.Black
	}
	if rec.EnPassant >= board.NoSquare {
		rec.EnPassant = board.NoSquare
	}
	return rec
}
