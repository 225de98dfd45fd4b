package gamerecord

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/kestrelchess/kestrel/internal/board"
	"github.com/kestrelchess/kestrel/internal/eval"
)

// Winner is the analyzed-game outcome byte.
type Winner uint8

const (
	WinnerWhite Winner = 0
	WinnerBlack Winner = 1
	WinnerDraw  Winner = 2
)

// Game is the decoded form of an analyzed-game record: the full move
// list, the engine's eval after every move from OpeningMoves onward (the
// book/opening prefix is not scored), and the outcome.
type Game struct {
	OpeningMoves uint8
	Moves        []board.Move
	Evals        []eval.Eval // len == len(Moves) - OpeningMoves
	Winner       Winner
}

// Encode writes g in the spec.md §6 analyzed-game binary layout:
// opening_moves(1) total_moves(LE2) packed_moves(2*total) packed_evals(LE2
// each, total-opening of them) winner(1).
func Encode(g Game) ([]byte, error) {
	if int(g.OpeningMoves) > len(g.Moves) {
		return nil, fmt.Errorf("gamerecord: opening_moves %d exceeds total_moves %d", g.OpeningMoves, len(g.Moves))
	}
	wantEvals := len(g.Moves) - int(g.OpeningMoves)
	if len(g.Evals) != wantEvals {
		return nil, fmt.Errorf("gamerecord: got %d evals, want %d (total_moves - opening_moves)", len(g.Evals), wantEvals)
	}

	buf := make([]byte, 0, 1+2+2*len(g.Moves)+2*wantEvals+1)
	buf = append(buf, g.OpeningMoves)

	var lenField [2]byte
	binary.LittleEndian.PutUint16(lenField[:], uint16(len(g.Moves)))
	buf = append(buf, lenField[:]...)

	for _, m := range g.Moves {
		var mv [2]byte
		binary.LittleEndian.PutUint16(mv[:], encodeMove(m))
		buf = append(buf, mv[:]...)
	}
	for _, e := range g.Evals {
		b := e.Bytes()
		buf = append(buf, b[0], b[1])
	}
	buf = append(buf, byte(g.Winner))
	return buf, nil
}

// Decode reads one analyzed-game record from r. Per spec.md §7: if the
// very first byte can't be read, that is end-of-stream and io.EOF is
// returned with a zero Game; any later short read is a propagated I/O
// error (io.ReadFull naturally distinguishes the two: a zero-byte read
// yields io.EOF, a partial one yields io.ErrUnexpectedEOF).
func Decode(r io.Reader) (Game, error) {
	var openingBuf [1]byte
	if _, err := io.ReadFull(r, openingBuf[:]); err != nil {
		return Game{}, err
	}
	opening := openingBuf[0]

	var lenBuf [2]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return Game{}, fmt.Errorf("gamerecord: reading total_moves: %w", err)
	}
	total := binary.LittleEndian.Uint16(lenBuf[:])
	if int(opening) > int(total) {
		return Game{}, fmt.Errorf("gamerecord: opening_moves %d exceeds total_moves %d", opening, total)
	}

	moves := make([]board.Move, total)
	for i := range moves {
		var mv [2]byte
		if _, err := io.ReadFull(r, mv[:]); err != nil {
			return Game{}, fmt.Errorf("gamerecord: reading move %d: %w", i, err)
		}
		moves[i] = decodeMove(binary.LittleEndian.Uint16(mv[:]))
	}

	evalCount := int(total) - int(opening)
	evals := make([]eval.Eval, evalCount)
	for i := range evals {
		var eb [2]byte
		if _, err := io.ReadFull(r, eb[:]); err != nil {
			return Game{}, fmt.Errorf("gamerecord: reading eval %d: %w", i, err)
		}
		evals[i] = eval.FromBytes(eb)
	}

	var winnerBuf [1]byte
	if _, err := io.ReadFull(r, winnerBuf[:]); err != nil {
		return Game{}, fmt.Errorf("gamerecord: reading winner: %w", err)
	}

	return Game{
		OpeningMoves: opening,
		Moves:        moves,
		Evals:        evals,
		Winner:       Winner(winnerBuf[0]),
	}, nil
}
