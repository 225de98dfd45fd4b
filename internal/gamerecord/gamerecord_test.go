package gamerecord

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kestrelchess/kestrel/internal/board"
	"github.com/kestrelchess/kestrel/internal/eval"
)

func TestMoveRoundTrip(t *testing.T) {
	cases := []board.Move{
		board.NewMove(board.Square(12), board.Square(28)),
		board.NewPromotion(board.Square(52), board.Square(60), board.Queen),
		board.NewPromotion(board.Square(8), board.Square(0), board.Knight),
	}
	for _, m := range cases {
		got := decodeMove(encodeMove(m))
		require.Equal(t, m.From(), got.From())
		require.Equal(t, m.To(), got.To())
		require.Equal(t, m.IsPromotion(), got.IsPromotion())
		if m.IsPromotion() {
			require.Equal(t, m.Promotion(), got.Promotion())
		}
	}
}

func TestGameEncodeDecodeRoundTrip(t *testing.T) {
	g := Game{
		OpeningMoves: 1,
		Moves: []board.Move{
			board.NewMove(board.Square(12), board.Square(28)),
			board.NewMove(board.Square(52), board.Square(36)),
			board.NewMove(board.Square(6), board.Square(21)),
		},
		Evals:  []eval.Eval{eval.Centipawn(15), eval.Centipawn(-20)},
		Winner: WinnerWhite,
	}

	buf, err := Encode(g)
	require.NoError(t, err)

	got, err := Decode(bytes.NewReader(buf))
	require.NoError(t, err)
	require.Equal(t, g.OpeningMoves, got.OpeningMoves)
	require.Equal(t, g.Moves, got.Moves)
	require.Equal(t, g.Evals, got.Evals)
	require.Equal(t, g.Winner, got.Winner)
}

func TestDecodeEmptyStreamIsEOFNotError(t *testing.T) {
	_, err := Decode(bytes.NewReader(nil))
	require.ErrorIs(t, err, io.EOF)
}

func TestDecodeTruncatedStreamIsPropagatedError(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte{1, 2}))
	require.Error(t, err)
	require.NotErrorIs(t, err, io.EOF)
}

func TestEncodeRejectsMismatchedEvalCount(t *testing.T) {
	g := Game{
		OpeningMoves: 0,
		Moves:        []board.Move{board.NewMove(board.Square(1), board.Square(2))},
		Evals:        nil,
	}
	_, err := Encode(g)
	require.Error(t, err)
}

func TestMarlinRoundTripsStartingPosition(t *testing.T) {
	pos, err := board.ParseFEN(board.StartFEN)
	require.NoError(t, err)

	buf, err := EncodeMarlin(pos, eval.Centipawn(34), 1)
	require.NoError(t, err)

	rec := DecodeMarlin(buf)
	require.Equal(t, pos.AllOccupied, rec.Occupied)
	require.Equal(t, board.White, rec.SideToMove)
	require.Equal(t, board.NoSquare, rec.EnPassant)
	require.Equal(t, uint8(0), rec.HalfMoveClock)
	require.Equal(t, uint16(1), rec.FullMoveNumber)
	require.Equal(t, eval.Centipawn(34), rec.Score)
	require.Equal(t, uint8(1), rec.WDL)
	require.Len(t, rec.Pieces, 32)

	for i, sq := range pos.AllOccupied.Squares() {
		require.Equal(t, pos.PieceAt(sq), rec.Pieces[i])
	}
}

func TestMarlinEncodesEnPassantAndSideToMove(t *testing.T) {
	pos, err := board.ParseFEN("rnbqkbnr/ppp1pppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 3")
	require.NoError(t, err)

	buf, err := EncodeMarlin(pos, eval.ZERO, 2)
	require.NoError(t, err)
	rec := DecodeMarlin(buf)

	require.Equal(t, board.White, rec.SideToMove)
	require.NotEqual(t, board.NoSquare, rec.EnPassant)
}
