package position

import (
	"testing"

	"github.com/kestrelchess/kestrel/internal/board"
	"github.com/kestrelchess/kestrel/internal/nnue"
	"github.com/stretchr/testify/require"
)

func TestMakeMoveLeavesParentUntouched(t *testing.T) {
	net := nnue.InitRandom(1)
	b, err := board.ParseFEN(board.StartFEN)
	require.NoError(t, err)

	root := New(b, net)
	parentHashBefore := root.Board.Hash

	m, err := board.ParseMove("e2e4", root.Board)
	require.NoError(t, err)
	child := root.MakeMove(m, net)

	require.Equal(t, parentHashBefore, root.Board.Hash, "parent must be untouched by child's move")
	require.NotEqual(t, root.Board.Hash, child.Board.Hash)
	require.Equal(t, board.Black, child.Board.SideToMove)
	require.Equal(t, board.White, root.Board.SideToMove)
}

func TestMakeMoveAccumulatorMatchesFreshBuild(t *testing.T) {
	net := nnue.InitRandom(2)
	b, err := board.ParseFEN(board.StartFEN)
	require.NoError(t, err)

	root := New(b, net)
	m, err := board.ParseMove("g1f3", root.Board)
	require.NoError(t, err)
	child := root.MakeMove(m, net)

	fresh := New(child.Board, net)
	require.Equal(t, fresh.Acc, child.Acc)
}

func TestNullMoveSharesAccumulator(t *testing.T) {
	net := nnue.InitRandom(3)
	b, err := board.ParseFEN(board.StartFEN)
	require.NoError(t, err)

	root := New(b, net)
	child := root.MakeNullMove()

	require.Equal(t, root.Acc, child.Acc)
	require.Equal(t, board.Black, child.Board.SideToMove)
}
