package search

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kestrelchess/kestrel/internal/board"
	"github.com/kestrelchess/kestrel/internal/eval"
	"github.com/kestrelchess/kestrel/internal/nnue"
	"github.com/kestrelchess/kestrel/internal/position"
	"github.com/kestrelchess/kestrel/internal/tt"
)

func newTestWorker(t *testing.T) *Worker {
	t.Helper()
	table, err := tt.New(1 << 20)
	require.NoError(t, err)
	return NewWorker(0, table, DefaultParams(), HandCraftedEvaluator{}, nnue.InitRandom(1), NewStopFlag())
}

func posFromFEN(t *testing.T, fen string, net *nnue.Network) *position.Position {
	t.Helper()
	b, err := board.ParseFEN(fen)
	require.NoError(t, err)
	return position.New(b, net)
}

func TestMateInOneIsFound(t *testing.T) {
	w := newTestWorker(t)
	// White to move, Qh5-f7 mates the black king trapped on e8.
	pos := posFromFEN(t, "r1bqkb1r/pppp1ppp/2n2n2/4p2Q/2B1P3/8/PPPP1PPP/RNB1K1NR w KQkq - 4 4", w.net)

	score, aborted := w.negamax(pos, 4, 0, eval.NewWindow(), NodeRoot, board.NoMove, board.NoPieceType)
	require.False(t, aborted)
	require.True(t, score.IsMateIn(), "expected a mate-in score, got %d", score)
	require.Equal(t, 1, score.MatePlies())

	m, err := board.ParseMove("h5f7", pos.Board)
	require.NoError(t, err)
	require.Equal(t, m, w.rootBestMove)
}

func TestCheckmatedRootScoresAsMated(t *testing.T) {
	w := newTestWorker(t)
	// Right after Qxf7#: black to move, already checkmated, so the root has
	// no legal move and must score as mated.
	pos := posFromFEN(t, "r1bqkbnr/pppp1Qpp/2n5/4p3/2B1P3/8/PPPP1PPP/RNB1K1NR b KQkq - 0 4", w.net)

	score, aborted := w.negamax(pos, 2, 0, eval.NewWindow(), NodeRoot, board.NoMove, board.NoPieceType)
	require.False(t, aborted)
	require.True(t, score.IsMatedIn(), "black to move and already mated, got %d", score)
}

func TestStalemateScoresAsDraw(t *testing.T) {
	w := newTestWorker(t)
	pos := posFromFEN(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", w.net)
	require.True(t, pos.Board.IsStalemate())

	score, aborted := w.negamax(pos, 3, 0, eval.NewWindow(), NodeRoot, board.NoMove, board.NoPieceType)
	require.False(t, aborted)
	require.Equal(t, eval.DRAW, score)
}

func TestIsRepetitionDetectsOwnSearchPath(t *testing.T) {
	w := newTestWorker(t)
	w.base = 0
	w.histStack[0] = 0xAAAA
	w.histStack[1] = 0xBBBB
	w.histStack[2] = 0xAAAA

	require.True(t, w.isRepetition(2, 10))
	require.False(t, w.isRepetition(1, 10))
	require.False(t, w.isRepetition(2, 1), "halfmove clock too small to look back two plies")
}

func TestSearchFromRepeatedStartPositionStaysBalanced(t *testing.T) {
	w := newTestWorker(t)
	pos := posFromFEN(t, board.StartFEN, w.net)

	// Shuffle each side's king knight out and back, reaching the starting
	// position a second time, then search from there.
	moves := []string{"g1f3", "g8f6", "f3g1", "f6g8"}
	cur := pos
	for _, mv := range moves {
		m, err := board.ParseMove(mv, cur.Board)
		require.NoError(t, err)
		cur = cur.MakeMove(m, w.net)
	}
	require.Equal(t, pos.Board.Hash, cur.Board.Hash)

	score, aborted := w.negamax(cur, 2, 0, eval.NewWindow(), NodeRoot, board.NoMove, board.NoPieceType)
	require.False(t, aborted)
	// Symmetric opening shuffle: the position is balanced regardless of
	// whether the 2-fold repeat fires at this shallow depth, but the
	// search must not crash walking off the front of histStack.
	require.True(t, score > eval.Centipawn(-50) && score < eval.Centipawn(50))
}

func TestTTIsReusedAcrossIncreasingDepths(t *testing.T) {
	w := newTestWorker(t)
	pos := posFromFEN(t, board.StartFEN, w.net)

	_, aborted := w.negamax(pos, 6, 0, eval.NewWindow(), NodeRoot, board.NoMove, board.NoPieceType)
	require.False(t, aborted)
	firstBest := w.rootBestMove
	require.NotEqual(t, board.NoMove, firstBest)
	rootEntry, hit := w.tt.Get(pos.Board.Hash, 0)
	require.True(t, hit, "the depth-6 root result must be in the table for the depth-7 search")
	require.Equal(t, firstBest, rootEntry.Move)

	w.nodes = 0
	_, aborted = w.negamax(pos, 7, 0, eval.NewWindow(), NodeRoot, board.NoMove, board.NoPieceType)
	require.False(t, aborted)
	require.NotEqual(t, board.NoMove, w.rootBestMove)
}

func TestSingleThreadedSearchIsDeterministic(t *testing.T) {
	netA := nnue.InitRandom(7)
	netB := nnue.InitRandom(7)
	tableA, err := tt.New(1 << 20)
	require.NoError(t, err)
	tableB, err := tt.New(1 << 20)
	require.NoError(t, err)

	wA := NewWorker(0, tableA, DefaultParams(), HandCraftedEvaluator{}, netA, NewStopFlag())
	wB := NewWorker(0, tableB, DefaultParams(), HandCraftedEvaluator{}, netB, NewStopFlag())

	posA := posFromFEN(t, board.StartFEN, netA)
	posB := posFromFEN(t, board.StartFEN, netB)

	scoreA, abortedA := wA.negamax(posA, 5, 0, eval.NewWindow(), NodeRoot, board.NoMove, board.NoPieceType)
	scoreB, abortedB := wB.negamax(posB, 5, 0, eval.NewWindow(), NodeRoot, board.NoMove, board.NoPieceType)

	require.False(t, abortedA)
	require.False(t, abortedB)
	require.Equal(t, scoreA, scoreB)
	require.Equal(t, wA.rootBestMove, wB.rootBestMove)
	require.Equal(t, wA.nodes, wB.nodes)
}
