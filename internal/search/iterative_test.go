package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kestrelchess/kestrel/internal/board"
	"github.com/kestrelchess/kestrel/internal/nnue"
	"github.com/kestrelchess/kestrel/internal/tt"
)

func TestIterativeDeepenFindsMateInOneAndReportsIncreasingDepths(t *testing.T) {
	net := nnue.InitRandom(1)
	table, err := tt.New(1 << 20)
	require.NoError(t, err)
	w := NewWorker(0, table, DefaultParams(), HandCraftedEvaluator{}, net, NewStopFlag())
	pos := posFromFEN(t, "r1bqkb1r/pppp1ppp/2n2n2/4p2Q/2B1P3/8/PPPP1PPP/RNB1K1NR w KQkq - 4 4", net)

	var depths []int
	result := w.IterativeDeepen(pos, 4, func(r Result) {
		depths = append(depths, r.Depth)
	})

	require.NotEmpty(t, depths)
	for i, d := range depths {
		require.Equal(t, i+1, d)
	}
	require.NotEmpty(t, result.PV)
	m, err := board.ParseMove("h5f7", pos.Board)
	require.NoError(t, err)
	require.Equal(t, m, result.BestMove())
	require.True(t, result.Score.IsMateIn())
}

func TestExtractPVStopsOnStaleOrIllegalMove(t *testing.T) {
	net := nnue.InitRandom(2)
	table, err := tt.New(1 << 20)
	require.NoError(t, err)
	w := NewWorker(0, table, DefaultParams(), HandCraftedEvaluator{}, net, NewStopFlag())
	pos := posFromFEN(t, board.StartFEN, net)

	// No TT entries exist yet: extractPV must return an empty PV, not panic.
	pv := w.extractPV(pos, 5)
	require.Empty(t, pv)
}

func TestCoordinatorMultiThreadedSearchAgreesWithSingleThread(t *testing.T) {
	net := nnue.InitRandom(3)
	table, err := tt.New(1 << 20)
	require.NoError(t, err)

	shared := SharedState{Table: table, Params: DefaultParams(), Evaluator: HandCraftedEvaluator{}, Net: net}
	coord := NewCoordinator(shared, 2)

	pos := posFromFEN(t, "r1bqkb1r/pppp1ppp/2n2n2/4p2Q/2B1P3/8/PPPP1PPP/RNB1K1NR w KQkq - 4 4", net)

	m, err := board.ParseMove("h5f7", pos.Board)
	require.NoError(t, err)

	best := coord.BestMove(context.Background(), pos, 4)
	require.Equal(t, m, best)
}
