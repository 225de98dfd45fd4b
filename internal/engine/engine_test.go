package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kestrelchess/kestrel/internal/board"
)

func TestNewEngineBuildsWithDefaults(t *testing.T) {
	e, err := NewEngine(0, 1)
	require.NoError(t, err)
	require.Equal(t, DefaultHashMB, e.hashMB)
	require.False(t, e.UseNNUE())
	require.False(t, e.HasNNUE())
}

func TestSetUseNNUEWithoutLoadedNetworkStaysOnHandCrafted(t *testing.T) {
	e, err := NewEngine(1, 1)
	require.NoError(t, err)

	e.SetUseNNUE(true)
	require.False(t, e.UseNNUE())
}

func TestFindsMateInOne(t *testing.T) {
	e, err := NewEngine(1, 1)
	require.NoError(t, err)

	pos, err := board.ParseFEN("6k1/5ppp/8/8/8/8/5PPP/3R2K1 w - - 0 1")
	require.NoError(t, err)

	result := e.Search(context.Background(), pos, 4)
	require.True(t, result.Score.IsMateIn())
	require.NotEqual(t, board.NoMove, result.BestMove())
}

func TestStopCancelsAnInFlightSearch(t *testing.T) {
	e, err := NewEngine(1, 1)
	require.NoError(t, err)

	pos, err := board.ParseFEN(board.StartFEN)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result := e.Search(ctx, pos, 20)
	_ = result // a cancelled-before-start search may return an empty result; must not panic or hang
}

func TestPerftStartingPositionDepthOne(t *testing.T) {
	e, err := NewEngine(1, 1)
	require.NoError(t, err)

	pos, err := board.ParseFEN(board.StartFEN)
	require.NoError(t, err)

	require.Equal(t, uint64(20), e.Perft(pos, 1))
}
