package oracle

import (
	"testing"

	"github.com/kestrelchess/kestrel/internal/board"
	"github.com/stretchr/testify/require"
)

func TestKingVsKingIsKnownDraw(t *testing.T) {
	pos, err := board.ParseFEN("4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	require.NoError(t, err)
	require.True(t, IsKnownDraw(pos))
}

func TestKingAndKnightVsKingIsKnownDraw(t *testing.T) {
	pos, err := board.ParseFEN("4k3/8/8/8/8/8/8/3NK3 w - - 0 1")
	require.NoError(t, err)
	require.True(t, IsKnownDraw(pos))
}

func TestOppositeColoredBishopsIsKnownDraw(t *testing.T) {
	pos, err := board.ParseFEN("4k3/8/8/8/1b6/8/6B1/4K3 w - - 0 1")
	require.NoError(t, err)
	require.True(t, IsKnownDraw(pos))
}

func TestRookEndgameIsNotKnownDraw(t *testing.T) {
	pos, err := board.ParseFEN("4k3/8/8/8/8/8/8/3RK3 w - - 0 1")
	require.NoError(t, err)
	require.False(t, IsKnownDraw(pos))
}
