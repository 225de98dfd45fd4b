package handeval

import (
	"testing"

	"github.com/kestrelchess/kestrel/internal/board"
	"github.com/stretchr/testify/require"
)

func TestStartingPositionIsRoughlyBalanced(t *testing.T) {
	pos, err := board.ParseFEN(board.StartFEN)
	require.NoError(t, err)
	score := Evaluate(pos)
	require.InDelta(t, 0, score, 60, "startpos should be near-equal, got %d", score)
}

func TestMaterialAdvantageIsDetected(t *testing.T) {
	pos, err := board.ParseFEN("4k3/8/8/8/8/8/8/RNBQKBNR w - - 0 1")
	require.NoError(t, err)
	score := Evaluate(pos)
	require.Greater(t, score, 500)
}

func TestEvaluateIsSideRelative(t *testing.T) {
	posWhite, err := board.ParseFEN("4k3/8/8/8/8/8/8/R3K3 w - - 0 1")
	require.NoError(t, err)
	posBlack, err := board.ParseFEN("4k3/8/8/8/8/8/8/R3K3 b - - 0 1")
	require.NoError(t, err)

	require.Greater(t, Evaluate(posWhite), 0)
	require.Less(t, Evaluate(posBlack), 0)
}

func TestBishopPairBonus(t *testing.T) {
	withPair, err := board.ParseFEN("4k3/8/8/8/8/8/8/2B1KB2 w - - 0 1")
	require.NoError(t, err)
	withoutPair, err := board.ParseFEN("4k3/8/8/8/8/8/8/3BK3 w - - 0 1")
	require.NoError(t, err)

	// one extra bishop naturally scores higher; the pair bonus should push
	// the two-bishop position's advantage past plain material difference.
	require.Greater(t, Evaluate(withPair), Evaluate(withoutPair))
}
