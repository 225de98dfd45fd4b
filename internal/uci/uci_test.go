package uci

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kestrelchess/kestrel/internal/board"
	"github.com/kestrelchess/kestrel/internal/engine"
)

func newTestUCI(t *testing.T) (*UCI, *bytes.Buffer) {
	t.Helper()
	eng, err := engine.NewEngine(1, 1)
	require.NoError(t, err)

	var out, dbg bytes.Buffer
	return New(eng, &out, &dbg), &out
}

func TestUCIHandshake(t *testing.T) {
	u, out := newTestUCI(t)
	u.Run(strings.NewReader("uci\nisready\nquit\n"))

	text := out.String()
	require.Contains(t, text, "id name Kestrel")
	require.Contains(t, text, "uciok")
	require.Contains(t, text, "readyok")
}

func TestPositionStartposWithMoves(t *testing.T) {
	u, _ := newTestUCI(t)
	u.handlePosition(strings.Fields("startpos moves e2e4 e7e5"))

	require.Equal(t, board.Black, u.position.SideToMove)
	require.Len(t, u.positionHashes, 1)
}

func TestPositionRejectsIllegalMove(t *testing.T) {
	u, _ := newTestUCI(t)
	before := u.position.Hash
	u.handlePosition(strings.Fields("startpos moves e2e5"))

	require.Equal(t, before, u.position.Hash)
}

func TestGoDepthReturnsBestMove(t *testing.T) {
	u, out := newTestUCI(t)
	u.position, _ = board.ParseFEN("6k1/5ppp/8/8/8/8/5PPP/3R2K1 w - - 0 1")

	u.handleGo(strings.Fields("depth 4"))
	<-u.done

	require.Contains(t, out.String(), "bestmove")
}

func TestTimeManagerFixedMoveTime(t *testing.T) {
	tm := NewTimeManager()
	tm.Init(goOptions{moveTime: 500 * time.Millisecond}, board.White)
	require.Equal(t, 500*time.Millisecond, tm.OptimumTime())
	require.Equal(t, 500*time.Millisecond, tm.MaximumTime())
}

func TestTimeManagerNoTimeControlUsesLongHorizon(t *testing.T) {
	tm := NewTimeManager()
	tm.Init(goOptions{depth: 6}, board.White)
	require.Equal(t, time.Hour, tm.OptimumTime())
}

func TestTimeManagerSuddenDeathAllocatesFractionOfClock(t *testing.T) {
	tm := NewTimeManager()
	tm.Init(goOptions{wtime: 60 * time.Second}, board.White)
	require.Greater(t, tm.OptimumTime(), time.Duration(0))
	require.Less(t, tm.OptimumTime(), 60*time.Second)
}
