package tt

import (
	"sync"
	"testing"

	"github.com/kestrelchess/kestrel/internal/board"
	"github.com/kestrelchess/kestrel/internal/eval"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsTooSmall(t *testing.T) {
	_, err := New(4)
	require.ErrorIs(t, err, ErrNotEnoughMemory)
}

func TestSetGetRoundTrip(t *testing.T) {
	table, err := New(1 << 20)
	require.NoError(t, err)

	hash := uint64(0xDEADBEEFCAFEF00D)
	mv := board.NewMove(board.E2, board.E4)
	table.Set(hash, 0, Entry{Flag: Exact, Score: eval.Centipawn(37), Depth: 6, Move: mv})

	got, ok := table.Get(hash, 0)
	require.True(t, ok)
	require.Equal(t, Exact, got.Flag)
	require.Equal(t, eval.Centipawn(37), got.Score)
	require.Equal(t, int8(6), got.Depth)
	require.Equal(t, mv, got.Move)
}

func TestMissOnDifferentHash(t *testing.T) {
	table, err := New(1 << 12)
	require.NoError(t, err)
	table.Set(1, 0, Entry{Flag: Exact, Score: eval.Centipawn(1), Depth: 1})
	_, ok := table.Get(2, 0)
	require.False(t, ok)
}

func TestMateGraftingRoundTrip(t *testing.T) {
	table, err := New(1 << 16)
	require.NoError(t, err)

	hash := uint64(12345)
	const storePly = 4
	// MateIn(6) at ply 4 means "mate in 6 plies from here"; stored
	// entry-relative it becomes MateIn(2); read back at the same ply it
	// must return to MateIn(6).
	table.Set(hash, storePly, Entry{Flag: Exact, Score: eval.MateIn(6), Depth: 10})
	got, ok := table.Get(hash, storePly)
	require.True(t, ok)
	require.Equal(t, eval.MateIn(6), got.Score)
}

func TestMateOverflowGuard(t *testing.T) {
	table, err := New(1 << 16)
	require.NoError(t, err)

	hash := uint64(999)
	table.Set(hash, 0, Entry{Flag: Exact, Score: eval.MateIn(250), Depth: 10})
	got, ok := table.Get(hash, 10)
	require.True(t, ok)
	// remapped distance 260 > 255 must downgrade to a centipawn value,
	// never an illusory deeper mate.
	require.False(t, got.Score.IsMateScore())
	require.True(t, got.Score > 0)
}

func TestReplacementPolicyDeeperWins(t *testing.T) {
	table, err := New(1 << 12)
	require.NoError(t, err)
	hash := uint64(77)
	// 78 maps to the same slot as 77 in a 256-slot table.
	other := uint64(78)
	table.Set(hash, 0, Entry{Flag: Exact, Score: eval.Centipawn(1), Depth: 10})
	table.Set(other, 0, Entry{Flag: Exact, Score: eval.Centipawn(2), Depth: 3})
	got, ok := table.Get(hash, 0)
	require.True(t, ok)
	require.Equal(t, int8(10), got.Depth, "shallower same-generation write for another position must not replace a deeper entry")
}

func TestReplacementPolicyStaleAgeAlwaysReplaces(t *testing.T) {
	table, err := New(1 << 12)
	require.NoError(t, err)
	hash := uint64(77)
	table.Set(hash, 0, Entry{Flag: Exact, Score: eval.Centipawn(1), Depth: 10})
	table.AgeBy(2)
	// 78 maps to the same slot as 77 in a 256-slot table.
	other := uint64(78)
	table.Set(other, 0, Entry{Flag: Exact, Score: eval.Centipawn(2), Depth: 1})
	got, ok := table.Get(other, 0)
	require.True(t, ok)
	require.Equal(t, int8(1), got.Depth)
}

func TestConcurrentAccessNeverReturnsTornData(t *testing.T) {
	table, err := New(1 << 10)
	require.NoError(t, err)

	const hash = uint64(0xA5A5A5A5)
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(depth int8) {
			defer wg.Done()
			for i := 0; i < 2000; i++ {
				table.Set(hash, 0, Entry{Flag: Exact, Score: eval.Centipawn(int(depth)), Depth: depth})
				if e, ok := table.Get(hash, 0); ok {
					// Any observed entry must be one of the values a
					// writer actually stored, never a torn mix.
					require.True(t, e.Depth >= 1 && e.Depth <= 8)
				}
			}
		}(int8(w + 1))
	}
	wg.Wait()
}

func TestClearWipesSlots(t *testing.T) {
	table, err := New(1 << 12)
	require.NoError(t, err)
	table.Set(1, 0, Entry{Flag: Exact, Score: eval.Centipawn(1), Depth: 1})
	table.Clear()
	_, ok := table.Get(1, 0)
	require.False(t, ok)
}
