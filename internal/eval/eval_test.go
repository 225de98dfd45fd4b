package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	for v := -32768; v <= 32767; v++ {
		e := Eval(v)
		got := FromBytes(e.Bytes())
		require.Equal(t, e, got)
	}
}

func TestNegateInvolution(t *testing.T) {
	cases := []Eval{ZERO, Centipawn(150), Centipawn(-150), MateIn(1), MateIn(10), MatedIn(1), MatedIn(10), MAX, MIN}
	for _, e := range cases {
		assert.Equal(t, e, e.Negate().Negate(), "e=%v", e)
	}
}

func TestMateOrdering(t *testing.T) {
	for p := 0; p < 250; p++ {
		q := p + 1
		assert.True(t, MateIn(p) > MateIn(q), "mate_in(%d) should beat mate_in(%d)", p, q)
		assert.True(t, MatedIn(p) < MatedIn(q), "mated_in(%d) should be worse than mated_in(%d)", p, q)
	}
	assert.True(t, MateIn(255) > Centipawn(20000))
	assert.True(t, Centipawn(-20000) > MatedIn(255))
}

func TestMateScoresClassifyAtDeepestSearchablePly(t *testing.T) {
	// internal/search.MaxPly is 128 and internal/engine clamps every
	// search to depth MaxPly-1 = 127, so a mate found at ply 127 must
	// still classify as a mate score, not get mistaken for a centipawn
	// evaluation.
	const deepestPly = 127
	assert.True(t, MateIn(deepestPly).IsMateScore())
	assert.True(t, MateIn(deepestPly).IsMateIn())
	assert.True(t, MatedIn(deepestPly).IsMateScore())
	assert.True(t, MatedIn(deepestPly).IsMatedIn())
}

func TestCentipawnOrderingIsRawCompare(t *testing.T) {
	assert.True(t, Centipawn(10) > Centipawn(9))
	assert.True(t, Centipawn(-9) > Centipawn(-10))
}

func TestSaturatingSubNeverHitsInt16Min(t *testing.T) {
	got := MIN.SaturatingSub(10)
	assert.Equal(t, MIN, got)
	// Must remain safely negatable.
	assert.Equal(t, MAX, got.Negate())
}

func TestSaturatingAddClamps(t *testing.T) {
	assert.Equal(t, MAX, MAX.SaturatingAdd(100))
	assert.Equal(t, MIN, MIN.SaturatingSub(100))
}

func TestWindowNegateInvolution(t *testing.T) {
	w := Window{Alpha: Centipawn(-50), Beta: Centipawn(50)}
	assert.Equal(t, w, w.Negate().Negate())
}

func TestWindowContainsSymmetry(t *testing.T) {
	w := Window{Alpha: Centipawn(-50), Beta: Centipawn(50)}
	v := Centipawn(10)
	assert.Equal(t, w.Contains(v), w.Negate().Contains(v.Negate()))
}

func TestWindowEmpty(t *testing.T) {
	w := Window{Alpha: Centipawn(10), Beta: Centipawn(10)}
	assert.True(t, w.Empty())
	w.Beta = Centipawn(11)
	assert.False(t, w.Empty())
}

func TestAroundSymmetric(t *testing.T) {
	w := Around(Centipawn(100), Centipawn(75))
	assert.Equal(t, Centipawn(25), w.Alpha)
	assert.Equal(t, Centipawn(175), w.Beta)
}
