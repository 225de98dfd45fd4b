// Package history implements the per-worker move-ordering memory: a
// butterfly history table, a per-ply killer-move ring, and a countermove
// table. None of these are shared across lazy-SMP workers — each search
// goroutine owns its own instance.
package history

import "github.com/kestrelchess/kestrel/internal/board"

// MaxValue bounds the butterfly history score, matching the gravity
// formula's clamp.
const MaxValue = 16384

// MaxPly bounds the killer/countermove ring indices.
const MaxPly = 128

// Table is the butterfly [color][piece][to-square] history score.
type Table struct {
	scores [2][6][64]int32
}

// Bonus updates the score for (us, piece, to) on a beta-cutoff with the
// gravity-like formula from spec.md §3: h += change - change*|h|/Max,
// change = depth^2. A negative change (for quiets tried before the cutoff
// move) pulls the score down by the same formula.
func (t *Table) Bonus(us board.Color, pt board.PieceType, to board.Square, depth int) {
	t.update(us, pt, to, depth*depth)
}

// Penalty applies the same gravity formula with a negative change, used
// for quiet moves tried before the move that caused the cutoff.
func (t *Table) Penalty(us board.Color, pt board.PieceType, to board.Square, depth int) {
	t.update(us, pt, to, -depth*depth)
}

func (t *Table) update(us board.Color, pt board.PieceType, to board.Square, change int) {
	h := &t.scores[us][pt][to]
	v := int(*h)
	v += change - change*abs(v)/MaxValue
	if v > MaxValue {
		v = MaxValue
	}
	if v < -MaxValue {
		v = -MaxValue
	}
	*h = int32(v)
}

// Score returns the current butterfly score for (us, piece, to).
func (t *Table) Score(us board.Color, pt board.PieceType, to board.Square) int {
	return int(t.scores[us][pt][to])
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Killers is a per-ply bounded ring of up to two quiet moves that produced
// a beta-cutoff at that ply.
type Killers struct {
	slots [MaxPly][2]board.Move
}

// Add pushes m onto ply's ring, dropping the oldest entry. A duplicate of
// the current primary killer is a no-op.
func (k *Killers) Add(ply int, m board.Move) {
	if ply < 0 || ply >= MaxPly {
		return
	}
	if k.slots[ply][0] == m {
		return
	}
	k.slots[ply][1] = k.slots[ply][0]
	k.slots[ply][0] = m
}

// Get returns ply's two killer slots (NoMove if unset).
func (k *Killers) Get(ply int) (board.Move, board.Move) {
	if ply < 0 || ply >= MaxPly {
		return board.NoMove, board.NoMove
	}
	return k.slots[ply][0], k.slots[ply][1]
}

// Is reports whether m matches either killer slot at ply.
func (k *Killers) Is(ply int, m board.Move) bool {
	a, b := k.Get(ply)
	return m == a || m == b
}

// Countermoves tracks, per (piece, to-square) of the opponent's previous
// move, the quiet reply that most recently refuted it — a move-ordering
// signal the teacher's ordering.go calls "counterMoves", supplementing the
// killer/history pair the distilled spec names explicitly (see
// SPEC_FULL.md's SUPPLEMENTED FEATURES).
type Countermoves struct {
	table [2][6][64]board.Move
}

// Update records m as the reply that refuted the opponent's move
// (prevPiece, prevTo) for side us.
func (c *Countermoves) Update(us board.Color, prevPiece board.PieceType, prevTo board.Square, m board.Move) {
	if prevPiece > board.King {
		return
	}
	c.table[us][prevPiece][prevTo] = m
}

// Get returns the recorded countermove for side us against (prevPiece, prevTo).
func (c *Countermoves) Get(us board.Color, prevPiece board.PieceType, prevTo board.Square) board.Move {
	if prevPiece > board.King {
		return board.NoMove
	}
	return c.table[us][prevPiece][prevTo]
}
