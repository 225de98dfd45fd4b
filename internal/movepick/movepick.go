// Package movepick implements the staged, lazily-generated move picker: a
// small explicit state machine (Pv -> Captures -> Killers -> Quiets ->
// LosingCaptures -> Done). The PV move is only checked against the
// pseudo-legal move list; the legality filtering, SEE scoring and
// partitioning of the full list happen only if the PV move does not cause
// a cutoff.
package movepick

import (
	"github.com/kestrelchess/kestrel/internal/board"
	"github.com/kestrelchess/kestrel/internal/history"
	"github.com/kestrelchess/kestrel/internal/see"
)

// Stage identifies the picker's current state.
type Stage int

const (
	StagePV Stage = iota
	StageGenerate
	StageGoodCaptures
	StageKillers
	StageQuiets
	StageLosingCaptures
	StageDone
)

// Scoring constants, in the teacher's naming convention
// (internal/engine/ordering.go): a coarse ordering across classes, with a
// fine within-class tiebreak from history/SEE.
const (
	ttMoveScore     = 10_000_000
	goodCaptureBase = 1_000_000
	killerScore1    = 900_000
	killerScore2    = 800_000
	badCaptureBase  = -100_000
)

// mvvLva[victim][attacker] biases captures toward winning the most value
// with the least valuable piece. Indexed by board.PieceType (Pawn..King).
var mvvLva = [6][6]int{
	{15, 14, 13, 12, 11, 10}, // victim Pawn
	{25, 24, 23, 22, 21, 20}, // victim Knight
	{35, 34, 33, 32, 31, 30}, // victim Bishop
	{45, 44, 43, 42, 41, 40}, // victim Rook
	{55, 54, 53, 52, 51, 50}, // victim Queen
	{0, 0, 0, 0, 0, 0},       // victim King: never legal, unreachable
}

type scoredMove struct {
	move  board.Move
	score int
}

// Picker drives one node's move ordering. Not safe for concurrent use; one
// instance is created per search node and discarded after the node returns.
type Picker struct {
	pos       *board.Position
	ttMove    board.Move
	ply       int
	us        board.Color
	inCheck   bool
	killers   *history.Killers
	hist      *history.Table
	counters  *history.Countermoves
	prevPiece board.PieceType
	prevTo    board.Square

	stage Stage

	good    []scoredMove
	losing  []scoredMove
	quiets  []scoredMove
	cursor  int
	ttTried bool
}

// New builds a picker for one search node.
func New(pos *board.Position, ttMove board.Move, ply int, killers *history.Killers, hist *history.Table, counters *history.Countermoves, prevPiece board.PieceType, prevTo board.Square) *Picker {
	return &Picker{
		pos:       pos,
		ttMove:    ttMove,
		ply:       ply,
		us:        pos.SideToMove,
		killers:   killers,
		hist:      hist,
		counters:  counters,
		prevPiece: prevPiece,
		prevTo:    prevTo,
		stage:     StagePV,
	}
}

// Next returns the next move in staged order, or (NoMove, false) once
// exhausted.
func (p *Picker) Next() (board.Move, bool) {
	for {
		switch p.stage {
		case StagePV:
			p.stage = StageGenerate
			if p.ttMove != board.NoMove && !p.ttTried {
				p.ttTried = true
				if p.pos.GeneratePseudoLegalMoves().Contains(p.ttMove) {
					return p.ttMove, true
				}
			}

		case StageGenerate:
			p.generate()
			p.stage = StageGoodCaptures

		case StageGoodCaptures:
			if m, ok := pickMax(p.good, &p.cursor); ok {
				return m, true
			}
			p.cursor = 0
			p.stage = StageKillers

		case StageKillers:
			if m, ok := p.nextKiller(); ok {
				return m, true
			}
			p.stage = StageQuiets

		case StageQuiets:
			if m, ok := pickMax(p.quiets, &p.cursor); ok {
				return m, true
			}
			p.cursor = 0
			p.stage = StageLosingCaptures

		case StageLosingCaptures:
			if m, ok := pickMax(p.losing, &p.cursor); ok {
				return m, true
			}
			p.stage = StageDone

		case StageDone:
			return board.NoMove, false
		}
	}
}

// nextKiller scans the (not-yet-consumed) quiet pool for a move matching
// one of this ply's killer slots, yielding at most two.
func (p *Picker) nextKiller() (board.Move, bool) {
	k1, k2 := p.killers.Get(p.ply)
	for _, k := range [2]board.Move{k1, k2} {
		if k == board.NoMove || k == p.ttMove {
			continue
		}
		for i := range p.quiets {
			if p.quiets[i].move == k {
				m := p.quiets[i].move
				p.quiets = append(p.quiets[:i], p.quiets[i+1:]...)
				return m, true
			}
		}
	}
	return board.NoMove, false
}

// generate builds the move list once (on first entry into the Captures
// stage) and partitions it into winning/equal captures, losing captures,
// and quiets, masking out the already-yielded PV move.
func (p *Picker) generate() {
	ml := p.pos.GeneratePseudoLegalMoves()
	counterMove := board.NoMove
	if p.counters != nil {
		counterMove = p.counters.Get(p.us, p.prevPiece, p.prevTo)
	}

	for i := 0; i < ml.Len(); i++ {
		m := ml.Get(i)
		if m == p.ttMove {
			continue
		}
		if !p.pos.IsLegal(m) {
			continue
		}

		if m.IsCapture(p.pos) {
			s := see.Eval(p.pos, m)
			victim := p.pos.PieceAt(m.To())
			attacker := p.pos.PieceAt(m.From())
			var mvvLvaScore int
			if m.IsEnPassant() {
				mvvLvaScore = mvvLva[board.Pawn][attacker.Type()]
			} else {
				mvvLvaScore = mvvLva[victim.Type()][attacker.Type()]
			}
			if s >= 0 {
				p.good = append(p.good, scoredMove{m, goodCaptureBase + mvvLvaScore*1000 + s})
			} else {
				p.losing = append(p.losing, scoredMove{m, badCaptureBase + mvvLvaScore*1000 + s})
			}
			continue
		}

		score := p.hist.Score(p.us, attackerType(p.pos, m), m.To())
		if counterMove != board.NoMove && m == counterMove {
			score += killerScore2 / 2
		}
		p.quiets = append(p.quiets, scoredMove{m, score})
	}
}

func attackerType(pos *board.Position, m board.Move) board.PieceType {
	return pos.PieceAt(m.From()).Type()
}

// pickMax performs the single-swap-max selection-sort step: finds the best
// remaining score at or after *cursor, swaps it into place, and returns it.
func pickMax(pool []scoredMove, cursor *int) (board.Move, bool) {
	if *cursor >= len(pool) {
		return board.NoMove, false
	}
	best := *cursor
	for i := *cursor + 1; i < len(pool); i++ {
		if pool[i].score > pool[best].score {
			best = i
		}
	}
	pool[*cursor], pool[best] = pool[best], pool[*cursor]
	m := pool[*cursor].move
	*cursor++
	return m, true
}

// QuiescencePicker yields captures only, filtering see < 0, ordered by
// SEE-class then history.
type QuiescencePicker struct {
	pool   []scoredMove
	cursor int
}

// NewQuiescence builds a quiescence-node picker: captures with SEE >= 0.
func NewQuiescence(pos *board.Position, hist *history.Table) *QuiescencePicker {
	qp := &QuiescencePicker{}
	ml := pos.GeneratePseudoLegalMoves()
	for i := 0; i < ml.Len(); i++ {
		m := ml.Get(i)
		if !m.IsCapture(pos) {
			continue
		}
		if !pos.IsLegal(m) {
			continue
		}
		s := see.Eval(pos, m)
		if s < 0 {
			continue
		}
		seeClass := 0
		if s >= board.PieceValue[board.Pawn] {
			seeClass = 1
		}
		h := 0
		if hist != nil {
			h = hist.Score(pos.SideToMove, attackerType(pos, m), m.To())
		}
		qp.pool = append(qp.pool, scoredMove{m, seeClass*goodCaptureBase + h})
	}
	return qp
}

// Next returns the next quiescence move in descending score order.
func (qp *QuiescencePicker) Next() (board.Move, bool) {
	return pickMax(qp.pool, &qp.cursor)
}
