// Package handeval implements the hand-crafted, tapered midgame/endgame
// evaluator: piece-square values, mobility, passed pawns, bishop pair, and
// rook-on-open-file terms, interpolated by a material-derived game phase.
//
// Grounded on hailam-chessplay/internal/engine/eval.go's Evaluate/
// evaluateMobility/evaluatePassedPawns/evaluateBishopPair/
// evaluateRooksOnFiles, restructured around the phase-taper contract
// spec.md §4.6 specifies explicitly.
package handeval

import "github.com/kestrelchess/kestrel/internal/board"

// phaseWeight assigns the non-pawn-material phase weights {N:1, B:1, R:2,
// Q:4} from spec.md §4.6, indexed by board.PieceType.
var phaseWeight = [6]int{0, 1, 1, 2, 4, 0}

// MaxPhase is the phase value at the starting position: both sides'
// full non-pawn complement (2N+2B+2R+Q each) weighted and summed.
const MaxPhase = 2 * (2*1 + 2*1 + 2*2 + 1*4)

const (
	bishopPairBonus    = 30
	rookOpenFileBonus  = 20
	rookSemiOpenBonus  = 10
	mobilityMgWeight   = 4
	mobilityEgWeight   = 2
	passedPawnBonusMg  = 10
	passedPawnBonusEg  = 20
	passedPawnRankStep = 8
)

// Evaluate returns a tapered centipawn score from the side-to-move's
// perspective.
func Evaluate(pos *board.Position) int {
	mg := 0
	eg := 0
	remainingPhase := MaxPhase

	for _, c := range [2]board.Color{board.White, board.Black} {
		sign := 1
		if c == board.Black {
			sign = -1
		}
		for pt := board.Pawn; pt <= board.King; pt++ {
			bb := pos.Pieces[c][pt]
			count := bb.PopCount()
			mg += sign * count * board.PieceValue[pt]
			eg += sign * count * board.PieceValue[pt]
			remainingPhase -= phaseWeight[pt] * count

			bb.ForEach(func(sq board.Square) {
				idx := pstIndex(sq, c)
				mg += sign * pstMg[pt][idx]
				eg += sign * pstEg[pt][idx]
			})
		}

		bishopCount := pos.Pieces[c][board.Bishop].PopCount()
		if bishopCount >= 2 {
			mg += sign * bishopPairBonus
			eg += sign * bishopPairBonus
		}

		mobMg, mobEg := evaluateMobility(pos, c)
		mg += sign * mobMg
		eg += sign * mobEg

		ppMg, ppEg := evaluatePassedPawns(pos, c)
		mg += sign * ppMg
		eg += sign * ppEg

		rookMg, rookEg := evaluateRooksOnFiles(pos, c)
		mg += sign * rookMg
		eg += sign * rookEg
	}

	phase := remainingPhase
	if phase < 0 {
		phase = 0
	}
	if phase > MaxPhase {
		phase = MaxPhase
	}

	score := (mg*(MaxPhase-phase) + eg*phase) / MaxPhase
	if pos.SideToMove == board.Black {
		score = -score
	}
	return score
}

// pstIndex mirrors the square vertically for White (the tables are laid out
// rank 8 first) so both sides read the same table from their own perspective.
func pstIndex(sq board.Square, c board.Color) int {
	if c == board.White {
		return int(sq.Mirror())
	}
	return int(sq)
}

// evaluateMobility counts pseudo-legal destination squares per piece (a
// cheap proxy — full legality filtering is the search's job, not the
// evaluator's) and scales by a flat per-move weight.
func evaluateMobility(pos *board.Position, c board.Color) (mg, eg int) {
	occupied := pos.AllOccupied
	own := pos.Occupied[c]

	var knightMoves, bishopMoves, rookMoves, queenMoves int
	pos.Pieces[c][board.Knight].ForEach(func(sq board.Square) {
		knightMoves += (board.KnightAttacks(sq) &^ own).PopCount()
	})
	pos.Pieces[c][board.Bishop].ForEach(func(sq board.Square) {
		bishopMoves += (board.BishopAttacks(sq, occupied) &^ own).PopCount()
	})
	pos.Pieces[c][board.Rook].ForEach(func(sq board.Square) {
		rookMoves += (board.RookAttacks(sq, occupied) &^ own).PopCount()
	})
	pos.Pieces[c][board.Queen].ForEach(func(sq board.Square) {
		queenMoves += (board.QueenAttacks(sq, occupied) &^ own).PopCount()
	})

	total := knightMoves + bishopMoves + rookMoves + queenMoves
	return total * mobilityMgWeight, total * mobilityEgWeight
}

// evaluatePassedPawns awards a rank-scaled bonus to pawns with no enemy
// pawn on their file or adjacent files ahead of them, and no own pawn
// directly in front.
func evaluatePassedPawns(pos *board.Position, c board.Color) (mg, eg int) {
	enemy := c.Other()
	ownPawns := pos.Pieces[c][board.Pawn]
	enemyPawns := pos.Pieces[enemy][board.Pawn]

	ownPawns.ForEach(func(sq board.Square) {
		if !isPassedPawn(sq, c, ownPawns, enemyPawns) {
			return
		}
		rank := sq.RelativeRank(c)
		mg += passedPawnBonusMg * rank
		eg += passedPawnBonusEg * rank
	})
	return mg, eg
}

func isPassedPawn(sq board.Square, c board.Color, ownPawns, enemyPawns board.Bitboard) bool {
	file := sq.File()
	rank := sq.Rank()

	isAhead := func(bsq board.Square) bool {
		if c == board.White {
			return bsq.Rank() > rank
		}
		return bsq.Rank() < rank
	}

	for df := -1; df <= 1; df++ {
		f := file + df
		if f < 0 || f > 7 {
			continue
		}
		fileMask := board.FileMask[f]
		for _, bsq := range (enemyPawns & fileMask).Squares() {
			if isAhead(bsq) {
				return false
			}
		}
		if df == 0 {
			for _, bsq := range (ownPawns & fileMask).Squares() {
				if bsq != sq && isAhead(bsq) {
					return false
				}
			}
		}
	}
	return true
}

// evaluateRooksOnFiles bonuses a rook on a file with no own pawns (semi-open)
// and an extra bonus if also no enemy pawns (fully open).
func evaluateRooksOnFiles(pos *board.Position, c board.Color) (mg, eg int) {
	ownPawns := pos.Pieces[c][board.Pawn]
	enemyPawns := pos.Pieces[c.Other()][board.Pawn]

	pos.Pieces[c][board.Rook].ForEach(func(sq board.Square) {
		fileMask := board.FileMask[sq.File()]
		hasOwnPawn := (ownPawns & fileMask) != 0
		hasEnemyPawn := (enemyPawns & fileMask) != 0
		switch {
		case !hasOwnPawn && !hasEnemyPawn:
			mg += rookOpenFileBonus
			eg += rookOpenFileBonus
		case !hasOwnPawn:
			mg += rookSemiOpenBonus
			eg += rookSemiOpenBonus
		}
	})
	return mg, eg
}
