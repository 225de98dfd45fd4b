// Package see implements Static Exchange Evaluation: simulating the full,
// optimally-ordered sequence of recaptures on a square to estimate a
// capture's net material result.
package see

import "github.com/kestrelchess/kestrel/internal/board"

// pieceValues mirrors board.PieceValue but with King valued at zero — a
// king "capture" never actually happens in a legal position, and SEE's
// swap loop treats the king as a sentinel attacker of last resort.
var pieceValues = [7]int{100, 320, 330, 500, 900, 0, 0}

func value(pt board.PieceType) int {
	if pt > board.King {
		return 0
	}
	return pieceValues[pt]
}

// Eval computes the static exchange evaluation of m: the net material
// result (in centipawns, from the mover's perspective) after a full
// sequence of optimally-ordered recaptures on m's destination square.
func Eval(pos *board.Position, m board.Move) int {
	from, to := m.From(), m.To()
	attacker := pos.PieceAt(from)
	if attacker == board.NoPiece {
		return 0
	}

	var gained int
	if m.IsEnPassant() {
		gained = value(board.Pawn)
	} else {
		victim := pos.PieceAt(to)
		if victim == board.NoPiece {
			return 0
		}
		gained = value(victim.Type())
	}
	if m.IsPromotion() {
		gained += value(m.Promotion()) - value(board.Pawn)
	}

	return swap(pos, to, from, attacker, gained)
}

// AtLeast reports whether Eval(pos, m) >= t. It always runs the full swap
// simulation through Eval; it does not stop early once the threshold is
// decided.
func AtLeast(pos *board.Position, m board.Move, t int) bool {
	return Eval(pos, m) >= t
}

// swap runs the iterative least-valuable-attacker recapture sequence
// starting on target, with excludeFrom (the first attacker's origin square)
// already vacated, and collapses the resulting gain stack by the negamax
// rule: each side may decline to continue the exchange, clamping its
// "loss" to zero, except the very first capture which has already happened.
func swap(pos *board.Position, target, excludeFrom board.Square, firstAttacker board.Piece, initialGain int) int {
	var gain [32]int
	d := 0
	gain[d] = initialGain

	occupied := pos.AllOccupied &^ board.SquareBB(excludeFrom)
	attackerValue := value(firstAttacker.Type())
	side := firstAttacker.Color().Other()

	for {
		attackerSq, attackerPiece := leastValuableAttacker(pos, target, side, occupied)
		if attackerSq == board.NoSquare {
			break
		}

		d++
		gain[d] = attackerValue - gain[d-1]
		if max(-gain[d-1], gain[d]) < 0 {
			// Continuing the exchange can't help this side; stop before
			// consuming this attacker.
			d--
			break
		}

		if attackerPiece.Type() == board.King {
			// A king may not recapture into a square still defended by
			// the other side — forbid this capture and discard it.
			defenderSq, _ := leastValuableAttacker(pos, target, side.Other(), occupied&^board.SquareBB(attackerSq))
			if defenderSq != board.NoSquare {
				d--
				break
			}
		}

		occupied &^= board.SquareBB(attackerSq)
		attackerValue = value(attackerPiece.Type())
		side = side.Other()
	}

	for d > 0 {
		d--
		gain[d] = -max(-gain[d], gain[d+1])
	}
	return gain[0]
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// leastValuableAttacker scans, in ascending value order, for the cheapest
// piece of side that attacks target given the current (possibly reduced)
// occupancy, revealing x-rays as blockers are removed.
func leastValuableAttacker(pos *board.Position, target board.Square, side board.Color, occupied board.Bitboard) (board.Square, board.Piece) {
	// Pawns: a pawn of `side` attacks target iff target is among the
	// squares a pawn of the opposite color on target would attack from
	// (i.e. reverse the attack direction).
	pawns := pos.Pieces[side][board.Pawn] & occupied
	if attackers := board.PawnAttacks(target, side.Other()) & pawns; attackers != 0 {
		sq := attackers.LSB()
		return sq, board.NewPiece(board.Pawn, side)
	}

	knights := pos.Pieces[side][board.Knight] & occupied
	if attackers := board.KnightAttacks(target) & knights; attackers != 0 {
		sq := attackers.LSB()
		return sq, board.NewPiece(board.Knight, side)
	}

	bishops := pos.Pieces[side][board.Bishop] & occupied
	bishopAttacks := board.BishopAttacks(target, occupied)
	if attackers := bishopAttacks & bishops; attackers != 0 {
		sq := attackers.LSB()
		return sq, board.NewPiece(board.Bishop, side)
	}

	rooks := pos.Pieces[side][board.Rook] & occupied
	rookAttacks := board.RookAttacks(target, occupied)
	if attackers := rookAttacks & rooks; attackers != 0 {
		sq := attackers.LSB()
		return sq, board.NewPiece(board.Rook, side)
	}

	queens := pos.Pieces[side][board.Queen] & occupied
	if attackers := (bishopAttacks | rookAttacks) & queens; attackers != 0 {
		sq := attackers.LSB()
		return sq, board.NewPiece(board.Queen, side)
	}

	king := pos.Pieces[side][board.King] & occupied
	if attackers := board.KingAttacks(target) & king; attackers != 0 {
		sq := attackers.LSB()
		return sq, board.NewPiece(board.King, side)
	}

	return board.NoSquare, board.NoPiece
}
