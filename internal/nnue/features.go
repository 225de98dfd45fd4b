package nnue

import "github.com/kestrelchess/kestrel/internal/board"

// ChangedFeatures enumerates the feature deltas a single move produces,
// grounded on hailam-chessplay/internal/nnue/features.go's
// GetChangedFeatures: at most three (color, piece) pairs are touched —
// the mover, a possible victim (including en passant), and a possible
// promotion replacement. pos is the position *before* the move is played;
// captured is the piece that occupied m.To() prior to the move (NoPiece if
// none), which the caller already has on hand from its own move-making
// (board.Position.MakeMove's UndoInfo).
func ChangedFeatures(pos *board.Position, m board.Move, captured board.Piece) []FeatureDelta {
	mover := pos.PieceAt(m.From())
	us := mover.Color()
	pt := mover.Type()

	deltas := make([]FeatureDelta, 0, 4)
	deltas = append(deltas, FeatureDelta{Color: us, Piece: pt, Sq: m.From(), Add: false})

	switch {
	case m.IsCastling():
		deltas = append(deltas, FeatureDelta{Color: us, Piece: board.King, Sq: m.To(), Add: true})
		rookFrom, rookTo := castlingRookSquares(us, m.To())
		deltas = append(deltas,
			FeatureDelta{Color: us, Piece: board.Rook, Sq: rookFrom, Add: false},
			FeatureDelta{Color: us, Piece: board.Rook, Sq: rookTo, Add: true},
		)

	case m.IsEnPassant():
		deltas = append(deltas, FeatureDelta{Color: us, Piece: pt, Sq: m.To(), Add: true})
		capSq := enPassantCapturedSquare(m.To(), us)
		deltas = append(deltas, FeatureDelta{Color: us.Other(), Piece: board.Pawn, Sq: capSq, Add: false})

	case m.IsPromotion():
		if captured != board.NoPiece {
			deltas = append(deltas, FeatureDelta{Color: captured.Color(), Piece: captured.Type(), Sq: m.To(), Add: false})
		}
		deltas = append(deltas, FeatureDelta{Color: us, Piece: m.Promotion(), Sq: m.To(), Add: true})

	default:
		if captured != board.NoPiece {
			deltas = append(deltas, FeatureDelta{Color: captured.Color(), Piece: captured.Type(), Sq: m.To(), Add: false})
		}
		deltas = append(deltas, FeatureDelta{Color: us, Piece: pt, Sq: m.To(), Add: true})
	}

	return deltas
}

// castlingRookSquares returns the rook's (from, to) squares for the
// castling move whose king lands on kingTo.
func castlingRookSquares(us board.Color, kingTo board.Square) (from, to board.Square) {
	if us == board.White {
		if kingTo == board.G1 {
			return board.H1, board.F1
		}
		return board.A1, board.D1
	}
	if kingTo == board.G8 {
		return board.H8, board.F8
	}
	return board.A8, board.D8
}

// enPassantCapturedSquare returns the square of the pawn captured en
// passant, one rank behind the destination square relative to the mover.
func enPassantCapturedSquare(to board.Square, mover board.Color) board.Square {
	if mover == board.White {
		return board.NewSquare(to.File(), to.Rank()-1)
	}
	return board.NewSquare(to.File(), to.Rank()+1)
}
