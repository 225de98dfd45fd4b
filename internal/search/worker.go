package search

import (
	"math"

	"go.uber.org/atomic"

	"github.com/kestrelchess/kestrel/internal/board"
	"github.com/kestrelchess/kestrel/internal/eval"
	"github.com/kestrelchess/kestrel/internal/history"
	"github.com/kestrelchess/kestrel/internal/movepick"
	"github.com/kestrelchess/kestrel/internal/nnue"
	"github.com/kestrelchess/kestrel/internal/oracle"
	"github.com/kestrelchess/kestrel/internal/position"
	"github.com/kestrelchess/kestrel/internal/tt"
)

// Worker holds one lazy-SMP search thread's mutable state: its own
// history/killer/countermove tables (deliberately not shared across
// threads, per spec.md §5), its node counter and seldepth, and the
// local portion of the repetition-detection hash stack. The
// transposition table, stop flag, and search params are shared with
// siblings via pointers, grounded on
// hailam-chessplay/internal/engine/worker.go's split between
// per-thread and shared state.
type Worker struct {
	ID int

	tt        *tt.Table
	params    Params
	evaluator Evaluator
	net       *nnue.Network
	stop      *atomic.Bool

	history   history.Table
	killers   history.Killers
	counters  history.Countermoves

	// histStack records the zobrist hash seen at every ply of the game,
	// with indices [0, base) holding the shared game history supplied
	// at search start and [base, base+MaxPly) holding this search's own
	// path. Repetition checks only ever look backwards from the current
	// index, so sharing the array across branches of the recursion is
	// safe: a branch always overwrites the slots it owns before
	// recursing deeper.
	histStack [MaxPly * 2]uint64
	base      int

	nodes    uint64
	seldepth int

	rootBestMove  board.Move
	rootBestScore eval.Eval
}

// NewWorker constructs a worker sharing table, params, evaluator, net and
// stop flag with its siblings.
func NewWorker(id int, table *tt.Table, params Params, evaluator Evaluator, net *nnue.Network, stop *atomic.Bool) *Worker {
	return &Worker{ID: id, tt: table, params: params, evaluator: evaluator, net: net, stop: stop}
}

// SeedHistory loads the shared game history (the position hashes that led
// to the search root) into this worker's repetition-detection stack, so a
// repetition that straddles the search root and earlier game moves is
// still caught. Truncates to the stack's capacity if the game is unusually
// long, keeping only the most recent plies (those closest to the root,
// which are all a bounded repetition window can reach anyway).
func (w *Worker) SeedHistory(hashes []uint64) {
	if len(hashes) > MaxPly {
		hashes = hashes[len(hashes)-MaxPly:]
	}
	w.base = len(hashes)
	copy(w.histStack[:], hashes)
}

// quietRecord is a quiet move tried at this node, kept so a beta cutoff
// can apply the gravity-formula history penalty to every quiet that
// preceded the move that actually caused the cutoff.
type quietRecord struct {
	piece board.PieceType
	to    board.Square
}

func (w *Worker) isRepetition(ply, halfMoveClock int) bool {
	idx := w.base + ply
	cur := w.histStack[idx]
	limit := halfMoveClock
	for steps := 2; steps <= limit && steps <= idx; steps += 2 {
		if w.histStack[idx-steps] == cur {
			return true
		}
	}
	return false
}

// negamax is the PVS core described in spec.md §4.7, numbered steps
// inlined as comments in call order.
func (w *Worker) negamax(pos *position.Position, depth, ply int, window eval.Window, nodeType NodeType, prevMove board.Move, prevPiece board.PieceType) (eval.Eval, bool) {
	// 0. bounds check: check extensions can keep depth positive across a
	// long run of consecutive checks, so depth alone never bounds
	// recursion. Without this, ply outgrows histStack's backing array
	// (w.base+ply can reach MaxPly*2) and quiescence — the only other
	// ply-bounded exit — is never reached to stop it.
	if ply >= MaxPly-1 {
		return w.evaluator.Evaluate(pos), false
	}

	// 1. record this node's position in the repetition-detection stack.
	w.histStack[w.base+ply] = pos.Board.Hash

	// 2. seldepth tracking.
	if ply > w.seldepth {
		w.seldepth = ply
	}

	// 3. check extension.
	inCheck := pos.Board.InCheck()
	if inCheck {
		depth++
	}

	// 4. drop to quiescence at the search frontier.
	if depth <= 0 {
		return w.quiescence(pos, ply, window)
	}

	// 5. node accounting and cooperative stop polling.
	w.nodes++
	if w.nodes&4095 == 0 && w.stop.Load() {
		return eval.ZERO, true
	}

	// 6. draw detection (skipped at the root: the root always needs a move).
	if ply > 0 {
		if w.isRepetition(ply, pos.Board.HalfMoveClock) {
			return eval.DRAW, false
		}
		if pos.Board.IsCheckmate() {
			return eval.MatedIn(ply), false
		}
		if pos.Board.IsStalemate() || pos.Board.IsDraw() {
			return eval.DRAW, false
		}
		if oracle.IsKnownDraw(pos.Board) {
			return eval.DRAW, false
		}
	}

	original := window

	// 7. transposition probe.
	entry, hit := w.tt.Get(pos.Board.Hash, ply)
	ttMove := board.NoMove
	if hit {
		ttMove = entry.Move
		if nodeType == NodeNonPV && int(entry.Depth) >= depth {
			switch entry.Flag {
			case tt.Exact:
				return entry.Score, false
			case tt.LowerBound:
				if entry.Score >= window.Beta {
					return entry.Score, false
				}
			case tt.UpperBound:
				if entry.Score <= window.Alpha {
					return entry.Score, false
				}
			}
		}
	}

	// 8. static evaluation, preferring a non-mate TT score over a fresh call.
	var staticEval eval.Eval
	if hit && !entry.Score.IsMateScore() {
		staticEval = entry.Score
	} else {
		staticEval = w.evaluator.Evaluate(pos)
	}

	// 9. reverse futility pruning.
	if nodeType == NodeNonPV && !inCheck && depth <= w.params.RFPMaxDepth {
		margin := eval.Centipawn(w.params.RFPBaseMargin * depth)
		if estimate := staticEval.SaturatingSub(margin); estimate >= window.Beta {
			return estimate, false
		}
	}

	// 10. null-move pruning.
	if nodeType == NodeNonPV && !inCheck && staticEval >= window.Beta && pos.Board.HasNonPawnMaterial() {
		reduction := w.params.NMPBaseReduction
		if extra := int(staticEval-window.Beta) / w.params.NMPMarginDiv; extra > 0 {
			if extra > w.params.NMPMarginMaxReduction {
				extra = w.params.NMPMarginMaxReduction
			}
			reduction += extra
		}
		reducedDepth := depth - 1 - reduction
		if reducedDepth < 0 {
			reducedDepth = 0
		}
		child := pos.MakeNullMove()
		nullWindow := eval.Window{Alpha: window.Beta.Negate().SaturatingSub(eval.Centipawn(1)), Beta: window.Beta.Negate()}
		score, aborted := w.negamax(child, reducedDepth, ply+1, nullWindow, NodeNonPV, board.NoMove, board.NoPieceType)
		if aborted {
			return eval.ZERO, true
		}
		score = score.Negate()
		if score >= window.Beta {
			return score, false
		}
	}

	// 11. staged move picker, seeded with the TT move and this ply's killers.
	picker := movepick.New(pos.Board, ttMove, ply, &w.killers, &w.history, &w.counters, prevPiece, prevMove.To())

	// 12. futility-pruning gate: only meaningful at shallow depths.
	futile := false
	if depth == 1 || depth == 2 {
		if staticEval.SaturatingAdd(eval.Centipawn(w.params.FPMargins[depth])) <= window.Alpha {
			futile = true
		}
	}

	// 13. move iteration.
	bestScore := eval.MIN
	bestMove := board.NoMove
	cur := window
	quietCount := 0
	moveIndex := 0
	var triedQuiets []quietRecord

	for {
		m, ok := picker.Next()
		if !ok {
			break
		}

		isQuiet := !m.IsCapture(pos.Board) && !m.IsPromotion()
		if isQuiet {
			quietCount++
			if depth < MaxLMPDepth && quietCount > w.params.LMPQuietsToCheck[depth] {
				continue
			}
		}

		mover := pos.Board.PieceAt(m.From()).Type()
		child := pos.MakeMove(m, w.net)
		w.tt.Prefetch(child.Board.Hash)
		givesCheck := child.Board.InCheck()

		if isQuiet && !givesCheck && !inCheck && bestMove != board.NoMove && futile {
			continue
		}

		var childWindow eval.Window
		if moveIndex == 0 {
			childWindow = cur.Negate()
		} else {
			childWindow = cur.NullWindowBeta().Negate()
		}

		reduction := 0
		if depth >= w.params.LMRMinDepth && isQuiet && !inCheck && !givesCheck {
			h := w.history.Score(pos.Board.SideToMove, mover, m.To())
			r := w.params.LMRBase + math.Log(float64(depth))*math.Log(float64(moveIndex+1))/w.params.LMRDiv
			r -= float64(h) / w.params.LMRHistoryDiv
			if r > 0 {
				reduction = int(r)
			}
		}
		reducedDepth := depth - 1 - reduction
		if reducedDepth < 0 {
			reducedDepth = 0
		}

		childNodeType := NodeNonPV
		if moveIndex == 0 && nodeType != NodeNonPV {
			childNodeType = NodePV
		}

		score, aborted := w.negamax(child, reducedDepth, ply+1, childWindow, childNodeType, m, mover)
		if aborted {
			return eval.ZERO, true
		}
		score = score.Negate()

		if (moveIndex != 0 || reduction != 0) && cur.Contains(score) {
			researchType := NodeNonPV
			if nodeType != NodeNonPV {
				researchType = NodePV
			}
			score2, aborted := w.negamax(child, depth-1, ply+1, cur.Negate(), researchType, m, mover)
			if aborted {
				return eval.ZERO, true
			}
			score = score2.Negate()
		}

		if isQuiet {
			triedQuiets = append(triedQuiets, quietRecord{piece: mover, to: m.To()})
		}

		if score > bestScore {
			bestScore = score
			bestMove = m
		}
		cur = cur.NarrowAlpha(bestScore)
		if cur.Empty() {
			if isQuiet {
				w.killers.Add(ply, m)
				w.history.Bonus(pos.Board.SideToMove, mover, m.To(), depth)
				for _, tq := range triedQuiets[:len(triedQuiets)-1] {
					w.history.Penalty(pos.Board.SideToMove, tq.piece, tq.to, depth)
				}
				if prevMove != board.NoMove {
					w.counters.Update(pos.Board.SideToMove, prevPiece, prevMove.To(), m)
				}
			}
			break
		}
		moveIndex++
	}

	// 14. store the result, classifying the bound against the window this
	// node was actually asked to resolve.
	var flag tt.Flag
	switch {
	case bestScore > original.Alpha && bestScore < original.Beta:
		flag = tt.Exact
	case bestScore >= original.Beta:
		flag = tt.LowerBound
	default:
		flag = tt.UpperBound
	}
	w.tt.Set(pos.Board.Hash, ply, tt.Entry{Flag: flag, Score: bestScore, Depth: int8(depth), Move: bestMove})

	// 15. at the root, record the move the driver will actually play.
	if nodeType == NodeRoot {
		w.rootBestMove = bestMove
		w.rootBestScore = bestScore
	}

	return bestScore, false
}

// quiescence resolves captures at the search frontier
// per spec.md §4.7's quiescence paragraph: stand-pat, no history or
// repetition bookkeeping, and a picker that only yields SEE-nonnegative
// captures.
func (w *Worker) quiescence(pos *position.Position, ply int, window eval.Window) (eval.Eval, bool) {
	w.nodes++
	if w.nodes&4095 == 0 && w.stop.Load() {
		return eval.ZERO, true
	}
	if ply >= MaxPly-1 {
		return w.evaluator.Evaluate(pos), false
	}
	if pos.Board.IsCheckmate() {
		return eval.MatedIn(ply), false
	}
	if pos.Board.IsStalemate() || pos.Board.IsDraw() || oracle.IsKnownDraw(pos.Board) {
		return eval.DRAW, false
	}

	standPat := w.evaluator.Evaluate(pos)
	best := standPat
	cur := window.NarrowAlpha(best)
	if cur.Empty() {
		return best, false
	}

	picker := movepick.NewQuiescence(pos.Board, &w.history)
	for {
		m, ok := picker.Next()
		if !ok {
			break
		}
		child := pos.MakeMove(m, w.net)
		score, aborted := w.quiescence(child, ply+1, cur.Negate())
		if aborted {
			return eval.ZERO, true
		}
		score = score.Negate()
		if score > best {
			best = score
			cur = cur.NarrowAlpha(best)
			if cur.Empty() {
				break
			}
		}
	}
	return best, false
}
