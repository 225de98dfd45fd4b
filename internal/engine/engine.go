// Package engine is the top-level facade wiring internal/board,
// internal/search, internal/eval and internal/tt together behind the
// small surface a UCI front end needs: construct once, load/select an
// evaluator, then Search repeatedly against whatever position the front
// end hands it.
//
// Grounded on hailam-chessplay/internal/engine/engine.go's Engine type,
// trimmed of its opening-book and tablebase probing and its GUI-facing
// Difficulty/SearchMultiPV surface (spec.md's Non-goals exclude all
// three) — see DESIGN.md.
package engine

import (
	"context"
	"fmt"
	"log"

	"github.com/kestrelchess/kestrel/internal/board"
	"github.com/kestrelchess/kestrel/internal/nnue"
	"github.com/kestrelchess/kestrel/internal/position"
	"github.com/kestrelchess/kestrel/internal/search"
	"github.com/kestrelchess/kestrel/internal/tt"
)

// DefaultHashMB is the transposition table size used when an engine is
// built without an explicit Hash option (a UCI front end typically
// overrides this via `setoption name Hash value N` before `isready`).
const DefaultHashMB = 16

// Engine owns the long-lived search state: the transposition table, the
// tuned parameter block, the selected evaluator, and the NNUE network
// (if any) — everything internal/search.SharedState needs to be handed a
// root position and asked for a move.
type Engine struct {
	table       *tt.Table
	params      search.Params
	weightCache *nnue.WeightCache
	net         *nnue.Network
	netLoaded   bool
	useNNUE     bool
	threads     int
	hashMB      int

	gameHistory []uint64

	// OnInfo, if set, is invoked with every completed iteration of the
	// main search thread — a UCI front end wires this to its "info" line
	// writer.
	OnInfo func(search.Result)

	cancel context.CancelFunc
}

// NewEngine builds an engine with a hashMB-sized transposition table and
// threads lazy-SMP workers. A zero or negative hashMB falls back to
// DefaultHashMB; a zero or negative threads runs single-threaded.
func NewEngine(hashMB, threads int) (*Engine, error) {
	if hashMB <= 0 {
		hashMB = DefaultHashMB
	}
	table, err := tt.New(hashMB << 20)
	if err != nil {
		return nil, fmt.Errorf("engine: building %d MB transposition table: %w", hashMB, err)
	}
	weightCache, err := nnue.NewWeightCache()
	if err != nil {
		return nil, fmt.Errorf("engine: building NNUE weight cache: %w", err)
	}

	log.Printf("[engine] table=%dMB threads=%d", hashMB, threads)
	return &Engine{
		table:       table,
		params:      search.DefaultParams(),
		weightCache: weightCache,
		net:         nnue.InitRandom(1),
		threads:     threads,
		hashMB:      hashMB,
	}, nil
}

// SetThreads changes the lazy-SMP worker count for subsequent searches.
func (e *Engine) SetThreads(n int) {
	if n < 1 {
		n = 1
	}
	e.threads = n
}

// SetHashSize rebuilds the transposition table at the given size in MB,
// discarding any prior table contents (matches the teacher's `setoption
// name Hash` handling: a resize always starts from an empty table).
func (e *Engine) SetHashSize(hashMB int) error {
	if hashMB <= 0 {
		hashMB = DefaultHashMB
	}
	table, err := tt.New(hashMB << 20)
	if err != nil {
		return fmt.Errorf("engine: resizing transposition table to %d MB: %w", hashMB, err)
	}
	e.table = table
	e.hashMB = hashMB
	return nil
}

// SetParams replaces the tuned search parameter block wholesale, e.g.
// loaded via search.LoadParams from a config file.
func (e *Engine) SetParams(p search.Params) {
	e.params = p
}

// LoadNNUE loads (or retrieves from cache) the quantized network at path
// and makes it the active network for NNUE evaluation. Does not itself
// enable NNUE evaluation; call SetUseNNUE(true) to switch over.
func (e *Engine) LoadNNUE(path string) error {
	if cached, ok := e.weightCache.Get(path); ok {
		e.net = cached
		e.netLoaded = true
		log.Printf("[engine] NNUE network %s served from cache", path)
		return nil
	}

	log.Printf("[engine] loading NNUE network from %s", path)
	net, err := nnue.Load(path)
	if err != nil {
		return fmt.Errorf("engine: loading NNUE network: %w", err)
	}
	e.weightCache.Put(path, net)
	e.net = net
	e.netLoaded = true
	return nil
}

// SetUseNNUE switches the evaluator between the NNUE network (if one has
// been loaded) and the hand-crafted tapered evaluator. Requesting NNUE
// with no network loaded logs a warning and keeps the hand-crafted
// evaluator active, rather than silently evaluating against a network of
// random weights.
func (e *Engine) SetUseNNUE(use bool) {
	if use && !e.HasNNUE() {
		log.Printf("[engine] SetUseNNUE(true) requested but no network is loaded; staying on hand-crafted eval")
		use = false
	}
	e.useNNUE = use
	if use {
		log.Printf("[engine] evaluator: NNUE")
	} else {
		log.Printf("[engine] evaluator: hand-crafted")
	}
}

// UseNNUE reports whether NNUE evaluation is currently selected.
func (e *Engine) UseNNUE() bool { return e.useNNUE }

// HasNNUE reports whether a real (non-placeholder) network has been
// loaded via LoadNNUE.
func (e *Engine) HasNNUE() bool { return e.netLoaded }

func (e *Engine) evaluator() search.Evaluator {
	if e.useNNUE && e.net != nil {
		return search.NNUEEvaluator{Net: e.net}
	}
	return search.HandCraftedEvaluator{}
}

// SetPositionHistory records the Zobrist hashes of every position played
// before the search root (oldest first), so a root-straddling threefold
// repetition is still detected. Call this before Search with the game's
// move history.
func (e *Engine) SetPositionHistory(hashes []uint64) {
	e.gameHistory = append(e.gameHistory[:0], hashes...)
}

// Clear wipes the transposition table, discarding all cached search
// state. Equivalent to the UCI `ucinewgame` command.
func (e *Engine) Clear() {
	e.table.Clear()
}

// Stop cancels any in-flight Search call.
func (e *Engine) Stop() {
	if e.cancel != nil {
		e.cancel()
	}
}

// HashFull reports the transposition table's approximate per-mille
// occupancy, for a UCI `info hashfull` field.
func (e *Engine) HashFull() int {
	return e.table.ApproxSizePermill()
}

// Search runs a lazy-SMP search from root to maxDepth (0 means
// search.MaxPly - 1) and returns the final iteration's result. ctx
// cancellation (including a prior Stop call racing a fresh Search) stops
// the search early; the deepest iteration completed before cancellation
// is still returned.
func (e *Engine) Search(ctx context.Context, root *board.Position, maxDepth int) search.Result {
	if maxDepth <= 0 || maxDepth >= search.MaxPly {
		maxDepth = search.MaxPly - 1
	}

	searchCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	defer cancel()

	coord := search.NewCoordinator(search.SharedState{
		Table:       e.table,
		Params:      e.params,
		Evaluator:   e.evaluator(),
		Net:         e.net,
		GameHistory: e.gameHistory,
	}, e.threads)

	rootPos := position.New(root, e.net)
	result := coord.Search(searchCtx, rootPos, maxDepth, e.OnInfo)
	return result.Result
}

// BestMove is a convenience wrapper around Search returning only the
// move to play.
func (e *Engine) BestMove(ctx context.Context, root *board.Position, maxDepth int) board.Move {
	return e.Search(ctx, root, maxDepth).BestMove()
}

// Evaluate returns the engine's static evaluation of root under whichever
// evaluator is currently selected, without searching.
func (e *Engine) Evaluate(root *board.Position) int {
	pos := position.New(root, e.net)
	return e.evaluator().Evaluate(pos).Centipawns()
}

// Perft counts leaf nodes at depth for move-generation testing/debugging.
func (e *Engine) Perft(root *board.Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	moves := root.GenerateLegalMoves()
	if depth == 1 {
		return uint64(moves.Len())
	}
	var nodes uint64
	for i := 0; i < moves.Len(); i++ {
		child := root.Copy()
		child.MakeMove(moves.Get(i))
		nodes += e.Perft(child, depth-1)
	}
	return nodes
}
