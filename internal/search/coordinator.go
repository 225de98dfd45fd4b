package search

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/kestrelchess/kestrel/internal/board"
	"github.com/kestrelchess/kestrel/internal/nnue"
	"github.com/kestrelchess/kestrel/internal/position"
	"github.com/kestrelchess/kestrel/internal/tt"
)

// SharedState is the read-only state every lazy-SMP worker searches
// against: the shared transposition table, the tuned parameter block,
// and the evaluator. Per spec.md §5, workers divide no work explicitly —
// they search the same root independently and diverge purely through
// timing jitter on the shared table, the oldest working definition of
// lazy SMP.
type SharedState struct {
	Table     *tt.Table
	Params    Params
	Evaluator Evaluator
	Net       *nnue.Network

	// GameHistory holds the Zobrist hashes of positions played before the
	// search root (oldest first), so repetition detection can see draws
	// that straddle the root. Nil for a search with no prior game history.
	GameHistory []uint64
}

// Coordinator fans a single root search out across Threads goroutines
// sharing one SharedState, grounded on
// hailam-chessplay/internal/engine/engine.go's worker-pool launch, with
// errgroup in place of the teacher's sync.WaitGroup, trimmed of the
// teacher's book/tablebase probing.
type Coordinator struct {
	Shared  SharedState
	Threads int
}

// NewCoordinator builds a coordinator for the given thread count (clamped
// to at least 1).
func NewCoordinator(shared SharedState, threads int) *Coordinator {
	if threads < 1 {
		threads = 1
	}
	return &Coordinator{Shared: shared, Threads: threads}
}

// CoordinatorResult is the outcome of a fanned-out search: the result from
// whichever worker's deepest completed iteration is most authoritative
// (the main thread's, by convention — its history/killer tables were the
// only ones the caller's onIteration callback observed depth-by-depth),
// plus the total node count folded across every worker.
type CoordinatorResult struct {
	Result Result
	Nodes  uint64
}

// Search runs a lazy-SMP search from root to maxDepth, honoring ctx
// cancellation by flipping the shared stop flag. onIteration is invoked
// only with the main thread's (worker 0's) iterations, matching a UCI
// front end's expectation of one info stream per search.
func (c *Coordinator) Search(ctx context.Context, root *position.Position, maxDepth int, onIteration func(Result)) CoordinatorResult {
	stop := NewStopFlag()

	group, gctx := errgroup.WithContext(ctx)
	results := make([]Result, c.Threads)
	nodeCounts := make([]uint64, c.Threads)

	for i := 1; i < c.Threads; i++ {
		id := i
		group.Go(func() error {
			w := NewWorker(id, c.Shared.Table, c.Shared.Params, c.Shared.Evaluator, c.Shared.Net, stop)
			w.SeedHistory(c.Shared.GameHistory)
			results[id] = w.IterativeDeepen(root, maxDepth, nil)
			nodeCounts[id] = w.nodes
			return nil
		})
	}

	mainDone := make(chan struct{})
	group.Go(func() error {
		select {
		case <-gctx.Done():
			stop.Store(true)
		case <-mainDone:
		}
		return nil
	})

	main := NewWorker(0, c.Shared.Table, c.Shared.Params, c.Shared.Evaluator, c.Shared.Net, stop)
	main.SeedHistory(c.Shared.GameHistory)
	results[0] = main.IterativeDeepen(root, maxDepth, onIteration)
	nodeCounts[0] = main.nodes
	stop.Store(true)
	close(mainDone)

	_ = group.Wait()

	var total uint64
	for _, n := range nodeCounts {
		total += n
	}

	return CoordinatorResult{Result: results[0], Nodes: total}
}

// BestMove is a convenience wrapper returning only the move to play.
func (c *Coordinator) BestMove(ctx context.Context, root *position.Position, maxDepth int) board.Move {
	return c.Search(ctx, root, maxDepth, nil).Result.BestMove()
}
