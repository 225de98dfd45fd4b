// Package search implements the negamax/PVS search driver: aspiration-
// windowed iterative deepening over a negamax core with reverse futility
// pruning, null-move pruning, late-move reductions/pruning, futility
// pruning, and check extensions, plus the lazy-SMP concurrency wrapper
// that fans the same root out across worker goroutines sharing one
// transposition table.
//
// Grounded on hailam-chessplay/internal/engine/worker.go's negamax shape
// and node-counting/stop-polling cadence, deliberately scoped down to the
// pruning techniques spec.md §4.7/§4.8 names — see DESIGN.md for the list
// of the teacher's additional Stockfish-derived techniques this driver
// does not carry.
package search

// MaxPly bounds search recursion depth and the per-worker killer/history
// tables' ply dimension.
const MaxPly = 128

// MaxLMPDepth bounds the late-move-pruning quiet-count table.
const MaxLMPDepth = 8

// Params is the flat, comparable tunable-constant block from spec.md §4.8.
// Loadable from a TOML file via internal/search.LoadParams, grounded on
// FrankyGo's config loader (see SPEC_FULL.md DOMAIN STACK), so the knobs
// below are tunable without recompiling.
type Params struct {
	LMRMinDepth   int     `toml:"lmr_min_depth"`
	LMRBase       float64 `toml:"lmr_base"`
	LMRDiv        float64 `toml:"lmr_div"`
	LMRHistoryDiv float64 `toml:"lmr_history_div"`

	NMPBaseReduction      int `toml:"nmp_base_reduction"`
	NMPMarginDiv          int `toml:"nmp_margin_div"`
	NMPMarginMaxReduction int `toml:"nmp_margin_max_reduction"`

	LMPQuietsToCheck [MaxLMPDepth]int `toml:"lmp_quiets_to_check"`

	FPMargins [3]int `toml:"fp_margins"` // indices 1, 2 used (depth 1, 2)

	RFPBaseMargin int `toml:"rfp_base_margin"`
	RFPMaxDepth   int `toml:"rfp_max_depth"`
}

// DefaultParams returns the reference tuning used when no config file is
// supplied.
func DefaultParams() Params {
	return Params{
		LMRMinDepth:   3,
		LMRBase:       0.75,
		LMRDiv:        2.25,
		LMRHistoryDiv: 4000,

		NMPBaseReduction:      3,
		NMPMarginDiv:          200,
		NMPMarginMaxReduction: 3,

		LMPQuietsToCheck: [MaxLMPDepth]int{0, 5, 8, 12, 18, 25, 32, 40},

		FPMargins: [3]int{0, 200, 325},

		RFPBaseMargin: 80,
		RFPMaxDepth:   6,
	}
}
