package search

// NodeType distinguishes the three node roles spec.md §4.7 names: the
// search root (explored with the window the iterative-deepening driver
// passes in — full width at shallow depths, an aspiration window later —
// and records the move the driver ultimately plays), principal-variation nodes (full window, TT
// cutoffs suppressed to keep the PV line accurate), and everything else
// (null-window, TT cutoffs enabled).
type NodeType int

const (
	NodeRoot NodeType = iota
	NodePV
	NodeNonPV
)
