package search

import (
	"context"
	"time"

	"github.com/chessforge/chessforge/pkg/board"
	"github.com/seekerror/stdlib/pkg/util/contextx"
	"github.com/seekerror/stdlib/pkg/util/iox"
)

// MaxDepth bounds the iterative-deepening ply cap (also bounding PV storage
// growth, which is at most one move per ply).
const MaxDepth = 100

// SearchLimits selects the termination condition for a search. Exactly one
// of Depth, MoveTime or Nodes is expected to be set, or a clock
// (WhiteTime/BlackTime), or none of the above for an infinite search
// governed only by an external stop flag.
type SearchLimits struct {
	Depth    int           // 0 = unset
	MoveTime time.Duration // 0 = unset
	Nodes    uint64        // 0 = unset

	WhiteTime, BlackTime time.Duration
	WhiteInc, BlackInc   time.Duration
	MovesToGo            int

	Infinite bool
}

// SearchResult is the outcome of a (possibly stopped) search.
type SearchResult struct {
	BestMove    board.Move
	HasBestMove bool
	Score       board.Score
	Depth       int
	Nodes       uint64
	Stopped     bool
}

// ProgressFunc is invoked synchronously on the search goroutine after each
// depth completes. It must not block or call back into the engine.
type ProgressFunc func(depth int, score board.Score, nodes uint64, pv []board.Move, elapsed time.Duration)

// Search runs an uninterruptible iterative-deepening search to the limits
// given.
func Search(pos *board.Position, limits SearchLimits, tt *Table) SearchResult {
	return SearchWithStop(pos, limits, nil, tt, nil)
}

// SearchWithCallback is Search with a progress callback invoked on every
// completed depth.
func SearchWithCallback(pos *board.Position, limits SearchLimits, tt *Table, callback ProgressFunc) SearchResult {
	return SearchWithStop(pos, limits, callback, tt, nil)
}

// SearchWithStop is the full form: callers share quit with the search to
// cancel it cooperatively (e.g. on a UCI "stop" command); quit may be nil,
// in which case only the limits (depth/nodes/deadline) can end the search.
func SearchWithStop(pos *board.Position, limits SearchLimits, callback ProgressFunc, tt *Table, quit iox.AsyncCloser) SearchResult {
	ctx := context.Background()
	if deadline, ok := Deadline(limits, pos.Turn(), pos.FullmoveNumber(), time.Now()); ok {
		wctx, cancel := context.WithDeadline(ctx, deadline)
		defer cancel()
		ctx = wctx
	}
	if quit != nil {
		wctx, cancel := contextx.WithQuitCancel(ctx, quit.Closed())
		defer cancel()
		ctx = wctx
	}

	s := &searcher{tt: tt, ctx: ctx, maxNodes: limits.Nodes}

	maxDepth := limits.Depth
	if maxDepth <= 0 || maxDepth > MaxDepth {
		maxDepth = MaxDepth
	}

	start := time.Now()
	var result SearchResult

	for depth := 1; depth <= maxDepth; depth++ {
		nodesBefore := s.nodes

		score, pv := s.negamax(pos, depth, 0, -board.Infinity, board.Infinity)

		if s.stopped() {
			// Discard the partial iteration's node count so reported NPS
			// reflects only completed depths.
			s.nodes = nodesBefore
			result.Stopped = true
			break
		}

		result = SearchResult{Score: score, Depth: depth, Nodes: s.nodes}
		if len(pv) > 0 {
			result.BestMove, result.HasBestMove = pv[0], true
		}
		if callback != nil {
			callback(depth, score, s.nodes, pv, time.Since(start))
		}

		if limits.Nodes > 0 && s.nodes >= limits.Nodes {
			break
		}
		if _, ok := score.MateDistance(); ok {
			break // forced mate found within full-width search: exact, stop deepening
		}
	}

	return result
}
