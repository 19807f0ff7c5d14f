package search

import (
	"context"

	"github.com/chessforge/chessforge/pkg/board"
	"github.com/seekerror/stdlib/pkg/util/contextx"
)

// errHalted is the type of ErrHalted.
type errHalted struct{}

func (errHalted) Error() string { return "search halted before completion" }

// ErrHalted is the sentinel error for a cancelled search. Search and its
// variants do not return it: a stopped search is reported through
// SearchResult.Stopped.
var ErrHalted error = errHalted{}

// searcher holds the mutable state of one root search call: node count and
// the transposition table. Cancellation (deadline expiry or an explicit
// quit) is carried by ctx, which negamax polls rather than the clock
// directly. maxNodes, if non-zero, bounds the total node count; it is
// checked alongside ctx on every node so a Nodes-limited search cannot
// overrun its budget by a whole depth's subtree.
type searcher struct {
	tt       *Table
	ctx      context.Context
	nodes    uint64
	maxNodes uint64
}

// stopped reports whether the search should return immediately: either the
// shared context was cancelled (deadline or explicit stop) or the node
// budget has been reached.
func (s *searcher) stopped() bool {
	if contextx.IsCancelled(s.ctx) {
		return true
	}
	return s.maxNodes > 0 && s.nodes >= s.maxNodes
}

// adjustMateStore converts a root-relative mate score into a node-relative
// one before writing to the shared transposition table, so the entry
// remains valid when probed from a different ply (even a different root).
func adjustMateStore(score board.Score, ply int) board.Score {
	switch {
	case score >= board.MateThreshold:
		return score + board.Score(ply)
	case score <= -board.MateThreshold:
		return score - board.Score(ply)
	default:
		return score
	}
}

// adjustMateLoad is adjustMateStore's inverse, applied when reading a TT
// entry back at the current ply.
func adjustMateLoad(score board.Score, ply int) board.Score {
	switch {
	case score >= board.MateThreshold:
		return score - board.Score(ply)
	case score <= -board.MateThreshold:
		return score + board.Score(ply)
	default:
		return score
	}
}

// negamax searches pos to depth plies (ply counts plies already played from
// the search root), returning the score from pos's side to move and the
// principal variation below this node.
func (s *searcher) negamax(pos *board.Position, depth, ply int, alpha, beta board.Score) (board.Score, []board.Move) {
	if s.stopped() {
		return 0, nil
	}
	s.nodes++

	hash := pos.Hash()
	var hashMove board.Move
	hasHashMove := false
	if entry, ok := s.tt.Probe(hash); ok {
		hashMove, hasHashMove = entry.Move, true
		if entry.Depth >= depth {
			score := adjustMateLoad(entry.Score, ply)
			switch entry.Bound {
			case ExactBound:
				return score, []board.Move{entry.Move}
			case LowerBound:
				if score >= beta {
					return score, []board.Move{entry.Move}
				}
			case UpperBound:
				if score <= alpha {
					return score, []board.Move{entry.Move}
				}
			}
		}
	}

	if depth <= 0 {
		return s.quiescence(pos, ply, quiescenceDepth, alpha, beta), nil
	}

	legal := board.LegalMoves(pos)
	if legal.Len() == 0 {
		if pos.InCheck() {
			return board.MateIn(ply), nil
		}
		return 0, nil
	}
	if pos.IsFiftyMoveDraw() || pos.IsInsufficientMaterial() {
		return 0, nil
	}

	order := NewMoveList(legal.Slice(), MVVLVA(pos, hashMove, hasHashMove))

	origAlpha := alpha
	best := -board.Infinity
	var bestMove board.Move
	var pv []board.Move

	for {
		mv, ok := order.Next()
		if !ok {
			break
		}
		child := pos.Apply(mv)
		score, childPV := s.negamax(child, depth-1, ply+1, -beta, -alpha)
		score = -score

		if s.stopped() {
			return 0, nil
		}
		if score > best {
			best = score
			bestMove = mv
			pv = append([]board.Move{mv}, childPV...)
		}
		if best > alpha {
			alpha = best
		}
		if alpha >= beta {
			break
		}
	}

	bound := ExactBound
	switch {
	case best <= origAlpha:
		bound = UpperBound
	case best >= beta:
		bound = LowerBound
	}
	s.tt.Store(hash, bound, depth, adjustMateStore(best, ply), bestMove)

	return best, pv
}
