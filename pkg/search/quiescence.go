package search

import (
	"github.com/chessforge/chessforge/pkg/board"
	"github.com/chessforge/chessforge/pkg/eval"
)

// isNoisy reports whether mv is a capture (including en passant) or a
// promotion: the move classes quiescence search continues to explore past
// the horizon, since tactical sequences involving them can swing the
// static evaluation.
func isNoisy(pos *board.Position, mv board.Move) bool {
	if mv.IsPromotion() {
		return true
	}
	if _, _, ok := pos.PieceAt(mv.To); ok {
		return true
	}
	if piece, _, ok := pos.PieceAt(mv.From); ok && piece == board.Pawn {
		if ep, epOk := pos.EnPassant(); epOk && mv.To == ep {
			return true
		}
	}
	return false
}

// quiescenceDepth bounds how many plies past the nominal horizon quiescence
// continues to extend, per spec.md's default of 4: check-evasion lines in
// particular have no other terminating condition (a perpetual-check cycle
// is not detected as a repetition by the position-only search tree), so the
// cap is what keeps quiescence from recursing without end.
const quiescenceDepth = 4

// quiescence extends search along noisy lines past the nominal depth limit,
// to avoid misjudging a position mid-capture-sequence (the horizon effect).
// It returns the score from the perspective of pos's side to move. ply is
// the absolute ply from the search root, carried through for mate scoring;
// qply counts down from quiescenceDepth and stops the extension at zero.
func (s *searcher) quiescence(pos *board.Position, ply, qply int, alpha, beta board.Score) board.Score {
	if s.stopped() {
		return 0
	}
	s.nodes++

	inCheck := pos.InCheck()
	standPat := eval.Relative(pos)
	if !inCheck {
		if standPat >= beta {
			return beta
		}
		if standPat > alpha {
			alpha = standPat
		}
	}

	if qply <= 0 {
		return standPat
	}

	legal := board.LegalMoves(pos)
	if legal.Len() == 0 {
		if inCheck {
			return board.MateIn(ply)
		}
		return 0
	}

	best := standPat
	if inCheck {
		best = -board.Infinity
	}
	considered := 0
	for i := 0; i < legal.Len(); i++ {
		mv := legal.At(i)
		if !inCheck && !isNoisy(pos, mv) {
			continue
		}
		considered++
		child := pos.Apply(mv)
		score := -s.quiescence(child, ply+1, qply-1, -beta, -alpha)
		if score > best {
			best = score
		}
		if best > alpha {
			alpha = best
		}
		if alpha >= beta {
			break
		}
	}
	if inCheck && considered == 0 {
		// Every legal reply was filtered out above, which cannot happen
		// since inCheck forces every move to be considered; kept only as
		// a defensive fallback against a future filtering bug.
		return standPat
	}
	return best
}
