// Package perft implements the reference move-generation counter used to
// validate board and movegen correctness: brute-force leaf counting over
// the legal move tree, plus a per-root-move breakdown.
package perft

import "github.com/chessforge/chessforge/pkg/board"

// Perft counts the leaves of the legal move tree rooted at pos at the
// given depth. Perft(pos, 0) = 1 by definition (the position itself).
func Perft(pos *board.Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	legal := board.LegalMoves(pos)
	if depth == 1 {
		return uint64(legal.Len())
	}
	var nodes uint64
	for i := 0; i < legal.Len(); i++ {
		nodes += Perft(pos.Apply(legal.At(i)), depth-1)
	}
	return nodes
}

// Divide is one (move, subtree count) pair, as returned by Split.
type Divide struct {
	Move  board.Move
	Nodes uint64
}

// Split returns, for every legal root move, the Perft count of the subtree
// below it at depth-1. Useful for isolating a move generation bug against a
// reference engine's per-move breakdown.
func Split(pos *board.Position, depth int) []Divide {
	legal := board.LegalMoves(pos)
	ret := make([]Divide, 0, legal.Len())
	for i := 0; i < legal.Len(); i++ {
		mv := legal.At(i)
		ret = append(ret, Divide{Move: mv, Nodes: Perft(pos.Apply(mv), depth-1)})
	}
	return ret
}

// Detail is the classified leaf breakdown Detailed produces: move kinds
// and check/checkmate counts of the moves on the last ply of the walk
// (the moves that reach a leaf); moves on earlier plies are not counted.
type Detail struct {
	Nodes      uint64
	Captures   uint64
	EnPassant  uint64
	Castles    uint64
	Promotions uint64
	Checks     uint64
	Checkmates uint64
}

// Detailed walks the same tree as Perft and classifies every move on the
// last ply: captures (including en passant), castles, promotions, and
// whether the resulting leaf position gives check or is checkmate.
func Detailed(pos *board.Position, depth int) Detail {
	var d Detail
	detailedWalk(pos, depth, &d)
	return d
}

func detailedWalk(pos *board.Position, depth int, d *Detail) {
	if depth == 0 {
		d.Nodes++
		return
	}
	legal := board.LegalMoves(pos)
	for i := 0; i < legal.Len(); i++ {
		mv := legal.At(i)
		child := pos.Apply(mv)
		if depth == 1 {
			classifyMove(pos, mv, d)
			if child.InCheck() {
				d.Checks++
				if board.IsCheckmate(child) {
					d.Checkmates++
				}
			}
		}
		detailedWalk(child, depth-1, d)
	}
}

func classifyMove(pos *board.Position, mv board.Move, d *Detail) {
	if mv.IsPromotion() {
		d.Promotions++
	}
	piece, _, ok := pos.PieceAt(mv.From)
	if !ok {
		return
	}
	if piece == board.King && board.Distance(mv.From, mv.To) == 2 {
		d.Castles++
		return
	}
	if _, _, occ := pos.PieceAt(mv.To); occ {
		d.Captures++
		return
	}
	if piece == board.Pawn {
		if ep, epOk := pos.EnPassant(); epOk && mv.To == ep {
			d.Captures++
			d.EnPassant++
		}
	}
}
