// Package game layers move history and draw bookkeeping on top of the
// pure-value board.Position: Position itself stays immutable and
// history-free per its Lifecycle invariant, so anything that needs to look
// backward (repetition, take-back) lives here instead.
package game

import "github.com/chessforge/chessforge/pkg/board"

// Game is a mutable wrapper around a stack of positions reached by playing
// moves from a root. It is not safe for concurrent use; callers that need
// that (e.g. the engine façade) must serialize access themselves.
type Game struct {
	history []*board.Position // history[0] is the root, history[len-1] is current
	counts  map[board.Hash]int
}

// New starts a game at root.
func New(root *board.Position) *Game {
	g := &Game{
		history: []*board.Position{root},
		counts:  map[board.Hash]int{root.Hash(): 1},
	}
	return g
}

// Position returns the current position.
func (g *Game) Position() *board.Position {
	return g.history[len(g.history)-1]
}

// Ply returns the number of moves played since the root.
func (g *Game) Ply() int {
	return len(g.history) - 1
}

// Push plays mv, which must be pseudo-legal in the current position
// (the same precondition board.Position.Apply carries).
func (g *Game) Push(mv board.Move) {
	next := g.Position().Apply(mv)
	g.history = append(g.history, next)
	g.counts[next.Hash()]++
}

// Pop undoes the last move played. Reports false if there is nothing to
// undo (the game is at its root).
func (g *Game) Pop() bool {
	if len(g.history) <= 1 {
		return false
	}
	last := g.history[len(g.history)-1]
	g.counts[last.Hash()]--
	if g.counts[last.Hash()] == 0 {
		delete(g.counts, last.Hash())
	}
	g.history = g.history[:len(g.history)-1]
	return true
}

// Fork returns an independent copy of g: mutating the copy (Push/Pop) does
// not affect the original, and vice versa.
func (g *Game) Fork() *Game {
	history := make([]*board.Position, len(g.history))
	copy(history, g.history)
	counts := make(map[board.Hash]int, len(g.counts))
	for k, v := range g.counts {
		counts[k] = v
	}
	return &Game{history: history, counts: counts}
}

// occurrences returns how many times the current position's hash has been
// seen in the history so far, confirmed by full position equality to rule
// out a Zobrist collision masquerading as a repetition.
func (g *Game) occurrences() int {
	cur := g.Position()
	n := 0
	for _, p := range g.history {
		if p.Hash() == cur.Hash() && positionsEqual(p, cur) {
			n++
		}
	}
	return n
}

// IsThreefoldRepetition reports whether the current position has occurred
// at least three times in the game's history (an [ADD] extension over
// spec.md's Position, whose Non-goals exclude repetition detection at the
// Position level; it is implemented here as the pure history-based
// add-on the spec's Open Questions describe).
func (g *Game) IsThreefoldRepetition() bool {
	return g.occurrences() >= 3
}

// IsDraw reports any of the draw conditions this engine recognizes:
// fifty-move, insufficient material, or threefold repetition.
func (g *Game) IsDraw() bool {
	p := g.Position()
	return p.IsFiftyMoveDraw() || p.IsInsufficientMaterial() || g.IsThreefoldRepetition()
}

// positionsEqual compares two positions' full placement, side to move,
// castling rights and en passant target -- everything a hash collision
// could otherwise paper over.
func positionsEqual(a, b *board.Position) bool {
	if a.Turn() != b.Turn() || a.Castling() != b.Castling() {
		return false
	}
	aep, aok := a.EnPassant()
	bep, bok := b.EnPassant()
	if aok != bok || (aok && aep != bep) {
		return false
	}
	for sq := board.ZeroSquare; sq < board.NumSquares; sq++ {
		ap, ac, aok := a.PieceAt(sq)
		bp, bc, bok := b.PieceAt(sq)
		if aok != bok || ap != bp || ac != bc {
			return false
		}
	}
	return true
}
