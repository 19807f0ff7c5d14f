// Package eval provides a static position evaluator: material balance,
// piece-square tables and simple center-control bonuses, scored in
// centipawns from White's perspective.
package eval

import "github.com/chessforge/chessforge/pkg/board"

var allPieces = [6]board.Piece{board.Pawn, board.Knight, board.Bishop, board.Rook, board.Queen, board.King}

// Material returns the White-minus-Black material balance.
func Material(p *board.Position) board.Score {
	var score board.Score
	for _, piece := range allPieces {
		w := p.PieceBitboard(board.White, piece).PopCount()
		b := p.PieceBitboard(board.Black, piece).PopCount()
		score += board.Score(w-b) * piece.Value()
	}
	return score
}
