package eval

import "github.com/chessforge/chessforge/pkg/board"

var (
	centerSquares = []board.Square{
		board.NewSquare(board.FileD, board.Rank4), board.NewSquare(board.FileE, board.Rank4),
		board.NewSquare(board.FileD, board.Rank5), board.NewSquare(board.FileE, board.Rank5),
	}
	extendedCenterSquares = func() []board.Square {
		var ret []board.Square
		for f := board.FileC; f <= board.FileF; f++ {
			for r := board.Rank(2); r <= board.Rank(5); r++ { // Rank3..Rank6
				ret = append(ret, board.NewSquare(f, r))
			}
		}
		return ret
	}()

	centerMask         = squareMask(centerSquares)
	extendedCenterMask = squareMask(extendedCenterSquares) &^ centerMask
)

func squareMask(squares []board.Square) board.Bitboard {
	var b board.Bitboard
	for _, sq := range squares {
		b = b.Set(sq)
	}
	return b
}

// centerControl scores pawns, knights and bishops for occupying (not just
// attacking) the center and extended center, White minus Black.
func centerControl(p *board.Position) board.Score {
	var score board.Score
	for _, c := range [2]board.Color{board.White, board.Black} {
		sign := board.Score(1)
		if c == board.Black {
			sign = -1
		}
		pawns := p.PieceBitboard(c, board.Pawn)
		score += sign * 15 * board.Score((pawns & centerMask).PopCount())
		score += sign * 5 * board.Score((pawns & extendedCenterMask).PopCount())

		knights := p.PieceBitboard(c, board.Knight)
		score += sign * 20 * board.Score((knights & centerMask).PopCount())

		bishops := p.PieceBitboard(c, board.Bishop)
		score += sign * 10 * board.Score((bishops & centerMask).PopCount())
	}
	return score
}

// Evaluate returns a static score for p from White's perspective: positive
// favors White. It combines material, piece-square placement and a small
// center-control bonus; it does not search.
func Evaluate(p *board.Position) board.Score {
	return Material(p) + PieceSquares(p) + centerControl(p)
}

// Relative returns Evaluate from the perspective of the side to move, the
// convention negamax search expects.
func Relative(p *board.Position) board.Score {
	s := Evaluate(p)
	if p.Turn() == board.Black {
		return -s
	}
	return s
}
