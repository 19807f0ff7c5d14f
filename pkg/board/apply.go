package board

// placeH places a piece and folds its piece-square key into the hash.
func (p *Position) placeH(sq Square, c Color, pc Piece) {
	p.place(sq, c, pc)
	p.hash ^= pieceKey(c, pc, sq)
}

// removeH clears a square and folds its piece-square key out of the hash.
// No-op if the square is already empty.
func (p *Position) removeH(sq Square) {
	o := p.mailbox[sq]
	if o.piece == NoPiece {
		return
	}
	p.hash ^= pieceKey(o.color, o.piece, sq)
	p.remove(sq)
}

// castleRookSquares returns the rook's from/to squares for a castle where
// the king (of color c) lands on kingTo.
func castleRookSquares(c Color, kingTo Square) (from, to Square) {
	rank := Rank1
	if c == Black {
		rank = Rank8
	}
	if kingTo.File() == FileG {
		return NewSquare(FileH, rank), NewSquare(FileF, rank)
	}
	return NewSquare(FileA, rank), NewSquare(FileD, rank)
}

// Apply returns the position resulting from playing mv, which must be
// pseudo-legal in p (a piece of the side to move sits on mv.From). Apply
// performs no legality checking of its own -- that is the move generator's
// and the legal-move filter's responsibility, since Apply is also used to
// probe whether a pseudo-legal move leaves the mover's own king in check.
//
// Applying an ill-formed move (no piece on From) is an internal invariant
// violation and panics rather than returning an error.
func (p *Position) Apply(mv Move) *Position {
	piece, color, ok := p.PieceAt(mv.From)
	if !ok {
		panic("apply: no piece on " + mv.From.String())
	}

	np := p.clone()
	oldCastling := np.castling
	oldEP, oldEPOk := np.EnPassant()

	isCastle := piece == King && Distance(mv.From, mv.To) == 2
	isEP := piece == Pawn && np.epTarget < NumSquares && mv.To == np.epTarget && p.IsEmpty(mv.To)
	isDoublePush := piece == Pawn && mv.From.File() == mv.To.File() && Distance(mv.From, mv.To) == 2

	isCapture := isEP
	if !isEP {
		_, _, isCapture = p.PieceAt(mv.To)
	}

	if isEP {
		capSq := NewSquare(mv.To.File(), mv.From.Rank())
		np.removeH(capSq)
	} else if isCapture {
		np.removeH(mv.To)
	}

	np.removeH(mv.From)
	finalPiece := piece
	if mv.IsPromotion() {
		finalPiece = mv.Promotion
	}
	np.placeH(mv.To, color, finalPiece)

	if isCastle {
		rookFrom, rookTo := castleRookSquares(color, mv.To)
		np.removeH(rookFrom)
		np.placeH(rookTo, color, Rook)
	}

	np.epTarget = NumSquares
	if isDoublePush {
		np.epTarget = NewSquare(mv.From.File(), (mv.From.Rank()+mv.To.Rank())/2)
	}

	// A right is lost whether its home square was vacated by its own piece
	// or overwritten by a capture (e.g. capturing an unmoved rook on h1).
	np.castling = oldCastling &^ Lost(mv.From, mv.To)

	if piece == Pawn || isCapture {
		np.halfmove = 0
	} else {
		np.halfmove++
	}
	if color == Black {
		np.fullmove++
	}
	np.turn = color.Opponent()

	np.hash ^= turnKey()
	np.hash ^= castlingKey(oldCastling) ^ castlingKey(np.castling)
	if oldEPOk {
		np.hash ^= epKey(oldEP)
	}
	if ep, ok := np.EnPassant(); ok {
		np.hash ^= epKey(ep)
	}

	return np
}
