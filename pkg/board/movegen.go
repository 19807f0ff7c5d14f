package board

// PseudoLegalMoves generates every move that obeys piece-movement rules and
// does not capture the mover's own piece, without checking whether it
// leaves the mover's own king in check. Castling moves are the one
// exception: their check-related conditions (king not in check, does not
// cross or land on an attacked square) are validated here, since they are
// cheap to check per-candidate and otherwise every castle would need a
// special case in the legality filter.
func PseudoLegalMoves(p *Position) *MoveList {
	var list MoveList
	turn := p.Turn()
	own := p.ColorOccupied(turn)

	generatePawnMoves(p, turn, &list)
	for _, sq := range p.PieceBitboard(turn, Knight).Squares() {
		addTargets(&list, sq, KnightAttackboard(sq)&^own)
	}
	for _, sq := range p.PieceBitboard(turn, Bishop).Squares() {
		addTargets(&list, sq, BishopAttackboard(sq, p.Occupied())&^own)
	}
	for _, sq := range p.PieceBitboard(turn, Rook).Squares() {
		addTargets(&list, sq, RookAttackboard(sq, p.Occupied())&^own)
	}
	for _, sq := range p.PieceBitboard(turn, Queen).Squares() {
		addTargets(&list, sq, QueenAttackboard(sq, p.Occupied())&^own)
	}
	kingSq := p.KingSquare(turn)
	addTargets(&list, kingSq, KingAttackboard(kingSq)&^own)
	generateCastlingMoves(p, turn, &list)

	return &list
}

// LegalMoves filters PseudoLegalMoves down to those that do not leave the
// mover's own king attacked: the single source of truth for legality.
func LegalMoves(p *Position) *MoveList {
	pseudo := PseudoLegalMoves(p)
	var legal MoveList
	mover := p.Turn()
	for i := 0; i < pseudo.Len(); i++ {
		mv := pseudo.At(i)
		child := p.Apply(mv)
		if !child.IsAttacked(child.KingSquare(mover), mover.Opponent()) {
			legal.Add(mv)
		}
	}
	return &legal
}

// HasLegalMoves reports whether the side to move has at least one legal
// move, without materializing the full list.
func HasLegalMoves(p *Position) bool {
	pseudo := PseudoLegalMoves(p)
	mover := p.Turn()
	for i := 0; i < pseudo.Len(); i++ {
		child := p.Apply(pseudo.At(i))
		if !child.IsAttacked(child.KingSquare(mover), mover.Opponent()) {
			return true
		}
	}
	return false
}

// IsCheckmate reports check with no legal reply.
func IsCheckmate(p *Position) bool {
	return p.InCheck() && !HasLegalMoves(p)
}

// IsStalemate reports no check and no legal reply.
func IsStalemate(p *Position) bool {
	return !p.InCheck() && !HasLegalMoves(p)
}

func addTargets(list *MoveList, from Square, targets Bitboard) {
	for _, to := range targets.Squares() {
		list.Add(Move{From: from, To: to})
	}
}

func pawnPushDir(c Color) int {
	if c == White {
		return 1
	}
	return -1
}

func pawnStartRank(c Color) Rank {
	if c == White {
		return Rank2
	}
	return Rank7
}

func pawnLastRank(c Color) Rank {
	if c == White {
		return Rank8
	}
	return Rank1
}

func addPawnMove(list *MoveList, from, to Square, lastRank Rank) {
	if to.Rank() == lastRank {
		for _, promo := range [4]Piece{Queen, Rook, Bishop, Knight} {
			list.Add(Move{From: from, To: to, Promotion: promo})
		}
		return
	}
	list.Add(Move{From: from, To: to})
}

func generatePawnMoves(p *Position, turn Color, list *MoveList) {
	dir := pawnPushDir(turn)
	start := pawnStartRank(turn)
	last := pawnLastRank(turn)
	opp := turn.Opponent()
	epTarget, epOk := p.EnPassant()

	for _, sq := range p.PieceBitboard(turn, Pawn).Squares() {
		if r, ok := sq.Rank().Offset(dir); ok {
			one := NewSquare(sq.File(), r)
			if p.IsEmpty(one) {
				addPawnMove(list, sq, one, last)
				if sq.Rank() == start {
					if r2, ok := sq.Rank().Offset(2 * dir); ok {
						two := NewSquare(sq.File(), r2)
						if p.IsEmpty(two) {
							list.Add(Move{From: sq, To: two})
						}
					}
				}
			}
			for _, df := range [2]int{-1, 1} {
				f, ok := sq.File().Offset(df)
				if !ok {
					continue
				}
				to := NewSquare(f, r)
				if _, c, occ := p.PieceAt(to); occ && c == opp {
					addPawnMove(list, sq, to, last)
				} else if epOk && to == epTarget {
					list.Add(Move{From: sq, To: to})
				}
			}
		}
	}
}

// generateCastlingMoves emits fully check-validated castling moves: rights
// available, squares between king and rook empty, king not currently in
// check, and neither the square the king crosses nor its destination is
// attacked by the opponent.
func generateCastlingMoves(p *Position, turn Color, list *MoveList) {
	opp := turn.Opponent()
	rank := Rank1
	kingSide, queenSide := WhiteKingSide, WhiteQueenSide
	if turn == Black {
		rank = Rank8
		kingSide, queenSide = BlackKingSide, BlackQueenSide
	}
	kingSq := NewSquare(FileE, rank)
	if p.KingSquare(turn) != kingSq || p.IsAttacked(kingSq, opp) {
		return
	}

	if p.Castling().IsAllowed(kingSide) {
		f, g, h := NewSquare(FileF, rank), NewSquare(FileG, rank), NewSquare(FileH, rank)
		if p.IsEmpty(f) && p.IsEmpty(g) && !p.IsAttacked(f, opp) && !p.IsAttacked(g, opp) {
			if pc, c, ok := p.PieceAt(h); ok && pc == Rook && c == turn {
				list.Add(Move{From: kingSq, To: g})
			}
		}
	}
	if p.Castling().IsAllowed(queenSide) {
		b, c, d, a := NewSquare(FileB, rank), NewSquare(FileC, rank), NewSquare(FileD, rank), NewSquare(FileA, rank)
		if p.IsEmpty(b) && p.IsEmpty(c) && p.IsEmpty(d) && !p.IsAttacked(d, opp) && !p.IsAttacked(c, opp) {
			if pc, col, ok := p.PieceAt(a); ok && pc == Rook && col == turn {
				list.Add(Move{From: kingSq, To: c})
			}
		}
	}
}
