package board

import "fmt"

// Move represents a not-necessarily-legal move: source and destination
// square, plus an optional promotion piece kind. A castle is encoded as a
// two-square king move; en passant is encoded as a pawn diagonal move onto
// the en passant target square. Capture, check and other derived facts are
// not stored on Move -- they are determined by applying it to a Position.
type Move struct {
	From, To  Square
	Promotion Piece // set iff this move promotes a pawn
}

// ParseMove parses a move in pure algebraic coordinate notation, such as
// "e2e4" or "e7e8q".
func ParseMove(str string) (Move, error) {
	runes := []rune(str)
	if len(runes) < 4 || len(runes) > 5 {
		return Move{}, fmt.Errorf("invalid move %q", str)
	}

	from, err := ParseSquare(runes[0], runes[1])
	if err != nil {
		return Move{}, fmt.Errorf("invalid move %q: bad from-square: %w", str, err)
	}
	to, err := ParseSquare(runes[2], runes[3])
	if err != nil {
		return Move{}, fmt.Errorf("invalid move %q: bad to-square: %w", str, err)
	}

	if len(runes) == 5 {
		promo, ok := ParsePiece(runes[4])
		if !ok || !promo.IsPromotable() {
			return Move{}, fmt.Errorf("invalid move %q: bad promotion", str)
		}
		return Move{From: from, To: to, Promotion: promo}, nil
	}
	return Move{From: from, To: to}, nil
}

func (m Move) IsPromotion() bool {
	return m.Promotion != NoPiece
}

func (m Move) Equals(o Move) bool {
	return m.From == o.From && m.To == o.To && m.Promotion == o.Promotion
}

func (m Move) String() string {
	if m.IsPromotion() {
		return fmt.Sprintf("%v%v%v", m.From, m.To, m.Promotion)
	}
	return fmt.Sprintf("%v%v", m.From, m.To)
}

// MoveList is a fixed-capacity move container, avoiding per-ply heap
// allocation in the hot search path. 256 entries is enough: the largest
// known legal move count in a reachable chess position is well under it.
type MoveList struct {
	moves [256]Move
	n     int
}

// Add appends a move. Silently dropped if the list is already full (cannot
// happen for legal chess positions, given the 256 capacity).
func (l *MoveList) Add(m Move) {
	if l.n < len(l.moves) {
		l.moves[l.n] = m
		l.n++
	}
}

func (l *MoveList) Len() int {
	return l.n
}

func (l *MoveList) At(i int) Move {
	return l.moves[i]
}

// Slice returns the moves as a slice sharing the list's backing array. Valid
// only until the list is reused.
func (l *MoveList) Slice() []Move {
	return l.moves[:l.n]
}
