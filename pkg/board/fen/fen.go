// Package fen decodes and encodes chess positions in Forsyth-Edwards
// Notation, the standard six-field textual position format.
package fen

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/chessforge/chessforge/pkg/board"
)

// Initial is the FEN of the standard game starting position.
const Initial = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Decode parses a FEN string into a position. A FEN record has six
// space-separated fields: piece placement, active color, castling rights,
// en passant target, halfmove clock and fullmove number.
func Decode(s string) (*board.Position, error) {
	parts := strings.Split(strings.TrimSpace(s), " ")
	if len(parts) != 6 {
		return nil, fmt.Errorf("invalid number of sections in FEN: %q", s)
	}

	placements, err := decodePlacement(parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid FEN %q: %w", s, err)
	}

	turn, ok := parseColor(parts[1])
	if !ok {
		return nil, fmt.Errorf("invalid active color in FEN: %q", s)
	}

	castling, ok := parseCastling(parts[2])
	if !ok {
		return nil, fmt.Errorf("invalid castling rights in FEN: %q", s)
	}

	ep := board.NumSquares
	if parts[3] != "-" {
		sq, err := board.ParseSquareStr(parts[3])
		if err != nil {
			return nil, fmt.Errorf("invalid en passant square in FEN: %q", s)
		}
		ep = sq
	}

	halfmove, err := strconv.Atoi(parts[4])
	if err != nil || halfmove < 0 {
		return nil, fmt.Errorf("invalid halfmove clock in FEN: %q", s)
	}

	fullmove, err := strconv.Atoi(parts[5])
	if err != nil || fullmove < 1 {
		return nil, fmt.Errorf("invalid fullmove number in FEN: %q", s)
	}

	pos, err := board.NewPosition(placements, turn, castling, ep, halfmove, fullmove)
	if err != nil {
		return nil, fmt.Errorf("invalid FEN %q: %w", s, err)
	}
	return pos, nil
}

// decodePlacement parses the first FEN field, ranks 8 down to 1, files a
// through h within each rank, into an explicit placement list.
func decodePlacement(field string) ([]board.Placement, error) {
	var placements []board.Placement
	rank, file := 7, 0

	for _, r := range field {
		switch {
		case r == '/':
			if file != 8 {
				return nil, fmt.Errorf("incomplete rank before '/'")
			}
			rank--
			file = 0

		case unicode.IsDigit(r):
			file += int(r - '0')

		case unicode.IsLetter(r):
			if rank < 0 || file > 7 {
				return nil, fmt.Errorf("piece placement overruns the board")
			}
			piece, ok := board.ParsePiece(r)
			if !ok {
				return nil, fmt.Errorf("invalid piece %q", r)
			}
			color := board.Black
			if unicode.IsUpper(r) {
				color = board.White
			}
			sq := board.NewSquare(board.File(file), board.Rank(rank))
			placements = append(placements, board.Placement{Square: sq, Color: color, Piece: piece})
			file++

		default:
			return nil, fmt.Errorf("invalid character %q", r)
		}
	}
	if rank != 0 || file != 8 {
		return nil, fmt.Errorf("wrong number of squares described")
	}
	return placements, nil
}

// Encode renders a position as a FEN string.
func Encode(pos *board.Position) string {
	var sb strings.Builder
	for r := 7; r >= 0; r-- {
		blanks := 0
		for f := 0; f < 8; f++ {
			sq := board.NewSquare(board.File(f), board.Rank(r))
			piece, color, ok := pos.PieceAt(sq)
			if !ok {
				blanks++
				continue
			}
			if blanks > 0 {
				sb.WriteString(strconv.Itoa(blanks))
				blanks = 0
			}
			sb.WriteRune(printPiece(color, piece))
		}
		if blanks > 0 {
			sb.WriteString(strconv.Itoa(blanks))
		}
		if r > 0 {
			sb.WriteString("/")
		}
	}

	ep := "-"
	if sq, ok := pos.EnPassant(); ok {
		ep = sq.String()
	}

	return fmt.Sprintf("%v %v %v %v %v %v", sb.String(), pos.Turn(), printCastling(pos.Castling()), ep, pos.HalfmoveClock(), pos.FullmoveNumber())
}

func parseColor(s string) (board.Color, bool) {
	switch s {
	case "w":
		return board.White, true
	case "b":
		return board.Black, true
	default:
		return 0, false
	}
}

func parseCastling(s string) (board.Castling, bool) {
	if s == "-" {
		return board.NoCastling, true
	}
	var ret board.Castling
	for _, r := range s {
		switch r {
		case 'K':
			ret |= board.WhiteKingSide
		case 'Q':
			ret |= board.WhiteQueenSide
		case 'k':
			ret |= board.BlackKingSide
		case 'q':
			ret |= board.BlackQueenSide
		default:
			return 0, false
		}
	}
	return ret, true
}

func printCastling(c board.Castling) string {
	return c.String()
}

func printPiece(c board.Color, p board.Piece) rune {
	r := []rune(p.String())[0]
	if c == board.White {
		return unicode.ToUpper(r)
	}
	return r
}
