package fen_test

import (
	"testing"

	"github.com/chessforge/chessforge/pkg/board"
	"github.com/chessforge/chessforge/pkg/board/fen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEncodeRoundTrip(t *testing.T) {
	tests := []string{
		fen.Initial,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6 0 2",
		"4k3/8/8/8/8/8/8/4K2R w K - 0 1",
		"r3k3/8/8/8/8/8/8/4K3 b q - 0 1",
	}
	for _, s := range tests {
		pos, err := fen.Decode(s)
		require.NoError(t, err, s)
		assert.Equal(t, s, fen.Encode(pos), "round trip: %v", s)
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	tests := []string{
		"",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0", // missing field
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq - 0 1",        // missing rank
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1",
		"8/8/8/8/8/8/8/8 w - - 0 1", // no kings
		"kk6/8/8/8/8/8/8/8 w - - 0 1",
	}
	for _, s := range tests {
		_, err := fen.Decode(s)
		assert.Error(t, err, s)
	}
}

func TestDecodeEnPassantTarget(t *testing.T) {
	pos, err := fen.Decode("rnbqkbnr/ppp1pppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 3")
	require.NoError(t, err)

	ep, ok := pos.EnPassant()
	require.True(t, ok)
	assert.Equal(t, board.NewSquare(board.FileD, board.Rank6), ep)
}
