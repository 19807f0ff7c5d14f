package perft_test

import (
	"testing"

	"github.com/chessforge/chessforge/pkg/board/fen"
	"github.com/chessforge/chessforge/pkg/perft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Kiwipete and Position 3 are the standard perft cross-check positions
// (Steven Edwards' suite), reused across move generators for exactly this
// reason: they exercise castling, en passant and promotions that the
// starting position never reaches within a few plies.
const (
	kiwipete  = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	position3 = "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1"
)

func TestPerftStartPosition(t *testing.T) {
	pos, err := fen.Decode(fen.Initial)
	require.NoError(t, err)

	expected := []uint64{1, 20, 400, 8902, 197281}
	for depth, want := range expected {
		if depth == 0 {
			continue
		}
		assert.Equal(t, want, perft.Perft(pos, depth), "depth %v", depth)
	}
}

func TestPerftKiwipete(t *testing.T) {
	pos, err := fen.Decode(kiwipete)
	require.NoError(t, err)

	expected := []uint64{48, 2039, 97862}
	for i, want := range expected {
		depth := i + 1
		assert.Equal(t, want, perft.Perft(pos, depth), "depth %v", depth)
	}
}

func TestPerftPosition3(t *testing.T) {
	pos, err := fen.Decode(position3)
	require.NoError(t, err)

	expected := []uint64{14, 191, 2812, 43238}
	for i, want := range expected {
		depth := i + 1
		assert.Equal(t, want, perft.Perft(pos, depth), "depth %v", depth)
	}
}

func TestSplitSumsToTotal(t *testing.T) {
	pos, err := fen.Decode(fen.Initial)
	require.NoError(t, err)

	divide := perft.Split(pos, 3)

	var total uint64
	for _, d := range divide {
		total += d.Nodes
	}
	assert.Equal(t, uint64(8902), total)
	assert.Equal(t, 20, len(divide), "20 legal root moves in the starting position")
}

func TestDetailedStartPosition(t *testing.T) {
	pos, err := fen.Decode(fen.Initial)
	require.NoError(t, err)

	// At depth 4 from the start position, the standard perft suite expects
	// these exact tactical-move counts alongside the node total.
	d := perft.Detailed(pos, 4)
	assert.Equal(t, uint64(197281), d.Nodes)
	assert.Equal(t, uint64(1576), d.Captures)
	assert.Equal(t, uint64(0), d.EnPassant)
	assert.Equal(t, uint64(0), d.Castles)
	assert.Equal(t, uint64(0), d.Promotions)
	assert.Equal(t, uint64(469), d.Checks)
	assert.Equal(t, uint64(8), d.Checkmates)
}
