package game_test

import (
	"testing"

	"github.com/chessforge/chessforge/pkg/board"
	"github.com/chessforge/chessforge/pkg/board/fen"
	"github.com/chessforge/chessforge/pkg/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustApply(t *testing.T, g *game.Game, uci string) {
	t.Helper()
	mv, err := board.ParseMove(uci)
	require.NoError(t, err)
	g.Push(mv)
}

func TestPushPop(t *testing.T) {
	root, err := fen.Decode(fen.Initial)
	require.NoError(t, err)
	g := game.New(root)

	assert.Equal(t, 0, g.Ply())
	mustApply(t, g, "e2e4")
	assert.Equal(t, 1, g.Ply())
	assert.Equal(t, board.Black, g.Position().Turn())

	require.True(t, g.Pop())
	assert.Equal(t, 0, g.Ply())
	assert.Equal(t, fen.Encode(root), fen.Encode(g.Position()))

	assert.False(t, g.Pop(), "popping at the root should report false")
}

func TestForkIsIndependent(t *testing.T) {
	root, err := fen.Decode(fen.Initial)
	require.NoError(t, err)
	g := game.New(root)
	mustApply(t, g, "e2e4")

	fork := g.Fork()
	mustApply(t, fork, "e7e5")

	assert.Equal(t, 2, fork.Ply())
	assert.Equal(t, 1, g.Ply(), "mutating the fork must not affect the original")
}

func TestThreefoldRepetition(t *testing.T) {
	root, err := fen.Decode(fen.Initial)
	require.NoError(t, err)
	g := game.New(root)

	assert.False(t, g.IsThreefoldRepetition())

	// Shuffle knights back and forth twice: the starting position recurs
	// twice more (three occurrences total).
	for i := 0; i < 2; i++ {
		mustApply(t, g, "g1f3")
		mustApply(t, g, "g8f6")
		mustApply(t, g, "f3g1")
		mustApply(t, g, "f6g8")
	}

	assert.True(t, g.IsThreefoldRepetition())
	assert.True(t, g.IsDraw())
}

func TestFiftyMoveAndInsufficientMaterialDraws(t *testing.T) {
	pos, err := fen.Decode("k7/8/8/8/8/8/8/7K w - - 99 50")
	require.NoError(t, err)
	g := game.New(pos)
	assert.True(t, g.IsDraw(), "bare kings is an insufficient-material draw regardless of the clock")

	pos, err = fen.Decode("k7/8/8/8/8/8/8/6RK w - - 100 60")
	require.NoError(t, err)
	g = game.New(pos)
	assert.True(t, g.IsDraw(), "halfmove clock 100 is a fifty-move draw even with mating material")
}
