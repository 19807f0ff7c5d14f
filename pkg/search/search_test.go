package search_test

import (
	"testing"
	"time"

	"github.com/chessforge/chessforge/pkg/board"
	"github.com/chessforge/chessforge/pkg/board/fen"
	"github.com/chessforge/chessforge/pkg/search"
	"github.com/seekerror/stdlib/pkg/util/iox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchFindsMateInOne(t *testing.T) {
	// Back-rank mate: white queen delivers mate on d8.
	pos, err := fen.Decode("6k1/5ppp/8/8/8/8/8/3Q1RK1 w - - 0 1")
	require.NoError(t, err)

	tt := search.NewTable(1 << 20)
	result := search.Search(pos, search.SearchLimits{Depth: 3}, tt)

	require.True(t, result.HasBestMove)
	want, err := board.ParseMove("d1d8")
	require.NoError(t, err)
	assert.True(t, want.Equals(result.BestMove), "expected d1d8, got %v", result.BestMove)

	dist, ok := result.Score.MateDistance()
	require.True(t, ok, "score %v should report a forced mate", result.Score)
	assert.Equal(t, 1, dist)
}

func TestSearchRespectsDepthLimit(t *testing.T) {
	pos, err := fen.Decode(fen.Initial)
	require.NoError(t, err)

	tt := search.NewTable(1 << 20)
	result := search.Search(pos, search.SearchLimits{Depth: 2}, tt)

	assert.True(t, result.HasBestMove)
	assert.LessOrEqual(t, result.Depth, 2)
	assert.False(t, result.Stopped)
}

func TestSearchCallbackInvokedPerDepth(t *testing.T) {
	pos, err := fen.Decode(fen.Initial)
	require.NoError(t, err)

	tt := search.NewTable(1 << 20)
	var depthsSeen []int
	search.SearchWithCallback(pos, search.SearchLimits{Depth: 3}, tt, func(depth int, score board.Score, nodes uint64, pv []board.Move, elapsed time.Duration) {
		depthsSeen = append(depthsSeen, depth)
	})

	assert.Equal(t, []int{1, 2, 3}, depthsSeen)
}

func TestSearchWithStopHaltsPromptly(t *testing.T) {
	pos, err := fen.Decode(fen.Initial)
	require.NoError(t, err)

	tt := search.NewTable(1 << 20)
	quit := iox.NewAsyncCloser()
	quit.Close() // already cancelled before the first node is searched

	result := search.SearchWithStop(pos, search.SearchLimits{Depth: 50}, nil, tt, quit)
	assert.True(t, result.Stopped)
}

func TestSearchRespectsNodeLimitMidTree(t *testing.T) {
	pos, err := fen.Decode(fen.Initial)
	require.NoError(t, err)

	// A one-node budget cannot possibly finish even depth 1 of the starting
	// position (20 legal root moves): the cap must be enforced inside the
	// tree walk, not just between completed iterative-deepening depths, or
	// this search would run away to depth 50.
	tt := search.NewTable(1 << 20)
	result := search.Search(pos, search.SearchLimits{Depth: 50, Nodes: 1}, tt)

	assert.True(t, result.Stopped)
	assert.False(t, result.HasBestMove, "no depth should have completed within a 1-node budget")
}
