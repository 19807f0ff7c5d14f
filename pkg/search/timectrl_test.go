package search_test

import (
	"testing"
	"time"

	"github.com/chessforge/chessforge/pkg/board"
	"github.com/chessforge/chessforge/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func TestDeadlineMoveTime(t *testing.T) {
	limits := search.SearchLimits{MoveTime: 500 * time.Millisecond}
	deadline, ok := search.Deadline(limits, board.White, 1, fixedNow)
	require.True(t, ok)
	assert.Equal(t, fixedNow.Add(500*time.Millisecond), deadline)
}

func TestDeadlineNoneForDepthOnly(t *testing.T) {
	limits := search.SearchLimits{Depth: 6}
	_, ok := search.Deadline(limits, board.White, 1, fixedNow)
	assert.False(t, ok)
}

func TestDeadlineFromClock(t *testing.T) {
	limits := search.SearchLimits{WhiteTime: 60 * time.Second, WhiteInc: 1 * time.Second, MovesToGo: 30}
	deadline, ok := search.Deadline(limits, board.White, 1, fixedNow)
	require.True(t, ok)

	alloc := deadline.Sub(fixedNow)
	// base = 60s/30 = 2s; bonus = 0.8*1s = 0.8s; cap = 0.95*60s = 57s.
	assert.Equal(t, 2800*time.Millisecond, alloc)
}

func TestDeadlineClockRespectsCapAndFloor(t *testing.T) {
	// A huge increment should be capped, never allowed to exceed 95% of
	// the remaining clock.
	limits := search.SearchLimits{WhiteTime: 10 * time.Second, WhiteInc: 30 * time.Second, MovesToGo: 1}
	deadline, ok := search.Deadline(limits, board.White, 1, fixedNow)
	require.True(t, ok)
	alloc := deadline.Sub(fixedNow)
	assert.Equal(t, time.Duration(float64(10*time.Second)*0.95), alloc)

	// A near-zero clock should still allocate the 50ms floor.
	limits = search.SearchLimits{WhiteTime: 1 * time.Millisecond, MovesToGo: 40}
	deadline, ok = search.Deadline(limits, board.White, 1, fixedNow)
	require.True(t, ok)
	assert.Equal(t, 50*time.Millisecond, deadline.Sub(fixedNow))
}

func TestDeadlineUsesBlackClockOnBlacksTurn(t *testing.T) {
	limits := search.SearchLimits{WhiteTime: time.Second, BlackTime: 10 * time.Second, MovesToGo: 10}
	deadline, ok := search.Deadline(limits, board.Black, 1, fixedNow)
	require.True(t, ok)
	assert.Equal(t, time.Second, deadline.Sub(fixedNow))
}

func TestDeadlineMovesLeftHeuristicByFullmove(t *testing.T) {
	// No movestogo given: moves-left falls back to a schedule keyed off how
	// far into the game fullmove is (30/20/10).
	limits := search.SearchLimits{WhiteTime: 300 * time.Second}

	early, ok := search.Deadline(limits, board.White, 5, fixedNow)
	require.True(t, ok)
	mid, ok := search.Deadline(limits, board.White, 20, fixedNow)
	require.True(t, ok)
	late, ok := search.Deadline(limits, board.White, 40, fixedNow)
	require.True(t, ok)

	assert.Less(t, early.Sub(fixedNow), mid.Sub(fixedNow), "fewer moves-left allocates more time per move")
	assert.Less(t, mid.Sub(fixedNow), late.Sub(fixedNow))
}
