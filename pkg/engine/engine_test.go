package engine_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/chessforge/chessforge/pkg/board/fen"
	"github.com/chessforge/chessforge/pkg/engine"
	"github.com/chessforge/chessforge/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T) (*engine.Engine, context.Context) {
	t.Helper()
	ctx := context.Background()
	return engine.New(ctx, "chessforge", "chessforge contributors"), ctx
}

func TestNewResetsToStartingPosition(t *testing.T) {
	e, _ := newEngine(t)
	assert.True(t, strings.HasPrefix(e.Position(), "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq"))
	assert.True(t, strings.HasPrefix(e.Name(), "chessforge"))
	assert.Equal(t, "chessforge contributors", e.Author())
}

func TestResetRejectsMalformedFEN(t *testing.T) {
	e, ctx := newEngine(t)
	err := e.Reset(ctx, "not a fen")
	assert.Error(t, err)
}

func TestResetReplacesPosition(t *testing.T) {
	e, ctx := newEngine(t)
	require.NoError(t, e.Reset(ctx, "4k3/8/8/8/8/8/8/4K3 w - - 0 1"))
	assert.True(t, strings.HasPrefix(e.Position(), "4k3/8/8/8/8/8/8/4K3"))
}

func TestMoveAppliesLegalMove(t *testing.T) {
	e, ctx := newEngine(t)
	require.NoError(t, e.Move(ctx, "e2e4"))
	assert.True(t, strings.Contains(e.Position(), " b "), "turn should pass to black: %v", e.Position())
}

func TestMoveRejectsIllegalMove(t *testing.T) {
	e, ctx := newEngine(t)
	before := e.Position()
	err := e.Move(ctx, "e2e5") // pawn cannot jump two past a blocker-free but illegal distance from e2
	assert.Error(t, err)
	assert.Equal(t, before, e.Position(), "a rejected move must not mutate state")
}

func TestMoveRejectsUnparseableInput(t *testing.T) {
	e, ctx := newEngine(t)
	err := e.Move(ctx, "zz")
	assert.Error(t, err)
}

func TestTakeBackUndoesLastMove(t *testing.T) {
	e, ctx := newEngine(t)
	before := e.Position()
	require.NoError(t, e.Move(ctx, "e2e4"))
	require.NoError(t, e.TakeBack(ctx))
	assert.Equal(t, before, e.Position())
}

func TestTakeBackWithNoHistoryErrors(t *testing.T) {
	e, ctx := newEngine(t)
	err := e.TakeBack(ctx)
	assert.Error(t, err)
}

func TestGoThenWaitProducesBestMove(t *testing.T) {
	e, ctx := newEngine(t)
	require.NoError(t, e.Go(ctx, search.SearchLimits{Depth: 2}, nil))

	result := e.Wait()
	assert.True(t, result.HasBestMove)
	assert.False(t, result.Stopped)
}

func TestGoRejectsWhileSearchActive(t *testing.T) {
	e, ctx := newEngine(t)
	require.NoError(t, e.Go(ctx, search.SearchLimits{MoveTime: 2 * time.Second}, nil))

	err := e.Go(ctx, search.SearchLimits{Depth: 1}, nil)
	assert.Equal(t, engine.ErrSearchActive, err)

	e.Halt(ctx)
}

func TestHaltStopsAnInFlightSearchPromptly(t *testing.T) {
	e, ctx := newEngine(t)
	require.NoError(t, e.Go(ctx, search.SearchLimits{MoveTime: 10 * time.Second}, nil))

	done := make(chan search.SearchResult, 1)
	go func() { done <- e.Halt(ctx) }()

	select {
	case result := <-done:
		assert.True(t, result.Stopped)
	case <-time.After(2 * time.Second):
		t.Fatal("Halt did not return promptly")
	}
}

func TestHaltWithNoActiveSearchIsANoop(t *testing.T) {
	e, ctx := newEngine(t)
	result := e.Halt(ctx)
	assert.False(t, result.Stopped)
}

func TestResetHaltsAnActiveSearchFirst(t *testing.T) {
	e, ctx := newEngine(t)
	require.NoError(t, e.Go(ctx, search.SearchLimits{MoveTime: 10 * time.Second}, nil))

	require.NoError(t, e.Reset(ctx, "4k3/8/8/8/8/8/8/4K3 w - - 0 1"))
	assert.True(t, strings.HasPrefix(e.Position(), "4k3/8/8/8/8/8/8/4K3"))
}

func TestClearHashDoesNotPanic(t *testing.T) {
	e, _ := newEngine(t)
	e.ClearHash()
}

func TestGameForkIsIndependentOfEngineState(t *testing.T) {
	e, ctx := newEngine(t)
	fork := e.Game()
	before := fen.Encode(fork.Position())

	require.NoError(t, e.Move(ctx, "e2e4"))

	assert.Equal(t, before, fen.Encode(fork.Position()), "the fork must not observe moves pushed on the engine's live game")
	assert.NotEqual(t, before, e.Position())
}
