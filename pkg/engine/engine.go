// Package engine is the mutex-protected façade collaborators (the UCI
// driver, the CLI) call instead of touching pkg/game/pkg/search directly:
// it owns the current game, the transposition table, and the lifecycle of
// at most one active search.
package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/chessforge/chessforge/pkg/board"
	"github.com/chessforge/chessforge/pkg/board/fen"
	"github.com/chessforge/chessforge/pkg/game"
	"github.com/chessforge/chessforge/pkg/search"
	"github.com/seekerror/build"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/iox"
)

var version = build.NewVersion(0, 1, 0)

// defaultHashBytes is the default transposition table size, per spec.md
// §4.4 (16 MiB).
const defaultHashBytes = 16 << 20

// Options are engine creation and runtime options.
type Options struct {
	// HashBytes is the transposition table size in bytes. Zero selects
	// defaultHashBytes.
	HashBytes uint64
}

// Option is an engine creation option.
type Option func(*Engine)

// WithOptions sets the initial runtime options.
func WithOptions(opts Options) Option {
	return func(e *Engine) { e.opts = opts }
}

// Engine encapsulates game state, the shared transposition table, and at
// most one in-flight search. All exported methods are safe for concurrent
// use: the front-end (UCI, CLI) runs on one goroutine while a search runs
// on another, and they rendezvous only through Engine's mutex, the quit
// closer and the completion channel, per spec.md §5.
type Engine struct {
	name, author string
	opts         Options

	mu     sync.Mutex
	g      *game.Game
	tt     *search.Table
	active bool
	quit   iox.AsyncCloser
	done   chan struct{}
	result search.SearchResult
}

// New creates an engine, resetting it to the standard starting position.
func New(ctx context.Context, name, author string, opts ...Option) *Engine {
	e := &Engine{name: name, author: author}
	for _, fn := range opts {
		fn(e)
	}
	if e.opts.HashBytes == 0 {
		e.opts.HashBytes = defaultHashBytes
	}
	e.tt = search.NewTable(e.opts.HashBytes)
	_ = e.Reset(ctx, fen.Initial)

	logw.Infof(ctx, "Initialized engine: %v, hash=%vMB", e.Name(), e.opts.HashBytes>>20)
	return e
}

// Name returns the engine name and version, for UCI's "id name".
func (e *Engine) Name() string {
	return fmt.Sprintf("%v %v", e.name, version)
}

// Author returns the engine author, for UCI's "id author".
func (e *Engine) Author() string {
	return e.author
}

// Reset halts any active search and sets the root position from a FEN
// string.
func (e *Engine) Reset(ctx context.Context, position string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.haltLocked()

	pos, err := fen.Decode(position)
	if err != nil {
		return err
	}
	e.g = game.New(pos)

	logw.Infof(ctx, "Reset to %v", position)
	return nil
}

// Position returns the current position as a FEN string.
func (e *Engine) Position() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return fen.Encode(e.g.Position())
}

// Game returns an independent fork of the current game, safe to inspect
// (e.g. for printing a board) without racing a concurrent Push/Pop.
func (e *Engine) Game() *game.Game {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.g.Fork()
}

// Move applies a UCI-encoded move (e.g. "e2e4", "e7e8q") to the current
// game. The move must be legal in the current position; per §7's
// InvalidMove handling, nothing is committed on error.
func (e *Engine) Move(ctx context.Context, uci string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.haltLocked()

	candidate, err := board.ParseMove(uci)
	if err != nil {
		return fmt.Errorf("invalid move %q: %w", uci, err)
	}

	legal := board.LegalMoves(e.g.Position())
	for i := 0; i < legal.Len(); i++ {
		if m := legal.At(i); m.Equals(candidate) {
			e.g.Push(m)
			logw.Debugf(ctx, "Move %v", m)
			return nil
		}
	}
	return fmt.Errorf("illegal move: %v", uci)
}

// TakeBack undoes the last move played.
func (e *Engine) TakeBack(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.haltLocked()

	if !e.g.Pop() {
		return fmt.Errorf("no move to take back")
	}
	logw.Debugf(ctx, "Takeback")
	return nil
}

// ErrSearchActive is returned by Go when a search is already running.
var ErrSearchActive = fmt.Errorf("search already active")

// Go launches a search on the current position under limits, asynchronously.
// progress, if non-nil, is invoked on the search goroutine after every
// completed iterative-deepening depth -- it must not call back into Engine.
// Only one search may be active at a time; callers must Halt or Wait for
// it to finish before starting another.
func (e *Engine) Go(ctx context.Context, limits search.SearchLimits, progress search.ProgressFunc) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active {
		return ErrSearchActive
	}

	pos := e.g.Position()
	quit := iox.NewAsyncCloser()
	done := make(chan struct{})

	e.tt.NewSearch()
	e.active = true
	e.quit = quit
	e.done = done

	logw.Infof(ctx, "Search started: %v", limits)

	go func() {
		defer close(done)
		result := search.SearchWithStop(pos, limits, progress, e.tt, quit)

		e.mu.Lock()
		e.result = result
		e.active = false
		e.mu.Unlock()

		logw.Infof(ctx, "Search completed: %+v", result)
	}()
	return nil
}

// Wait blocks until the active search (if any) completes and returns its
// result. Safe to call with no active search: it returns the last result
// immediately.
func (e *Engine) Wait() search.SearchResult {
	e.mu.Lock()
	done := e.done
	e.mu.Unlock()

	if done != nil {
		<-done
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.result
}

// Halt requests the active search stop as soon as possible (within one
// time-check window, per spec.md §5) and waits for it to do so, returning
// its last-committed result. Safe to call with no active search.
func (e *Engine) Halt(ctx context.Context) search.SearchResult {
	e.mu.Lock()
	wasActive := e.active
	e.haltLocked()
	result := e.result
	e.mu.Unlock()

	if wasActive {
		logw.Infof(ctx, "Search halted: %+v", result)
	}
	return result
}

// haltLocked signals and drains an active search. Callers must hold e.mu;
// it releases and reacquires the lock to avoid deadlocking with the search
// goroutine's own completion handler, which also takes e.mu.
func (e *Engine) haltLocked() {
	if !e.active {
		return
	}
	quit := e.quit
	done := e.done

	e.mu.Unlock()
	quit.Close()
	<-done
	e.mu.Lock()
}

// ClearHash zeroes the transposition table, discarding all entries.
func (e *Engine) ClearHash() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.tt.Clear()
}
