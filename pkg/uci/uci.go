// Package uci implements the spec-conformant subset of the Universal Chess
// Interface protocol as a line-based driver over an engine.Engine.
//
// See: http://wbec-ridderkerk.nl/html/UCIProtocol.html
package uci

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/chessforge/chessforge/pkg/board"
	"github.com/chessforge/chessforge/pkg/board/fen"
	"github.com/chessforge/chessforge/pkg/engine"
	"github.com/chessforge/chessforge/pkg/search"
	"github.com/seekerror/logw"
	"go.uber.org/atomic"
)

// ProtocolName is the command-line verb that selects this protocol (see
// cmd/chessforge).
const ProtocolName = "uci"

// Driver drives an engine.Engine over the UCI protocol.
type Driver struct {
	e     *engine.Engine
	out   chan<- string
	debug atomic.Bool

	lastPosition string // last accepted "position ..." line; cleared by ucinewgame

	quit   chan struct{}
	closed atomic.Bool
}

// NewDriver starts processing in in a new goroutine and returns a driver
// handle plus the channel of output lines to forward to stdout.
func NewDriver(ctx context.Context, e *engine.Engine, in <-chan string) (*Driver, <-chan string) {
	out := make(chan string, 100)
	d := &Driver{
		e:    e,
		out:  out,
		quit: make(chan struct{}),
	}
	go d.process(ctx, in)
	return d, out
}

// Closed reports when the driver has finished processing (input closed, or
// "quit" received).
func (d *Driver) Closed() <-chan struct{} {
	return d.quit
}

func (d *Driver) close() {
	if d.closed.CAS(false, true) {
		close(d.quit)
	}
}

func (d *Driver) debugf(format string, args ...interface{}) {
	if d.debug.Load() {
		d.out <- fmt.Sprintf("info string %v", fmt.Sprintf(format, args...))
	}
}

func (d *Driver) process(ctx context.Context, in <-chan string) {
	defer d.close()
	defer close(d.out)

	logw.Infof(ctx, "UCI protocol initialized")

	d.out <- fmt.Sprintf("id name %v", d.e.Name())
	d.out <- fmt.Sprintf("id author %v", d.e.Author())
	d.out <- "uciok"

	for line := range in {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]

		switch cmd {
		case "isready":
			d.out <- "readyok"

		case "debug":
			if len(args) > 0 {
				d.debug.Store(args[0] == "on")
			}

		case "ucinewgame":
			d.e.Halt(ctx)
			_ = d.e.Reset(ctx, fen.Initial)
			d.e.ClearHash()
			d.lastPosition = ""

		case "position":
			d.handlePosition(ctx, line, args)

		case "go":
			d.handleGo(ctx, args)

		case "stop":
			d.e.Halt(ctx)

		case "quit":
			d.e.Halt(ctx)
			return

		default:
			d.debugf("unknown command %q", cmd)
		}
	}
}

// handlePosition parses "position (startpos|fen ...) [moves ...]" entirely
// against a scratch position before touching the live engine: per §7's
// atomicity contract, a bad FEN or an illegal move partway through the move
// list must leave the engine's prior position untouched rather than
// committed up to the last-good move.
func (d *Driver) handlePosition(ctx context.Context, line string, args []string) {
	d.e.Halt(ctx)

	position := fen.Initial
	rest := args
	if len(args) >= 7 && args[0] == "fen" {
		position = strings.Join(args[1:7], " ")
		rest = args[7:]
	} else if len(args) >= 1 && args[0] == "startpos" {
		rest = args[1:]
	} else if len(args) >= 1 && args[0] == "fen" {
		logw.Errorf(ctx, "Invalid position %q: incomplete FEN", line)
		d.debugf("invalid position %q: incomplete FEN", line)
		return
	}

	scratch, err := fen.Decode(position)
	if err != nil {
		logw.Errorf(ctx, "Invalid position %q: %v", line, err)
		d.debugf("invalid position %q: %v", line, err)
		return
	}

	var moves []string
	movesSeen := false
	for _, tok := range rest {
		if tok == "moves" {
			movesSeen = true
			continue
		}
		if !movesSeen {
			continue
		}
		candidate, err := board.ParseMove(tok)
		if err != nil {
			logw.Errorf(ctx, "Invalid move %q in %q: %v", tok, line, err)
			d.debugf("invalid move %q in %q: %v", tok, line, err)
			return
		}
		legal := board.LegalMoves(scratch)
		matched := false
		for i := 0; i < legal.Len(); i++ {
			if m := legal.At(i); m.Equals(candidate) {
				scratch = scratch.Apply(m)
				matched = true
				break
			}
		}
		if !matched {
			logw.Errorf(ctx, "Illegal move %q in %q", tok, line)
			d.debugf("illegal move %q in %q", tok, line)
			return
		}
		moves = append(moves, tok)
	}

	// Every token validated against the scratch position: commit for real.
	// Reset and Move are known-good replays of what was just validated.
	_ = d.e.Reset(ctx, position)
	for _, tok := range moves {
		_ = d.e.Move(ctx, tok)
	}
	d.lastPosition = line
}

func (d *Driver) handleGo(ctx context.Context, args []string) {
	d.e.Halt(ctx)

	var limits search.SearchLimits
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			i++
			if n, err := atoiAt(args, i); err == nil {
				limits.Depth = n
			}
		case "movetime":
			i++
			if n, err := atoiAt(args, i); err == nil {
				limits.MoveTime = time.Duration(n) * time.Millisecond
			}
		case "nodes":
			i++
			if n, err := atoiAt(args, i); err == nil {
				limits.Nodes = uint64(n)
			}
		case "wtime":
			i++
			if n, err := atoiAt(args, i); err == nil {
				limits.WhiteTime = time.Duration(n) * time.Millisecond
			}
		case "btime":
			i++
			if n, err := atoiAt(args, i); err == nil {
				limits.BlackTime = time.Duration(n) * time.Millisecond
			}
		case "winc":
			i++
			if n, err := atoiAt(args, i); err == nil {
				limits.WhiteInc = time.Duration(n) * time.Millisecond
			}
		case "binc":
			i++
			if n, err := atoiAt(args, i); err == nil {
				limits.BlackInc = time.Duration(n) * time.Millisecond
			}
		case "movestogo":
			i++
			if n, err := atoiAt(args, i); err == nil {
				limits.MovesToGo = n
			}
		case "infinite":
			limits.Infinite = true
		default:
			// searchmoves and ponder are accepted but not implemented.
		}
	}

	if err := d.e.Go(ctx, limits, d.onProgress); err != nil {
		logw.Errorf(ctx, "go failed: %v", err)
		d.debugf("go failed: %v", err)
		return
	}

	go func() {
		result := d.e.Wait()
		d.onComplete(result)
	}()
}

// onProgress runs on the search goroutine after every completed
// iterative-deepening depth; it must not call back into the engine.
func (d *Driver) onProgress(depth int, score board.Score, nodes uint64, pv []board.Move, elapsed time.Duration) {
	parts := []string{"info", fmt.Sprintf("depth %v", depth)}
	if dist, ok := score.MateDistance(); ok {
		moves := (dist + 1) / 2
		if score < 0 {
			moves = -moves
		}
		parts = append(parts, fmt.Sprintf("score mate %v", moves))
	} else {
		parts = append(parts, fmt.Sprintf("score cp %v", int(score)))
	}
	parts = append(parts, fmt.Sprintf("nodes %v", nodes))
	parts = append(parts, fmt.Sprintf("time %v", elapsed.Milliseconds()))
	if elapsed > 0 {
		parts = append(parts, fmt.Sprintf("nps %v", uint64(float64(nodes)/elapsed.Seconds())))
	}
	if len(pv) > 0 {
		parts = append(parts, "pv")
		for _, m := range pv {
			parts = append(parts, m.String())
		}
	}
	d.out <- strings.Join(parts, " ")
}

func (d *Driver) onComplete(result search.SearchResult) {
	if result.HasBestMove {
		d.out <- fmt.Sprintf("bestmove %v", result.BestMove)
	} else {
		d.out <- "bestmove 0000"
	}
}

func atoiAt(args []string, i int) (int, error) {
	if i >= len(args) {
		return 0, fmt.Errorf("missing argument")
	}
	return strconv.Atoi(args[i])
}
