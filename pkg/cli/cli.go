// Package cli implements the output of the perft, eval, search and
// movetime verbs of the reference driver plus the interactive console loop
// behind the play verb, in the teacher's console-driver style. The fen
// verb is handled directly in cmd/chessforge.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/chessforge/chessforge/pkg/board"
	"github.com/chessforge/chessforge/pkg/board/fen"
	"github.com/chessforge/chessforge/pkg/engine"
	"github.com/chessforge/chessforge/pkg/eval"
	"github.com/chessforge/chessforge/pkg/perft"
	"github.com/chessforge/chessforge/pkg/search"
)

// ProtocolName is the command-line verb that selects the interactive
// console protocol (see cmd/chessforge).
const ProtocolName = "play"

// RunPerft prints the per-root-move node-count breakdown and total for pos
// at depth, followed by elapsed wall time -- the `perft` CLI verb.
func RunPerft(out io.Writer, pos *board.Position, depth int) {
	start := time.Now()
	divide := perft.Split(pos, depth)

	var total uint64
	for _, d := range divide {
		fmt.Fprintf(out, "%v: %v\n", d.Move, d.Nodes)
		total += d.Nodes
	}
	fmt.Fprintf(out, "\nNodes: %v\n", total)
	fmt.Fprintf(out, "Time: %v\n", time.Since(start).Round(time.Millisecond))
}

// RunEval prints the static evaluation of pos, from White's perspective
// and from the side to move's perspective -- the `eval` CLI verb.
func RunEval(out io.Writer, pos *board.Position) {
	fmt.Fprintf(out, "%v\n", fen.Encode(pos))
	fmt.Fprintf(out, "evaluate (white): %v\n", eval.Evaluate(pos))
	fmt.Fprintf(out, "evaluate (side to move): %v\n", eval.Relative(pos))
}

// RunSearch runs a blocking search under limits and prints one line (with
// its PV) per completed depth, then the best move -- the
// `search`/`movetime` CLI verbs.
func RunSearch(out io.Writer, pos *board.Position, limits search.SearchLimits) {
	tt := search.NewTable(16 << 20)
	start := time.Now()
	result := search.SearchWithCallback(pos, limits, tt, func(depth int, score board.Score, nodes uint64, pv []board.Move, elapsed time.Duration) {
		fmt.Fprintf(out, "depth %v score %v nodes %v time %v pv %v\n", depth, score, nodes, elapsed.Round(time.Millisecond), formatMoves(pv))
	})
	fmt.Fprintf(out, "\n")
	if result.HasBestMove {
		fmt.Fprintf(out, "bestmove %v\n", result.BestMove)
	} else {
		fmt.Fprintf(out, "bestmove none\n")
	}
	fmt.Fprintf(out, "total time: %v\n", time.Since(start).Round(time.Millisecond))
}

func formatMoves(moves []board.Move) string {
	parts := make([]string, len(moves))
	for i, m := range moves {
		parts[i] = m.String()
	}
	return strings.Join(parts, " ")
}

// Console implements the interactive `play` REPL: print the board, accept
// a move or a verb, repeat. Grounded on the teacher's console driver.
type Console struct {
	e   *engine.Engine
	out chan<- string
}

// NewConsole starts processing in on a new goroutine and returns the
// console plus the channel of output lines to forward to stdout.
func NewConsole(ctx context.Context, e *engine.Engine, in <-chan string) (*Console, <-chan string) {
	out := make(chan string, 100)
	c := &Console{e: e, out: out}
	go c.process(ctx, in)
	return c, out
}

func (c *Console) process(ctx context.Context, in <-chan string) {
	defer close(c.out)

	c.out <- fmt.Sprintf("%v by %v", c.e.Name(), c.e.Author())
	c.printBoard()

	for line := range in {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]

		switch cmd {
		case "reset", "r":
			c.e.Halt(ctx)
			pos := fen.Initial
			rest := args
			if len(args) >= 6 {
				pos = strings.Join(args[0:6], " ")
				rest = args[6:]
			}
			if err := c.e.Reset(ctx, pos); err != nil {
				c.out <- fmt.Sprintf("invalid position: %v", err)
				continue
			}
			for _, mv := range rest {
				if mv == "moves" {
					continue
				}
				if err := c.e.Move(ctx, mv); err != nil {
					c.out <- fmt.Sprintf("invalid move %q: %v", mv, err)
				}
			}
			c.printBoard()

		case "undo", "u":
			c.e.Halt(ctx)
			if err := c.e.TakeBack(ctx); err != nil {
				c.out <- err.Error()
			}
			c.printBoard()

		case "print", "p":
			c.printBoard()

		case "go", "search":
			c.e.Halt(ctx)
			depth := 6
			if len(args) > 0 {
				fmt.Sscanf(args[0], "%d", &depth)
			}
			c.runSearch(ctx, search.SearchLimits{Depth: depth})

		case "stop", "halt":
			c.e.Halt(ctx)

		case "quit", "exit", "q":
			c.e.Halt(ctx)
			return

		default:
			if err := c.e.Move(ctx, cmd); err != nil {
				c.out <- fmt.Sprintf("invalid move or command: %q", cmd)
			} else {
				c.printBoard()
			}
		}
	}
}

func (c *Console) runSearch(ctx context.Context, limits search.SearchLimits) {
	if err := c.e.Go(ctx, limits, func(depth int, score board.Score, nodes uint64, pv []board.Move, elapsed time.Duration) {
		c.out <- fmt.Sprintf("depth %v score %v nodes %v pv %v", depth, score, nodes, formatMoves(pv))
	}); err != nil {
		c.out <- err.Error()
		return
	}
	result := c.e.Wait()
	if result.HasBestMove {
		c.out <- fmt.Sprintf("bestmove %v", result.BestMove)
	} else {
		c.out <- "bestmove none"
	}
}

const (
	files      = "    a   b   c   d   e   f   g   h"
	horizontal = "  ---------------------------------"
)

func (c *Console) printBoard() {
	pos := c.e.Game().Position()

	c.out <- ""
	c.out <- files
	c.out <- horizontal
	for r := 7; r >= 0; r-- {
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("%v | ", r+1))
		for f := 0; f < 8; f++ {
			sq := board.NewSquare(board.File(f), board.Rank(r))
			if piece, color, ok := pos.PieceAt(sq); ok {
				sb.WriteString(pieceGlyph(color, piece))
			} else {
				sb.WriteString(" ")
			}
			sb.WriteString(" | ")
		}
		c.out <- sb.String()
		c.out <- horizontal
	}
	c.out <- files
	c.out <- ""
	c.out <- fmt.Sprintf("fen: %v", c.e.Position())
}

func pieceGlyph(c board.Color, p board.Piece) string {
	if c == board.White {
		return strings.ToUpper(p.String())
	}
	return p.String()
}
