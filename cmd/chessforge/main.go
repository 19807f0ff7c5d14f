// Command chessforge is a UCI-compatible chess engine: given a position
// and search limits, it finds the best move it can within budget.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/chessforge/chessforge/pkg/board"
	"github.com/chessforge/chessforge/pkg/board/fen"
	"github.com/chessforge/chessforge/pkg/cli"
	"github.com/chessforge/chessforge/pkg/engine"
	"github.com/chessforge/chessforge/pkg/search"
	"github.com/chessforge/chessforge/pkg/uci"
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: chessforge <verb> [args...]

CHESSFORGE is a UCI chess engine.
Verbs:
  uci                         run the UCI protocol over stdin/stdout
  perft <depth> [fen]         count legal-move-tree leaves at depth
  fen <fen>                   parse and re-print a FEN string
  eval [fen]                  print the static evaluation of a position
  search [depth|fen] [depth]  run a depth-limited search and print the PV
  movetime [ms|fen] [ms]      run a time-limited search and print the PV
  play                        interactive console REPL
`)
	}
}

func main() {
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	verb, rest := args[0], args[1:]
	switch verb {
	case uci.ProtocolName:
		runUCI()

	case "perft":
		runPerft(rest)

	case "fen":
		runFen(rest)

	case "eval":
		runEval(rest)

	case "search":
		runSearch(rest)

	case "movetime":
		runMovetime(rest)

	case cli.ProtocolName:
		runPlay()

	default:
		flag.Usage()
		os.Exit(1)
	}
}

func runUCI() {
	ctx := context.Background()
	e := engine.New(ctx, "chessforge", "chessforge contributors")
	in := readStdinLines()
	driver, out := uci.NewDriver(ctx, e, in)
	go writeStdoutLines(out)
	<-driver.Closed()
}

func runPlay() {
	ctx := context.Background()
	e := engine.New(ctx, "chessforge", "chessforge contributors")
	in := readStdinLines()
	_, out := cli.NewConsole(ctx, e, in)
	writeStdoutLines(out)
}

func runPerft(args []string) {
	if len(args) == 0 {
		flag.Usage()
		os.Exit(1)
	}
	depth, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid depth %q: %v\n", args[0], err)
		os.Exit(1)
	}
	pos := mustDecode(joinOrDefault(args[1:], fen.Initial))
	cli.RunPerft(os.Stdout, pos, depth)
}

func runFen(args []string) {
	if len(args) == 0 {
		flag.Usage()
		os.Exit(1)
	}
	pos, err := fen.Decode(strings.Join(args, " "))
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid FEN: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(fen.Encode(pos))
}

func runEval(args []string) {
	pos := mustDecode(joinOrDefault(args, fen.Initial))
	cli.RunEval(os.Stdout, pos)
}

func runSearch(args []string) {
	position, depth := splitPositionAndInt(args, fen.Initial, 6)
	pos := mustDecode(position)
	cli.RunSearch(os.Stdout, pos, search.SearchLimits{Depth: depth})
}

func runMovetime(args []string) {
	position, ms := splitPositionAndInt(args, fen.Initial, 1000)
	pos := mustDecode(position)
	cli.RunSearch(os.Stdout, pos, search.SearchLimits{MoveTime: time.Duration(ms) * time.Millisecond})
}

// splitPositionAndInt parses the shared "[depth|fen] [depth]" CLI shape:
// a bare integer as the sole argument selects depth/ms on the start
// position; otherwise the trailing integer (if any) is the depth/ms and
// everything before it is the FEN.
func splitPositionAndInt(args []string, defaultPos string, defaultN int) (string, int) {
	if len(args) == 0 {
		return defaultPos, defaultN
	}
	if len(args) == 1 {
		if n, err := strconv.Atoi(args[0]); err == nil {
			return defaultPos, n
		}
		return args[0], defaultN
	}
	if n, err := strconv.Atoi(args[len(args)-1]); err == nil {
		return strings.Join(args[:len(args)-1], " "), n
	}
	return strings.Join(args, " "), defaultN
}

func joinOrDefault(args []string, def string) string {
	if len(args) == 0 {
		return def
	}
	return strings.Join(args, " ")
}

func mustDecode(fenStr string) *board.Position {
	pos, err := fen.Decode(fenStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid FEN %q: %v\n", fenStr, err)
		os.Exit(1)
	}
	return pos
}

func readStdinLines() <-chan string {
	ret := make(chan string, 1)
	go func() {
		defer close(ret)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			ret <- scanner.Text()
		}
	}()
	return ret
}

func writeStdoutLines(out <-chan string) {
	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()
	for line := range out {
		fmt.Fprintln(w, line)
		w.Flush()
	}
}
