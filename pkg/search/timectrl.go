package search

import (
	"time"

	"github.com/chessforge/chessforge/pkg/board"
)

// Deadline computes an absolute search deadline from limits, or reports
// that none applies (depth/node/infinite searches have no clock):
//
//   - move_time, if set, is used verbatim;
//   - otherwise, given a clock for the side to move: moves_left = MovesToGo
//     if given, else 30/20/10 depending on how far into the game fullmove
//     is; base = clock / moves_left; bonus = 0.8 * increment;
//     cap = 0.95 * clock; allocation = min(base+bonus, cap), floored at
//     50ms;
//   - otherwise there is no deadline.
func Deadline(limits SearchLimits, turn board.Color, fullmove int, now time.Time) (time.Time, bool) {
	if limits.MoveTime > 0 {
		return now.Add(limits.MoveTime), true
	}

	clock, inc := limits.WhiteTime, limits.WhiteInc
	if turn == board.Black {
		clock, inc = limits.BlackTime, limits.BlackInc
	}
	if clock <= 0 {
		return time.Time{}, false
	}

	movesLeft := limits.MovesToGo
	if movesLeft <= 0 {
		switch {
		case fullmove <= 10:
			movesLeft = 30
		case fullmove <= 30:
			movesLeft = 20
		default:
			movesLeft = 10
		}
	}

	base := clock / time.Duration(movesLeft)
	bonus := time.Duration(float64(inc) * 0.8)
	capLimit := time.Duration(float64(clock) * 0.95)

	alloc := base + bonus
	if alloc > capLimit {
		alloc = capLimit
	}
	const floor = 50 * time.Millisecond
	if alloc < floor {
		alloc = floor
	}
	return now.Add(alloc), true
}
