// Package search implements alpha-beta game tree search over board
// positions: move ordering, quiescence, a transposition table and
// iterative deepening with a time manager.
package search

import (
	"math/bits"

	"github.com/chessforge/chessforge/pkg/board"
	"go.uber.org/atomic"
)

// Bound classifies a stored score relative to the window it was computed
// with, since alpha-beta rarely produces an exact score.
type Bound uint8

const (
	ExactBound Bound = iota
	LowerBound        // fail-high: score is at least this (a beta cutoff)
	UpperBound        // fail-low: score is at most this (no improvement on alpha)
)

func (b Bound) String() string {
	switch b {
	case ExactBound:
		return "exact"
	case LowerBound:
		return "lower"
	case UpperBound:
		return "upper"
	default:
		return "?"
	}
}

// Entry is a decoded transposition table record.
type Entry struct {
	Bound Bound
	Depth int
	Score board.Score
	Move  board.Move
	Age   uint8
}

// slot is a single 16-byte table entry, stored as two atomic words using
// the classic lockless hashing trick: Data holds the packed record and Key
// holds Hash XOR Data. A torn concurrent read (old Key with new Data, or
// vice versa) then fails the Hash == Key^Data check and is treated as a
// miss, rather than returned as a corrupt hit -- no pointer is ever
// dereferenced, so there is nothing to crash on.
type slot struct {
	key  atomic.Uint64
	data atomic.Uint64
}

// Table is a fixed-capacity, power-of-two-sized transposition table.
type Table struct {
	slots      []slot
	mask       uint64
	generation atomic.Uint32
}

// NewTable allocates a table sized to the largest power-of-two entry count
// that fits within sizeBytes (16 bytes/entry).
func NewTable(sizeBytes uint64) *Table {
	entries := sizeBytes / 16
	if entries < 2 {
		entries = 2
	}
	n := uint64(1) << uint(63-bits.LeadingZeros64(entries))
	return &Table{
		slots: make([]slot, n),
		mask:  n - 1,
	}
}

// Clear resets every slot to empty.
func (t *Table) Clear() {
	for i := range t.slots {
		t.slots[i].key.Store(0)
		t.slots[i].data.Store(0)
	}
}

// NewSearch advances the table's generation, marking every entry already
// stored as belonging to an earlier search. The counter is packed into 7
// bits of each slot (see packData), so it wraps at 128 -- entries aren't
// evicted on wraparound, but an age comparison that straddles a wrap is
// already stale enough that a direct depth/bound-based decision is no worse.
func (t *Table) NewSearch() {
	t.generation.Add(1)
}

func packData(age uint8, bound Bound, depth int, score board.Score, move board.Move) uint64 {
	d := uint64(uint32(score))
	d |= uint64(move.From) << 32
	d |= uint64(move.To) << 38
	d |= uint64(move.Promotion) << 44
	d |= uint64(bound) << 47
	if depth < 0 {
		depth = 0
	}
	d |= uint64(uint8(depth)) << 49
	d |= uint64(age&0x7f) << 57
	return d
}

func unpackData(d uint64) Entry {
	score := board.Score(int32(uint32(d)))
	from := board.Square((d >> 32) & 0x3f)
	to := board.Square((d >> 38) & 0x3f)
	promo := board.Piece((d >> 44) & 0x7)
	bound := Bound((d >> 47) & 0x3)
	depth := int((d >> 49) & 0xff)
	age := uint8((d >> 57) & 0x7f)
	return Entry{
		Bound: bound,
		Depth: depth,
		Score: score,
		Move:  board.Move{From: from, To: to, Promotion: promo},
		Age:   age,
	}
}

func (t *Table) index(hash board.Hash) uint64 {
	return uint64(hash) & t.mask
}

// Probe returns the stored entry for hash, if present and not a torn read.
func (t *Table) Probe(hash board.Hash) (Entry, bool) {
	s := &t.slots[t.index(hash)]
	key := s.key.Load()
	data := s.data.Load()
	if key^data != uint64(hash) {
		return Entry{}, false
	}
	return unpackData(data), true
}

// Store writes an entry unconditionally: every Store replaces whatever was
// in the slot, regardless of the existing entry's depth or age. Simpler
// than a depth-preferred replacement scheme and, given the table is
// re-populated every search, adequate for this engine's search depths.
func (t *Table) Store(hash board.Hash, bound Bound, depth int, score board.Score, move board.Move) {
	age := uint8(t.generation.Load() & 0x7f)
	data := packData(age, bound, depth, score, move)
	s := &t.slots[t.index(hash)]
	s.data.Store(data)
	s.key.Store(uint64(hash) ^ data)
}

// Len returns the number of slots (the table's capacity, not its current
// occupancy).
func (t *Table) Len() int {
	return len(t.slots)
}
