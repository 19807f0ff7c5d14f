package search

import (
	"container/heap"
	"fmt"

	"github.com/chessforge/chessforge/pkg/board"
)

// Priority represents move ordering priority: higher searches first.
type Priority int32

// MoveList is a move priority queue for move ordering during search.
type MoveList struct {
	h moveHeap
}

// NewMoveList builds a move list ordered by descending fn(move).
func NewMoveList(moves []board.Move, fn func(board.Move) Priority) *MoveList {
	h := make(moveHeap, len(moves))
	for i, m := range moves {
		h[i] = elm{m: m, val: fn(m)}
	}
	heap.Init(&h)
	return &MoveList{h: h}
}

// Next pops the highest-priority remaining move.
func (ml *MoveList) Next() (board.Move, bool) {
	if ml.Size() == 0 {
		return board.Move{}, false
	}
	return heap.Pop(&ml.h).(elm).m, true
}

func (ml *MoveList) Size() int {
	return ml.h.Len()
}

func (ml *MoveList) String() string {
	if ml.Size() == 0 {
		return "[size=0]"
	}
	return fmt.Sprintf("[top=%v, size=%v]", ml.h[0].m, ml.Size())
}

type elm struct {
	m   board.Move
	val Priority
}

type moveHeap []elm

func (h moveHeap) Len() int            { return len(h) }
func (h moveHeap) Less(i, j int) bool  { return h[i].val > h[j].val }
func (h moveHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *moveHeap) Push(x interface{}) { *h = append(*h, x.(elm)) }
func (h *moveHeap) Pop() interface{} {
	old := *h
	n := len(old)
	ret := old[n-1]
	*h = old[:n-1]
	return ret
}

const (
	hashMovePriority    Priority = 1_000_000
	goodCapturePriority Priority = 100_000
)

// MVVLVA returns a move-priority function for pos: the transposition-table
// best move (if any) sorts first, then captures by most-valuable-victim,
// least-valuable-attacker, then quiet moves at priority 0.
func MVVLVA(pos *board.Position, hashMove board.Move, hasHashMove bool) func(board.Move) Priority {
	return func(m board.Move) Priority {
		if hasHashMove && m.Equals(hashMove) {
			return hashMovePriority
		}
		victim, _, ok := pos.PieceAt(m.To)
		if !ok {
			// En passant's victim is not on the destination square.
			if attacker, _, aok := pos.PieceAt(m.From); aok && attacker == board.Pawn {
				if ep, epOk := pos.EnPassant(); epOk && m.To == ep {
					victim, ok = board.Pawn, true
				}
			}
		}
		if !ok {
			return 0
		}
		attacker, _, _ := pos.PieceAt(m.From)
		return goodCapturePriority + Priority(10*victim.Value()) - Priority(attacker.Value())
	}
}
