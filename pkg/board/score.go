package board

import "fmt"

// Score is a signed position or move score in centipawns. Positive favors
// White; by convention search scores are reported from the perspective of
// the side to move and negated when composing negamax results.
type Score int32

const (
	// Infinity bounds the window passed into the root of a search.
	Infinity Score = 1_000_000
	// CheckmateBase is the score magnitude of an immediate (0-ply) mate.
	// A mate in N plies scores CheckmateBase-N (see MateIn/MateDistance).
	CheckmateBase Score = 100_000
	// MateThreshold is the boundary above which a score is considered a
	// forced mate: iterative deepening stops once |score| crosses it.
	MateThreshold Score = CheckmateBase - 100
)

// MateIn returns the score for being mated in the given number of plies
// from the current node (0 = mated right now).
func MateIn(plies int) Score {
	return -(CheckmateBase - Score(plies))
}

// MateDistance returns the number of plies to mate and true, if the score
// represents a forced mate (for either side).
func (s Score) MateDistance() (int, bool) {
	switch {
	case s >= MateThreshold:
		return int(CheckmateBase - s), true
	case s <= -MateThreshold:
		return int(CheckmateBase + s), true
	default:
		return 0, false
	}
}

func (s Score) String() string {
	if d, ok := s.MateDistance(); ok {
		if s < 0 {
			return fmt.Sprintf("mate -%v", (d+1)/2)
		}
		return fmt.Sprintf("mate %v", (d+1)/2)
	}
	return fmt.Sprintf("%.2f", float64(s)/100)
}
