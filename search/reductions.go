package search

import "math"

// reductions[i] = floor(21.9 * ln(i)), the late-move-reduction base table.
// Grounded in shape on engine/searchservice.go's lateMoveReductions
// (itself Crafty-derived: reduction grows with log(depth)*log(moveCount)),
// generalized to the single-table log formula.
var reductions [MaxMoves + 1]int

func init() {
	for i := 1; i <= MaxMoves; i++ {
		reductions[i] = int(21.9 * math.Log(float64(i)))
	}
}

// lmr computes the late-move reduction in plies for the moveNumber-th
// move searched at depth, boosted when the position is not "improving"
// (static eval fell relative to two plies ago).
func lmr(improving bool, depth, moveNumber int) int {
	var r = reductions[clampIdx(depth)] * reductions[clampIdx(moveNumber)] / 1024
	if !improving {
		r++
	}
	if r < 0 {
		r = 0
	}
	return r
}

func clampIdx(v int) int {
	if v < 0 {
		return 0
	}
	if v > MaxMoves {
		return MaxMoves
	}
	return v
}
