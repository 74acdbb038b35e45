package search

import (
	"sort"

	"github.com/opensourcechess/pax/board"
)

// runIterativeDeepening drives one worker's outer depth loop across
// MultiPV bands. Grounded on engine/search.go's IterateSearch, extended
// with the pvFirst..pvLast banding SUPPLEMENTED from
// original_source/src/search.cpp's Skill/MultiPV root-move grouping
// (TBRank defaults to 0 for every move without a tablebase, so the
// banding degenerates to a single band when multiPV == 1).
func (w *Worker) runIterativeDeepening(pos *board.Position, maxDepth, multiPV int, onIteration func(depth, pvIdx int, rm RootMove)) {
	if multiPV < 1 {
		multiPV = 1
	}
	if multiPV > len(w.RootMoves) {
		multiPV = len(w.RootMoves)
	}

	for depth := 1; depth <= maxDepth; depth++ {
		if w.stop() {
			return
		}
		w.SelDepth = 0

		sort.SliceStable(w.RootMoves, func(i, j int) bool {
			if w.RootMoves[i].TBRank != w.RootMoves[j].TBRank {
				return w.RootMoves[i].TBRank > w.RootMoves[j].TBRank
			}
			return w.RootMoves[i].Score > w.RootMoves[j].Score
		})

		for pvIdx := 0; pvIdx < multiPV; pvIdx++ {
			if w.stop() {
				return
			}
			// The root itself is a real move loop: searchAspiration runs
			// PVS across every move still in this band (band[0] full
			// window, the rest null-window with a re-search on raising
			// alpha), so every root candidate is actually compared
			// against its siblings instead of only the first one found.
			var band = w.RootMoves[pvIdx:]
			var prevBest = band[0].Move
			w.searchAspiration(pos, band, depth)

			sort.SliceStable(band, func(i, j int) bool {
				if band[i].TBRank != band[j].TBRank {
					return band[i].TBRank > band[j].TBRank
				}
				return band[i].Score > band[j].Score
			})

			if band[0].Move != prevBest {
				w.bestMoveChanges++
			}

			if onIteration != nil {
				onIteration(depth, pvIdx, w.RootMoves[pvIdx])
			}
		}

		for i := range w.RootMoves {
			w.RootMoves[i].PrevScore = w.RootMoves[i].Score
		}
		if w.stop() {
			return
		}
		w.CompletedDepth = depth
	}
}

func newRootMoves(pos *board.Position, restrictTo []board.Move) []RootMove {
	var legal = board.LegalMoves(pos)
	var allowed = map[board.Move]bool{}
	if len(restrictTo) > 0 {
		for _, m := range restrictTo {
			allowed[m] = true
		}
	}
	var moves = make([]RootMove, 0, len(legal))
	for _, m := range legal {
		if len(restrictTo) > 0 && !allowed[m] {
			continue
		}
		moves = append(moves, RootMove{Move: m, Score: -ValueInfinite, PrevScore: -ValueInfinite})
	}
	return moves
}
