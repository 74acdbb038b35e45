package search

import "github.com/opensourcechess/pax/board"

const aspirationInitialDelta = 12

// dynamicContemptTrend implements spec.md §4.2's dynamic-contempt
// formula: dt·113·prev/(|prev|+147), where dt is the "Dynamic Contempt"
// operator option and prev is the root move's previous-iteration score.
// prev is already expressed from the perspective of the side to move at
// the root, so the result comes out "signed by side to move" for free.
func dynamicContemptTrend(dt, prev int) int {
	if dt == 0 || prev == -ValueInfinite {
		return 0
	}
	var absPrev = prev
	if absPrev < 0 {
		absPrev = -absPrev
	}
	return dt * 113 * prev / (absPrev + 147)
}

// searchAspiration runs a widening-window search around the band leader's
// prevScore, following the standard shrink-then-widen schedule
// (engine/search.go's IterateSearch uses a fixed re-search-on-fail
// policy; this generalizes it to symmetric widening deltas per spec).
// moves is the remaining root-move band for this MultiPV slot; the whole
// band is searched together so every candidate is compared against a
// shared alpha, per spec's Root node (§4.1, §4.3 step 16).
func (w *Worker) searchAspiration(pos *board.Position, moves []RootMove, depth int) int {
	var alpha, beta = -ValueInfinite, ValueInfinite
	var delta = aspirationInitialDelta

	var trend = dynamicContemptTrend(w.dynamicContempt, moves[0].PrevScore)
	var whiteSign int32 = 1
	if !pos.WhiteMove {
		whiteSign = -1
	}
	w.contemptMg = int32(trend) * whiteSign
	w.contemptEg = int32(trend/2) * whiteSign

	if depth >= 4 {
		alpha = maxInt(moves[0].PrevScore-delta, -ValueInfinite) + trend
		beta = minInt(moves[0].PrevScore+delta, ValueInfinite) + trend
	}

	for {
		if w.stop() {
			return moves[0].Score
		}
		var score = w.searchRootMoves(pos, moves, depth, alpha, beta)
		if score <= alpha {
			beta = (alpha + beta) / 2
			alpha = maxInt(score-delta, -ValueInfinite)
		} else if score >= beta {
			beta = minInt(score+delta, ValueInfinite)
		} else {
			return score
		}
		delta += delta / 2
	}
}

// searchRootMoves is the Root node's move loop: negamax's own PVS
// discipline (full window on the first move, null window with a
// conditional re-search on the rest) applied across every candidate in
// moves rather than one move searched in isolation, so the chosen move
// is the one that actually won a real comparison against its siblings.
func (w *Worker) searchRootMoves(pos *board.Position, moves []RootMove, depth, alpha, beta int) int {
	var best = -ValueInfinite
	for i := range moves {
		if w.stop() {
			break
		}
		var rm = &moves[i]
		np, legal := pos.MakeMove(rm.Move)
		if !legal {
			continue
		}
		w.pushKey(np.Key)
		w.pushMove(rm.Move)

		var score int
		if i == 0 {
			score = -w.negamax(&np, depth-1, -beta, -alpha, 1, false, false)
		} else {
			score = -w.negamax(&np, depth-1, -alpha-1, -alpha, 1, true, false)
			if score > alpha && score < beta {
				score = -w.negamax(&np, depth-1, -beta, -alpha, 1, false, false)
			}
		}

		w.popMove()
		w.popKey()

		rm.Score = score
		if score > best {
			best = score
			if score > alpha {
				alpha = score
				rm.PV = w.collectPV(&np, rm.Move, depth-1)
			}
		} else if len(rm.PV) == 0 {
			rm.PV = []board.Move{rm.Move}
		}
		if alpha >= beta {
			break
		}
	}
	return best
}

// collectPV walks the transposition table's stored best moves from pos
// onward, matching engine/search.go's hashStorePV in reverse: rather
// than writing the PV into the TT, it reads the PV back out of it.
func (w *Worker) collectPV(pos *board.Position, first board.Move, depth int) []board.Move {
	var pv = []board.Move{first}
	var cur = *pos
	for i := 0; i < depth && i < MaxHeight; i++ {
		var e = w.tt.Probe(cur.Key, i+1, cur.Rule50)
		if !e.Found || e.Move == board.MoveEmpty {
			break
		}
		var np, legal = cur.MakeMove(e.Move)
		if !legal {
			break
		}
		pv = append(pv, e.Move)
		cur = np
	}
	return pv
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
