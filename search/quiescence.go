package search

import "github.com/opensourcechess/pax/board"

// quiescence resolves capture sequences beyond the horizon so the main
// search never evaluates a position with a hanging piece on the board.
// Grounded on engine/searchservice.go's Quiescence: stand-pat cutoff,
// SEE-gated capture pruning, mate-distance-safe alpha/beta handling.
func (w *Worker) quiescence(pos *board.Position, alpha, beta, height int) int {
	w.Nodes++
	if height > w.SelDepth {
		w.SelDepth = height
	}
	if height >= MaxHeight {
		return w.eval.Evaluate(pos, w.contemptMg, w.contemptEg)
	}

	var inCheck = pos.InCheck()
	var standPat int
	if !inCheck {
		standPat = w.eval.Evaluate(pos, w.contemptMg, w.contemptEg)
		if w.variety > 0 {
			standPat += int(pos.Key%uint64(2*w.variety+1)) - w.variety
		}
		if standPat >= beta {
			return standPat
		}
		if standPat > alpha {
			alpha = standPat
		}
	} else {
		standPat = -ValueMate + height
	}

	var ttEntry = w.tt.Probe(pos.Key, height, pos.Rule50)
	var ttMove board.Move
	if ttEntry.Found {
		ttMove = ttEntry.Move
		switch {
		case ttEntry.Bound == BoundExact:
			return ttEntry.Score
		case ttEntry.Bound == BoundLower && ttEntry.Score >= beta:
			return ttEntry.Score
		case ttEntry.Bound == BoundUpper && ttEntry.Score <= alpha:
			return ttEntry.Score
		}
	}

	var best = standPat
	var bestMove board.Move
	var prev = board.MoveEmpty
	if height > 0 {
		prev = pos.LastMove
	}
	// In check, a legal reply may be a non-capturing block or king step
	// rather than a capture; qsOnly must drop so the picker's quiet stage
	// runs too, or a position with only quiet evasions looks like mate.
	// Grounded on original_source/src/search.cpp:1857-1861's
	// MoveList<LEGAL> check, which counts every legal move, not just
	// captures.
	var mp = NewMovePicker(pos, w.history, ttMove, prev, [4]board.Move{prev}, inCheck, height, !inCheck)

	var moveCount = 0
	for {
		m, ok := mp.Next()
		if !ok {
			break
		}
		if !inCheck && m.IsCapture() && !pos.SEEGE(m, 0) {
			continue
		}
		np, legal := pos.MakeMove(m)
		if !legal {
			continue
		}
		moveCount++
		var score = -w.quiescence(&np, -beta, -alpha, height+1)
		if score > best {
			best = score
			bestMove = m
			if score > alpha {
				alpha = score
				if score >= beta {
					break
				}
			}
		}
	}

	if inCheck && moveCount == 0 {
		return -ValueMate + height
	}

	var bound = BoundUpper
	if best >= beta {
		bound = BoundLower
	} else if bestMove != board.MoveEmpty {
		bound = BoundExact
	}
	w.tt.Store(pos.Key, bestMove, best, standPat, 0, bound, height)
	return best
}
