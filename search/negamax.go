package search

import "github.com/opensourcechess/pax/board"

const (
	nullMoveMinDepth  = 3
	probCutMinDepth   = 5
	probCutMargin     = 200
	futilityMaxDepth  = 8
	singularMinDepth  = 6
)

func futilityMargin(depth int) int { return 80 + 60*depth }

// negamax is the main search: draw check and mate-distance pruning ->
// TT probe -> static eval -> pruning cascade (null move, ProbCut, futility,
// internal iterative reduction) -> staged move loop with per-move
// pruning/extension/LMR -> history update -> TT store. Grounded on
// engine/searchservice.go's AlphaBeta, with the fuller pruning/extension
// menu layered on in the same control-flow shape.
func (w *Worker) negamax(pos *board.Position, depth, alpha, beta, height int, cutNode, excludedMove bool) int {
	var pvNode = beta-alpha > 1

	if height > w.SelDepth {
		w.SelDepth = height
	}

	if height >= MaxHeight {
		return w.eval.Evaluate(pos, w.contemptMg, w.contemptEg)
	}
	if depth <= 0 {
		return w.quiescence(pos, alpha, beta, height)
	}

	w.Nodes++
	if w.checkStopEvery() {
		return alpha
	}

	if height > 0 {
		if w.isDraw(pos) {
			return ValueDraw
		}
		// Mate-distance pruning: no line through this node can beat a
		// mate already found closer to the root, so tighten the window.
		var mAlpha = MatedIn(height)
		if mAlpha > alpha {
			alpha = mAlpha
		}
		var mBeta = MateIn(height + 1)
		if mBeta < beta {
			beta = mBeta
		}
		if alpha >= beta {
			return alpha
		}
	}

	var ttEntry = w.tt.Probe(pos.Key, height, pos.Rule50)
	var ttMove board.Move
	var ttHit = ttEntry.Found
	if ttHit {
		ttMove = ttEntry.Move
		if !excludedMove && ttEntry.Depth >= depth && !pvNode {
			switch {
			case ttEntry.Bound == BoundExact:
				return ttEntry.Score
			case ttEntry.Bound == BoundLower && ttEntry.Score >= beta:
				return ttEntry.Score
			case ttEntry.Bound == BoundUpper && ttEntry.Score <= alpha:
				return ttEntry.Score
			}
		}
	}

	var inCheck = pos.InCheck()
	var staticEval int
	if inCheck {
		staticEval = ValueNone
	} else if ttHit && ttEntry.Eval != ValueNone {
		staticEval = ttEntry.Eval
	} else {
		staticEval = w.eval.Evaluate(pos, w.contemptMg, w.contemptEg)
	}
	w.staticEvals[height] = staticEval

	var improving = !inCheck && height >= 2 && w.staticEvals[height-2] != ValueNone && staticEval > w.staticEvals[height-2]

	if !pvNode && !inCheck && !excludedMove && !w.ExactSearch {
		// Reverse futility: a large static-eval margin over beta means
		// no reasonable move sequence swings the score back below it.
		if depth <= futilityMaxDepth && staticEval-futilityMargin(depth) >= beta && staticEval < ValueMateInMaxHeight {
			return staticEval
		}

		// Null-move pruning: if we could pass and still fail high, a
		// real move should do at least as well, unless we're already in
		// zugzwang territory (guarded by requiring non-pawn material).
		if depth >= nullMoveMinDepth && staticEval >= beta && pos.HasNonPawnMaterial(pos.WhiteMove) {
			var reduction = 3 + depth/4
			var npos = pos.MakeNullMove()
			w.pushKey(npos.Key)
			w.pushMove(board.MoveEmpty)
			var score = -w.negamax(&npos, depth-reduction, -beta, -beta+1, height+1, !cutNode, false)
			w.popMove()
			w.popKey()
			if score >= beta {
				if score >= ValueMateInMaxHeight {
					score = beta
				}
				return score
			}
		}

		// ProbCut: a shallow, wide-margin search that a strong capture
		// still refutes at the parent's depth is unlikely to be undone
		// by a full search, so cut early on that evidence.
		if depth >= probCutMinDepth && !IsMateScore(beta) {
			var probCutBeta = beta + probCutMargin
			var mp = NewMovePicker(pos, w.history, ttMove, pos.LastMove, w.continuationAncestors(), false, height, true)
			for {
				m, ok := mp.Next()
				if !ok {
					break
				}
				if !m.IsCapture() || !pos.SEEGE(m, probCutBeta-staticEval) {
					continue
				}
				np, legal := pos.MakeMove(m)
				if !legal {
					continue
				}
				w.pushKey(np.Key)
				w.pushMove(m)
				var score = -w.negamax(&np, depth-4, -probCutBeta, -probCutBeta+1, height+1, !cutNode, false)
				w.popMove()
				w.popKey()
				if score >= probCutBeta {
					return score
				}
			}
		}
	}

	// Internal iterative reduction: without a TT move to try first,
	// shrink the depth slightly rather than paying for a full internal
	// iterative deepening pass.
	if depth >= 4 && ttMove == board.MoveEmpty && !excludedMove {
		depth--
	}

	var prevMove = board.MoveEmpty
	if height > 0 {
		prevMove = pos.LastMove
	}
	var ancestors = w.continuationAncestors()
	var mp = NewMovePicker(pos, w.history, ttMove, prevMove, ancestors, inCheck, height, false)

	// Breadcrumbs: opportunistically detect a sibling worker already
	// searching this same subtree so quiets here can be reduced a touch
	// harder, without ever blocking on the claim.
	var breadcrumbMarked = false
	if height < 8 {
		if holder := w.breadcrumbs.TryClaim(pos.Key, w.ID); holder >= 0 {
			breadcrumbMarked = true
		} else {
			defer w.breadcrumbs.Release(pos.Key, w.ID)
		}
	}

	var best = -ValueInfinite
	var bestMove board.Move
	var moveCount = 0
	var quietsSearched = make([]board.Move, 0, 32)
	var capturesSearched = make([]board.Move, 0, 16)
	var alphaOrig = alpha

	for {
		m, ok := mp.Next()
		if !ok {
			break
		}
		if excludedMove && m == ttMove {
			continue
		}

		var isQuiet = !m.IsCapture() && !m.IsPromotion()

		if height > 0 && best > ValueMatedInMaxHeight && !inCheck && !w.ExactSearch {
			// Late-move and history pruning of hopeless quiets.
			if isQuiet && depth <= 8 && moveCount >= 3+depth*depth {
				continue
			}
			if isQuiet && depth <= 4 {
				var h = w.history.ButterflyScore(pos.WhiteMove, m)
				if h < -2000*depth {
					continue
				}
			}
			if !isQuiet && depth <= 6 && !pos.SEEGE(m, -20*depth*depth) {
				continue
			}
		}

		var extension = 0
		if !excludedMove && depth >= singularMinDepth && m == ttMove && ttEntry.Depth >= depth-3 &&
			ttEntry.Bound != BoundUpper {
			// Singular extension: if every other move fails low against a
			// margin built around the TT score, the TT move is forced --
			// extend it rather than risk pruning the only good line.
			var singularBeta = ttEntry.Score - 2*depth
			var score = w.negamax(pos, (depth-1)/2, singularBeta-1, singularBeta, height, cutNode, true)
			if score < singularBeta {
				extension = 1
			} else if singularBeta >= beta {
				return singularBeta
			}
		} else if pos.GivesCheck(m) {
			extension = 1
		}

		np, legal := pos.MakeMove(m)
		if !legal {
			continue
		}
		moveCount++
		w.pushKey(np.Key)
		w.pushMove(m)

		var newDepth = depth - 1 + extension
		var score int
		if moveCount == 1 {
			score = -w.negamax(&np, newDepth, -beta, -alpha, height+1, false, false)
		} else {
			var r = 0
			if depth >= 3 && moveCount > 1 && isQuiet && !w.ExactSearch {
				r = lmr(improving, depth, moveCount)
				if pvNode {
					r--
				}
				if cutNode {
					r++
				}
				if breadcrumbMarked {
					r++
				}
				if r < 0 {
					r = 0
				}
				if r >= newDepth {
					r = newDepth - 1
				}
				if r < 0 {
					r = 0
				}
			}
			score = -w.negamax(&np, newDepth-r, -alpha-1, -alpha, height+1, true, false)
			if score > alpha && r > 0 {
				score = -w.negamax(&np, newDepth, -alpha-1, -alpha, height+1, !cutNode, false)
			}
			if score > alpha && pvNode {
				score = -w.negamax(&np, newDepth, -beta, -alpha, height+1, false, false)
			}
		}

		w.popMove()
		w.popKey()

		if isQuiet {
			quietsSearched = append(quietsSearched, m)
		} else if m.IsCapture() {
			capturesSearched = append(capturesSearched, m)
		}

		if score > best {
			best = score
			bestMove = m
			if score > alpha {
				alpha = score
				if score >= beta {
					if isQuiet {
						w.history.UpdateKillers(height, m)
						w.history.UpdateQuiet(pos.WhiteMove, ancestors, inCheck, height, depth, quietsSearched, m)
					} else {
						w.history.UpdateCaptures(pos.WhiteMove, depth, capturesSearched, m)
					}
					break
				}
			}
		}
	}

	if moveCount == 0 {
		if excludedMove {
			return alpha
		}
		if inCheck {
			return MatedIn(height)
		}
		return ValueDraw
	}

	var bound = BoundUpper
	if best >= beta {
		bound = BoundLower
	} else if best > alphaOrig {
		bound = BoundExact
	}
	if !excludedMove {
		w.tt.Store(pos.Key, bestMove, best, staticEval, depth, bound, height)
	}
	return best
}

func (w *Worker) checkStopEvery() bool {
	return w.Nodes&4095 == 0 && w.stop()
}
