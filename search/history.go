package search

import "github.com/opensourcechess/pax/board"

// historyMax bounds every history table so the exponential-moving-average
// "gravity" update never overflows int16 and old information decays
// rather than saturating. Grounded on engine/history.go's historyMax.
const historyMax = 1 << 14

func historyBonus(depth int) int {
	var b = depth * depth
	if b > 400 {
		b = 400
	}
	return b
}

func gravityUpdate(cur int16, bonus int, good bool) int16 {
	var target = -historyMax
	if good {
		target = historyMax
	}
	var delta = (target - int(cur)) * bonus / 512
	return cur + int16(delta)
}

func fromToIndex(m board.Move) int { return m.From()<<6 | m.To() }
func pieceToIndex(m board.Move) int {
	return m.MovingPiece()<<6 | m.To()
}

// HistoryTables holds one worker's private ordering state: butterfly
// (from-to) main history, capture history, continuation/counter-move
// history indexed by the previous move's piece-to-square, and low-ply
// history for the first few plies where noise dominates deeper tables.
// Each worker owns its own HistoryTables -- only the TT and breadcrumb
// registry are shared, matching spec's "private per-worker history"
// requirement.
const pieceToSquareCount = 512 // movingPiece(3 bits)<<6 | to(6 bits)

// continuationOffsetCount is the number of ancestor-ply slots the
// continuation table keys off (offsets 1, 2, 4, 6 per spec §3/§4.6); the
// first two are consulted alone when the side to move is in check.
const continuationOffsetCount = 4

type HistoryTables struct {
	Butterfly    [2][4096]int16
	Capture      [2][pieceToSquareCount][7]int16
	Continuation [continuationOffsetCount][2][pieceToSquareCount][pieceToSquareCount]int16
	counterMove  [2][pieceToSquareCount]board.Move
	Killers      [MaxHeight + 1][2]board.Move
	LowPly       [4][4096]int16
}

func NewHistoryTables() *HistoryTables { return &HistoryTables{} }

func (h *HistoryTables) side(white bool) int {
	if white {
		return 1
	}
	return 0
}

func (h *HistoryTables) ButterflyScore(white bool, m board.Move) int {
	return int(h.Butterfly[h.side(white)][fromToIndex(m)])
}

func (h *HistoryTables) CaptureScore(white bool, m board.Move) int {
	return int(h.Capture[h.side(white)][pieceToIndex(m)][m.CapturedPiece()])
}

// ContinuationScore sums the contribution of every tracked ancestor
// offset -- {1,2,4,6} normally, {1,2} when in check, since a check
// response's ordering can't lean on context that far back.
func (h *HistoryTables) ContinuationScore(white bool, ancestors [4]board.Move, inCheck bool, m board.Move) int {
	var side = h.side(white)
	var mIdx = pieceToIndex(m)
	var limit = continuationOffsetCount
	if inCheck {
		limit = 2
	}
	var total = 0
	for i := 0; i < limit; i++ {
		var prev = ancestors[i]
		if prev == board.MoveEmpty {
			continue
		}
		total += int(h.Continuation[i][side][pieceToIndex(prev)][mIdx])
	}
	return total
}

func (h *HistoryTables) LowPlyScore(height int, m board.Move) int {
	if height >= len(h.LowPly) {
		return 0
	}
	return int(h.LowPly[height][fromToIndex(m)])
}

func (h *HistoryTables) CounterMove(white bool, prev board.Move) board.Move {
	if prev == board.MoveEmpty {
		return board.MoveEmpty
	}
	return h.counterMove[h.side(white)][pieceToIndex(prev)]
}

func (h *HistoryTables) UpdateKillers(height int, m board.Move) {
	if h.Killers[height][0] == m {
		return
	}
	h.Killers[height][1] = h.Killers[height][0]
	h.Killers[height][0] = m
}

func (h *HistoryTables) IsKiller(height int, m board.Move) bool {
	return m == h.Killers[height][0] || m == h.Killers[height][1]
}

// UpdateQuiet applies the gravity update to every quiet move tried at
// this node: the move that caused the beta cutoff (or improved alpha)
// gets a positive bump, everything searched before it gets an equal and
// opposite penalty, exactly as engine/history.go's historyContext.Update
// does across Butterfly/Counter/FollowUp.
func (h *HistoryTables) UpdateQuiet(white bool, ancestors [4]board.Move, inCheck bool, height, depth int, quietsSearched []board.Move, bestMove board.Move) {
	var bonus = historyBonus(depth)
	var side = h.side(white)
	var limit = continuationOffsetCount
	if inCheck {
		limit = 2
	}
	for _, m := range quietsSearched {
		var good = m == bestMove
		var ftIdx = fromToIndex(m)
		h.Butterfly[side][ftIdx] = gravityUpdate(h.Butterfly[side][ftIdx], bonus, good)
		if height < len(h.LowPly) {
			h.LowPly[height][ftIdx] = gravityUpdate(h.LowPly[height][ftIdx], bonus, good)
		}
		var mIdx = pieceToIndex(m)
		for i := 0; i < limit; i++ {
			var prev = ancestors[i]
			if prev == board.MoveEmpty {
				continue
			}
			var pIdx = pieceToIndex(prev)
			h.Continuation[i][side][pIdx][mIdx] = gravityUpdate(h.Continuation[i][side][pIdx][mIdx], bonus, good)
		}
	}
	if ancestors[0] != board.MoveEmpty && bestMove != board.MoveEmpty {
		h.counterMove[side][pieceToIndex(ancestors[0])] = bestMove
	}
}

// UpdateCaptures applies the same gravity formula to the capture history
// table, run whenever the best move at a node was itself a capture.
func (h *HistoryTables) UpdateCaptures(white bool, depth int, capturesSearched []board.Move, bestMove board.Move) {
	var bonus = historyBonus(depth)
	var side = h.side(white)
	for _, m := range capturesSearched {
		var good = m == bestMove
		var idx = pieceToIndex(m)
		var cur = h.Capture[side][idx][m.CapturedPiece()]
		h.Capture[side][idx][m.CapturedPiece()] = gravityUpdate(cur, bonus, good)
	}
}
