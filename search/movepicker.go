package search

import "github.com/opensourcechess/pax/board"

const scoreBadCapPenalty = 1 << 19

type scoredMove struct {
	move  board.Move
	score int
}

// stage names the move picker's state machine, matching the
// TT-move -> good-captures -> killers/counter -> bad-captures -> quiets
// ordering of engine/movesort.go's moveSort.
type stage int

const (
	stageTT stage = iota
	stageGenCaptures
	stageGoodCaptures
	stageKillers
	stageCounter
	stageGenQuiets
	stageQuiets
	stageBadCaptures
	stageDone
)

// MovePicker is a staged move iterator: it never allocates the full move
// list up front for ordinary nodes, matching the teacher's
// moveSort/moveSortQS split of "important" moves scored immediately from
// "remaining" moves scored and sorted lazily.
type MovePicker struct {
	pos       *board.Position
	hist      *HistoryTables
	ttMove    board.Move
	prevMove  board.Move
	ancestors [4]board.Move
	inCheck   bool
	height    int
	qsOnly    bool

	stage stage

	captures    []scoredMove
	quiets      []scoredMove
	badCaptures []scoredMove
	idx         int

	killer1, killer2, counter board.Move
}

func NewMovePicker(pos *board.Position, hist *HistoryTables, ttMove, prevMove board.Move, ancestors [4]board.Move, inCheck bool, height int, qsOnly bool) *MovePicker {
	var mp = &MovePicker{
		pos:       pos,
		hist:      hist,
		ttMove:    ttMove,
		prevMove:  prevMove,
		ancestors: ancestors,
		inCheck:   inCheck,
		height:    height,
		qsOnly:    qsOnly,
		stage:     stageTT,
	}
	if height <= MaxHeight {
		mp.killer1 = hist.Killers[height][0]
		mp.killer2 = hist.Killers[height][1]
		mp.counter = hist.CounterMove(pos.WhiteMove, prevMove)
	}
	return mp
}

// Next returns the next move to try, or (0, false) when exhausted.
func (mp *MovePicker) Next() (board.Move, bool) {
	for {
		switch mp.stage {
		case stageTT:
			mp.stage = stageGenCaptures
			if mp.ttMove != board.MoveEmpty && mp.isPseudoLegal(mp.ttMove) {
				return mp.ttMove, true
			}

		case stageGenCaptures:
			mp.genCaptures()
			mp.stage = stageGoodCaptures
			mp.idx = 0

		case stageGoodCaptures:
			for mp.idx < len(mp.captures) {
				var sm = mp.captures[mp.idx]
				mp.idx++
				if sm.move == mp.ttMove {
					continue
				}
				if sm.score < 0 {
					mp.badCaptures = append(mp.badCaptures, sm)
					continue
				}
				return sm.move, true
			}
			if mp.qsOnly {
				mp.stage = stageBadCaptures
				mp.idx = 0
			} else {
				mp.stage = stageKillers
			}

		case stageKillers:
			mp.stage = stageCounter
			mp.idx = 0
			if mp.killer1 != board.MoveEmpty && mp.killer1 != mp.ttMove && mp.isPseudoLegal(mp.killer1) && !mp.killer1.IsCapture() {
				return mp.killer1, true
			}

		case stageCounter:
			if mp.idx == 0 {
				mp.idx = 1
				if mp.killer2 != board.MoveEmpty && mp.killer2 != mp.ttMove && mp.killer2 != mp.killer1 && mp.isPseudoLegal(mp.killer2) && !mp.killer2.IsCapture() {
					return mp.killer2, true
				}
			}
			mp.stage = stageBadCaptures
			mp.idx = 0
			if mp.counter != board.MoveEmpty && mp.counter != mp.ttMove && mp.counter != mp.killer1 && mp.counter != mp.killer2 && mp.isPseudoLegal(mp.counter) && !mp.counter.IsCapture() {
				return mp.counter, true
			}

		case stageGenQuiets:
			mp.genQuiets()
			mp.stage = stageQuiets
			mp.idx = 0

		case stageQuiets:
			for mp.idx < len(mp.quiets) {
				var sm = mp.quiets[mp.idx]
				mp.idx++
				if sm.move == mp.ttMove || sm.move == mp.killer1 || sm.move == mp.killer2 || sm.move == mp.counter {
					continue
				}
				return sm.move, true
			}
			mp.stage = stageDone

		case stageBadCaptures:
			for mp.idx < len(mp.badCaptures) {
				var sm = mp.badCaptures[mp.idx]
				mp.idx++
				if sm.move == mp.ttMove {
					continue
				}
				return sm.move, true
			}
			if mp.qsOnly {
				mp.stage = stageDone
			} else {
				mp.stage = stageGenQuiets
			}

		case stageDone:
			return board.MoveEmpty, false
		}
	}
}

func (mp *MovePicker) isPseudoLegal(m board.Move) bool {
	var moves = board.GenerateMoves(mp.pos, make([]board.Move, 0, MaxMoves))
	for _, cand := range moves {
		if cand == m {
			return true
		}
	}
	return false
}

func (mp *MovePicker) genCaptures() {
	var raw = board.GenerateCaptures(mp.pos, make([]board.Move, 0, 64))
	mp.captures = make([]scoredMove, 0, len(raw))
	for _, m := range raw {
		var see = mp.pos.SEEGE(m, 0)
		var s = board.MVVLVA(m)*64 + mp.hist.CaptureScore(mp.pos.WhiteMove, m)
		if !see {
			s = -scoreBadCapPenalty - s
		}
		mp.captures = append(mp.captures, scoredMove{m, s})
	}
	sortDescending(mp.captures)
}

func (mp *MovePicker) genQuiets() {
	var raw = board.GenerateMoves(mp.pos, make([]board.Move, 0, MaxMoves))
	mp.quiets = make([]scoredMove, 0, len(raw))
	for _, m := range raw {
		if m.IsCapture() || m.IsPromotion() {
			continue
		}
		var s = mp.hist.ButterflyScore(mp.pos.WhiteMove, m) +
			mp.hist.ContinuationScore(mp.pos.WhiteMove, mp.ancestors, mp.inCheck, m) +
			mp.hist.LowPlyScore(mp.height, m)
		mp.quiets = append(mp.quiets, scoredMove{m, s})
	}
	sortDescending(mp.quiets)
}

// sortDescending is a plain insertion sort: move lists at a search node
// are short (rarely above 40), matching the shell-sort-for-small-N
// choice engine/movesort.go makes with its shellSortGaps.
func sortDescending(moves []scoredMove) {
	for i := 1; i < len(moves); i++ {
		var key = moves[i]
		var j = i - 1
		for j >= 0 && moves[j].score < key.score {
			moves[j+1] = moves[j]
			j--
		}
		moves[j+1] = key
	}
}
