package search

import (
	"testing"

	"github.com/opensourcechess/pax/board"
)

func TestHistoryGravityBounds(t *testing.T) {
	var h = NewHistoryTables()
	var m = board.MakeMove(board.SquareG1, board.SquareF3, board.Knight, board.Empty)
	for i := 0; i < 200; i++ {
		h.UpdateQuiet(true, [4]board.Move{}, false, 0, 12, []board.Move{m}, m)
	}
	var s = h.ButterflyScore(true, m)
	if s > historyMax || s < -historyMax {
		t.Errorf("history score %d escaped [-%d, %d]", s, historyMax, historyMax)
	}
	if s <= 0 {
		t.Errorf("repeatedly-best move should have positive history, got %d", s)
	}
}

func TestHistoryPenalizesNonBestMoves(t *testing.T) {
	var h = NewHistoryTables()
	var good = board.MakeMove(board.SquareG1, board.SquareF3, board.Knight, board.Empty)
	var bad = board.MakeMove(board.SquareB1, board.SquareC3, board.Knight, board.Empty)
	for i := 0; i < 50; i++ {
		h.UpdateQuiet(true, [4]board.Move{}, false, 0, 10, []board.Move{bad, good}, good)
	}
	if h.ButterflyScore(true, bad) >= h.ButterflyScore(true, good) {
		t.Errorf("move searched-but-not-chosen should score below the best move")
	}
}

func TestContinuationScoreUsesAllFourOffsets(t *testing.T) {
	var h = NewHistoryTables()
	var m = board.MakeMove(board.SquareG1, board.SquareF3, board.Knight, board.Empty)
	var ancestors = [4]board.Move{
		board.MakeMove(board.SquareE2, board.SquareE4, board.Pawn, board.Empty),
		board.MakeMove(board.SquareD2, board.SquareD4, board.Pawn, board.Empty),
		board.MakeMove(board.SquareC2, board.SquareC4, board.Pawn, board.Empty),
		board.MakeMove(board.SquareB2, board.SquareB4, board.Pawn, board.Empty),
	}
	for i := 0; i < 50; i++ {
		h.UpdateQuiet(true, ancestors, false, 0, 10, []board.Move{m}, m)
	}
	if h.ContinuationScore(true, ancestors, false, m) <= 0 {
		t.Errorf("expected a positive continuation score once all four offsets have been reinforced")
	}

	var onlyFirst = [4]board.Move{ancestors[0]}
	if h.ContinuationScore(true, onlyFirst, false, m) >= h.ContinuationScore(true, ancestors, false, m) {
		t.Errorf("expected offsets 2, 4 and 6 to contribute beyond offset 1 alone")
	}
}

func TestContinuationScoreRestrictsToTwoOffsetsInCheck(t *testing.T) {
	var h = NewHistoryTables()
	var m = board.MakeMove(board.SquareG1, board.SquareF3, board.Knight, board.Empty)
	var ancestors = [4]board.Move{
		board.MakeMove(board.SquareE2, board.SquareE4, board.Pawn, board.Empty),
		board.MakeMove(board.SquareD2, board.SquareD4, board.Pawn, board.Empty),
		board.MakeMove(board.SquareC2, board.SquareC4, board.Pawn, board.Empty),
		board.MakeMove(board.SquareB2, board.SquareB4, board.Pawn, board.Empty),
	}
	for i := 0; i < 50; i++ {
		h.UpdateQuiet(true, ancestors, false, 0, 10, []board.Move{m}, m)
	}
	if h.ContinuationScore(true, ancestors, false, m) != h.ContinuationScore(true, ancestors, true, m)+
		int(h.Continuation[2][1][pieceToIndex(ancestors[2])][pieceToIndex(m)])+
		int(h.Continuation[3][1][pieceToIndex(ancestors[3])][pieceToIndex(m)]) {
		t.Errorf("in-check lookups should drop the offset-4 and offset-6 contributions")
	}
}

func TestKillerSlotsRotate(t *testing.T) {
	var h = NewHistoryTables()
	var m1 = board.MakeMove(board.SquareE2, board.SquareE4, board.Pawn, board.Empty)
	var m2 = board.MakeMove(board.SquareD2, board.SquareD4, board.Pawn, board.Empty)
	h.UpdateKillers(3, m1)
	h.UpdateKillers(3, m2)
	if !h.IsKiller(3, m1) || !h.IsKiller(3, m2) {
		t.Errorf("both recent killers should be tracked at height 3")
	}
	if h.Killers[3][0] != m2 {
		t.Errorf("most recent killer should occupy slot 0")
	}
}
