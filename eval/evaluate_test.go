package eval

import (
	"testing"

	"github.com/opensourcechess/pax/board"
)

func TestClassicalStartPositionIsRoughlyBalanced(t *testing.T) {
	var pos, err = board.NewPositionFromFEN(board.InitialPositionFEN)
	if err != nil {
		t.Fatalf("NewPositionFromFEN: %v", err)
	}
	var e = NewClassical()
	var v = e.Evaluate(&pos, 0, 0)
	if v < -50 || v > 50 {
		t.Fatalf("Evaluate(startpos) = %d, want roughly 0", v)
	}
}

func TestClassicalRewardsMaterialAdvantage(t *testing.T) {
	var withQueen, err = board.NewPositionFromFEN("4k3/8/8/8/8/8/8/Q3K3 w - - 0 1")
	if err != nil {
		t.Fatalf("NewPositionFromFEN: %v", err)
	}
	var withoutQueen, err2 = board.NewPositionFromFEN("4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	if err2 != nil {
		t.Fatalf("NewPositionFromFEN: %v", err2)
	}

	var e = NewClassical()
	if e.Evaluate(&withQueen, 0, 0) <= e.Evaluate(&withoutQueen, 0, 0) {
		t.Fatal("a lone queen should evaluate better for the side to move than no material at all")
	}
}

func TestClassicalIsSideToMoveRelative(t *testing.T) {
	var white, err = board.NewPositionFromFEN("4k3/8/8/8/8/8/8/Q3K3 w - - 0 1")
	if err != nil {
		t.Fatalf("NewPositionFromFEN: %v", err)
	}
	var black, err2 = board.NewPositionFromFEN("4k3/8/8/8/8/8/8/Q3K3 b - - 0 1")
	if err2 != nil {
		t.Fatalf("NewPositionFromFEN: %v", err2)
	}

	var e = NewClassical()
	if e.Evaluate(&white, 0, 0) != -e.Evaluate(&black, 0, 0) {
		t.Fatalf("Evaluate should flip sign with side to move: white=%d black=%d",
			e.Evaluate(&white, 0, 0), e.Evaluate(&black, 0, 0))
	}
}
