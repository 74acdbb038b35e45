package search

import (
	"testing"

	"github.com/opensourcechess/pax/board"
)

func TestTranspositionTableRoundTrip(t *testing.T) {
	var tt = NewTranspositionTable(1)
	var key = uint64(0x1234567890abcdef)
	var m = board.MakeMove(board.SquareE2, board.SquareE4, board.Pawn, board.Empty)

	tt.Store(key, m, 55, 40, 6, BoundExact, 0)
	var e = tt.Probe(key, 0, 0)
	if !e.Found {
		t.Fatalf("expected entry to be found")
	}
	if e.Move != m || e.Score != 55 || e.Depth != 6 || e.Bound != BoundExact {
		t.Errorf("got %+v", e)
	}
}

func TestTranspositionTableMissOnDifferentKey(t *testing.T) {
	var tt = NewTranspositionTable(1)
	tt.Store(1, board.MoveEmpty, 0, 0, 1, BoundExact, 0)
	var e = tt.Probe(2, 0, 0)
	if e.Found {
		t.Errorf("expected miss for unrelated key")
	}
}

func TestValueToFromTTRoundTrip(t *testing.T) {
	var cases = []int{0, 100, -100, ValueMateInMaxHeight, ValueMatedInMaxHeight, MateIn(3), MatedIn(5)}
	for _, v := range cases {
		var stored = valueToTT(v, 4)
		var back = valueFromTT(stored, 4, 0)
		if back != v {
			t.Errorf("valueFromTT(valueToTT(%d, 4), 4, 0) = %d", v, back)
		}
	}
}

// TestValueFromTTClampsMateInvalidatedByRule50 is spec scenario 6: a TT
// entry stored at ply 5 with v = MATE-10, probed at ply 5 with
// rule50 = 95, must be clamped rather than reported as a genuine mate,
// since only 4 more plies remain before the 50-move counter resets it.
func TestValueFromTTClampsMateInvalidatedByRule50(t *testing.T) {
	var stored = valueToTT(ValueMate-10, 5)
	var got = valueFromTT(stored, 5, 95)
	if got != ValueMateInMaxHeight-1 {
		t.Errorf("valueFromTT(stored, 5, 95) = %d, want %d", got, ValueMateInMaxHeight-1)
	}
}

func TestValueFromTTNoClampWithPlentyOfRule50Budget(t *testing.T) {
	var stored = valueToTT(ValueMate-10, 5)
	var got = valueFromTT(stored, 5, 0)
	if got != ValueMate-10 {
		t.Errorf("valueFromTT(stored, 5, 0) = %d, want %d", got, ValueMate-10)
	}
}

func TestValueFromTTClampsLosingSideSymmetrically(t *testing.T) {
	var stored = valueToTT(-ValueMate+10, 5)
	var got = valueFromTT(stored, 5, 95)
	if got != -(ValueMateInMaxHeight - 1) {
		t.Errorf("valueFromTT(stored, 5, 95) = %d, want %d", got, -(ValueMateInMaxHeight - 1))
	}
}

func TestMateScoreClassification(t *testing.T) {
	if !IsMateScore(MateIn(1)) {
		t.Errorf("MateIn(1) should be a mate score")
	}
	if !IsMateScore(MatedIn(1)) {
		t.Errorf("MatedIn(1) should be a mate score")
	}
	if IsMateScore(0) {
		t.Errorf("0 should not be a mate score")
	}
}
