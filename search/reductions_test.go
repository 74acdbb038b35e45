package search

import "testing"

func TestReductionsMonotonicInDepthAndMoveNumber(t *testing.T) {
	if lmr(true, 10, 20) < lmr(true, 10, 2) {
		t.Errorf("reduction should grow with move number")
	}
	if lmr(true, 20, 10) < lmr(true, 3, 10) {
		t.Errorf("reduction should grow with depth")
	}
}

func TestReductionsNeverNegative(t *testing.T) {
	for depth := 0; depth <= 30; depth++ {
		for mn := 0; mn <= 60; mn++ {
			if lmr(false, depth, mn) < 0 {
				t.Errorf("lmr(%d,%d) went negative", depth, mn)
			}
		}
	}
}

func TestNonImprovingReducesAtLeastAsMuch(t *testing.T) {
	if lmr(false, 12, 15) < lmr(true, 12, 15) {
		t.Errorf("a non-improving node should never reduce less than an improving one")
	}
}
