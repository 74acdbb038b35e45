package search

// valueToTT and valueFromTT translate a mate score between "plies from
// root" (what the search deals in) and "plies from this node" (what the
// TT stores), so a stored mate score remains correct when probed at a
// different height. Grounded on the mate-score ply-adjustment idiom
// every alpha-beta engine in the pack implements ad hoc inline; named
// explicitly here per spec.

func valueToTT(v, height int) int {
	if v >= ValueMateInMaxHeight {
		return v + height
	}
	if v <= ValueMatedInMaxHeight {
		return v - height
	}
	return v
}

// valueFromTT additionally clamps a mate score the 50-move counter may
// have since invalidated: a mate stored MATE-v plies away is only
// trustworthy if there is still enough of the 50-move counter left to
// deliver it, per the "MATE - v > 99 - rule50" test.
func valueFromTT(v, height, rule50 int) int {
	if v == ValueNone {
		return v
	}
	if v >= ValueMateInMaxHeight {
		if ValueMate-v > 99-rule50 {
			return ValueMateInMaxHeight - 1
		}
		return v - height
	}
	if v <= ValueMatedInMaxHeight {
		if ValueMate+v > 99-rule50 {
			return -(ValueMateInMaxHeight - 1)
		}
		return v + height
	}
	return v
}
