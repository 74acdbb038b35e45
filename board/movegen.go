package board

// GenerateMoves appends every pseudo-legal move for the side to move.
// Legality (own king not left in check) is decided by MakeMove, matching
// common/movegen.go's split between generation and the isLegal() check
// applied inside MakeMove.
func GenerateMoves(p *Position, moves []Move) []Move {
	moves = genPawnMoves(p, moves, true, true)
	moves = genPieceMoves(p, moves, Knight, knightAttacksFor)
	moves = genPieceMoves(p, moves, Bishop, func(sq int, occ uint64) uint64 { return BishopAttacks(sq, occ) })
	moves = genPieceMoves(p, moves, Rook, func(sq int, occ uint64) uint64 { return RookAttacks(sq, occ) })
	moves = genPieceMoves(p, moves, Queen, func(sq int, occ uint64) uint64 { return QueenAttacks(sq, occ) })
	moves = genPieceMoves(p, moves, King, func(sq int, occ uint64) uint64 { return KingAttacks[sq] })
	moves = genCastles(p, moves)
	return moves
}

// GenerateCaptures appends captures and promotions only, matching
// engine/moveiterator.go's InitQMoves(false) quiescence move set.
func GenerateCaptures(p *Position, moves []Move) []Move {
	moves = genPawnMoves(p, moves, true, false)
	moves = genPieceCaptures(p, moves, Knight, knightAttacksFor)
	moves = genPieceCaptures(p, moves, Bishop, func(sq int, occ uint64) uint64 { return BishopAttacks(sq, occ) })
	moves = genPieceCaptures(p, moves, Rook, func(sq int, occ uint64) uint64 { return RookAttacks(sq, occ) })
	moves = genPieceCaptures(p, moves, Queen, func(sq int, occ uint64) uint64 { return QueenAttacks(sq, occ) })
	moves = genPieceCaptures(p, moves, King, func(sq int, occ uint64) uint64 { return KingAttacks[sq] })
	return moves
}

func knightAttacksFor(sq int, _ uint64) uint64 { return KnightAttacks[sq] }

func genPieceMoves(p *Position, moves []Move, pt int, attacksFn func(int, uint64) uint64) []Move {
	var side = p.WhiteMove
	var own = p.sideBB(side)
	var bb = p.PiecesBB[boolIndex(side)][pt]
	for bb != 0 {
		var from = popLSB(&bb)
		var targets = attacksFn(from, p.All) &^ own
		for targets != 0 {
			var to = popLSB(&targets)
			moves = append(moves, MakeMove(from, to, pt, p.PieceTypeAt(to)))
		}
	}
	return moves
}

func genPieceCaptures(p *Position, moves []Move, pt int, attacksFn func(int, uint64) uint64) []Move {
	var side = p.WhiteMove
	var enemy = p.sideBB(!side)
	var bb = p.PiecesBB[boolIndex(side)][pt]
	for bb != 0 {
		var from = popLSB(&bb)
		var targets = attacksFn(from, p.All) & enemy
		for targets != 0 {
			var to = popLSB(&targets)
			moves = append(moves, MakeMove(from, to, pt, p.PieceTypeAt(to)))
		}
	}
	return moves
}

func genPawnMoves(p *Position, moves []Move, genCaptures, genQuiets bool) []Move {
	var side = p.WhiteMove
	var pawns = p.PiecesBB[boolIndex(side)][Pawn]
	var enemy = p.sideBB(!side)
	var empty = ^p.All

	var promoRank uint64
	var pushOne, pushTwo func(uint64) uint64
	var startRank uint64
	if side {
		promoRank = Rank8Mask
		pushOne = Up
		pushTwo = func(b uint64) uint64 { return Up(Up(b)) }
		startRank = Rank2Mask
	} else {
		promoRank = Rank1Mask
		pushOne = Down
		pushTwo = func(b uint64) uint64 { return Down(Down(b)) }
		startRank = Rank7Mask
	}

	var one = pushOne(pawns) & empty
	if genQuiets {
		var quiet = one &^ promoRank
		for bb := quiet; bb != 0; {
			var to = popLSB(&bb)
			var from = backOf(to, side)
			moves = append(moves, MakeMove(from, to, Pawn, Empty))
		}
	}
	if genCaptures {
		var promos = one & promoRank
		for bb := promos; bb != 0; {
			var to = popLSB(&bb)
			var from = backOf(to, side)
			moves = appendPromotions(moves, from, to, Empty)
		}
	}
	if genQuiets {
		var two = pushTwo(pawns&startRank) & empty & pushOne(empty)
		for bb := two; bb != 0; {
			var to = popLSB(&bb)
			var from int
			if side {
				from = to - 16
			} else {
				from = to + 16
			}
			moves = append(moves, MakeMove(from, to, Pawn, Empty))
		}
	}

	if genCaptures {
		var attackLeft, attackRight func(uint64) uint64
		if side {
			attackLeft = UpLeft
			attackRight = UpRight
		} else {
			attackLeft = DownLeft
			attackRight = DownRight
		}
		moves = genPawnCaptures(p, moves, pawns, enemy, promoRank, side, attackLeft, attackRight)

		if p.EpSquare != SquareNone {
			var epTargets = PawnAttacks(p.EpSquare, !side) & pawns
			for bb := epTargets; bb != 0; {
				var from = popLSB(&bb)
				moves = append(moves, MakeMove(from, p.EpSquare, Pawn, Pawn))
			}
		}
	}

	return moves
}

func genPawnCaptures(p *Position, moves []Move, pawns, enemy, promoRank uint64, side bool, attackLeft, attackRight func(uint64) uint64) []Move {
	var deltaLeft, deltaRight int
	if side {
		deltaLeft, deltaRight = 7, 9
	} else {
		deltaLeft, deltaRight = -9, -7
	}

	for bb := attackLeft(pawns) & enemy; bb != 0; {
		var to = popLSB(&bb)
		var from = to - deltaLeft
		moves = addPawnCapture(p, moves, from, to, promoRank)
	}
	for bb := attackRight(pawns) & enemy; bb != 0; {
		var to = popLSB(&bb)
		var from = to - deltaRight
		moves = addPawnCapture(p, moves, from, to, promoRank)
	}
	return moves
}

func addPawnCapture(p *Position, moves []Move, from, to int, promoRank uint64) []Move {
	var captured = p.PieceTypeAt(to)
	if SquareMask[to]&promoRank != 0 {
		return appendPromotions(moves, from, to, captured)
	}
	return append(moves, MakeMove(from, to, Pawn, captured))
}

func appendPromotions(moves []Move, from, to, captured int) []Move {
	for _, promo := range [...]int{Queen, Rook, Bishop, Knight} {
		moves = append(moves, MakePawnMove(from, to, Pawn, captured, promo))
	}
	return moves
}

func backOf(to int, side bool) int {
	if side {
		return to - 8
	}
	return to + 8
}

func genCastles(p *Position, moves []Move) []Move {
	var side = p.WhiteMove
	if side {
		if p.CastleRights&WhiteKingSide != 0 &&
			p.All&(SquareMask[SquareF1]|SquareMask[SquareG1]) == 0 &&
			!p.IsAttackedBySide(SquareE1, false) && !p.IsAttackedBySide(SquareF1, false) && !p.IsAttackedBySide(SquareG1, false) {
			moves = append(moves, MakeMove(SquareE1, SquareG1, King, Empty))
		}
		if p.CastleRights&WhiteQueenSide != 0 &&
			p.All&(SquareMask[SquareB1]|SquareMask[SquareC1]|SquareMask[SquareD1]) == 0 &&
			!p.IsAttackedBySide(SquareE1, false) && !p.IsAttackedBySide(SquareD1, false) && !p.IsAttackedBySide(SquareC1, false) {
			moves = append(moves, MakeMove(SquareE1, SquareC1, King, Empty))
		}
	} else {
		if p.CastleRights&BlackKingSide != 0 &&
			p.All&(SquareMask[SquareF8]|SquareMask[SquareG8]) == 0 &&
			!p.IsAttackedBySide(SquareE8, true) && !p.IsAttackedBySide(SquareF8, true) && !p.IsAttackedBySide(SquareG8, true) {
			moves = append(moves, MakeMove(SquareE8, SquareG8, King, Empty))
		}
		if p.CastleRights&BlackQueenSide != 0 &&
			p.All&(SquareMask[SquareB8]|SquareMask[SquareC8]|SquareMask[SquareD8]) == 0 &&
			!p.IsAttackedBySide(SquareE8, true) && !p.IsAttackedBySide(SquareD8, true) && !p.IsAttackedBySide(SquareC8, true) {
			moves = append(moves, MakeMove(SquareE8, SquareC8, King, Empty))
		}
	}
	return moves
}

// LegalMoves filters GenerateMoves' pseudo-legal output through MakeMove,
// for tests and any caller that wants a plain legal-move list rather than
// the search package's staged move picker.
func LegalMoves(p *Position) []Move {
	var pseudo = GenerateMoves(p, make([]Move, 0, MaxMoves))
	var legal = make([]Move, 0, len(pseudo))
	for _, m := range pseudo {
		if _, ok := p.MakeMove(m); ok {
			legal = append(legal, m)
		}
	}
	return legal
}
