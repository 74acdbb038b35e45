package board

// Position is a value type: cheap to copy, and MakeMove returns a new
// Position rather than mutating in place. This mirrors the copy-make
// discipline of ChizhovVadim-CounterGo/common/position.go, adapted so
// the caller never needs an explicit UndoMove call.
type Position struct {
	PiecesBB     [2][7]uint64 // [side][pieceType], side 0=black 1=white
	White        uint64
	Black        uint64
	All          uint64
	WhiteMove    bool
	CastleRights int
	Rule50       int
	EpSquare     int
	Key          uint64
	LastMove     Move
	Checkers     uint64
}

var castleMask [64]int

func init() {
	castleMask[SquareE1] = WhiteKingSide | WhiteQueenSide
	castleMask[SquareA1] = WhiteQueenSide
	castleMask[SquareH1] = WhiteKingSide
	castleMask[SquareE8] = BlackKingSide | BlackQueenSide
	castleMask[SquareA8] = BlackQueenSide
	castleMask[SquareH8] = BlackKingSide
}

func boolIndex(side bool) int {
	if side {
		return 1
	}
	return 0
}

// SideBB returns the occupancy bitboard for side (true = white).
func (p *Position) SideBB(side bool) uint64 { return p.sideBB(side) }

func (p *Position) sideBB(side bool) uint64 {
	if side {
		return p.White
	}
	return p.Black
}

// PieceTypeAt scans the (few) piece bitboards for the piece occupying sq.
// Kept as a scan rather than a redundant per-square piece array, matching
// common/position.go's WhatPiece technique.
func (p *Position) PieceTypeAt(sq int) int {
	var mask = SquareMask[sq]
	for pt := Pawn; pt <= King; pt++ {
		if (p.PiecesBB[0][pt]|p.PiecesBB[1][pt])&mask != 0 {
			return pt
		}
	}
	return Empty
}

func (p *Position) xorPiece(side bool, pt, sq int) {
	var mask = SquareMask[sq]
	p.PiecesBB[boolIndex(side)][pt] ^= mask
	if side {
		p.White ^= mask
	} else {
		p.Black ^= mask
	}
	p.All ^= mask
	p.Key ^= PieceSquareKey(MakePiece(pt, side), sq)
}

func (p *Position) KingSquare(side bool) int {
	return FirstOne(p.PiecesBB[boolIndex(side)][King])
}

// AttackersTo returns every piece, of either side, attacking sq given the
// occupancy occ (occ is passed explicitly so SEE can probe with pieces
// removed from the board).
func (p *Position) AttackersTo(sq int, occ uint64) uint64 {
	var result uint64
	result |= PawnAttacks(sq, false) & p.PiecesBB[1][Pawn]
	result |= PawnAttacks(sq, true) & p.PiecesBB[0][Pawn]
	result |= KnightAttacks[sq] & (p.PiecesBB[0][Knight] | p.PiecesBB[1][Knight])
	result |= KingAttacks[sq] & (p.PiecesBB[0][King] | p.PiecesBB[1][King])
	var bishopsQueens = p.PiecesBB[0][Bishop] | p.PiecesBB[1][Bishop] | p.PiecesBB[0][Queen] | p.PiecesBB[1][Queen]
	var rooksQueens = p.PiecesBB[0][Rook] | p.PiecesBB[1][Rook] | p.PiecesBB[0][Queen] | p.PiecesBB[1][Queen]
	result |= BishopAttacks(sq, occ) & bishopsQueens
	result |= RookAttacks(sq, occ) & rooksQueens
	return result & occ
}

func (p *Position) IsAttackedBySide(sq int, bySide bool) bool {
	return p.AttackersTo(sq, p.All)&p.sideBB(bySide) != 0
}

func (p *Position) computeCheckers() uint64 {
	var kingSq = p.KingSquare(p.WhiteMove)
	return p.AttackersTo(kingSq, p.All) & p.sideBB(!p.WhiteMove)
}

func (p *Position) InCheck() bool { return p.Checkers != 0 }

// MakeMove applies m and reports whether the resulting position is legal
// (the mover's own king must not be left in check). Illegal results
// should be discarded by the caller, matching MoveGenerator.MakeMove's
// contract in the search package's external-collaborator boundary.
func (p *Position) MakeMove(m Move) (Position, bool) {
	var np = *p
	var side = p.WhiteMove
	var from, to = m.From(), m.To()
	var pt = m.MovingPiece()

	np.LastMove = m
	np.WhiteMove = !side
	np.Key ^= sideKey

	var oldEp = p.EpSquare
	np.EpSquare = SquareNone
	if oldEp != SquareNone {
		np.Key ^= enpassantKey[oldEp]
	}

	if pt == Pawn {
		np.Rule50 = 0
	} else {
		np.Rule50 = p.Rule50 + 1
	}

	if m.IsCapture() {
		np.Rule50 = 0
		var capSq = to
		if pt == Pawn && to == oldEp {
			if side {
				capSq = to - 8
			} else {
				capSq = to + 8
			}
		}
		np.xorPiece(!side, m.CapturedPiece(), capSq)
	}

	np.xorPiece(side, pt, from)
	if m.IsPromotion() {
		np.xorPiece(side, m.Promotion(), to)
	} else {
		np.xorPiece(side, pt, to)
	}

	if pt == Pawn && AbsDelta(to, from) == 16 {
		var epSq = (from + to) / 2
		if PawnAttacks(epSq, side)&np.PiecesBB[boolIndex(!side)][Pawn] != 0 {
			np.EpSquare = epSq
			np.Key ^= enpassantKey[epSq]
		}
	}

	if pt == King && AbsDelta(to, from) == 2 {
		var rookFrom, rookTo int
		switch to {
		case SquareG1:
			rookFrom, rookTo = SquareH1, SquareF1
		case SquareC1:
			rookFrom, rookTo = SquareA1, SquareD1
		case SquareG8:
			rookFrom, rookTo = SquareH8, SquareF8
		case SquareC8:
			rookFrom, rookTo = SquareA8, SquareD8
		}
		np.xorPiece(side, Rook, rookFrom)
		np.xorPiece(side, Rook, rookTo)
	}

	var newRights = p.CastleRights &^ (castleMask[from] | castleMask[to])
	if newRights != p.CastleRights {
		np.Key ^= castleKey[p.CastleRights] ^ castleKey[newRights]
		np.CastleRights = newRights
	}

	if np.IsAttackedBySide(np.KingSquare(side), !side) {
		return np, false
	}
	np.Checkers = np.computeCheckers()
	return np, true
}

func (p *Position) MakeNullMove() Position {
	var np = *p
	np.WhiteMove = !p.WhiteMove
	np.LastMove = MoveEmpty
	np.Key ^= sideKey
	if p.EpSquare != SquareNone {
		np.Key ^= enpassantKey[p.EpSquare]
	}
	np.EpSquare = SquareNone
	np.Rule50 = p.Rule50 + 1
	np.Checkers = 0
	return np
}

// GivesCheck reports whether m, if played, would leave the opponent's
// king attacked; used for check extensions. It plays m on a copy via
// MakeMove, so the receiver is left untouched.
func (p *Position) GivesCheck(m Move) bool {
	np, legal := p.MakeMove(m)
	return legal && np.Checkers != 0
}

func popLSB(bb *uint64) int {
	var sq = FirstOne(*bb)
	*bb &= *bb - 1
	return sq
}

// SEEGE is the static-exchange-evaluation swap-off algorithm, reporting
// whether the exchange sequence started by m evaluates to at least
// threshold. Grounded on common/searchutils.go's SEE_GE.
func (p *Position) SEEGE(m Move, threshold int) bool {
	if m.IsPromotion() {
		return true
	}
	var from, to = m.From(), m.To()
	var swap = PieceValue(m.CapturedPiece()) - threshold
	if swap < 0 {
		return false
	}
	swap = PieceValue(m.MovingPiece()) - swap
	if swap <= 0 {
		return true
	}

	var occ = p.All ^ SquareMask[from]
	var attackers = p.AttackersTo(to, occ)
	var side = !p.WhiteMove
	var bishopsQueens = p.PiecesBB[0][Bishop] | p.PiecesBB[1][Bishop] | p.PiecesBB[0][Queen] | p.PiecesBB[1][Queen]
	var rooksQueens = p.PiecesBB[0][Rook] | p.PiecesBB[1][Rook] | p.PiecesBB[0][Queen] | p.PiecesBB[1][Queen]

	var result = 1
	for {
		attackers &= occ
		var ourAttackers = attackers & p.sideBB(side)
		if ourAttackers == 0 {
			break
		}

		var pt int
		var bb uint64
		for pt = Pawn; pt <= King; pt++ {
			bb = ourAttackers & p.PiecesBB[boolIndex(side)][pt]
			if bb != 0 {
				break
			}
		}

		var sq = FirstOne(bb)
		occ ^= SquareMask[sq]

		if pt == Pawn || pt == Bishop || pt == Queen {
			attackers |= BishopAttacks(to, occ) & bishopsQueens
		}
		if pt == Rook || pt == Queen {
			attackers |= RookAttacks(to, occ) & rooksQueens
		}

		result = 1 - result
		swap = PieceValue(pt) - swap
		side = !side
		if swap < result {
			break
		}
		if pt == King && attackers&p.sideBB(side) != 0 {
			result = 1 - result
			break
		}
	}
	return result != 0
}

// IsRepetitionDraw checks the current key against a caller-supplied
// history of prior keys along the current line, matching
// engine/searchutils.go's IsDraw repetition scan.
func (p *Position) IsRepetitionDraw(history []uint64) bool {
	if p.Rule50 >= 100 {
		return true
	}
	var count = 0
	var limit = len(history) - p.Rule50
	if limit < 0 {
		limit = 0
	}
	for i := len(history) - 2; i >= limit; i -= 2 {
		if history[i] == p.Key {
			count++
			if count >= 1 {
				return true
			}
		}
	}
	return false
}

func (p *Position) HasNonPawnMaterial(side bool) bool {
	var s = boolIndex(side)
	return p.PiecesBB[s][Knight]|p.PiecesBB[s][Bishop]|p.PiecesBB[s][Rook]|p.PiecesBB[s][Queen] != 0
}

func (p *Position) IsInsufficientMaterial() bool {
	if p.PiecesBB[0][Pawn]|p.PiecesBB[1][Pawn] != 0 {
		return false
	}
	if p.PiecesBB[0][Rook]|p.PiecesBB[1][Rook]|p.PiecesBB[0][Queen]|p.PiecesBB[1][Queen] != 0 {
		return false
	}
	var minorCount = PopCount(p.PiecesBB[0][Knight] | p.PiecesBB[1][Knight] | p.PiecesBB[0][Bishop] | p.PiecesBB[1][Bishop])
	return minorCount <= 1
}
