// Package eval implements the classical evaluator external collaborator:
// a tapered midgame/endgame PSQT-plus-mobility evaluation function,
// grounded on ChizhovVadim-CounterGo/engine/evaluation.go.
package eval

import "github.com/opensourcechess/pax/board"

// Evaluator is the narrow contract search.Coordinator consumes. A pure
// function of the position (plus a caller-supplied contempt bias), no
// shared mutable state, so a single Evaluator value is safe to call
// concurrently from multiple workers. contemptMg/contemptEg are a
// tapered middlegame/endgame bonus in White's frame -- spec.md §4.2's
// "dynamic contempt" pair -- added into the position score before
// tapering and the side-to-move flip; callers pass (0, 0) for no bias.
type Evaluator interface {
	Evaluate(pos *board.Position, contemptMg, contemptEg int32) int
}

const PawnValue = 100

type score struct {
	mg, eg int32
}

func (s score) add(o score) score { return score{s.mg + o.mg, s.eg + o.eg} }
func (s score) sub(o score) score { return score{s.mg - o.mg, s.eg - o.eg} }
func (s score) mulN(n int) score  { return score{s.mg * int32(n), s.eg * int32(n)} }

func makeScore(mg, eg int32) score { return score{mg, eg} }

var pieceValueScore = [7]score{
	{}, {mg: 100, eg: 125}, {mg: 337, eg: 281}, {mg: 365, eg: 297},
	{mg: 477, eg: 512}, {mg: 1025, eg: 936}, {},
}

// Classic-style piece-square tables, white's perspective (a1 = index 0),
// mirrored for black. Values follow the same shape the teacher's own
// hand-tuned PSQTs use: small positional nudges layered on material.
var pawnPSQT = [64]score{}
var knightPSQT = [64]score{}
var bishopPSQT = [64]score{}
var rookPSQT = [64]score{}
var queenPSQT = [64]score{}
var kingPSQT = [64]score{}

func init() {
	var knightCenter = [8]int32{-50, -30, -10, 0, 0, -10, -30, -50}
	var bishopCenter = [8]int32{-20, -10, 0, 5, 5, 0, -10, -20}
	for sq := 0; sq < 64; sq++ {
		var file = board.File(sq)
		var rank = board.Rank(sq)
		var centerFile = knightCenter[file]
		var centerRank = knightCenter[rank]
		knightPSQT[sq] = makeScore(centerFile+centerRank, centerFile+centerRank)

		bishopPSQT[sq] = makeScore(bishopCenter[file]+bishopCenter[rank], bishopCenter[file]+bishopCenter[rank])

		var pawnAdvance = int32(rank-1) * 8
		if rank == 0 || rank == 7 {
			pawnAdvance = 0
		}
		pawnPSQT[sq] = makeScore(pawnAdvance, pawnAdvance*3/2)

		var rookOpenFileHint = int32(0)
		if rank == 6 {
			rookOpenFileHint = 15
		}
		rookPSQT[sq] = makeScore(rookOpenFileHint, 0)

		queenPSQT[sq] = makeScore(bishopCenter[file]/2+bishopCenter[rank]/2, 0)

		var kingCentralize = knightCenter[file] + knightCenter[rank]
		kingPSQT[sq] = makeScore(-kingCentralize/2, kingCentralize)
	}
}

var mobilityKnight = [9]score{}
var mobilityBishop = [14]score{}
var mobilityRook = [15]score{}
var mobilityQueen = [28]score{}

func init() {
	for i := range mobilityKnight {
		mobilityKnight[i] = makeScore(int32(i-4)*4, int32(i-4)*4)
	}
	for i := range mobilityBishop {
		mobilityBishop[i] = makeScore(int32(i-6)*4, int32(i-6)*5)
	}
	for i := range mobilityRook {
		mobilityRook[i] = makeScore(int32(i-7)*2, int32(i-7)*4)
	}
	for i := range mobilityQueen {
		mobilityQueen[i] = makeScore(int32(i-14)*1, int32(i-14)*2)
	}
}

const (
	pawnDoubled  = -11
	pawnIsolated = -5
	pawnPassed   = 20
	bishopPair   = 30
	rookOpenFile = 20
	rookSemiOpen = 10
)

var phaseWeight = [7]int32{0, 0, 1, 1, 2, 4, 0}

const totalPhase = 24

// Classical is the reference Evaluator: tapered PSQT plus mobility,
// pawn structure, bishop pair, and rook-on-open-file terms.
type Classical struct{}

func NewClassical() *Classical { return &Classical{} }

func (Classical) Evaluate(pos *board.Position, contemptMg, contemptEg int32) int {
	var total score
	var phase int32

	for side := 0; side < 2; side++ {
		var white = side == 1
		var sign int32 = 1
		if !white {
			sign = -1
		}

		total = total.add(evaluatePawns(pos, white).mulN(int(sign)))
		total = total.add(evaluateKnights(pos, white, &phase).mulN(int(sign)))
		total = total.add(evaluateBishops(pos, white, &phase).mulN(int(sign)))
		total = total.add(evaluateRooks(pos, white, &phase).mulN(int(sign)))
		total = total.add(evaluateQueens(pos, white, &phase).mulN(int(sign)))
		total = total.add(evaluateKing(pos, white).mulN(int(sign)))
	}

	if contemptMg != 0 || contemptEg != 0 {
		total = total.add(score{contemptMg, contemptEg})
	}

	if phase > totalPhase {
		phase = totalPhase
	}
	var result = (total.mg*phase + total.eg*(totalPhase-phase)) / totalPhase

	if isDrawish(pos) {
		result /= 8
	}

	if !pos.WhiteMove {
		result = -result
	}
	return int(result) / (PawnValue / 100)
}

func psqtSquare(sq int, white bool) int {
	if white {
		return sq
	}
	return board.FlipSquare(sq)
}

func evaluatePawns(pos *board.Position, white bool) score {
	var s score
	var side = 0
	if white {
		side = 1
	}
	var pawns = pos.PiecesBB[side][board.Pawn]
	var bb = pawns
	for bb != 0 {
		var sq = board.FirstOne(bb)
		bb &= bb - 1
		s = s.add(pieceValueScore[board.Pawn])
		s = s.add(pawnPSQT[psqtSquare(sq, white)])

		var file = board.File(sq)
		if board.PopCount(pawns&board.FileMask[file]) > 1 {
			s.mg += pawnDoubled
			s.eg += pawnDoubled
		}
		var neighborFiles uint64
		if file > 0 {
			neighborFiles |= board.FileMask[file-1]
		}
		if file < 7 {
			neighborFiles |= board.FileMask[file+1]
		}
		if pawns&neighborFiles == 0 {
			s.mg += pawnIsolated
			s.eg += pawnIsolated
		}

		var enemyPawns = pos.PiecesBB[1-side][board.Pawn]
		if isPassedPawn(sq, white, enemyPawns) {
			var rank = board.Rank(sq)
			if !white {
				rank = 7 - rank
			}
			s.eg += pawnPassed * int32(rank)
		}
	}
	return s
}

func isPassedPawn(sq int, white bool, enemyPawns uint64) bool {
	var file = board.File(sq)
	var rank = board.Rank(sq)
	return enemyPawns&aheadMask(file, rank, white) == 0
}

func aheadMask(file, rank int, white bool) uint64 {
	var m uint64
	for f := board.Max(0, file-1); f <= board.Min(7, file+1); f++ {
		if white {
			for r := rank + 1; r <= 7; r++ {
				m |= board.SquareMask[board.MakeSquare(f, r)]
			}
		} else {
			for r := rank - 1; r >= 0; r-- {
				m |= board.SquareMask[board.MakeSquare(f, r)]
			}
		}
	}
	return m
}

func evaluateKnights(pos *board.Position, white bool, phase *int32) score {
	var s score
	var side = boolIndex(white)
	var bb = pos.PiecesBB[side][board.Knight]
	for bb != 0 {
		var sq = board.FirstOne(bb)
		bb &= bb - 1
		*phase += phaseWeight[board.Knight]
		s = s.add(pieceValueScore[board.Knight])
		s = s.add(knightPSQT[psqtSquare(sq, white)])
		var mob = board.PopCount(board.KnightAttacks[sq] &^ pos.SideBB(white))
		s = s.add(mobilityKnight[mob])
	}
	return s
}

func evaluateBishops(pos *board.Position, white bool, phase *int32) score {
	var s score
	var side = boolIndex(white)
	var bb = pos.PiecesBB[side][board.Bishop]
	var count = 0
	for bb != 0 {
		var sq = board.FirstOne(bb)
		bb &= bb - 1
		count++
		*phase += phaseWeight[board.Bishop]
		s = s.add(pieceValueScore[board.Bishop])
		s = s.add(bishopPSQT[psqtSquare(sq, white)])
		var mob = board.PopCount(board.BishopAttacks(sq, pos.All) &^ pos.SideBB(white))
		s = s.add(mobilityBishop[mob])
	}
	if count >= 2 {
		s.mg += bishopPair
		s.eg += bishopPair
	}
	return s
}

func evaluateRooks(pos *board.Position, white bool, phase *int32) score {
	var s score
	var side = boolIndex(white)
	var bb = pos.PiecesBB[side][board.Rook]
	for bb != 0 {
		var sq = board.FirstOne(bb)
		bb &= bb - 1
		*phase += phaseWeight[board.Rook]
		s = s.add(pieceValueScore[board.Rook])
		s = s.add(rookPSQT[psqtSquare(sq, white)])
		var mob = board.PopCount(board.RookAttacks(sq, pos.All) &^ pos.SideBB(white))
		s = s.add(mobilityRook[mob])

		var file = board.File(sq)
		var ownPawns = pos.PiecesBB[side][board.Pawn] & board.FileMask[file]
		var enemyPawns = pos.PiecesBB[1-side][board.Pawn] & board.FileMask[file]
		if ownPawns == 0 && enemyPawns == 0 {
			s.mg += rookOpenFile
			s.eg += rookOpenFile / 2
		} else if ownPawns == 0 {
			s.mg += rookSemiOpen
			s.eg += rookSemiOpen / 2
		}
	}
	return s
}

func evaluateQueens(pos *board.Position, white bool, phase *int32) score {
	var s score
	var side = boolIndex(white)
	var bb = pos.PiecesBB[side][board.Queen]
	for bb != 0 {
		var sq = board.FirstOne(bb)
		bb &= bb - 1
		*phase += phaseWeight[board.Queen]
		s = s.add(pieceValueScore[board.Queen])
		s = s.add(queenPSQT[psqtSquare(sq, white)])
		var mob = board.PopCount(board.QueenAttacks(sq, pos.All) &^ pos.SideBB(white))
		s = s.add(mobilityQueen[mob])
	}
	return s
}

func evaluateKing(pos *board.Position, white bool) score {
	var side = boolIndex(white)
	var sq = board.FirstOne(pos.PiecesBB[side][board.King])
	return kingPSQT[psqtSquare(sq, white)]
}

func boolIndex(white bool) int {
	if white {
		return 1
	}
	return 0
}

func isDrawish(pos *board.Position) bool {
	if pos.PiecesBB[0][board.Pawn]|pos.PiecesBB[1][board.Pawn] != 0 {
		return false
	}
	var whiteBishops = board.PopCount(pos.PiecesBB[1][board.Bishop])
	var blackBishops = board.PopCount(pos.PiecesBB[0][board.Bishop])
	var whiteMinorOnly = pos.PiecesBB[1][board.Rook]|pos.PiecesBB[1][board.Queen] == 0
	var blackMinorOnly = pos.PiecesBB[0][board.Rook]|pos.PiecesBB[0][board.Queen] == 0
	return whiteBishops == 1 && blackBishops == 1 && whiteMinorOnly && blackMinorOnly &&
		pos.PiecesBB[1][board.Knight] == 0 && pos.PiecesBB[0][board.Knight] == 0
}
