package board

import "strings"

// Move packs from/to/moving piece/captured piece/promotion into a single
// int32, mirroring the teacher's bit layout:
// from(6) | to(6)<<6 | movingPiece(3)<<12 | capturedPiece(3)<<15 | promotion(3)<<18
type Move int32

const MoveEmpty Move = 0

func MakeMove(from, to, movingPiece, capturedPiece int) Move {
	return Move(from ^ (to << 6) ^ (movingPiece << 12) ^ (capturedPiece << 15))
}

func MakePawnMove(from, to, movingPiece, capturedPiece, promotion int) Move {
	return MakeMove(from, to, movingPiece, capturedPiece) ^ Move(promotion<<18)
}

func (m Move) From() int          { return int(m) & 0x3f }
func (m Move) To() int            { return (int(m) >> 6) & 0x3f }
func (m Move) MovingPiece() int   { return (int(m) >> 12) & 0x7 }
func (m Move) CapturedPiece() int { return (int(m) >> 15) & 0x7 }
func (m Move) Promotion() int     { return (int(m) >> 18) & 0x7 }

func (m Move) IsCapture() bool    { return m.CapturedPiece() != Empty }
func (m Move) IsPromotion() bool  { return m.Promotion() != Empty }

// String renders long-algebraic notation, e.g. "e2e4", "e7e8q".
func (m Move) String() string {
	if m == MoveEmpty {
		return "0000"
	}
	var sb strings.Builder
	sb.WriteString(SquareName(m.From()))
	sb.WriteString(SquareName(m.To()))
	switch m.Promotion() {
	case Queen:
		sb.WriteByte('q')
	case Rook:
		sb.WriteByte('r')
	case Bishop:
		sb.WriteByte('b')
	case Knight:
		sb.WriteByte('n')
	}
	return sb.String()
}

var pieceValue = [...]int{0, 100, 300, 300, 500, 900, 10000}

// PieceValue returns a coarse material value used by SEE and move
// ordering, not the evaluator (see eval.Evaluator for positional value).
func PieceValue(pieceType int) int {
	return pieceValue[pieceType]
}

// MVVLVA orders captures by victim value, then least valuable attacker first.
func MVVLVA(m Move) int {
	return PieceValue(m.CapturedPiece())*8 - m.MovingPiece()
}
