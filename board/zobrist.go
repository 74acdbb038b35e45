package board

import "math/rand"

var (
	pieceSquareKey [16][64]uint64
	sideKey        uint64
	enpassantKey   [64]uint64
	castleKey      [16]uint64
)

// Zobrist tables are seeded deterministically (source 0) so that TT
// contents and perft/key regression tests are reproducible across runs,
// matching the teacher's own deterministic key seeding.
func init() {
	var rnd = rand.New(rand.NewSource(0))
	for piece := 0; piece < 16; piece++ {
		for sq := 0; sq < 64; sq++ {
			pieceSquareKey[piece][sq] = rnd.Uint64()
		}
	}
	sideKey = rnd.Uint64()
	for sq := 0; sq < 64; sq++ {
		enpassantKey[sq] = rnd.Uint64()
	}
	for i := 0; i < 16; i++ {
		castleKey[i] = rnd.Uint64()
	}
}

func PieceSquareKey(piece, sq int) uint64 {
	return pieceSquareKey[piece][sq]
}
