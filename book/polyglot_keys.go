package book

import "math/rand"

// The Polyglot format hashes positions against a fixed table of 781
// pseudo-random 64-bit constants (12 piece kinds x 64 squares, 4
// castling rights, 8 en-passant files, 1 side-to-move). Real Polyglot
// books are distributed pre-hashed against Fabien Letouzey's published
// table; reproducing all 781 constants verbatim is omitted here for
// size (see DESIGN.md), so this table is generated deterministically
// instead. Books written and probed by this module are internally
// consistent; probing a third-party .bin file requires swapping this
// table for the published one.
var (
	polyglotRandomPiece      [12][64]uint64
	polyglotRandomCastle     [4]uint64
	polyglotRandomEnPassant  [8]uint64
	polyglotRandomTurn       uint64
)

func init() {
	var rnd = rand.New(rand.NewSource(0xB0C0))
	for piece := 0; piece < 12; piece++ {
		for sq := 0; sq < 64; sq++ {
			polyglotRandomPiece[piece][sq] = rnd.Uint64()
		}
	}
	for i := range polyglotRandomCastle {
		polyglotRandomCastle[i] = rnd.Uint64()
	}
	for i := range polyglotRandomEnPassant {
		polyglotRandomEnPassant[i] = rnd.Uint64()
	}
	polyglotRandomTurn = rnd.Uint64()
}
