// Package book implements opening-book probing: the Polyglot binary
// format (grounded on hailam-chessplay/internal/book/book.go) and a
// persistent experience store backed by BadgerDB (see experience.go).
package book

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math/rand"
	"os"

	"github.com/opensourcechess/pax/board"
)

// PolyglotEntry is one 16-byte record: an 8-byte big-endian Zobrist key
// (Polyglot's own hash, not this module's board.Position.Key), a 2-byte
// packed move, and a 2-byte weight. The trailing 4 "learn" bytes are
// read but ignored, matching book.go's LoadPolyglotReader.
type PolyglotEntry struct {
	Move   uint16
	Weight uint16
}

// Book1 is an in-memory Polyglot book keyed by Polyglot's own hash
// scheme, probed by board.Position after translating to that key space.
type Book1 struct {
	entries map[uint64][]PolyglotEntry
}

func NewBook1() *Book1 { return &Book1{entries: make(map[uint64][]PolyglotEntry)} }

// LoadPolyglot reads a .bin Polyglot book file from path.
func LoadPolyglot(path string) (*Book1, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("book: open %s: %w", path, err)
	}
	defer f.Close()
	return LoadPolyglotReader(f)
}

func LoadPolyglotReader(r io.Reader) (*Book1, error) {
	var b = NewBook1()
	var br = bufio.NewReader(r)
	var buf [16]byte
	for {
		_, err := io.ReadFull(br, buf[:])
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("book: truncated entry: %w", err)
		}
		var key = binary.BigEndian.Uint64(buf[0:8])
		var move = binary.BigEndian.Uint16(buf[8:10])
		var weight = binary.BigEndian.Uint16(buf[10:12])
		b.entries[key] = append(b.entries[key], PolyglotEntry{Move: move, Weight: weight})
	}
	return b, nil
}

func (b *Book1) Size() int {
	var n = 0
	for _, es := range b.entries {
		n += len(es)
	}
	return n
}

// polyglotKey computes the Polyglot Zobrist hash for pos, a different
// (but standard) key scheme than board.Position.Key, since Polyglot
// books are distributed pre-hashed against a fixed table.
func polyglotKey(pos *board.Position) uint64 {
	var key uint64
	for side := 0; side < 2; side++ {
		var white = side == 1
		for pt := board.Pawn; pt <= board.King; pt++ {
			var bb = pos.PiecesBB[side][pt]
			for bb != 0 {
				var sq = board.FirstOne(bb)
				bb &= bb - 1
				key ^= polyglotRandomPiece[polyglotPieceIndex(pt, white)][sq]
			}
		}
	}
	if pos.CastleRights&board.WhiteKingSide != 0 {
		key ^= polyglotRandomCastle[0]
	}
	if pos.CastleRights&board.WhiteQueenSide != 0 {
		key ^= polyglotRandomCastle[1]
	}
	if pos.CastleRights&board.BlackKingSide != 0 {
		key ^= polyglotRandomCastle[2]
	}
	if pos.CastleRights&board.BlackQueenSide != 0 {
		key ^= polyglotRandomCastle[3]
	}
	if pos.EpSquare != board.SquareNone {
		var file = board.File(pos.EpSquare)
		var hasPawn bool
		if pos.WhiteMove {
			hasPawn = board.PawnAttacks(pos.EpSquare, false)&pos.PiecesBB[1][board.Pawn] != 0
		} else {
			hasPawn = board.PawnAttacks(pos.EpSquare, true)&pos.PiecesBB[0][board.Pawn] != 0
		}
		if hasPawn {
			key ^= polyglotRandomEnPassant[file]
		}
	}
	if pos.WhiteMove {
		key ^= polyglotRandomTurn
	}
	return key
}

func polyglotPieceIndex(pt int, white bool) int {
	var kind = pt - board.Pawn
	if white {
		return kind*2 + 1
	}
	return kind * 2
}

// decodePolyglotMove unpacks the 16-bit move field: to-file(3) to-rank(3)
// from-file(3) from-rank(3) promotion(3), remapped to board.Move by
// matching against the legal moves in pos (Polyglot encodes castling as
// "king captures own rook"), matching book.go's decodePolyglotMove.
func decodePolyglotMove(pos *board.Position, raw uint16) (board.Move, bool) {
	var toFile = int(raw & 0x7)
	var toRank = int((raw >> 3) & 0x7)
	var fromFile = int((raw >> 6) & 0x7)
	var fromRank = int((raw >> 9) & 0x7)
	var promo = int((raw >> 12) & 0x7)

	var from = board.MakeSquare(fromFile, fromRank)
	var to = board.MakeSquare(toFile, toRank)

	for _, m := range board.LegalMoves(pos) {
		if m.From() != from {
			continue
		}
		var wantTo = to
		if m.MovingPiece() == board.King && board.AbsDelta(m.From(), m.To()) == 2 {
			// Polyglot encodes O-O/O-O-O as the king capturing its own
			// rook; compare against the rook's original square instead.
			if to == m.From()+3 && m.To() == m.From()+2 {
				wantTo = m.To()
			} else if to == m.From()-4 && m.To() == m.From()-2 {
				wantTo = m.To()
			}
		}
		if m.To() != wantTo {
			continue
		}
		if promo != 0 {
			var wantPromo = polyglotPromoPiece(promo)
			if m.Promotion() != wantPromo {
				continue
			}
		} else if m.IsPromotion() {
			continue
		}
		return m, true
	}
	return board.MoveEmpty, false
}

func polyglotPromoPiece(code int) int {
	switch code {
	case 1:
		return board.Knight
	case 2:
		return board.Bishop
	case 3:
		return board.Rook
	case 4:
		return board.Queen
	}
	return board.Empty
}

// Probe returns a single move chosen by weighted random selection among
// this position's book entries, matching book.go's Probe.
func (b *Book1) Probe(pos *board.Position, rng *rand.Rand) (board.Move, bool) {
	var moves = b.ProbeAll(pos)
	if len(moves) == 0 {
		return board.MoveEmpty, false
	}
	var total uint32
	for _, e := range moves {
		total += uint32(e.Weight) + 1
	}
	var pick = rng.Uint32() % total
	for _, e := range moves {
		var w = uint32(e.Weight) + 1
		if pick < w {
			m, ok := decodePolyglotMove(pos, e.Move)
			if ok {
				return m, true
			}
			return board.MoveEmpty, false
		}
		pick -= w
	}
	return board.MoveEmpty, false
}

// ProbeAll returns every raw entry for pos's key, highest weight first.
func (b *Book1) ProbeAll(pos *board.Position) []PolyglotEntry {
	var es = b.entries[polyglotKey(pos)]
	var out = make([]PolyglotEntry, len(es))
	copy(out, es)
	for i := 1; i < len(out); i++ {
		var key = out[i]
		var j = i - 1
		for j >= 0 && out[j].Weight < key.Weight {
			out[j+1] = out[j]
			j--
		}
		out[j+1] = key
	}
	return out
}

// ProbeBest returns the highest-weighted book move for pos, for the
// "Book1 BestBookMove"/"Book2" operator options, which ask for the
// strongest recorded reply instead of Probe's weighted-random pick.
func (b *Book1) ProbeBest(pos *board.Position) (board.Move, bool) {
	for _, e := range b.ProbeAll(pos) {
		if m, ok := decodePolyglotMove(pos, e.Move); ok {
			return m, true
		}
	}
	return board.MoveEmpty, false
}
