package book

import (
	"bytes"
	"encoding/binary"
	"math/rand"
	"testing"

	"github.com/opensourcechess/pax/board"
)

func encodeRecord(key uint64, move, weight uint16) []byte {
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[0:8], key)
	binary.BigEndian.PutUint16(buf[8:10], move)
	binary.BigEndian.PutUint16(buf[10:12], weight)
	return buf[:]
}

func TestLoadPolyglotReaderParsesRecords(t *testing.T) {
	var pos, err = board.NewPositionFromFEN(board.InitialPositionFEN)
	if err != nil {
		t.Fatalf("NewPositionFromFEN: %v", err)
	}
	var key = polyglotKey(&pos)

	// e2e4 in Polyglot's packing: to-square in the low six bits, from-square
	// in the next six, promotion above.
	var move = uint16(board.MakeSquare(4, 3)) | uint16(board.MakeSquare(4, 1))<<6

	var buf bytes.Buffer
	buf.Write(encodeRecord(key, move, 50))
	buf.Write(encodeRecord(key, move, 10))

	b, err := LoadPolyglotReader(&buf)
	if err != nil {
		t.Fatalf("LoadPolyglotReader: %v", err)
	}
	if b.Size() != 2 {
		t.Fatalf("Size() = %d, want 2", b.Size())
	}

	var entries = b.ProbeAll(&pos)
	if len(entries) != 2 {
		t.Fatalf("ProbeAll returned %d entries, want 2", len(entries))
	}
	if entries[0].Weight < entries[1].Weight {
		t.Fatalf("ProbeAll not sorted by descending weight: %v", entries)
	}
}

func TestProbeReturnsLegalMove(t *testing.T) {
	var pos, _ = board.NewPositionFromFEN(board.InitialPositionFEN)
	var key = polyglotKey(&pos)
	var move = uint16(board.MakeSquare(4, 3)) | uint16(board.MakeSquare(4, 1))<<6

	var b = NewBook1()
	b.entries[key] = []PolyglotEntry{{Move: move, Weight: 1}}

	m, ok := b.Probe(&pos, rand.New(rand.NewSource(1)))
	if !ok {
		t.Fatal("Probe returned ok=false, want a book hit")
	}
	if m.From() != board.MakeSquare(4, 1) || m.To() != board.MakeSquare(4, 3) {
		t.Fatalf("Probe returned %s, want e2e4", m)
	}
}

func TestProbeMissOnUnseenPosition(t *testing.T) {
	var pos, _ = board.NewPositionFromFEN(board.InitialPositionFEN)
	var b = NewBook1()
	if _, ok := b.Probe(&pos, rand.New(rand.NewSource(1))); ok {
		t.Fatal("Probe on empty book returned ok=true")
	}
}

func TestDecodeCastlingAsKingCapturesRook(t *testing.T) {
	var pos, err = board.NewPositionFromFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatalf("NewPositionFromFEN: %v", err)
	}
	// White short castle encoded as Ke1xRh1.
	var raw = uint16(board.MakeSquare(7, 0)) | uint16(board.MakeSquare(4, 0))<<6

	m, ok := decodePolyglotMove(&pos, raw)
	if !ok {
		t.Fatal("decodePolyglotMove failed to resolve castling encoding")
	}
	if m.To() != board.MakeSquare(6, 0) {
		t.Fatalf("decoded castle move goes to %d, want g1", m.To())
	}
}
